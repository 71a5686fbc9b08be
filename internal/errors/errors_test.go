package errors

import (
	"errors"
	"fmt"
	"testing"
)

// =============================================================================
// Constructors
// =============================================================================

func TestConstructorsSetKindAndMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		kind    Kind
		message string
	}{
		{"NotFound", NotFound("team not found"), ErrNotFound, "team not found"},
		{"NotFoundf", NotFoundf("judge %d not found", 7), ErrNotFound, "judge 7 not found"},
		{"Validation", Validation("scores must not be empty"), ErrValidation, "scores must not be empty"},
		{"Validationf", Validationf("score for %s out of range", "design"), ErrValidation, "score for design out of range"},
		{"Conflict", Conflict("assignment already completed"), ErrConflict, "assignment already completed"},
		{"Conflictf", Conflictf("table %d is taken", 4), ErrConflict, "table 4 is taken"},
		{"InvalidInput", InvalidInput("bad id"), ErrInvalidInput, "bad id"},
		{"InvalidInputf", InvalidInputf("bad %s", "id"), ErrInvalidInput, "bad id"},
		{"Unauthorized", Unauthorized("please log in"), ErrUnauthorized, "please log in"},
		{"Forbidden", Forbidden("admins only"), ErrForbidden, "admins only"},
		{"Forbiddenf", Forbiddenf("judge %d may not score", 3), ErrForbidden, "judge 3 may not score"},
		{"Internalf", Internalf("disk %s", "full"), ErrInternal, "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected no wrapped error, got %v", tt.err.Err)
			}
		})
	}
}

func TestInternal(t *testing.T) {
	underlying := errors.New("database is locked")
	err := Internal(underlying)

	if err.Kind != ErrInternal {
		t.Errorf("expected ErrInternal, got %v", err.Kind)
	}
	if err.Message != "internal error" {
		t.Errorf("expected generic message, got %q", err.Message)
	}
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find the underlying error")
	}
}

// =============================================================================
// Error / Unwrap
// =============================================================================

func TestErrorMethod(t *testing.T) {
	if got := Conflict("duplicate").Error(); got != "duplicate" {
		t.Errorf("expected 'duplicate', got %q", got)
	}

	wrapped := Wrap(errors.New("constraint failed"), ErrConflict, "team name taken")
	if got := wrapped.Error(); got != "team name taken: constraint failed" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestUnwrap_NilError(t *testing.T) {
	if NotFound("x").Unwrap() != nil {
		t.Error("expected nil from Unwrap")
	}
}

func TestErrorsAs_WrappedError(t *testing.T) {
	appErr := NotFound("event not found")
	wrapped := fmt.Errorf("loading leaderboard: %w", appErr)

	var target *Error
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to succeed")
	}
	if target.Kind != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", target.Kind)
	}
}

// =============================================================================
// KindOf / Is
// =============================================================================

func TestKindOf(t *testing.T) {
	if KindOf(Forbidden("no")) != ErrForbidden {
		t.Error("expected ErrForbidden")
	}
	if KindOf(fmt.Errorf("outer: %w", Validation("v"))) != ErrValidation {
		t.Error("expected ErrValidation through wrapping")
	}
	if KindOf(errors.New("plain")) != ErrInternal {
		t.Error("plain errors should be internal")
	}
}

func TestIs(t *testing.T) {
	if Is(nil, ErrInternal) {
		t.Error("nil error should not match any kind")
	}
	if !Is(Conflict("c"), ErrConflict) {
		t.Error("expected conflict to match")
	}
	if Is(Conflict("c"), ErrNotFound) {
		t.Error("conflict should not match not found")
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		ErrInternal:     "internal",
		ErrNotFound:     "not_found",
		ErrValidation:   "validation",
		ErrConflict:     "conflict",
		ErrInvalidInput: "invalid_input",
		ErrUnauthorized: "unauthorized",
		ErrForbidden:    "forbidden",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

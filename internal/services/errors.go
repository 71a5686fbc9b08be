package services

import (
	stderrors "errors"

	"github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/repository"
)

// Service errors
var (
	ErrEventNotActive     = errors.Validation("event is not active")
	ErrNoTeamsAvailable   = errors.NotFound("no teams available")
	ErrNoActiveAssignment = errors.NotFound("no active assignment")
	ErrNotPending         = errors.Conflict("assignment is no longer pending")
	ErrAlreadyAssigned    = errors.Conflict("judge already has an active assignment")
	ErrResultsHidden      = errors.Forbidden("results are not published")
	ErrNotYourJudge       = errors.Forbidden("not allowed to act for this judge")
	ErrBadCredentials     = errors.Unauthorized("invalid email or password")
	ErrBadAccessCode      = errors.Unauthorized("invalid access code")
)

// repoError translates repository sentinels into application error kinds.
// what names the missing or duplicated record.
func repoError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFoundf("%s not found", what)
	case stderrors.Is(err, repository.ErrDuplicate):
		return errors.Conflictf("%s already exists", what)
	case stderrors.Is(err, repository.ErrStatusChanged):
		return ErrNotPending
	}
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.Internal(err)
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	a := New("test-password")

	if a == nil {
		t.Fatal("expected auth to be created")
	}
	if a.password != "test-password" {
		t.Error("expected password to be set")
	}
	if a.sessions == nil {
		t.Error("expected sessions map to be initialized")
	}
}

func TestGeneratePassword_Format(t *testing.T) {
	pw := GeneratePassword()

	parts := strings.Split(pw, "-")
	if len(parts) != 3 {
		t.Errorf("expected 3 words separated by dashes, got %d parts: %s", len(parts), pw)
	}

	for _, part := range parts {
		found := false
		for _, word := range passwordWords {
			if part == word {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("word %q not in passwordWords list", part)
		}
	}
}

func TestLogin_ValidPassword(t *testing.T) {
	a := New("correct-password")

	token, ok := a.Login("correct-password")

	if !ok {
		t.Error("expected login to succeed with correct password")
	}
	if len(token) != 64 { // 32 bytes = 64 hex chars
		t.Errorf("expected 64-char token, got %d chars", len(token))
	}

	p, ok := a.Session(token)
	if !ok || !p.IsAdmin() {
		t.Errorf("expected admin principal, got %+v", p)
	}
}

func TestLogin_InvalidPassword(t *testing.T) {
	a := New("correct-password")

	token, ok := a.Login("wrong-password")

	if ok {
		t.Error("expected login to fail with wrong password")
	}
	if token != "" {
		t.Error("expected empty token on failed login")
	}
}

func TestStartSession_CarriesPrincipal(t *testing.T) {
	a := New("password")
	token := a.StartSession(Principal{Role: RoleJudge, JudgeID: 7})

	p, ok := a.Session(token)
	if !ok {
		t.Fatal("expected session to be valid")
	}
	if p.Role != RoleJudge || p.JudgeID != 7 {
		t.Errorf("unexpected principal %+v", p)
	}
}

func TestLogout_InvalidatesSession(t *testing.T) {
	a := New("password")
	token, _ := a.Login("password")

	a.Logout(token)

	if a.ValidateSession(token) {
		t.Error("expected session to be invalid after logout")
	}
}

func TestSession_Expired(t *testing.T) {
	a := New("password")
	token, _ := a.Login("password")

	// Manually expire the session
	a.mu.Lock()
	a.sessions[token] = session{principal: Admin, expiry: time.Now().Add(-1 * time.Hour)}
	a.mu.Unlock()

	if a.ValidateSession(token) {
		t.Error("expected expired session to be invalid")
	}

	a.mu.RLock()
	_, exists := a.sessions[token]
	a.mu.RUnlock()
	if exists {
		t.Error("expected expired session to be removed")
	}
}

func TestPrincipalFromRequest(t *testing.T) {
	a := New("password")
	token, _ := a.Login("password")

	req := httptest.NewRequest("GET", "/api/admin/teams", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	if _, ok := a.PrincipalFromRequest(req); !ok {
		t.Error("expected valid session from request")
	}

	if _, ok := a.PrincipalFromRequest(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected false when no cookie present")
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("expected wrong password to fail")
	}
}

func TestAllowed(t *testing.T) {
	judge := Principal{Role: RoleJudge, JudgeID: 1}
	participant := Principal{Role: RoleParticipant, TeamID: 1}

	cases := []struct {
		p    Principal
		perm Permission
		want bool
	}{
		{Admin, PermTeamsManage, true},
		{judge, PermTeamsManage, false},
		{judge, PermJudgingScore, true},
		{participant, PermJudgingScore, false},
		{participant, PermTeamsSelf, true},
		{Admin, PermTeamsSelf, false},
		{participant, PermResultsView, true},
		{Principal{}, PermResultsView, false},
	}
	for _, c := range cases {
		if got := Allowed(c.p, c.perm); got != c.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", c.p.Role, c.perm, got, c.want)
		}
	}
}

func TestRequire(t *testing.T) {
	a := New("password")
	adminToken, _ := a.Login("password")
	judgeToken := a.StartSession(Principal{Role: RoleJudge, JudgeID: 3})

	var seen Principal
	handler := a.Require(PermTeamsManage)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no session", "", http.StatusUnauthorized},
		{"bad token", "nope", http.StatusUnauthorized},
		{"wrong role", judgeToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/admin/teams", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.token})
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rr.Code)
			}
			if tt.status != http.StatusOK && !strings.Contains(rr.Body.String(), `"code"`) {
				t.Errorf("expected JSON error body, got %s", rr.Body.String())
			}
		})
	}

	if !seen.IsAdmin() {
		t.Errorf("expected admin principal in context, got %+v", seen)
	}
}

func TestAuthenticate_Anonymous(t *testing.T) {
	a := New("password")
	handler := a.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			t.Error("expected no principal for anonymous request")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

func TestSetSessionCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "tok")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || !cookies[0].HttpOnly {
		t.Errorf("unexpected cookies %+v", cookies)
	}
}

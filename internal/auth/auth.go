package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName    = "hackjudge_session"
	SessionExpiry = 24 * time.Hour
)

// Roles a session can carry
const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
	RoleJudge       = "judge"
)

// Principal identifies who a session belongs to. TeamID is set for
// participants, JudgeID for judges.
type Principal struct {
	Role    string `json:"role"`
	TeamID  int    `json:"team_id,omitempty"`
	JudgeID int    `json:"judge_id,omitempty"`
}

// IsAdmin reports whether p is the admin
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Admin is the principal of an admin session
var Admin = Principal{Role: RoleAdmin}

// Hackathon-themed words for password generation
var passwordWords = []string{
	"hack", "demo", "pitch", "judge", "trophy",
	"commit", "deploy", "merge", "sprint", "pixel",
	"caffeine", "laptop", "api", "stack", "build",
	"ship", "prototype", "team", "ideas",
}

type session struct {
	principal Principal
	expiry    time.Time
}

// Auth holds the admin password and the in-memory session store
type Auth struct {
	password string
	sessions map[string]session
	mu       sync.RWMutex
}

// New creates a new Auth instance with the given admin password
func New(password string) *Auth {
	return &Auth{
		password: password,
		sessions: make(map[string]session),
	}
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		idx := randomInt(len(passwordWords))
		words[i] = passwordWords[idx]
	}
	return strings.Join(words, "-")
}

// Login validates the admin password and returns a session token if valid
func (a *Auth) Login(password string) (string, bool) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return "", false
	}
	return a.StartSession(Admin), true
}

// StartSession issues a token for an already authenticated principal
func (a *Auth) StartSession(p Principal) string {
	token := generateToken()
	a.mu.Lock()
	a.sessions[token] = session{principal: p, expiry: time.Now().Add(SessionExpiry)}
	a.mu.Unlock()
	return token
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// Session returns the principal for a valid token
func (a *Auth) Session(token string) (Principal, bool) {
	a.mu.RLock()
	s, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return Principal{}, false
	}

	if time.Now().After(s.expiry) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return Principal{}, false
	}

	return s.principal, true
}

// ValidateSession checks if a session token is valid
func (a *Auth) ValidateSession(token string) bool {
	_, ok := a.Session(token)
	return ok
}

// PrincipalFromRequest extracts and validates the session from a request
func (a *Auth) PrincipalFromRequest(r *http.Request) (Principal, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Principal{}, false
	}
	return a.Session(cookie.Value)
}

type principalKey struct{}

// WithPrincipal stores p on ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal attached by Require or Authenticate
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Authenticate attaches the session principal to the request context when
// there is one, without rejecting anonymous requests
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := a.PrincipalFromRequest(r); ok {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// HashPassword returns the bcrypt hash of a participant password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches a bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateToken creates a random session token
func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}

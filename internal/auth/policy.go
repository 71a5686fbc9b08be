package auth

import (
	"net/http"
)

// Permission names one guarded capability
type Permission string

const (
	PermTeamsManage         Permission = "teams:manage"
	PermEventsManage        Permission = "events:manage"
	PermJudgesManage        Permission = "judges:manage"
	PermJudgingAssign       Permission = "judging:assign"
	PermJudgingScore        Permission = "judging:score"
	PermAnnouncementsManage Permission = "announcements:manage"
	PermTeamsSelf           Permission = "teams:self"
	PermResultsView         Permission = "results:view"
)

// policy maps each permission to the roles that hold it. Ownership checks
// (a judge acting on its own assignment) happen in the services.
var policy = map[Permission][]string{
	PermTeamsManage:         {RoleAdmin},
	PermEventsManage:        {RoleAdmin},
	PermJudgesManage:        {RoleAdmin},
	PermJudgingAssign:       {RoleAdmin},
	PermJudgingScore:        {RoleAdmin, RoleJudge},
	PermAnnouncementsManage: {RoleAdmin},
	PermTeamsSelf:           {RoleParticipant},
	PermResultsView:         {RoleAdmin, RoleParticipant, RoleJudge},
}

// Allowed reports whether p's role holds perm
func Allowed(p Principal, perm Permission) bool {
	for _, role := range policy[perm] {
		if p.Role == role {
			return true
		}
	}
	return false
}

// Require returns middleware that rejects requests without a session (401)
// or whose role lacks perm (403), and attaches the principal otherwise.
func (a *Auth) Require(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := a.PrincipalFromRequest(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized - please log in")
				return
			}
			if !Allowed(p, perm) {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"code":"` + code + `","error":"` + message + `"}`))
}

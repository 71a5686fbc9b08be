package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/hackjudge/internal/auth"
	apperrors "github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/judging"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/services"
	"github.com/abrezinsky/hackjudge/internal/testutil"
)

func validRegistration(name, email string) services.Registration {
	return services.Registration{
		Name:         name,
		Members:      []models.Member{{Name: "Ada", Email: "ada@example.com"}},
		ContactEmail: email,
		Password:     "correct horse",
	}
}

func TestRegister_CreatesPendingTeam(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	team, err := f.teams.Register(ctx, validRegistration("  Byte Club ", "Lead@Example.com"))
	require.NoError(t, err)

	assert.Equal(t, "Byte Club", team.Name)
	assert.Equal(t, "lead@example.com", team.ContactEmail)
	assert.Equal(t, models.TeamPending, team.Status)
	assert.Nil(t, team.TableNumber)
	require.Len(t, team.Members, 1)
}

func TestRegister_Validation(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		reg  services.Registration
	}{
		{"missing name", validRegistration("", "a@example.com")},
		{"bad email", validRegistration("A", "not-an-email")},
		{"short password", func() services.Registration {
			r := validRegistration("A", "a@example.com")
			r.Password = "short"
			return r
		}()},
		{"unnamed member", func() services.Registration {
			r := validRegistration("A", "a@example.com")
			r.Members = []models.Member{{Email: "x@example.com"}}
			return r
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.teams.Register(ctx, tt.reg)
			assert.True(t, apperrors.Is(err, apperrors.ErrValidation), "got %v", err)
		})
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	_, err := f.teams.Register(ctx, validRegistration("A", "lead@example.com"))
	require.NoError(t, err)

	_, err = f.teams.Register(ctx, validRegistration("B", "lead@example.com"))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "got %v", err)
}

func TestAuthenticateParticipant(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	team, err := f.teams.Register(ctx, validRegistration("A", "lead@example.com"))
	require.NoError(t, err)

	p, err := f.teams.AuthenticateParticipant(ctx, " LEAD@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleParticipant, p.Role)
	assert.Equal(t, team.ID, p.TeamID)

	_, err = f.teams.AuthenticateParticipant(ctx, "lead@example.com", "wrong password")
	assert.Equal(t, services.ErrBadCredentials, err)

	_, err = f.teams.AuthenticateParticipant(ctx, "nobody@example.com", "correct horse")
	assert.Equal(t, services.ErrBadCredentials, err)
}

func TestApprove_EmailsContact(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	team, err := f.teams.Register(ctx, validRegistration("Byte Club", "lead@example.com"))
	require.NoError(t, err)

	approved, err := f.teams.Approve(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamApproved, approved.Status)

	f.notifier.Wait()
	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "lead@example.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, "Byte Club")
}

func TestReject_And_NotFound(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	team, err := f.teams.Register(ctx, validRegistration("A", "a@example.com"))
	require.NoError(t, err)

	rejected, err := f.teams.Reject(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamRejected, rejected.Status)

	_, err = f.teams.Approve(ctx, 9999)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound), "got %v", err)
	assert.True(t, apperrors.Is(f.teams.Delete(ctx, 9999), apperrors.ErrNotFound))
}

func TestListTeams_FilterAndUnknownStatus(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	testutil.SeedTeam(t, f.repo, "approved", 1)
	_, err := f.teams.Register(ctx, validRegistration("pending", "p@example.com"))
	require.NoError(t, err)

	all, err := f.teams.ListTeams(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved, err := f.teams.ListTeams(ctx, models.TeamApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "approved", approved[0].Name)

	_, err = f.teams.ListTeams(ctx, "banana")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestMyTeam(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	id := testutil.SeedTeam(t, f.repo, "mine", 0)

	team, err := f.teams.MyTeam(ctx, auth.Principal{Role: auth.RoleParticipant, TeamID: id})
	require.NoError(t, err)
	assert.Equal(t, "mine", team.Name)

	_, err = f.teams.MyTeam(ctx, auth.Principal{Role: auth.RoleJudge, JudgeID: 1})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestAssignTable(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	a := testutil.SeedTeam(t, f.repo, "a", 3)
	b := testutil.SeedTeam(t, f.repo, "b", 0)

	t.Run("rejects numbers below one", func(t *testing.T) {
		_, err := f.teams.AssignTable(ctx, b, 0)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("conflicts with another team's table", func(t *testing.T) {
		_, err := f.teams.AssignTable(ctx, b, 3)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "got %v", err)
	})

	t.Run("same number for the same team is a no-op", func(t *testing.T) {
		team, err := f.teams.AssignTable(ctx, a, 3)
		require.NoError(t, err)
		require.NotNil(t, team.TableNumber)
		assert.Equal(t, 3, *team.TableNumber)
	})

	t.Run("free number is assigned", func(t *testing.T) {
		team, err := f.teams.AssignTable(ctx, b, 4)
		require.NoError(t, err)
		require.NotNil(t, team.TableNumber)
		assert.Equal(t, 4, *team.TableNumber)
	})

	t.Run("missing team", func(t *testing.T) {
		_, err := f.teams.AssignTable(ctx, 9999, 9)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestAllocateLocations_SeatsUnplacedApprovedTeams(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	testutil.SeedTeam(t, f.repo, "seated", 5)
	for _, name := range []string{"t1", "t2", "t3"} {
		testutil.SeedTeam(t, f.repo, name, 0)
	}
	_, err := f.teams.Register(ctx, validRegistration("pending", "p@example.com"))
	require.NoError(t, err)

	result, err := f.teams.AllocateLocations(ctx, []judging.Location{
		{Name: "Hall A", Percentage: 50},
		{Name: "Hall B", Percentage: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Assigned)
	assert.Equal(t, 2, result.ByLocation["Hall A"])
	assert.Equal(t, 2, result.ByLocation["Hall B"])

	teams, err := f.teams.ListTeams(ctx, models.TeamApproved)
	require.NoError(t, err)
	tables := map[int]bool{}
	for _, team := range teams {
		require.NotNil(t, team.TableNumber, "team %s has no table", team.Name)
		assert.False(t, tables[*team.TableNumber], "table %d assigned twice", *team.TableNumber)
		tables[*team.TableNumber] = true
		require.NotNil(t, team.Location)
		if team.Name == "seated" {
			assert.Equal(t, 5, *team.TableNumber)
		} else {
			assert.Greater(t, *team.TableNumber, 5)
		}
	}

	again, err := f.teams.AllocateLocations(ctx, []judging.Location{{Name: "Hall A", Percentage: 100}})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Assigned)
}

func TestAllocateLocations_InvalidLocations(t *testing.T) {
	f := setupServices(t)
	testutil.SeedTeam(t, f.repo, "t1", 0)

	_, err := f.teams.AllocateLocations(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAllocateLocations_RepositoryError(t *testing.T) {
	f := setupServices(t)
	f.mock.ListUnseatedApprovedTeamsError = errors.New("database error")

	_, err := f.teams.AllocateLocations(context.Background(), []judging.Location{{Name: "A", Percentage: 100}})
	assert.True(t, apperrors.Is(err, apperrors.ErrInternal), "got %v", err)
}

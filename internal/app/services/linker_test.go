package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

func TestLinkUserToPlayer_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	player := env.addPlayer("Jean", "Martin")
	user := env.addUser("Jean Martin", "jean@example.com", models.RolePlayer, "pw123456", nil)

	outcome, err := env.svc.Linker.LinkUserToPlayer(env.ctx, user, player)
	require.NoError(t, err)
	assert.Equal(t, LinkCreated, outcome)

	outcome, err = env.svc.Linker.LinkUserToPlayer(env.ctx, user, player)
	require.NoError(t, err)
	assert.Equal(t, LinkUnchanged, outcome)

	stored := env.user("jean@example.com")
	require.NotNil(t, stored.PlayerID)
	assert.Equal(t, player.ID, *stored.PlayerID)
}

func TestLinkUserToPlayer_NeverClobbers(t *testing.T) {
	env := newTestEnv(t)
	b := env.addPlayer("Jean", "Martin")
	c := env.addPlayer("Paul", "Durand")
	user := env.addUser("Jean Martin", "jean@example.com", models.RolePlayer, "pw123456", &b.ID)

	_, err := env.svc.Linker.LinkUserToPlayer(env.ctx, user, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, apperrors.CodeLinkConflict, apperrors.Code(err))

	stored := env.user("jean@example.com")
	assert.Equal(t, b.ID, *stored.PlayerID)
	assert.Equal(t, b.ID, *user.PlayerID)
}

func TestLinkUserToPlayer_StaleCopyLosesRace(t *testing.T) {
	env := newTestEnv(t)
	b := env.addPlayer("Jean", "Martin")
	c := env.addPlayer("Paul", "Durand")
	user := env.addUser("Jean Martin", "jean@example.com", models.RolePlayer, "pw123456", nil)

	stale := *user
	_, err := env.svc.Linker.LinkUserToPlayer(env.ctx, user, b)
	require.NoError(t, err)

	_, err = env.svc.Linker.LinkUserToPlayer(env.ctx, &stale, c)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stale = *env.user("jean@example.com")
	stale.PlayerID = nil
	outcome, err := env.svc.Linker.LinkUserToPlayer(env.ctx, &stale, b)
	require.NoError(t, err)
	assert.Equal(t, LinkUnchanged, outcome)
}

func TestLinkUserToPlayer_RepairsDanglingLink(t *testing.T) {
	env := newTestEnv(t)
	gone := env.addPlayer("Jean", "Martin")
	replacement := env.addPlayer("Jean", "Martin")
	user := env.addUser("Jean Martin", "jean@example.com", models.RolePlayer, "pw123456", &gone.ID)
	env.store.DeletePlayer(gone.ID)

	outcome, err := env.svc.Linker.LinkUserToPlayer(env.ctx, user, replacement)
	require.NoError(t, err)
	assert.Equal(t, LinkRepaired, outcome)
	assert.Equal(t, replacement.ID, *env.user("jean@example.com").PlayerID)
}

func TestLinkPlayerToRegistration(t *testing.T) {
	env := newTestEnv(t)
	player := env.addPlayer("Amine", "Tazi")
	other := env.addPlayer("Amine", "Tazi")
	reg := env.addRegistration("Amine", "Tazi", "parent@example.com")

	outcome, err := env.svc.Linker.LinkPlayerToRegistration(env.ctx, player, reg)
	require.NoError(t, err)
	assert.Equal(t, LinkCreated, outcome)

	outcome, err = env.svc.Linker.LinkPlayerToRegistration(env.ctx, player, reg)
	require.NoError(t, err)
	assert.Equal(t, LinkUnchanged, outcome)

	_, err = env.svc.Linker.LinkPlayerToRegistration(env.ctx, other, reg)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, player.ID, *env.registration(reg.ID).PlayerID)
}

func TestLinkCoachEmail(t *testing.T) {
	env := newTestEnv(t)
	coach := env.addCoach("Karim Alaoui", "")

	outcome, err := env.svc.Linker.LinkCoachEmail(env.ctx, coach, "Karim@Example.com")
	require.NoError(t, err)
	assert.Equal(t, LinkCreated, outcome)
	assert.Equal(t, "karim@example.com", coach.Email)

	outcome, err = env.svc.Linker.LinkCoachEmail(env.ctx, coach, "karim@example.com")
	require.NoError(t, err)
	assert.Equal(t, LinkUnchanged, outcome)

	_, err = env.svc.Linker.LinkCoachEmail(env.ctx, coach, "someone@example.com")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := env.repos.CoachRepository.GetByID(env.ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, "karim@example.com", stored.Email)
}

func TestLinkParentEmail(t *testing.T) {
	env := newTestEnv(t)
	reg := env.addRegistration("Amine", "Tazi", "")

	outcome, err := env.svc.Linker.LinkParentEmail(env.ctx, reg, "parent@example.com")
	require.NoError(t, err)
	assert.Equal(t, LinkCreated, outcome)

	_, err = env.svc.Linker.LinkParentEmail(env.ctx, reg, "other@example.com")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "parent@example.com", env.registration(reg.ID).ParentEmail)
}

func TestBackfillPlayerEmail(t *testing.T) {
	env := newTestEnv(t)
	reg := env.addRegistration("Amine", "Tazi", "parent@example.com")

	wrote, err := env.svc.Linker.BackfillPlayerEmail(env.ctx, reg, "Amine@Example.com")
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, "amine@example.com", *env.registration(reg.ID).PlayerEmail)

	wrote, err = env.svc.Linker.BackfillPlayerEmail(env.ctx, reg, "other@example.com")
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Equal(t, "amine@example.com", *env.registration(reg.ID).PlayerEmail)
}

func TestLinkUserToPlayer_PlayerOfAnotherAccount(t *testing.T) {
	env := newTestEnv(t)
	player := env.addPlayer("Jean", "Martin")
	env.addUser("Jean Martin", "jean@example.com", models.RolePlayer, "pw123456", &player.ID)
	other := env.addUser("J. Martin", "other@example.com", models.RolePlayer, "pw123456", nil)

	_, err := env.svc.Linker.LinkUserToPlayer(env.ctx, other, player)
	assert.ErrorIs(t, err, apperrors.ErrPlayerAlreadyClaimed)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, env.user("other@example.com").PlayerID)
	assert.Nil(t, other.PlayerID)
}

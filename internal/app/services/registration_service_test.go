package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

func TestSubmitRegistration(t *testing.T) {
	env := newTestEnv(t)

	reg, err := env.svc.RegistrationService.Submit(env.ctx, &dto.SubmitRegistrationRequest{
		PlayerFirstName: " Amine ",
		PlayerLastName:  "Tazi",
		ParentName:      "Youssef Tazi",
		ParentEmail:     "Youssef@Example.com",
		ParentPhone:     "+212611111111",
	})
	require.NoError(t, err)

	assert.Equal(t, "Amine", reg.PlayerFirstName)
	assert.Equal(t, "youssef@example.com", reg.ParentEmail)
	assert.Equal(t, models.RegistrationPending, reg.Status)
	assert.Equal(t, models.PaymentUnpaid, reg.PaymentStatus)
	assert.Nil(t, reg.PlayerID)

	_, err = env.svc.RegistrationService.Submit(env.ctx, &dto.SubmitRegistrationRequest{PlayerFirstName: "Amine"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAcceptRegistration_CreatesPlayerOnce(t *testing.T) {
	env := newTestEnv(t)
	reg := env.addRegistration("Amine", "Tazi", "youssef@example.com")

	first, err := env.svc.RegistrationService.Accept(env.ctx, reg.ID)
	require.NoError(t, err)
	assert.True(t, first.PlayerCreated)
	assert.Equal(t, "accepted", first.Status)

	second, err := env.svc.RegistrationService.Accept(env.ctx, reg.ID)
	require.NoError(t, err)
	assert.False(t, second.PlayerCreated)
	assert.Equal(t, first.PlayerID, second.PlayerID)

	stored := env.registration(reg.ID)
	assert.Equal(t, models.RegistrationAccepted, stored.Status)
	assert.Equal(t, first.PlayerID, *stored.PlayerID)

	_, players, _, _ := env.counts()
	assert.Equal(t, 1, players)
}

func TestAcceptRegistration_ReusesMatchingPlayer(t *testing.T) {
	env := newTestEnv(t)
	player := env.addPlayer("Amine", "Tazi")
	reg := env.addRegistration("amine", "tazi", "youssef@example.com")

	resp, err := env.svc.RegistrationService.Accept(env.ctx, reg.ID)
	require.NoError(t, err)
	assert.False(t, resp.PlayerCreated)
	assert.Equal(t, player.ID, resp.PlayerID)
}

func TestAcceptRegistration_AfterClaimKeepsClaimedPlayer(t *testing.T) {
	env := newTestEnv(t)
	claim := claimedPlayer(t, env)

	resp, err := env.svc.RegistrationService.Accept(env.ctx, claim.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.Player.ID, resp.PlayerID)
	assert.False(t, resp.PlayerCreated)
}

func TestRejectRegistration(t *testing.T) {
	env := newTestEnv(t)
	reg := env.addRegistration("Amine", "Tazi", "youssef@example.com")

	rejected, err := env.svc.RegistrationService.Reject(env.ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationRejected, rejected.Status)

	_, err = env.svc.RegistrationService.Reject(env.ctx, reg.ID)
	assert.NoError(t, err)

	_, err = env.svc.RegistrationService.Accept(env.ctx, reg.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, players, _, _ := env.counts()
	assert.Equal(t, 0, players)
}

func TestRejectRegistration_LinkedIsConflict(t *testing.T) {
	env := newTestEnv(t)
	reg := env.addRegistration("Amine", "Tazi", "youssef@example.com")
	_, err := env.svc.RegistrationService.Accept(env.ctx, reg.ID)
	require.NoError(t, err)

	_, err = env.svc.RegistrationService.Reject(env.ctx, reg.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, models.RegistrationAccepted, env.registration(reg.ID).Status)
}

func TestRegistration_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.RegistrationService.Get(env.ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = env.svc.RegistrationService.Accept(env.ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = env.svc.RegistrationService.Reject(env.ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestGetForUser(t *testing.T) {
	env := newTestEnv(t)
	reg := env.addRegistration("Amine", "Tazi", "youssef@example.com")
	parent := env.addUser("Youssef Tazi", "youssef@example.com", models.RoleParent, "pw123456", nil)
	stranger := env.addUser("Other", "other@example.com", models.RoleParent, "pw123456", nil)

	got, err := env.svc.RegistrationService.GetForUser(env.ctx, parent.ID, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)

	_, err = env.svc.RegistrationService.GetForUser(env.ctx, stranger.ID, reg.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = env.svc.RegistrationService.GetForUser(env.ctx, parent.ID, 42)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

func loginAs(email, password string, role models.RoleType) *dto.LoginRequest {
	return &dto.LoginRequest{Email: email, Password: password, Role: role}
}

func claimedPlayer(t *testing.T, env *testEnv) *dto.ClaimPlayerResponse {
	t.Helper()
	env.addRegistration("Amine", "Tazi", "youssef@example.com")
	resp, err := env.svc.ClaimService.ClaimPlayerAccount(env.ctx, claimAmine())
	require.NoError(t, err)
	return resp
}

func TestLogin_PlayerWithGeneratedPassword(t *testing.T) {
	env := newTestEnv(t)
	claim := claimedPlayer(t, env)

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("Amine@Example.com", claim.GeneratedPassword, models.RolePlayer))
	require.NoError(t, err)

	assert.Equal(t, dto.LoginOK, resp.Status)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, claim.Player.ID, resp.Profile.Player.ID)
	assert.Equal(t, claim.Registration.ID, resp.Profile.Registration.ID)
	require.NotNil(t, resp.Token)

	claims, err := env.issuer.Authenticate(env.ctx, resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claim.User.ID, claims.UserID)
	assert.NotNil(t, env.user("amine@example.com").LastLoginAt)
}

func TestLogin_FailuresAreOpaque(t *testing.T) {
	env := newTestEnv(t)
	claim := claimedPlayer(t, env)

	cases := map[string]*dto.LoginRequest{
		"unknown email":  loginAs("nobody@example.com", claim.GeneratedPassword, models.RolePlayer),
		"wrong password": loginAs("amine@example.com", "not-the-password", models.RolePlayer),
		"wrong role":     loginAs("amine@example.com", claim.GeneratedPassword, models.RoleCoach),
	}

	var messages []string
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.AuthService.Login(env.ctx, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
			assert.Equal(t, apperrors.CodeInvalidCredential, apperrors.Code(err))
			messages = append(messages, apperrors.Message(err))
		})
	}
	require.Len(t, messages, 3)
	assert.Equal(t, messages[0], messages[1])
	assert.Equal(t, messages[1], messages[2])
}

func TestLogin_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.AuthService.Login(env.ctx, loginAs("amine@example.com", "pw", "superuser"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.svc.AuthService.Login(env.ctx, loginAs("", "pw", models.RolePlayer))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLogin_RepairsStaleLinkByName(t *testing.T) {
	env := newTestEnv(t)
	claim := claimedPlayer(t, env)

	// Staff deleted the player and re-entered it under the same name
	env.store.DeletePlayer(claim.Player.ID)
	replacement := env.addPlayer("Amine", "Tazi")

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("amine@example.com", claim.GeneratedPassword, models.RolePlayer))
	require.NoError(t, err)

	assert.Equal(t, dto.LoginOK, resp.Status)
	assert.Equal(t, replacement.ID, resp.Profile.Player.ID)
	assert.Equal(t, replacement.ID, *env.user("amine@example.com").PlayerID)

	// The registration pointed at the deleted player too and follows the repair
	require.NotNil(t, resp.Profile.Registration)
	assert.Equal(t, replacement.ID, *env.registration(claim.Registration.ID).PlayerID)
	assert.Contains(t, env.logs.String(), "Account linked to a deleted player")
}

func TestLogin_StaleLinkWithoutMatchIsNoProfile(t *testing.T) {
	env := newTestEnv(t)
	claim := claimedPlayer(t, env)
	env.store.DeletePlayer(claim.Player.ID)

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("amine@example.com", claim.GeneratedPassword, models.RolePlayer))
	require.NoError(t, err)

	assert.Equal(t, dto.LoginNoProfile, resp.Status)
	assert.Nil(t, resp.Profile)
	assert.Nil(t, resp.Token)
	assert.Equal(t, claim.Player.ID, *env.user("amine@example.com").PlayerID, "an unresolved stale link is left for staff")
}

func TestLogin_RepairsThroughPlayerEmail(t *testing.T) {
	env := newTestEnv(t)
	reg := env.addRegistration("Amine", "Tazi", "youssef@example.com")
	player := env.addPlayer("Amine", "Tazi")
	_, err := env.svc.Linker.LinkPlayerToRegistration(env.ctx, player, reg)
	require.NoError(t, err)
	_, err = env.svc.Linker.BackfillPlayerEmail(env.ctx, reg, "amine@example.com")
	require.NoError(t, err)

	// Account name no longer matches the player, so only the registration email can resolve it
	env.addUser("A. T.", "amine@example.com", models.RolePlayer, "pw123456", nil)

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("amine@example.com", "pw123456", models.RolePlayer))
	require.NoError(t, err)
	assert.Equal(t, dto.LoginOK, resp.Status)
	assert.Equal(t, player.ID, resp.Profile.Player.ID)
	assert.Equal(t, player.ID, *env.user("amine@example.com").PlayerID)
}

func TestLogin_PlayerWithoutRegistrationStillLogsIn(t *testing.T) {
	env := newTestEnv(t)
	player := env.addPlayer("Amine", "Tazi")
	env.addUser("Amine Tazi", "amine@example.com", models.RolePlayer, "pw123456", &player.ID)

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("amine@example.com", "pw123456", models.RolePlayer))
	require.NoError(t, err)
	assert.Equal(t, dto.LoginOK, resp.Status)
	assert.Equal(t, player.ID, resp.Profile.Player.ID)
	assert.Nil(t, resp.Profile.Registration)
}

func TestLogin_CoachFollowsEmailChange(t *testing.T) {
	env := newTestEnv(t)
	claim, err := env.svc.ClaimService.ClaimCoachAccount(env.ctx, &dto.ClaimCoachRequest{
		Name: "Karim Alaoui", Email: "karim@example.com", Phone: "+212600000000",
	})
	require.NoError(t, err)

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("karim@example.com", claim.GeneratedPassword, models.RoleCoach))
	require.NoError(t, err)
	assert.Equal(t, claim.Coach.ID, resp.Profile.Coach.ID)

	// Staff cleared the email; login matches by name and writes it back
	env.store.UpdateCoachEmail(claim.Coach.ID, "")
	resp, err = env.svc.AuthService.Login(env.ctx, loginAs("karim@example.com", claim.GeneratedPassword, models.RoleCoach))
	require.NoError(t, err)
	assert.Equal(t, dto.LoginOK, resp.Status)
	stored, err := env.repos.CoachRepository.GetByID(env.ctx, claim.Coach.ID)
	require.NoError(t, err)
	assert.Equal(t, "karim@example.com", stored.Email)

	// Staff moved the record to another email; the account no longer resolves
	env.store.UpdateCoachEmail(claim.Coach.ID, "karim.alaoui@example.com")
	resp, err = env.svc.AuthService.Login(env.ctx, loginAs("karim@example.com", claim.GeneratedPassword, models.RoleCoach))
	require.NoError(t, err)
	assert.Equal(t, dto.LoginNoProfile, resp.Status)
	assert.Nil(t, resp.Token)
}

func TestLogin_ParentSeesNewRegistrations(t *testing.T) {
	env := newTestEnv(t)
	env.addRegistration("Amine", "Tazi", "youssef@example.com")
	claim, err := env.svc.ClaimService.ClaimParentAccount(env.ctx, &dto.ClaimParentRequest{
		Name: "Youssef Tazi", Email: "youssef@example.com", Phone: "+212611111111",
	})
	require.NoError(t, err)

	env.addRegistration("Sara", "Tazi", "youssef@example.com")

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("youssef@example.com", claim.GeneratedPassword, models.RoleParent))
	require.NoError(t, err)
	assert.Len(t, resp.Profile.Registrations, 2)
}

func TestLogin_Admin(t *testing.T) {
	env := newTestEnv(t)
	env.addUser("Staff", "admin@example.com", models.RoleAdmin, "admin-pass", nil)

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("admin@example.com", "admin-pass", models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, dto.LoginOK, resp.Status)
	assert.NotNil(t, resp.Token)
}

func TestLogin_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.FailNext("users.GetByEmail", errors.New("too many connections"))

	_, err := env.svc.AuthService.Login(env.ctx, loginAs("amine@example.com", "pw123456", models.RolePlayer))
	assert.ErrorIs(t, err, apperrors.ErrStore)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Contains(t, env.logs.String(), "too many connections")
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv(t)
	claim := claimedPlayer(t, env)

	require.NoError(t, env.svc.AuthService.Logout(env.ctx, claim.Token.AccessToken))

	_, err := env.issuer.Authenticate(env.ctx, claim.Token.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	assert.NoError(t, env.svc.AuthService.Logout(env.ctx, claim.Token.AccessToken), "logout is idempotent")
	assert.ErrorIs(t, env.svc.AuthService.Logout(env.ctx, "garbage"), apperrors.ErrTokenInvalid)
}

func TestProfile_ReResolves(t *testing.T) {
	env := newTestEnv(t)
	claim := claimedPlayer(t, env)

	resp, err := env.svc.AuthService.Profile(env.ctx, claim.User.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.LoginOK, resp.Status)
	assert.Equal(t, claim.Player.ID, resp.Profile.Player.ID)
	assert.Nil(t, resp.Token)

	_, err = env.svc.AuthService.Profile(env.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestLogin_StaleLinkNeverTakesAnotherAccountsPlayer(t *testing.T) {
	env := newTestEnv(t)
	owner := claimedPlayer(t, env)

	gone := env.addPlayer("Old", "Record")
	env.addUser("Amine Tazi", "other@example.com", models.RolePlayer, "pw123456", &gone.ID)
	env.store.DeletePlayer(gone.ID)

	resp, err := env.svc.AuthService.Login(env.ctx, loginAs("other@example.com", "pw123456", models.RolePlayer))
	require.NoError(t, err)
	assert.Equal(t, dto.LoginNoProfile, resp.Status)
	assert.Nil(t, resp.Token)
	assert.Equal(t, gone.ID, *env.user("other@example.com").PlayerID)

	holder, err := env.repos.UserRepository.GetByPlayerID(env.ctx, owner.Player.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.User.ID, holder.ID)
	assert.Contains(t, env.logs.String(), "Matched player belongs to another account")
}

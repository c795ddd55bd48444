package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

func TestUserEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	require.NoError(t, repos.UserRepository.Create(ctx, &models.User{Name: "A", Email: "Amine@Example.com ", RoleType: models.RolePlayer}))
	err := repos.UserRepository.Create(ctx, &models.User{Name: "B", Email: "amine@example.com", RoleType: models.RoleParent})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	u, err := repos.UserRepository.GetByEmail(ctx, "AMINE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "amine@example.com", u.Email)
}

func TestCompareAndSetPlayerID(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	user := &models.User{Name: "A", Email: "a@example.com", RoleType: models.RolePlayer}
	require.NoError(t, repos.UserRepository.Create(ctx, user))

	ok, err := repos.UserRepository.CompareAndSetPlayerID(ctx, user.ID, nil, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.UserRepository.CompareAndSetPlayerID(ctx, user.ID, nil, 6)
	require.NoError(t, err)
	assert.False(t, ok, "an established link must not be overwritten")

	stale := int64(5)
	ok, err = repos.UserRepository.CompareAndSetPlayerID(ctx, user.ID, &stale, 6)
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := repos.UserRepository.GetByID(ctx, user.ID)
	assert.Equal(t, int64(6), *got.PlayerID)
}

func TestFindByNameOrdersByID(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	for _, p := range []models.Player{{FirstName: "Jean", LastName: "Martin"}, {FirstName: "Paul", LastName: "Durand"}, {FirstName: "Jean-Luc", LastName: "MARTINEZ"}} {
		require.NoError(t, repos.PlayerRepository.Create(ctx, &p))
	}

	got, err := repos.PlayerRepository.FindByName(ctx, "jean", "martin")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	p := &models.Player{FirstName: "Jean", LastName: "Martin"}
	require.NoError(t, repos.PlayerRepository.Create(ctx, p))

	got, _ := repos.PlayerRepository.GetByID(ctx, p.ID)
	got.FirstName = "Changed"

	again, _ := repos.PlayerRepository.GetByID(ctx, p.ID)
	assert.Equal(t, "Jean", again.FirstName)
}

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := New()
	repos := store.Repositories()

	boom := errors.New("boom")
	err := repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.PlayerRepository.Create(ctx, &models.Player{FirstName: "A", LastName: "B"}))
		return repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	_, players, _, _ := store.Counts()
	assert.Zero(t, players)

	require.NoError(t, repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		return repos.PlayerRepository.Create(ctx, &models.Player{FirstName: "A", LastName: "B"})
	}))
	_, players, _, _ = store.Counts()
	assert.Equal(t, 1, players)
}

func TestRegistrationConditionalWrites(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	reg := &models.Registration{PlayerFirstName: "Amine", PlayerLastName: "Tazi"}
	require.NoError(t, repos.RegistrationRepository.Create(ctx, reg))
	assert.Equal(t, models.RegistrationPending, reg.Status)

	ok, err := repos.RegistrationRepository.CompareAndSetPlayerID(ctx, reg.ID, nil, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = repos.RegistrationRepository.CompareAndSetPlayerID(ctx, reg.ID, nil, 2)
	assert.False(t, ok)

	ok, _ = repos.RegistrationRepository.SetParentEmailIfEmpty(ctx, reg.ID, "Parent@Example.com")
	assert.True(t, ok)
	ok, _ = repos.RegistrationRepository.SetParentEmailIfEmpty(ctx, reg.ID, "other@example.com")
	assert.False(t, ok)

	found, err := repos.RegistrationRepository.FindByParentEmail(ctx, "parent@example.com")
	require.NoError(t, err)
	require.Len(t, found, 1)

	byPlayer, err := repos.RegistrationRepository.GetByPlayerID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, byPlayer.ID)

	assert.ErrorIs(t, repos.RegistrationRepository.UpdateStatus(ctx, 99, models.RegistrationAccepted), apperrors.ErrResourceNotFound)
}

func TestFailNext(t *testing.T) {
	ctx := context.Background()
	store := New()
	repos := store.Repositories()
	boom := errors.New("disk full")

	store.FailNext("users.GetByEmail", boom)
	_, err := repos.UserRepository.GetByEmail(ctx, "x@example.com")
	assert.ErrorIs(t, err, boom)

	_, err = repos.UserRepository.GetByEmail(ctx, "x@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	revoked, _ := repos.TokenRepository.IsRevoked(ctx, "missing")
	assert.True(t, revoked)

	require.NoError(t, repos.TokenRepository.Create(ctx, "jti-1", 1, fixedTime))
	revoked, _ = repos.TokenRepository.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)

	require.NoError(t, repos.TokenRepository.Revoke(ctx, "jti-1"))
	require.NoError(t, repos.TokenRepository.Revoke(ctx, "jti-1"))
	revoked, _ = repos.TokenRepository.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)
}

var fixedTime = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	reg := &models.Registration{PlayerFirstName: "Amine", PlayerLastName: "Tazi"}
	require.NoError(t, repos.RegistrationRepository.Create(ctx, reg))
	user := &models.User{Name: "Amine Tazi", Email: "amine@example.com", RoleType: models.RolePlayer}
	require.NoError(t, repos.UserRepository.Create(ctx, user))
	require.NoError(t, repos.TokenRepository.Create(ctx, "jti-1", user.ID, fixedTime))

	started := make(chan struct{})
	written := make(chan struct{})
	go func() {
		defer close(written)
		<-started
		ok, err := repos.RegistrationRepository.SetPlayerEmailIfNull(ctx, reg.ID, "amine@example.com")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, repos.TokenRepository.Revoke(ctx, "jti-1"))
	}()

	boom := errors.New("boom")
	err := repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.PlayerRepository.Create(ctx, &models.Player{FirstName: "Amine", LastName: "Tazi"}))
		ok, err := repos.UserRepository.CompareAndSetPlayerID(ctx, user.ID, nil, 42)
		require.NoError(t, err)
		require.True(t, ok)
		close(started)
		<-written
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := repos.RegistrationRepository.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PlayerEmail)
	assert.Equal(t, "amine@example.com", *stored.PlayerEmail)

	revoked, err := repos.TokenRepository.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked, "a revocation made during another transaction must survive its rollback")

	got, err := repos.UserRepository.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PlayerID, "the transaction's own link write is undone")
	_, err = repos.PlayerRepository.GetByID(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrPlayerNotFound)
}

func TestGetUserByPlayerID(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	user := &models.User{Name: "A", Email: "a@example.com", RoleType: models.RolePlayer, PlayerID: ptr(int64(7))}
	require.NoError(t, repos.UserRepository.Create(ctx, user))

	got, err := repos.UserRepository.GetByPlayerID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repos.UserRepository.GetByPlayerID(ctx, 8)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

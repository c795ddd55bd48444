package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/app/repositories/memstore"
	"github.com/yigit/academy/internal/pkg/auth"
	"github.com/yigit/academy/internal/pkg/lock"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type sentMail struct {
	to   string
	name string
	role models.RoleType
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendWelcomeEmail(toEmail, toName string, role models.RoleType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: toEmail, name: toName, role: role})
	return f.err
}

type failingLocker struct{}

func (failingLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return nil, errors.New("redis: connection refused")
}

type testEnv struct {
	t      *testing.T
	ctx    context.Context
	store  *memstore.Store
	repos  *repositories.Repositories
	issuer *auth.CredentialIssuer
	locker lock.Locker
	mailer *fakeMailer
	logs   *bytes.Buffer
	svc    *Services
}

type envOption func(*testEnv)

func withLocker(l lock.Locker) envOption {
	return func(e *testEnv) { e.locker = l }
}

func withUserRepository(wrap func(repositories.IUserRepository) repositories.IUserRepository) envOption {
	return func(e *testEnv) { e.repos.UserRepository = wrap(e.repos.UserRepository) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	store := memstore.New()
	env := &testEnv{
		t:      t,
		ctx:    context.Background(),
		store:  store,
		repos:  store.Repositories(),
		locker: lock.NewLocalLocker(),
		mailer: &fakeMailer{},
		logs:   &bytes.Buffer{},
	}
	for _, opt := range opts {
		opt(env)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "academy.test"})
	env.issuer = auth.NewCredentialIssuer(jwtService, env.repos.TokenRepository)
	env.svc = NewServices(env.repos, env.issuer, env.locker, env.mailer, Settings{
		DefaultCategoryID:       1,
		GeneratedPasswordLength: 12,
		ClaimLockTTL:            5 * time.Second,
	}, zerolog.New(env.logs))
	return env
}

func (e *testEnv) addPlayer(first, last string) *models.Player {
	e.t.Helper()
	p := &models.Player{FirstName: first, LastName: last}
	require.NoError(e.t, e.repos.PlayerRepository.Create(e.ctx, p))
	return p
}

func (e *testEnv) addRegistration(first, last, parentEmail string) *models.Registration {
	e.t.Helper()
	r := &models.Registration{
		PlayerFirstName: first,
		PlayerLastName:  last,
		ParentName:      "Parent of " + first,
		ParentEmail:     parentEmail,
		ParentPhone:     "+212600000000",
	}
	require.NoError(e.t, e.repos.RegistrationRepository.Create(e.ctx, r))
	return r
}

func (e *testEnv) addCoach(name, email string) *models.Coach {
	e.t.Helper()
	c := &models.Coach{Name: name, Email: email, Phone: "+212600000001"}
	require.NoError(e.t, e.repos.CoachRepository.Create(e.ctx, c))
	return c
}

func (e *testEnv) addUser(name, email string, role models.RoleType, password string, playerID *int64) *models.User {
	e.t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(e.t, err)
	u := &models.User{Name: name, Email: email, Password: hash, RoleType: role, PlayerID: playerID}
	require.NoError(e.t, e.repos.UserRepository.Create(e.ctx, u))
	return u
}

func (e *testEnv) user(email string) *models.User {
	e.t.Helper()
	u, err := e.repos.UserRepository.GetByEmail(e.ctx, email)
	require.NoError(e.t, err)
	return u
}

func (e *testEnv) registration(id int64) *models.Registration {
	e.t.Helper()
	r, err := e.repos.RegistrationRepository.GetByID(e.ctx, id)
	require.NoError(e.t, err)
	return r
}

func (e *testEnv) counts() (users, players, coaches, registrations int) {
	return e.store.Counts()
}

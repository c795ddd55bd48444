// Package memstore is an in-memory Identity Store with the same uniqueness and
// conditional-write semantics as the Postgres repositories. It backs the
// "memory" database driver and the service tests.
package memstore

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
)

type tokenRow struct {
	userID    int64
	expiresAt time.Time
	revoked   bool
}

type state struct {
	users         map[int64]models.User
	players       map[int64]models.Player
	coaches       map[int64]models.Coach
	registrations map[int64]models.Registration
	categories    map[int64]models.Category
	tokens        map[string]tokenRow
	seq           map[string]int64
}

func newState() state {
	return state{
		users:         map[int64]models.User{},
		players:       map[int64]models.Player{},
		coaches:       map[int64]models.Coach{},
		registrations: map[int64]models.Registration{},
		categories:    map[int64]models.Category{},
		tokens:        map[string]tokenRow{},
		seq:           map[string]int64{},
	}
}

func usersTable(d *state) map[int64]models.User { return d.users }
func playersTable(d *state) map[int64]models.Player { return d.players }
func coachesTable(d *state) map[int64]models.Coach { return d.coaches }
func registrationsTable(d *state) map[int64]models.Registration { return d.registrations }
func categoriesTable(d *state) map[int64]models.Category { return d.categories }
func tokensTable(d *state) map[string]tokenRow { return d.tokens }

// undoLog holds the inverse of every row a transaction wrote, newest last
type undoLog struct {
	steps []func(d *state)
}

func (l *undoLog) rollback(d *state) {
	for i := len(l.steps) - 1; i >= 0; i-- {
		l.steps[i](d)
	}
}

// remember records the current value of table[key] so a rollback can restore it.
// Must be called with mu held, before the write. Writes outside a transaction record nothing.
func remember[K comparable, V any](ctx context.Context, s *Store, table func(*state) map[K]V, key K) {
	log, _ := ctx.Value(txKey{}).(*undoLog)
	if log == nil {
		return
	}
	prev, existed := table(&s.data)[key]
	log.steps = append(log.steps, func(d *state) {
		if existed {
			table(d)[key] = prev
		} else {
			delete(table(d), key)
		}
	})
}

// Store holds every table behind a single mutex
type Store struct {
	mu   sync.Mutex
	data state

	// txMu serializes transactions. A rollback only undoes the rows its own transaction wrote.
	txMu sync.Mutex

	faults map[string]error
}

// New creates an empty store
func New() *Store {
	return &Store{data: newState(), faults: map[string]error{}}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Tx:                     s,
		UserRepository:         &userRepo{s},
		PlayerRepository:       &playerRepo{s},
		CoachRepository:        &coachRepo{s},
		RegistrationRepository: &registrationRepo{s},
		TokenRepository:        &tokenRepo{s},
		CategoryRepository:     &categoryRepo{s},
	}
}

// FailNext makes the next call to op (e.g. "users.Create") return err
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// fault must be called with mu held
func (s *Store) fault(op string) error {
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		return err
	}
	return nil
}

func (s *Store) nextID(table string) int64 {
	s.data.seq[table]++
	return s.data.seq[table]
}

type txKey struct{}

// WithTransaction runs fn with all-or-nothing semantics. Nested calls join the outer transaction.
// Sequence values consumed by a rolled back transaction are not reused, as in Postgres.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		log.rollback(&s.data)
		s.mu.Unlock()
		return err
	}
	return nil
}

// Counts reports the number of rows per table
func (s *Store) Counts() (users, players, coaches, registrations int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.users), len(s.data.players), len(s.data.coaches), len(s.data.registrations)
}

// DeletePlayer removes a player the way staff would, leaving references to it dangling
func (s *Store) DeletePlayer(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.players, id)
}

// UpdateCoachEmail overwrites a coach email the way a staff edit would
func (s *Store) UpdateCoachEmail(id int64, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.data.coaches[id]; ok {
		c.Email = email
		s.data.coaches[id] = c
	}
}

func containsFold(field, query string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(query))
}

func ptr[T any](v T) *T {
	return &v
}

func sortedIDs[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}

package memstore

import (
	"context"
	"time"

	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("users.Create"); err != nil {
		return err
	}

	user.Email = models.NormalizeEmail(user.Email)
	for _, u := range s.data.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	if user.PlayerID != nil && s.playerHeld(*user.PlayerID, 0) {
		return apperrors.ErrPlayerAlreadyClaimed
	}

	now := time.Now()
	user.ID = s.nextID("users")
	user.CreatedAt, user.UpdatedAt = now, now
	remember(ctx, s, usersTable, user.ID)
	s.data.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := s.data.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("users.GetByEmail"); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	for _, id := range sortedIDs(s.data.users) {
		if u := s.data.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepo) GetByPlayerID(_ context.Context, playerID int64) (*models.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("users.GetByPlayerID"); err != nil {
		return nil, err
	}
	for _, id := range sortedIDs(s.data.users) {
		if u := s.data.users[id]; u.PlayerID != nil && *u.PlayerID == playerID {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepo) CompareAndSetPlayerID(ctx context.Context, userID int64, expected *int64, playerID int64) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("users.CompareAndSetPlayerID"); err != nil {
		return false, err
	}
	u, ok := s.data.users[userID]
	if !ok {
		return false, nil
	}
	switch {
	case expected == nil && u.PlayerID != nil:
		return false, nil
	case expected != nil && (u.PlayerID == nil || *u.PlayerID != *expected):
		return false, nil
	}
	if s.playerHeld(playerID, userID) {
		return false, apperrors.ErrPlayerAlreadyClaimed
	}
	remember(ctx, s, usersTable, userID)
	u.PlayerID = ptr(playerID)
	u.UpdatedAt = time.Now()
	s.data.users[userID] = u
	return true, nil
}

// playerHeld reports whether a user other than except links playerID. Must be called with mu held.
func (s *Store) playerHeld(playerID, except int64) bool {
	for id, u := range s.data.users {
		if id != except && u.PlayerID != nil && *u.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.data.users[userID]; ok {
		remember(ctx, s, usersTable, userID)
		u.LastLoginAt = ptr(time.Now())
		s.data.users[userID] = u
	}
	return nil
}

type playerRepo struct{ s *Store }

func (r *playerRepo) Create(ctx context.Context, player *models.Player) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("players.Create"); err != nil {
		return err
	}
	now := time.Now()
	player.ID = s.nextID("players")
	player.CreatedAt, player.UpdatedAt = now, now
	remember(ctx, s, playersTable, player.ID)
	s.data.players[player.ID] = *player
	return nil
}

func (r *playerRepo) GetByID(_ context.Context, id int64) (*models.Player, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("players.GetByID"); err != nil {
		return nil, err
	}
	p, ok := s.data.players[id]
	if !ok {
		return nil, apperrors.ErrPlayerNotFound
	}
	return &p, nil
}

func (r *playerRepo) FindByName(_ context.Context, firstName, lastName string) ([]*models.Player, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("players.FindByName"); err != nil {
		return nil, err
	}
	var out []*models.Player
	for _, id := range sortedIDs(s.data.players) {
		p := s.data.players[id]
		if containsFold(p.FirstName, firstName) && containsFold(p.LastName, lastName) {
			out = append(out, &p)
		}
	}
	return out, nil
}

type coachRepo struct{ s *Store }

func (r *coachRepo) Create(ctx context.Context, coach *models.Coach) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("coaches.Create"); err != nil {
		return err
	}
	now := time.Now()
	coach.Email = models.NormalizeEmail(coach.Email)
	coach.ID = s.nextID("coaches")
	coach.CreatedAt, coach.UpdatedAt = now, now
	remember(ctx, s, coachesTable, coach.ID)
	s.data.coaches[coach.ID] = *coach
	return nil
}

func (r *coachRepo) GetByID(_ context.Context, id int64) (*models.Coach, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.coaches[id]
	if !ok {
		return nil, apperrors.ErrCoachNotFound
	}
	return &c, nil
}

func (r *coachRepo) GetByEmail(_ context.Context, email string) (*models.Coach, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("coaches.GetByEmail"); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	for _, id := range sortedIDs(s.data.coaches) {
		if c := s.data.coaches[id]; models.NormalizeEmail(c.Email) == email {
			return &c, nil
		}
	}
	return nil, apperrors.ErrCoachNotFound
}

func (r *coachRepo) FindByName(_ context.Context, name string) ([]*models.Coach, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("coaches.FindByName"); err != nil {
		return nil, err
	}
	var out []*models.Coach
	for _, id := range sortedIDs(s.data.coaches) {
		c := s.data.coaches[id]
		if containsFold(c.Name, name) {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *coachRepo) SetEmailIfEmpty(ctx context.Context, coachID int64, email string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("coaches.SetEmailIfEmpty"); err != nil {
		return false, err
	}
	c, ok := s.data.coaches[coachID]
	if !ok || c.Email != "" {
		return false, nil
	}
	remember(ctx, s, coachesTable, coachID)
	c.Email = models.NormalizeEmail(email)
	c.UpdatedAt = time.Now()
	s.data.coaches[coachID] = c
	return true, nil
}

type registrationRepo struct{ s *Store }

func (r *registrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("registrations.Create"); err != nil {
		return err
	}
	reg.ParentEmail = models.NormalizeEmail(reg.ParentEmail)
	if reg.Status == "" {
		reg.Status = models.RegistrationPending
	}
	if reg.PaymentStatus == "" {
		reg.PaymentStatus = models.PaymentUnpaid
	}
	now := time.Now()
	reg.ID = s.nextID("registrations")
	reg.CreatedAt, reg.UpdatedAt = now, now
	remember(ctx, s, registrationsTable, reg.ID)
	s.data.registrations[reg.ID] = *reg
	return nil
}

func (r *registrationRepo) GetByID(_ context.Context, id int64) (*models.Registration, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("registrations.GetByID"); err != nil {
		return nil, err
	}
	reg, ok := s.data.registrations[id]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	return &reg, nil
}

func (r *registrationRepo) GetByPlayerID(_ context.Context, playerID int64) (*models.Registration, error) {
	regs := r.filter(func(reg models.Registration) bool {
		return reg.PlayerID != nil && *reg.PlayerID == playerID
	})
	if len(regs) == 0 {
		return nil, apperrors.ErrRegistrationNotFound
	}
	return regs[0], nil
}

func (r *registrationRepo) FindByPlayerName(_ context.Context, firstName, lastName string) ([]*models.Registration, error) {
	if err := r.faultLocked("registrations.FindByPlayerName"); err != nil {
		return nil, err
	}
	return r.filter(func(reg models.Registration) bool {
		return containsFold(reg.PlayerFirstName, firstName) && containsFold(reg.PlayerLastName, lastName)
	}), nil
}

func (r *registrationRepo) FindByParentEmail(_ context.Context, email string) ([]*models.Registration, error) {
	if err := r.faultLocked("registrations.FindByParentEmail"); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	return r.filter(func(reg models.Registration) bool {
		return models.NormalizeEmail(reg.ParentEmail) == email
	}), nil
}

func (r *registrationRepo) FindByPlayerEmail(_ context.Context, email string) ([]*models.Registration, error) {
	email = models.NormalizeEmail(email)
	return r.filter(func(reg models.Registration) bool {
		return reg.PlayerEmail != nil && models.NormalizeEmail(*reg.PlayerEmail) == email
	}), nil
}

func (r *registrationRepo) faultLocked(op string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.fault(op)
}

func (r *registrationRepo) filter(keep func(models.Registration) bool) []*models.Registration {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Registration
	for _, id := range sortedIDs(s.data.registrations) {
		reg := s.data.registrations[id]
		if keep(reg) {
			out = append(out, &reg)
		}
	}
	return out
}

func (r *registrationRepo) update(ctx context.Context, id int64, op string, apply func(reg *models.Registration) bool) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(op); err != nil {
		return false, err
	}
	reg, ok := s.data.registrations[id]
	if !ok || !apply(&reg) {
		return false, nil
	}
	remember(ctx, s, registrationsTable, id)
	reg.UpdatedAt = time.Now()
	s.data.registrations[id] = reg
	return true, nil
}

func (r *registrationRepo) CompareAndSetPlayerID(ctx context.Context, registrationID int64, expected *int64, playerID int64) (bool, error) {
	return r.update(ctx, registrationID, "registrations.CompareAndSetPlayerID", func(reg *models.Registration) bool {
		switch {
		case expected == nil && reg.PlayerID != nil:
			return false
		case expected != nil && (reg.PlayerID == nil || *reg.PlayerID != *expected):
			return false
		}
		reg.PlayerID = ptr(playerID)
		return true
	})
}

func (r *registrationRepo) SetPlayerEmailIfNull(ctx context.Context, registrationID int64, email string) (bool, error) {
	return r.update(ctx, registrationID, "registrations.SetPlayerEmailIfNull", func(reg *models.Registration) bool {
		if reg.PlayerEmail != nil && *reg.PlayerEmail != "" {
			return false
		}
		reg.PlayerEmail = ptr(models.NormalizeEmail(email))
		return true
	})
}

func (r *registrationRepo) SetParentEmailIfEmpty(ctx context.Context, registrationID int64, email string) (bool, error) {
	return r.update(ctx, registrationID, "registrations.SetParentEmailIfEmpty", func(reg *models.Registration) bool {
		if reg.ParentEmail != "" {
			return false
		}
		reg.ParentEmail = models.NormalizeEmail(email)
		return true
	})
}

func (r *registrationRepo) UpdateStatus(ctx context.Context, registrationID int64, status models.RegistrationStatus) error {
	ok, err := r.update(ctx, registrationID, "registrations.UpdateStatus", func(reg *models.Registration) bool {
		reg.Status = status
		return true
	})
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

type tokenRepo struct{ s *Store }

func (r *tokenRepo) Create(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("tokens.Create"); err != nil {
		return err
	}
	if _, exists := s.data.tokens[tokenID]; exists {
		return apperrors.ErrTokenInvalid
	}
	remember(ctx, s, tokensTable, tokenID)
	s.data.tokens[tokenID] = tokenRow{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *tokenRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.data.tokens[tokenID]
	if !ok {
		return true, nil
	}
	return row.revoked, nil
}

func (r *tokenRepo) Revoke(ctx context.Context, tokenID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.data.tokens[tokenID]; ok {
		remember(ctx, s, tokensTable, tokenID)
		row.revoked = true
		s.data.tokens[tokenID] = row
	}
	return nil
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.categories[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *categoryRepo) Ensure(ctx context.Context, category *models.Category) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("categories.Ensure"); err != nil {
		return err
	}
	if _, ok := s.data.categories[category.ID]; !ok {
		remember(ctx, s, categoriesTable, category.ID)
		s.data.categories[category.ID] = *category
	}
	if s.data.seq["categories"] < category.ID {
		s.data.seq["categories"] = category.ID
	}
	return nil
}

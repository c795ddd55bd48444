package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
)

// LinkOutcome describes what a link operation wrote
type LinkOutcome int

const (
	// LinkUnchanged means the link already pointed at the requested record
	LinkUnchanged LinkOutcome = iota
	// LinkCreated means an empty link was filled in
	LinkCreated
	// LinkRepaired means a link to a deleted record was replaced
	LinkRepaired
)

func (o LinkOutcome) String() string {
	switch o {
	case LinkCreated:
		return "created"
	case LinkRepaired:
		return "repaired"
	}
	return "unchanged"
}

// Linker writes back missing references between records of the same person.
// An established link is never overwritten; attempting to point it elsewhere
// returns a conflict. Links to deleted players are not established and may be repaired.
type Linker struct {
	users         repositories.IUserRepository
	players       repositories.IPlayerRepository
	coaches       repositories.ICoachRepository
	registrations repositories.IRegistrationRepository
	logger        zerolog.Logger
}

// NewLinker creates a Linker
func NewLinker(repos *repositories.Repositories, logger zerolog.Logger) *Linker {
	return &Linker{
		users:         repos.UserRepository,
		players:       repos.PlayerRepository,
		coaches:       repos.CoachRepository,
		registrations: repos.RegistrationRepository,
		logger:        logger,
	}
}

// LinkPlayerToRegistration sets registration.player_id to player
func (l *Linker) LinkPlayerToRegistration(ctx context.Context, player *models.Player, reg *models.Registration) (LinkOutcome, error) {
	outcome, conflict, err := l.linkPlayerID(ctx, reg.PlayerID, player.ID,
		func(expected *int64) (bool, error) {
			return l.registrations.CompareAndSetPlayerID(ctx, reg.ID, expected, player.ID)
		},
		func() (*int64, error) {
			fresh, err := l.registrations.GetByID(ctx, reg.ID)
			if err != nil {
				return nil, err
			}
			return fresh.PlayerID, nil
		})
	if err != nil {
		return outcome, err
	}
	if conflict {
		l.logger.Warn().Int64("registrationID", reg.ID).Int64("playerID", player.ID).Msg("Registration already linked to another player")
		return outcome, newLinkConflict("registration is already linked to another player")
	}

	reg.PlayerID = ptr(player.ID)
	if outcome != LinkUnchanged {
		l.logger.Info().Int64("registrationID", reg.ID).Int64("playerID", player.ID).Stringer("outcome", outcome).Msg("Linked registration to player")
	}
	return outcome, nil
}

// LinkUserToPlayer sets user.player_id to player
func (l *Linker) LinkUserToPlayer(ctx context.Context, user *models.User, player *models.Player) (LinkOutcome, error) {
	outcome, conflict, err := l.linkPlayerID(ctx, user.PlayerID, player.ID,
		func(expected *int64) (bool, error) {
			return l.users.CompareAndSetPlayerID(ctx, user.ID, expected, player.ID)
		},
		func() (*int64, error) {
			fresh, err := l.users.GetByID(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			return fresh.PlayerID, nil
		})
	if err != nil {
		return outcome, err
	}
	if conflict {
		l.logger.Warn().Int64("userID", user.ID).Int64("playerID", player.ID).Msg("User already linked to another player")
		return outcome, newLinkConflict("account is already linked to another player")
	}

	user.PlayerID = ptr(player.ID)
	if outcome != LinkUnchanged {
		l.logger.Info().Int64("userID", user.ID).Int64("playerID", player.ID).Stringer("outcome", outcome).Msg("Linked user to player")
	}
	return outcome, nil
}

// linkPlayerID is the shared compare-and-set skeleton for player_id references
func (l *Linker) linkPlayerID(
	ctx context.Context,
	current *int64,
	target int64,
	cas func(expected *int64) (bool, error),
	reload func() (*int64, error),
) (LinkOutcome, bool, error) {
	if current != nil && *current == target {
		return LinkUnchanged, false, nil
	}

	outcome := LinkCreated
	var expected *int64
	if current != nil {
		live, err := l.playerExists(ctx, *current)
		if err != nil {
			return LinkUnchanged, false, err
		}
		if live {
			return LinkUnchanged, true, nil
		}
		expected, outcome = current, LinkRepaired
	}

	ok, err := cas(expected)
	if err != nil {
		return LinkUnchanged, false, err
	}
	if ok {
		return outcome, false, nil
	}

	// Someone else wrote the link first
	now, err := reload()
	if err != nil {
		return LinkUnchanged, false, err
	}
	if now != nil && *now == target {
		return LinkUnchanged, false, nil
	}
	return LinkUnchanged, true, nil
}

func (l *Linker) playerExists(ctx context.Context, playerID int64) (bool, error) {
	_, err := l.players.GetByID(ctx, playerID)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// LinkCoachEmail records email on a coach that has none
func (l *Linker) LinkCoachEmail(ctx context.Context, coach *models.Coach, email string) (LinkOutcome, error) {
	email = models.NormalizeEmail(email)
	outcome, conflict, err := linkEmail(coach.Email, email,
		func() (bool, error) { return l.coaches.SetEmailIfEmpty(ctx, coach.ID, email) },
		func() (string, error) {
			fresh, err := l.coaches.GetByID(ctx, coach.ID)
			if err != nil {
				return "", err
			}
			return fresh.Email, nil
		})
	if err != nil {
		return outcome, err
	}
	if conflict {
		l.logger.Warn().Int64("coachID", coach.ID).Str("email", email).Msg("Coach already has a different email")
		return outcome, newLinkConflict("coach record is already linked to another email")
	}
	coach.Email = email
	return outcome, nil
}

// LinkParentEmail records the parent email on a registration submitted without one
func (l *Linker) LinkParentEmail(ctx context.Context, reg *models.Registration, email string) (LinkOutcome, error) {
	email = models.NormalizeEmail(email)
	outcome, conflict, err := linkEmail(reg.ParentEmail, email,
		func() (bool, error) { return l.registrations.SetParentEmailIfEmpty(ctx, reg.ID, email) },
		func() (string, error) {
			fresh, err := l.registrations.GetByID(ctx, reg.ID)
			if err != nil {
				return "", err
			}
			return fresh.ParentEmail, nil
		})
	if err != nil {
		return outcome, err
	}
	if conflict {
		l.logger.Warn().Int64("registrationID", reg.ID).Str("email", email).Msg("Registration already has a different parent email")
		return outcome, newLinkConflict("registration belongs to another parent")
	}
	reg.ParentEmail = email
	return outcome, nil
}

func linkEmail(current, email string, set func() (bool, error), reload func() (string, error)) (LinkOutcome, bool, error) {
	if models.NormalizeEmail(current) == email {
		return LinkUnchanged, false, nil
	}
	if strings.TrimSpace(current) != "" {
		return LinkUnchanged, true, nil
	}

	ok, err := set()
	if err != nil {
		return LinkUnchanged, false, err
	}
	if ok {
		return LinkCreated, false, nil
	}

	now, err := reload()
	if err != nil {
		return LinkUnchanged, false, err
	}
	if models.NormalizeEmail(now) == email {
		return LinkUnchanged, false, nil
	}
	return LinkUnchanged, true, nil
}

// BackfillPlayerEmail fills registration.player_email when it is still empty.
// It never reports a conflict: an already recorded email is left as is.
func (l *Linker) BackfillPlayerEmail(ctx context.Context, reg *models.Registration, email string) (bool, error) {
	if reg.PlayerEmail != nil && *reg.PlayerEmail != "" {
		return false, nil
	}
	email = models.NormalizeEmail(email)
	ok, err := l.registrations.SetPlayerEmailIfNull(ctx, reg.ID, email)
	if err != nil {
		return false, err
	}
	if ok {
		reg.PlayerEmail = ptr(email)
	}
	return ok, nil
}

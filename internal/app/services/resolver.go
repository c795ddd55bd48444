package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/namematch"
)

func playerNames(p *models.Player) (string, string) { return p.FirstName, p.LastName }

func registrationPlayerNames(r *models.Registration) (string, string) {
	return r.PlayerFirstName, r.PlayerLastName
}

func coachName(c *models.Coach) []string { return []string{c.Name} }

// identityResolver holds the lookup-and-repair steps shared by claims, login and registration review
type identityResolver struct {
	repos  *repositories.Repositories
	linker *Linker
}

// livePlayer returns the player or nil when the id points at a deleted row
func (r *identityResolver) livePlayer(ctx context.Context, id int64) (*models.Player, error) {
	player, err := r.repos.PlayerRepository.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return player, nil
}

// playerHolder returns the account linked to player, or nil when it is unclaimed
func (r *identityResolver) playerHolder(ctx context.Context, playerID int64) (*models.User, error) {
	user, err := r.repos.UserRepository.GetByPlayerID(ctx, playerID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// matchPlayer runs the name matcher over the Player table
func (r *identityResolver) matchPlayer(ctx context.Context, log zerolog.Logger, first, last string) (*models.Player, error) {
	candidates, err := r.repos.PlayerRepository.FindByName(ctx, first, last)
	if err != nil {
		return nil, storeError(log, "players.FindByName", err)
	}
	player, pass := namematch.MatchName(candidates, playerNames, first, last)
	if pass == namematch.PassNone {
		return nil, nil
	}
	log.Debug().Int64("playerID", player.ID).Stringer("pass", pass).Int("candidates", len(candidates)).Msg("Matched player by name")
	return player, nil
}

// matchRegistration runs the name matcher over registrations accepted by keep
func (r *identityResolver) matchRegistration(
	ctx context.Context,
	log zerolog.Logger,
	first, last string,
	keep func(*models.Registration) (bool, error),
) (*models.Registration, error) {
	candidates, err := r.repos.RegistrationRepository.FindByPlayerName(ctx, first, last)
	if err != nil {
		return nil, storeError(log, "registrations.FindByPlayerName", err)
	}

	eligible := candidates[:0]
	for _, c := range candidates {
		ok, err := keep(c)
		if err != nil {
			return nil, storeError(log, "registrations.filter", err)
		}
		if ok {
			eligible = append(eligible, c)
		}
	}

	reg, pass := namematch.MatchName(eligible, registrationPlayerNames, first, last)
	if pass == namematch.PassNone {
		return nil, nil
	}
	log.Debug().Int64("registrationID", reg.ID).Stringer("pass", pass).Msg("Matched registration by player name")
	return reg, nil
}

// resolvePlayer finds the Player for a claimed name, promoting a matching
// Registration when no Player exists yet
func (r *identityResolver) resolvePlayer(ctx context.Context, log zerolog.Logger, first, last string) (*models.Player, error) {
	player, err := r.matchPlayer(ctx, log, first, last)
	if err != nil || player != nil {
		return player, err
	}

	reg, err := r.matchRegistration(ctx, log, first, last, func(*models.Registration) (bool, error) { return true, nil })
	if err != nil {
		return nil, err
	}
	if reg == nil {
		log.Info().Msg("Claim matched no player and no registration")
		return nil, apperrors.NewNotFoundError("not registered as a player")
	}

	player, _, err = r.promoteRegistration(ctx, log, reg)
	return player, err
}

// promoteRegistration returns the Player behind reg, creating it from the
// registration snapshot when the registration has no live player yet
func (r *identityResolver) promoteRegistration(ctx context.Context, log zerolog.Logger, reg *models.Registration) (*models.Player, bool, error) {
	if reg.PlayerID != nil {
		player, err := r.livePlayer(ctx, *reg.PlayerID)
		if err != nil {
			return nil, false, storeError(log, "players.GetByID", err)
		}
		if player != nil {
			return player, false, nil
		}
	}

	var player *models.Player
	err := r.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		player = &models.Player{
			FirstName:  reg.PlayerFirstName,
			LastName:   reg.PlayerLastName,
			BirthDate:  reg.PlayerBirthDate,
			CategoryID: reg.CategoryID,
		}
		if err := r.repos.PlayerRepository.Create(ctx, player); err != nil {
			return err
		}
		_, err := r.linker.LinkPlayerToRegistration(ctx, player, reg)
		return err
	})
	if err == nil {
		log.Info().Int64("registrationID", reg.ID).Int64("playerID", player.ID).Msg("Promoted registration to player")
		return player, true, nil
	}
	if !isConflict(err) {
		return nil, false, storeError(log, "promoteRegistration", err)
	}

	// A concurrent promotion won; use its player
	fresh, ferr := r.repos.RegistrationRepository.GetByID(ctx, reg.ID)
	if ferr != nil {
		return nil, false, storeError(log, "registrations.GetByID", ferr)
	}
	if fresh.PlayerID != nil {
		existing, perr := r.livePlayer(ctx, *fresh.PlayerID)
		if perr != nil {
			return nil, false, storeError(log, "players.GetByID", perr)
		}
		if existing != nil {
			*reg = *fresh
			return existing, false, nil
		}
	}
	return nil, false, err
}

// resolveRegistration finds the Registration of player, by direct link first and by
// name otherwise. Registrations linked to another live player are never considered.
func (r *identityResolver) resolveRegistration(ctx context.Context, log zerolog.Logger, player *models.Player) (*models.Registration, error) {
	reg, err := r.repos.RegistrationRepository.GetByPlayerID(ctx, player.ID)
	if err == nil {
		return reg, nil
	}
	if !isNotFound(err) {
		return nil, storeError(log, "registrations.GetByPlayerID", err)
	}

	reg, err = r.matchRegistration(ctx, log, player.FirstName, player.LastName, func(c *models.Registration) (bool, error) {
		if c.PlayerID == nil {
			return true, nil
		}
		other, err := r.livePlayer(ctx, *c.PlayerID)
		return other == nil, err
	})
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, apperrors.NewNotFoundError("no registration found for this player")
	}

	if _, err := r.linker.LinkPlayerToRegistration(ctx, player, reg); err != nil {
		return nil, storeError(log, "linkPlayerToRegistration", err)
	}
	return reg, nil
}

// matchCoach finds a coach by email, then by name
func (r *identityResolver) matchCoach(ctx context.Context, log zerolog.Logger, email, name string) (*models.Coach, bool, error) {
	coach, err := r.repos.CoachRepository.GetByEmail(ctx, email)
	if err == nil {
		return coach, true, nil
	}
	if !isNotFound(err) {
		return nil, false, storeError(log, "coaches.GetByEmail", err)
	}

	candidates, err := r.repos.CoachRepository.FindByName(ctx, name)
	if err != nil {
		return nil, false, storeError(log, "coaches.FindByName", err)
	}
	coach, pass := namematch.Match(candidates, coachName, name)
	if pass == namematch.PassNone {
		return nil, false, nil
	}
	log.Debug().Int64("coachID", coach.ID).Stringer("pass", pass).Msg("Matched coach by name")
	return coach, false, nil
}

// splitName splits a stored account name into first name and the remaining words
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

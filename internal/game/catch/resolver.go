// Package catch implements the capture rules: the catch-rate computation,
// wild encounters, and evolution of stacked duplicates.
package catch

import (
	"context"
	"sort"

	"pokebot/internal/catalog"
	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"

	"github.com/rs/zerolog"
)

// Modifiers tweak a single attempt. Boosted is the high-rate chat
// environment: higher base rate, doubled league bonus, boosted ball bonus
// and a floor on the final rate.
type Modifiers struct {
	Boosted bool
}

type Result struct {
	Success        bool
	CollectionFull bool
	Creature       domain.Creature
	CatchRate      float64
	BallUsed       string
	Player         *domain.Player
}

type Resolver struct {
	players game.PlayerStore
	src     game.Source
	logger  zerolog.Logger
}

func NewResolver(players game.PlayerStore, src game.Source, logger zerolog.Logger) *Resolver {
	return &Resolver{players: players, src: src, logger: logger}
}

// Attempt runs one capture attempt for the player against the creature.
// A held capture item is consumed on every attempt, success or not, so the
// player record is persisted on both branches.
func (r *Resolver) Attempt(ctx context.Context, playerID int64, creature domain.Creature, mods Modifiers) (*Result, error) {
	player, err := r.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	ballID, ballBonus := consumeBall(player, mods)
	rate := Rate(player.League, creature.CP(), ballBonus, mods)

	result := &Result{
		Creature:  creature,
		CatchRate: rate,
		BallUsed:  ballID,
		Player:    player,
	}

	if r.src.Float64() <= rate {
		result.Success = true
		if player.CountByName(creature.Name) < constants.MaxSameSpecies {
			player.Creatures = append(player.Creatures, creature)
			player.CaughtCount++
			promote(player)
		} else {
			result.CollectionFull = true
		}
	}

	if err := r.players.Save(ctx, player); err != nil {
		return nil, err
	}

	r.logger.Info().
		Int64("player_id", playerID).
		Str("creature", creature.Name).
		Float64("catch_rate", rate).
		Str("ball", ballID).
		Bool("success", result.Success).
		Bool("collection_full", result.CollectionFull).
		Msg("catch attempt resolved")

	return result, nil
}

// Rate computes the clamped catch probability for a single attempt.
func Rate(league, cp int, ballBonus float64, mods Modifiers) float64 {
	base := constants.BaseCatchRate
	if mods.Boosted {
		base = constants.BoostedBaseCatchRate
	}

	cpFactor := 1 - float64(cp)/1000
	floor := constants.CPFactorFloor
	if mods.Boosted {
		floor = constants.BoostedCPFactorFloor
	}
	if cpFactor < floor {
		cpFactor = floor
	}

	leagueBonus := float64(league-1) * constants.LeagueCatchBonus
	if mods.Boosted {
		leagueBonus *= 2
	}

	rate := base + cpFactor + leagueBonus + ballBonus
	if rate > constants.MaxCatchRate {
		rate = constants.MaxCatchRate
	}
	if mods.Boosted && rate < constants.BoostedMinCatchRate {
		rate = constants.BoostedMinCatchRate
	}
	return rate
}

// consumeBall spends the first held capture item in id order and returns
// its id and effective bonus. Returns zero values when nothing is held.
func consumeBall(player *domain.Player, mods Modifiers) (string, float64) {
	ids := make([]string, 0, len(player.Pokeballs))
	for id := range player.Pokeballs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if player.Pokeballs[id] <= 0 {
			continue
		}
		ball, ok := catalog.PokeballByID(id)
		if !ok {
			continue
		}
		player.Pokeballs[id]--
		if player.Pokeballs[id] <= 0 {
			delete(player.Pokeballs, id)
		}
		bonus := ball.CatchRateBonus
		if mods.Boosted {
			bonus *= constants.BoostedBallFactor
		}
		return id, bonus
	}
	return "", 0
}

// promote advances the league when the caught-count crosses a threshold.
// League tiers never decrease.
func promote(player *domain.Player) {
	if tier := catalog.LeagueFor(player.CaughtCount); tier > player.League {
		player.League = tier
	}
}

package catch

import (
	"context"
	"fmt"
	"strings"

	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"
)

type EvolveResult struct {
	Consumed int
	Evolved  domain.Creature
	Player   *domain.Player
}

// Evolve trades three identically-named creatures for the species' next
// evolution. The evolved creature is appended regardless of the per-species
// cap; that bypass is deliberate.
func (e *Encounters) Evolve(ctx context.Context, playerID int64, name string) (*EvolveResult, error) {
	player, err := e.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.CountByName(name) < constants.EvolveCopies {
		return nil, fmt.Errorf("need %d copies of %s to evolve: %w",
			constants.EvolveCopies, name, game.ErrInsufficientInventory)
	}

	target, err := e.lookup.EvolutionTarget(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s cannot evolve further: %w", name, game.ErrNotFound)
	}

	evolved, err := e.lookup.Lookup(ctx, target)
	if err != nil {
		return nil, err
	}

	removed := 0
	kept := player.Creatures[:0]
	for _, c := range player.Creatures {
		if removed < constants.EvolveCopies && strings.EqualFold(c.Name, name) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	player.Creatures = append(kept, *evolved)

	if err := e.players.Save(ctx, player); err != nil {
		return nil, err
	}

	e.logger.Info().
		Int64("player_id", playerID).
		Str("from", name).
		Str("to", evolved.Name).
		Msg("creature evolved")

	return &EvolveResult{Consumed: removed, Evolved: *evolved, Player: player}, nil
}

// Package profile covers the player-facing record operations: viewing the
// profile and choosing the main creature.
package profile

import (
	"context"
	"fmt"

	"pokebot/internal/domain"
	"pokebot/internal/game"

	"github.com/rs/zerolog"
)

type Service struct {
	players game.PlayerStore
	logger  zerolog.Logger
}

func NewService(players game.PlayerStore, logger zerolog.Logger) *Service {
	return &Service{players: players, logger: logger}
}

// Get returns the player's record, creating it on first contact.
func (s *Service) Get(ctx context.Context, playerID int64) (*domain.Player, error) {
	return s.players.GetOrCreate(ctx, playerID)
}

// SetMain marks an owned creature as the player's main.
func (s *Service) SetMain(ctx context.Context, playerID int64, creatureID string) (*domain.Player, error) {
	player, err := s.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	creature := player.CreatureByID(creatureID)
	if creature == nil {
		return nil, fmt.Errorf("creature not owned by player: %w", game.ErrInvalidState)
	}

	picked := *creature
	player.MainCreature = &picked
	if err := s.players.Save(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("player_id", playerID).
		Str("creature", picked.Name).
		Msg("main creature set")

	return player, nil
}

// SetUsername refreshes the stored display name.
func (s *Service) SetUsername(ctx context.Context, playerID int64, username string) (*domain.Player, error) {
	player, err := s.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Username == username {
		return player, nil
	}
	player.Username = username
	if err := s.players.Save(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

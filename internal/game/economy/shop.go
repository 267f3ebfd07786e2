// Package economy implements the coin sinks and sources: the shop, trainer
// hiring and upgrades, and promocode redemption.
package economy

import (
	"context"
	"fmt"
	"strings"

	"pokebot/internal/catalog"
	"pokebot/internal/domain"
	"pokebot/internal/game"

	"github.com/rs/zerolog"
)

type Service struct {
	players game.PlayerStore
	promos  game.PromoStore
	lookup  game.CreatureLookup
	logger  zerolog.Logger
}

func NewService(players game.PlayerStore, promos game.PromoStore, lookup game.CreatureLookup, logger zerolog.Logger) *Service {
	return &Service{players: players, promos: promos, lookup: lookup, logger: logger}
}

type Purchase struct {
	Item      catalog.Pokeball
	Quantity  int
	TotalCost int
	Player    *domain.Player
}

// BuyPokeball charges unit cost times quantity and adds the items to the
// player's inventory. Rejected without mutation when the balance is short.
func (s *Service) BuyPokeball(ctx context.Context, playerID int64, ballID string, quantity int) (*Purchase, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", game.ErrInvalidState)
	}
	ball, ok := catalog.PokeballByID(ballID)
	if !ok {
		return nil, fmt.Errorf("unknown item %q: %w", ballID, game.ErrNotFound)
	}

	player, err := s.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	totalCost := ball.Cost * quantity
	if player.Balance < totalCost {
		return nil, fmt.Errorf("need %d coins, have %d: %w", totalCost, player.Balance, game.ErrInsufficientFunds)
	}

	player.Credit(-totalCost)
	player.Pokeballs[ballID] += quantity

	if err := s.players.Save(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("player_id", playerID).
		Str("item", ballID).
		Int("quantity", quantity).
		Int("total_cost", totalCost).
		Msg("shop purchase completed")

	return &Purchase{Item: ball, Quantity: quantity, TotalCost: totalCost, Player: player}, nil
}

type TrainerPurchase struct {
	Trainer    catalog.Trainer
	Upgraded   bool
	Level      int
	Cost       int
	CoinReward int
	Player     *domain.Player
}

// BuyTrainer hires a trainer, or upgrades it when the player already holds
// the same trainer id. Acquisition requirements gate first purchase only.
func (s *Service) BuyTrainer(ctx context.Context, playerID int64, trainerID string) (*TrainerPurchase, error) {
	trainer, ok := catalog.TrainerByID(trainerID)
	if !ok {
		return nil, fmt.Errorf("unknown trainer %q: %w", trainerID, game.ErrNotFound)
	}

	player, err := s.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(player.Trainer, trainerID) {
		return s.upgradeTrainer(ctx, player, trainer)
	}

	if player.Balance < trainer.Cost {
		return nil, fmt.Errorf("need %d coins, have %d: %w", trainer.Cost, player.Balance, game.ErrInsufficientFunds)
	}

	if req := trainer.Requires; req != nil {
		if player.League < req.MinLeague {
			return nil, fmt.Errorf("requires league %d: %w", req.MinLeague, game.ErrRequirementsNotMet)
		}
		for _, name := range req.Creatures {
			if player.CountByName(name) == 0 {
				return nil, fmt.Errorf("requires creature %s: %w", name, game.ErrRequirementsNotMet)
			}
		}
	}

	player.Credit(-trainer.Cost)
	player.Trainer = trainer.ID
	player.TrainerLevel = 1
	if trainer.CoinReward > 0 {
		player.Credit(trainer.CoinReward)
	}

	if err := s.players.Save(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("player_id", playerID).
		Str("trainer", trainer.ID).
		Int("cost", trainer.Cost).
		Msg("trainer hired")

	return &TrainerPurchase{
		Trainer:    trainer,
		Level:      1,
		Cost:       trainer.Cost,
		CoinReward: trainer.CoinReward,
		Player:     player,
	}, nil
}

func (s *Service) upgradeTrainer(ctx context.Context, player *domain.Player, trainer catalog.Trainer) (*TrainerPurchase, error) {
	if trainer.UpgradeCost == 0 {
		return nil, fmt.Errorf("trainer %s cannot be upgraded: %w", trainer.ID, game.ErrInvalidState)
	}
	if player.Balance < trainer.UpgradeCost {
		return nil, fmt.Errorf("need %d coins, have %d: %w", trainer.UpgradeCost, player.Balance, game.ErrInsufficientFunds)
	}

	player.Credit(-trainer.UpgradeCost)
	player.TrainerLevel++

	if err := s.players.Save(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("player_id", player.PlayerID).
		Str("trainer", trainer.ID).
		Int("level", player.TrainerLevel).
		Msg("trainer upgraded")

	return &TrainerPurchase{
		Trainer:  trainer,
		Upgraded: true,
		Level:    player.TrainerLevel,
		Cost:     trainer.UpgradeCost,
		Player:   player,
	}, nil
}

package economy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pokebot/internal/catalog"
	"pokebot/internal/domain"
	"pokebot/internal/game"

	"golang.org/x/sync/errgroup"
)

type Redemption struct {
	Code    string
	Reward  domain.Reward
	Granted []domain.Creature
	Player  *domain.Player
}

// Redeem applies a promocode to the player. A code is rejected when
// unknown, expired, exhausted, or already on the player's redeemed list;
// rejection leaves both the code and the player untouched.
func (s *Service) Redeem(ctx context.Context, playerID int64, code string) (*Redemption, error) {
	promo, err := s.promos.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if !promo.Valid(time.Now()) {
		return nil, fmt.Errorf("promocode expired or exhausted: %w", game.ErrInvalidState)
	}

	player, err := s.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.HasRedeemed(code) {
		return nil, fmt.Errorf("promocode %s: %w", code, game.ErrAlreadyRedeemed)
	}

	granted, err := s.applyReward(ctx, player, promo.Reward)
	if err != nil {
		return nil, err
	}

	player.UsedPromos = append(player.UsedPromos, code)
	promo.UseCount++

	if err := s.players.Save(ctx, player); err != nil {
		return nil, err
	}
	if err := s.promos.Save(ctx, promo); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("player_id", playerID).
		Str("code", code).
		Str("reward_kind", string(promo.Reward.Kind)).
		Msg("promocode redeemed")

	return &Redemption{Code: code, Reward: promo.Reward, Granted: granted, Player: player}, nil
}

func (s *Service) applyReward(ctx context.Context, player *domain.Player, reward domain.Reward) ([]domain.Creature, error) {
	switch reward.Kind {
	case domain.RewardCoins:
		player.Credit(reward.Amount)
		return nil, nil

	case domain.RewardCreature:
		quantity := reward.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		granted, err := s.fetchCreatures(ctx, reward.Name, quantity)
		if err != nil {
			return nil, err
		}
		player.Creatures = append(player.Creatures, granted...)
		return granted, nil

	case domain.RewardTrainer:
		if _, ok := catalog.TrainerByID(reward.RefID); !ok {
			return nil, fmt.Errorf("reward trainer %q: %w", reward.RefID, game.ErrNotFound)
		}
		player.Trainer = reward.RefID
		if player.TrainerLevel < 1 {
			player.TrainerLevel = 1
		}
		return nil, nil

	case domain.RewardCustomCreature:
		creature, err := s.lookup.Lookup(ctx, reward.RefID)
		if err != nil {
			return nil, err
		}
		creature.Custom = true
		player.Creatures = append(player.Creatures, *creature)
		return []domain.Creature{*creature}, nil
	}

	return nil, fmt.Errorf("unknown reward kind %q: %w", reward.Kind, game.ErrInvalidState)
}

// fetchCreatures resolves quantity fresh creatures of a species from the
// lookup collaborator, in parallel. Each gets its own identity.
func (s *Service) fetchCreatures(ctx context.Context, name string, quantity int) ([]domain.Creature, error) {
	var (
		mu      sync.Mutex
		granted []domain.Creature
	)
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < quantity; i++ {
		g.Go(func() error {
			creature, err := s.lookup.Lookup(gCtx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			granted = append(granted, *creature)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return granted, nil
}

// CreatePromocode registers a new code. Codes are case-sensitive and
// never overwritten.
func (s *Service) CreatePromocode(ctx context.Context, promo *domain.Promocode) error {
	if promo.Code == "" {
		return fmt.Errorf("promocode needs a code: %w", game.ErrInvalidState)
	}
	if _, err := s.promos.Get(ctx, promo.Code); err == nil {
		return fmt.Errorf("promocode %s already exists: %w", promo.Code, game.ErrInvalidState)
	}
	if promo.CreatedAt.IsZero() {
		promo.CreatedAt = time.Now()
	}
	return s.promos.Save(ctx, promo)
}

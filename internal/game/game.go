// Package game defines the contracts shared by the rule packages: the
// error taxonomy surfaced to the transport layer, the storage collaborator
// interfaces, and the randomness source injected into resolvers.
package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"pokebot/internal/domain"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidState          = errors.New("invalid state")
	ErrUnauthorized          = errors.New("player is not a participant")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrOnCooldown            = errors.New("on cooldown")
	ErrRequirementsNotMet    = errors.New("requirements not met")
	ErrAlreadyRedeemed       = errors.New("promocode already redeemed")
)

type PlayerStore interface {
	Get(ctx context.Context, playerID int64) (*domain.Player, error)
	GetOrCreate(ctx context.Context, playerID int64) (*domain.Player, error)
	Save(ctx context.Context, player *domain.Player) error
	List(ctx context.Context) ([]domain.Player, error)
}

type TradeStore interface {
	Get(ctx context.Context, tradeID string) (*domain.TradeSession, error)
	Save(ctx context.Context, session *domain.TradeSession) error
	Delete(ctx context.Context, tradeID string) error
}

type BattleStore interface {
	Get(ctx context.Context, battleID string) (*domain.BattleSession, error)
	Save(ctx context.Context, session *domain.BattleSession) error
	Delete(ctx context.Context, battleID string) error
}

type PromoStore interface {
	Get(ctx context.Context, code string) (*domain.Promocode, error)
	Save(ctx context.Context, promo *domain.Promocode) error
}

// CreatureLookup is the remote catalog collaborator. Lookup failures,
// timeouts included, surface as ErrNotFound; the rules never retry.
type CreatureLookup interface {
	Lookup(ctx context.Context, key string) (*domain.Creature, error)
	EvolutionTarget(ctx context.Context, name string) (string, error)
}

// Source supplies the random draws used by the resolvers so tests can pin
// outcomes.
type Source interface {
	Intn(n int) int
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func NewSource() Source {
	return &lockedSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Package gametest provides in-memory store fakes and a scripted random
// source for exercising the game services without a database or network.
package gametest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"
)

// Players is a map-backed game.PlayerStore. Get hands out copies so a test
// can tell mutated-but-not-saved state apart from persisted state.
type Players struct {
	mu      sync.Mutex
	byID    map[int64]*domain.Player
	SaveErr error
}

func NewPlayers(seed ...*domain.Player) *Players {
	s := &Players{byID: map[int64]*domain.Player{}}
	for _, p := range seed {
		s.byID[p.PlayerID] = clone(p)
	}
	return s
}

func clone(p *domain.Player) *domain.Player {
	raw, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	var out domain.Player
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	if out.Pokeballs == nil {
		out.Pokeballs = map[string]int{}
	}
	return &out
}

func (s *Players) Get(_ context.Context, playerID int64) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[playerID]
	if !ok {
		return nil, fmt.Errorf("player %d: %w", playerID, game.ErrNotFound)
	}
	return clone(p), nil
}

func (s *Players) GetOrCreate(_ context.Context, playerID int64) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byID[playerID]; ok {
		return clone(p), nil
	}
	p := domain.NewPlayer(playerID, constants.StartingBalance)
	s.byID[playerID] = clone(p)
	return p, nil
}

func (s *Players) Save(_ context.Context, player *domain.Player) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[player.PlayerID] = clone(player)
	return nil
}

func (s *Players) List(_ context.Context) ([]domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Player, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, *clone(p))
	}
	return out, nil
}

// Saved returns the persisted record, bypassing the store interface.
func (s *Players) Saved(playerID int64) *domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[playerID]
	if !ok {
		return nil
	}
	return clone(p)
}

type Trades struct {
	mu   sync.Mutex
	byID map[string]*domain.TradeSession
}

func NewTrades() *Trades {
	return &Trades{byID: map[string]*domain.TradeSession{}}
}

func (s *Trades) Get(_ context.Context, tradeID string) (*domain.TradeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[tradeID]
	if !ok {
		return nil, fmt.Errorf("trade %s: %w", tradeID, game.ErrNotFound)
	}
	copied := *t
	copied.InitiatorOffer = append([]string(nil), t.InitiatorOffer...)
	copied.PartnerOffer = append([]string(nil), t.PartnerOffer...)
	return &copied, nil
}

func (s *Trades) Save(_ context.Context, session *domain.TradeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	copied.InitiatorOffer = append([]string(nil), session.InitiatorOffer...)
	copied.PartnerOffer = append([]string(nil), session.PartnerOffer...)
	s.byID[session.TradeID] = &copied
	return nil
}

func (s *Trades) Delete(_ context.Context, tradeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, tradeID)
	return nil
}

type Battles struct {
	mu   sync.Mutex
	byID map[string]*domain.BattleSession
}

func NewBattles() *Battles {
	return &Battles{byID: map[string]*domain.BattleSession{}}
}

func (s *Battles) Get(_ context.Context, battleID string) (*domain.BattleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[battleID]
	if !ok {
		return nil, fmt.Errorf("battle %s: %w", battleID, game.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}

func (s *Battles) Save(_ context.Context, session *domain.BattleSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.byID[session.BattleID] = &copied
	return nil
}

func (s *Battles) Delete(_ context.Context, battleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, battleID)
	return nil
}

// Exists reports whether a session is still stored.
func (s *Battles) Exists(battleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[battleID]
	return ok
}

type Promos struct {
	mu     sync.Mutex
	byCode map[string]*domain.Promocode
}

func NewPromos(seed ...*domain.Promocode) *Promos {
	s := &Promos{byCode: map[string]*domain.Promocode{}}
	for _, p := range seed {
		copied := *p
		s.byCode[p.Code] = &copied
	}
	return s
}

func (s *Promos) Get(_ context.Context, code string) (*domain.Promocode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byCode[code]
	if !ok {
		return nil, fmt.Errorf("promocode %s: %w", code, game.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (s *Promos) Save(_ context.Context, promo *domain.Promocode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *promo
	s.byCode[promo.Code] = &copied
	return nil
}

// Lookup is a game.CreatureLookup backed by fixed creatures keyed by
// lowercase name or numeric id string.
type Lookup struct {
	Creatures  map[string]domain.Creature
	Evolutions map[string]string
}

func (l *Lookup) Lookup(_ context.Context, key string) (*domain.Creature, error) {
	c, ok := l.Creatures[key]
	if !ok {
		return nil, fmt.Errorf("creature %s: %w", key, game.ErrNotFound)
	}
	copied := c
	return &copied, nil
}

func (l *Lookup) EvolutionTarget(_ context.Context, name string) (string, error) {
	next, ok := l.Evolutions[name]
	if !ok {
		return "", fmt.Errorf("no evolution for %s: %w", name, game.ErrNotFound)
	}
	return next, nil
}

// Source replays scripted values. When a queue runs dry it falls back to
// zero, which keeps deterministic tests short.
type Source struct {
	mu     sync.Mutex
	Ints   []int
	Floats []float64
}

func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

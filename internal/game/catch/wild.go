package catch

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"

	"github.com/rs/zerolog"
)

// Wild is a creature waiting to be caught in a chat. At most one per chat.
type Wild struct {
	Creature  domain.Creature
	SpawnedAt time.Time
}

// WildStore tracks pending encounters per chat. Production uses the
// process-local MemoryWildStore; a restart clears all encounters.
type WildStore interface {
	Get(chatID int64) (*Wild, bool)
	Set(chatID int64, w *Wild)
	Delete(chatID int64)
}

type MemoryWildStore struct {
	mu    sync.RWMutex
	wilds map[int64]*Wild
}

func NewMemoryWildStore() *MemoryWildStore {
	return &MemoryWildStore{wilds: map[int64]*Wild{}}
}

func (s *MemoryWildStore) Get(chatID int64) (*Wild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wilds[chatID]
	return w, ok
}

func (s *MemoryWildStore) Set(chatID int64, w *Wild) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wilds[chatID] = w
}

func (s *MemoryWildStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wilds, chatID)
}

// Encounters drives the summon/catch flow around the resolver.
type Encounters struct {
	resolver *Resolver
	players  game.PlayerStore
	lookup   game.CreatureLookup
	wilds    WildStore
	src      game.Source
	logger   zerolog.Logger
}

func NewEncounters(resolver *Resolver, players game.PlayerStore, lookup game.CreatureLookup, wilds WildStore, src game.Source, logger zerolog.Logger) *Encounters {
	return &Encounters{
		resolver: resolver,
		players:  players,
		lookup:   lookup,
		wilds:    wilds,
		src:      src,
		logger:   logger,
	}
}

// Summon charges the player and spawns a random wild creature in the chat.
// Fails without charging when a wild creature is already present or the
// lookup collaborator cannot produce one.
func (e *Encounters) Summon(ctx context.Context, chatID, playerID int64) (*Wild, error) {
	if w, ok := e.wilds.Get(chatID); ok && time.Since(w.SpawnedAt) < constants.WildExpiry {
		return nil, fmt.Errorf("a wild creature is already here: %w", game.ErrInvalidState)
	}

	player, err := e.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Balance < constants.SummonCost {
		return nil, fmt.Errorf("summon costs %d coins: %w", constants.SummonCost, game.ErrInsufficientFunds)
	}

	creature, err := e.lookup.Lookup(ctx, strconv.Itoa(e.src.Intn(constants.CatalogListLimit)+1))
	if err != nil {
		return nil, err
	}

	player.Credit(-constants.SummonCost)
	if err := e.players.Save(ctx, player); err != nil {
		return nil, err
	}

	wild := &Wild{Creature: *creature, SpawnedAt: time.Now()}
	e.wilds.Set(chatID, wild)

	e.logger.Info().
		Int64("chat_id", chatID).
		Int64("player_id", playerID).
		Str("creature", creature.Name).
		Msg("wild creature summoned")

	return wild, nil
}

// Spawn places a wild creature without charging anyone. Used by the admin
// surface and scheduled spawns.
func (e *Encounters) Spawn(ctx context.Context, chatID int64, key string) (*Wild, error) {
	creature, err := e.lookup.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	wild := &Wild{Creature: *creature, SpawnedAt: time.Now()}
	e.wilds.Set(chatID, wild)
	return wild, nil
}

// AttemptWild runs a catch attempt against the chat's pending wild
// creature. The encounter is cleared whatever the outcome; an expired
// encounter counts as absent.
func (e *Encounters) AttemptWild(ctx context.Context, chatID, playerID int64, mods Modifiers) (*Result, error) {
	wild, ok := e.wilds.Get(chatID)
	if !ok || time.Since(wild.SpawnedAt) >= constants.WildExpiry {
		e.wilds.Delete(chatID)
		return nil, fmt.Errorf("no wild creature in this chat: %w", game.ErrNotFound)
	}
	e.wilds.Delete(chatID)

	return e.resolver.Attempt(ctx, playerID, wild.Creature, mods)
}

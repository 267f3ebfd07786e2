// Package arcade implements the coin mini-games: dice, slots, guess the
// number, the quiz, and the daily bonus. Each game has an independent
// per-player cooldown held in an injected store; cooldowns are process
// local and a restart clears them.
package arcade

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"

	"github.com/rs/zerolog"
)

// CooldownStore records when a player last played each game.
type CooldownStore interface {
	Last(playerID int64, gameName string) (time.Time, bool)
	Set(playerID int64, gameName string, playedAt time.Time)
}

type cooldownKey struct {
	playerID int64
	gameName string
}

type MemoryCooldowns struct {
	mu   sync.RWMutex
	last map[cooldownKey]time.Time
}

func NewMemoryCooldowns() *MemoryCooldowns {
	return &MemoryCooldowns{last: map[cooldownKey]time.Time{}}
}

func (s *MemoryCooldowns) Last(playerID int64, gameName string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.last[cooldownKey{playerID, gameName}]
	return t, ok
}

func (s *MemoryCooldowns) Set(playerID int64, gameName string, playedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[cooldownKey{playerID, gameName}] = playedAt
}

type Payout struct {
	Game   string
	Won    int
	Detail string
	Player *domain.Player
}

type Arcade struct {
	players   game.PlayerStore
	cooldowns CooldownStore
	pending   PendingStore
	src       game.Source
	logger    zerolog.Logger
}

func New(players game.PlayerStore, cooldowns CooldownStore, pending PendingStore, src game.Source, logger zerolog.Logger) *Arcade {
	return &Arcade{players: players, cooldowns: cooldowns, pending: pending, src: src, logger: logger}
}

var cooldownWindows = map[string]time.Duration{
	"dice":  constants.DiceCooldown,
	"slots": constants.SlotsCooldown,
	"guess": constants.GuessCooldown,
	"quiz":  constants.QuizCooldown,
	"daily": constants.DailyCooldown,
}

// Remaining returns the wait left before the player may play again.
func (a *Arcade) Remaining(playerID int64, gameName string) time.Duration {
	last, ok := a.cooldowns.Last(playerID, gameName)
	if !ok {
		return 0
	}
	remaining := cooldownWindows[gameName] - time.Since(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (a *Arcade) checkCooldown(playerID int64, gameName string) error {
	if remaining := a.Remaining(playerID, gameName); remaining > 0 {
		return fmt.Errorf("%s available in %s: %w", gameName, remaining.Round(time.Second), game.ErrOnCooldown)
	}
	return nil
}

func (a *Arcade) payout(ctx context.Context, playerID int64, gameName string, won int, detail string) (*Payout, error) {
	player, err := a.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}
	player.Credit(won)
	if err := a.players.Save(ctx, player); err != nil {
		return nil, err
	}
	a.cooldowns.Set(playerID, gameName, time.Now())

	a.logger.Info().
		Int64("player_id", playerID).
		Str("game", gameName).
		Int("won", won).
		Msg("mini-game played")

	return &Payout{Game: gameName, Won: won, Detail: detail, Player: player}, nil
}

// Dice rolls one die and pays ten coins per pip.
func (a *Arcade) Dice(ctx context.Context, playerID int64) (*Payout, error) {
	if err := a.checkCooldown(playerID, "dice"); err != nil {
		return nil, err
	}
	roll := a.src.Intn(6) + 1
	return a.payout(ctx, playerID, "dice", roll*10, fmt.Sprintf("rolled %d", roll))
}

var slotSymbols = []struct {
	symbol string
	weight int
}{
	{"grapes", 20},
	{"orange", 20},
	{"cherry", 20},
	{"lemon", 15},
	{"melon", 15},
	{"berry", 8},
	{"diamond", 2},
}

func (a *Arcade) spinSymbol() string {
	total := 0
	for _, s := range slotSymbols {
		total += s.weight
	}
	draw := a.src.Intn(total)
	for _, s := range slotSymbols {
		draw -= s.weight
		if draw < 0 {
			return s.symbol
		}
	}
	return slotSymbols[0].symbol
}

// Slots spins three weighted reels. Triples pay 100 (500 for diamonds),
// pairs pay 20 (100 for a diamond pair), stray diamonds pay 10 each.
func (a *Arcade) Slots(ctx context.Context, playerID int64) (*Payout, error) {
	if err := a.checkCooldown(playerID, "slots"); err != nil {
		return nil, err
	}

	reels := [3]string{a.spinSymbol(), a.spinSymbol(), a.spinSymbol()}
	won := slotsPayout(reels)
	detail := fmt.Sprintf("%s | %s | %s", reels[0], reels[1], reels[2])
	return a.payout(ctx, playerID, "slots", won, detail)
}

func slotsPayout(reels [3]string) int {
	diamonds := 0
	for _, r := range reels {
		if r == "diamond" {
			diamonds++
		}
	}

	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		if reels[0] == "diamond" {
			return 500
		}
		return 100
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		if diamonds == 2 {
			return 100
		}
		return 20
	case diamonds > 0:
		return 10 * diamonds
	}
	return 0
}

// Daily pays the daily bonus scaled by league, with a 10% chance to double.
func (a *Arcade) Daily(ctx context.Context, playerID int64) (*Payout, error) {
	if err := a.checkCooldown(playerID, "daily"); err != nil {
		return nil, err
	}

	player, err := a.players.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	bonus := int(float64(constants.DailyBaseBonus) * (1 + float64(player.League)*0.2))
	detail := "daily bonus"
	if a.src.Float64() < 0.1 {
		bonus *= 2
		detail = "double daily bonus"
	}
	return a.payout(ctx, playerID, "daily", bonus, detail)
}

package arcade

import (
	"context"
	"testing"
	"time"

	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"
	"pokebot/internal/game/gametest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArcade(players *gametest.Players, src *gametest.Source) (*Arcade, *MemoryCooldowns) {
	cooldowns := NewMemoryCooldowns()
	return New(players, cooldowns, NewMemoryPending(), src, zerolog.Nop()), cooldowns
}

func TestDicePaysTenPerPip(t *testing.T) {
	players := gametest.NewPlayers()
	arc, _ := newArcade(players, &gametest.Source{Ints: []int{3}})

	payout, err := arc.Dice(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 40, payout.Won, "a roll of 4 pays 40")
	assert.Equal(t, constants.StartingBalance+40, players.Saved(7).Balance)
}

func TestDiceCooldown(t *testing.T) {
	players := gametest.NewPlayers()
	arc, cooldowns := newArcade(players, &gametest.Source{Ints: []int{0, 0}})
	ctx := context.Background()

	_, err := arc.Dice(ctx, 7)
	require.NoError(t, err)

	_, err = arc.Dice(ctx, 7)
	require.ErrorIs(t, err, game.ErrOnCooldown)

	remaining := arc.Remaining(7, "dice")
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, constants.DiceCooldown)

	// An elapsed window frees the game again.
	cooldowns.Set(7, "dice", time.Now().Add(-constants.DiceCooldown-time.Second))
	_, err = arc.Dice(ctx, 7)
	assert.NoError(t, err)
}

func TestCooldownsArePerGameAndPerPlayer(t *testing.T) {
	players := gametest.NewPlayers()
	arc, _ := newArcade(players, &gametest.Source{Ints: []int{0, 0, 0}, Floats: []float64{0.5}})
	ctx := context.Background()

	_, err := arc.Dice(ctx, 7)
	require.NoError(t, err)

	_, err = arc.Daily(ctx, 7)
	assert.NoError(t, err, "dice cooldown does not block the daily bonus")

	_, err = arc.Dice(ctx, 8)
	assert.NoError(t, err, "another player is unaffected")
}

func TestSlotsPayout(t *testing.T) {
	tests := []struct {
		name  string
		reels [3]string
		want  int
	}{
		{"triple", [3]string{"cherry", "cherry", "cherry"}, 100},
		{"diamond triple", [3]string{"diamond", "diamond", "diamond"}, 500},
		{"pair", [3]string{"lemon", "lemon", "melon"}, 20},
		{"split pair", [3]string{"lemon", "melon", "lemon"}, 20},
		{"diamond pair", [3]string{"diamond", "berry", "diamond"}, 100},
		{"one stray diamond", [3]string{"diamond", "lemon", "melon"}, 10},
		{"nothing", [3]string{"grapes", "orange", "cherry"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slotsPayout(tt.reels))
		})
	}
}

func TestSlotsSpin(t *testing.T) {
	players := gametest.NewPlayers()
	// Draws of 0 land on the first symbol three times: a grapes triple.
	arc, _ := newArcade(players, &gametest.Source{Ints: []int{0, 0, 0}})

	payout, err := arc.Slots(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 100, payout.Won)
	assert.Equal(t, "grapes | grapes | grapes", payout.Detail)
}

func TestSpinSymbolWeights(t *testing.T) {
	arc, _ := newArcade(gametest.NewPlayers(), &gametest.Source{Ints: []int{0, 19, 20, 97, 98}})

	assert.Equal(t, "grapes", arc.spinSymbol())
	assert.Equal(t, "grapes", arc.spinSymbol())
	assert.Equal(t, "orange", arc.spinSymbol())
	assert.Equal(t, "berry", arc.spinSymbol())
	assert.Equal(t, "diamond", arc.spinSymbol())
}

func TestDailyScalesWithLeague(t *testing.T) {
	veteran := domain.NewPlayer(7, 0)
	veteran.League = 3
	players := gametest.NewPlayers(veteran)
	arc, _ := newArcade(players, &gametest.Source{Floats: []float64{0.5}})

	payout, err := arc.Daily(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 160, payout.Won)
	assert.Equal(t, "daily bonus", payout.Detail)
}

func TestDailyDoubles(t *testing.T) {
	players := gametest.NewPlayers()
	arc, _ := newArcade(players, &gametest.Source{Floats: []float64{0.05}})

	payout, err := arc.Daily(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 240, payout.Won, "league one bonus of 120 doubled")
	assert.Equal(t, "double daily bonus", payout.Detail)
}

func TestGuessRound(t *testing.T) {
	players := gametest.NewPlayers()
	arc, _ := newArcade(players, &gametest.Source{Ints: []int{6}})
	ctx := context.Background()

	round, err := arc.StartGuess(7)
	require.NoError(t, err)
	assert.Equal(t, "guess", round.Game)
	assert.Equal(t, 7, round.Secret)

	payout, err := arc.AnswerGuess(ctx, 7, 7)
	require.NoError(t, err)
	assert.Equal(t, constants.GuessReward, payout.Won)

	_, err = arc.AnswerGuess(ctx, 7, 7)
	assert.ErrorIs(t, err, game.ErrNotFound, "a round is answered exactly once")
}

func TestGuessWrongAnswerStillStartsCooldown(t *testing.T) {
	players := gametest.NewPlayers()
	arc, _ := newArcade(players, &gametest.Source{Ints: []int{6}})
	ctx := context.Background()

	_, err := arc.StartGuess(7)
	require.NoError(t, err)

	payout, err := arc.AnswerGuess(ctx, 7, 1)
	require.NoError(t, err)
	assert.Zero(t, payout.Won)

	_, err = arc.StartGuess(7)
	assert.ErrorIs(t, err, game.ErrOnCooldown)
}

func TestQuizRound(t *testing.T) {
	players := gametest.NewPlayers()
	arc, _ := newArcade(players, &gametest.Source{Ints: []int{0}})
	ctx := context.Background()

	round, err := arc.StartQuiz(7)
	require.NoError(t, err)
	assert.Equal(t, "quiz", round.Game)
	assert.Len(t, round.Options, 4)

	payout, err := arc.AnswerQuiz(ctx, 7, round.Secret)
	require.NoError(t, err)
	assert.Equal(t, constants.QuizReward, payout.Won)
}

func TestQuizWrongAnswer(t *testing.T) {
	players := gametest.NewPlayers()
	arc, _ := newArcade(players, &gametest.Source{Ints: []int{1}})
	ctx := context.Background()

	round, err := arc.StartQuiz(7)
	require.NoError(t, err)

	payout, err := arc.AnswerQuiz(ctx, 7, round.Secret+1)
	require.NoError(t, err)
	assert.Zero(t, payout.Won)
	assert.Equal(t, constants.StartingBalance, players.Saved(7).Balance)
}

func TestAnswerWithoutRound(t *testing.T) {
	arc, _ := newArcade(gametest.NewPlayers(), &gametest.Source{})

	_, err := arc.AnswerGuess(context.Background(), 7, 3)
	assert.ErrorIs(t, err, game.ErrNotFound)

	_, err = arc.AnswerQuiz(context.Background(), 7, 0)
	assert.ErrorIs(t, err, game.ErrNotFound)
}

package battle

import (
	"context"
	"testing"

	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"
	"pokebot/internal/game/gametest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerWith(id int64, creatures ...domain.Creature) *domain.Player {
	p := domain.NewPlayer(id, constants.StartingBalance)
	p.Creatures = creatures
	return p
}

func creature(id, name string, attack, defense, hp int) domain.Creature {
	return domain.Creature{CreatureID: id, Name: name, Attack: attack, Defense: defense, HP: hp}
}

func TestPower(t *testing.T) {
	weak := creature("c1", "magikarp", 10, 55, 20)

	t.Run("no trainer league one", func(t *testing.T) {
		p := domain.NewPlayer(1, 0)
		assert.Equal(t, weak.CP(), Power(p, &weak))
	})

	t.Run("trainer multiplier", func(t *testing.T) {
		p := domain.NewPlayer(1, 0)
		p.Trainer = "brock"
		want := int(float64(weak.CP()) * 1.1)
		assert.Equal(t, want, Power(p, &weak))
	})

	t.Run("league flat bonuses", func(t *testing.T) {
		p := domain.NewPlayer(1, 0)
		p.League = 3
		// Tier 3 grants 100 to each of the three stats.
		assert.Equal(t, weak.CP()+300, Power(p, &weak))
	})
}

func TestBattleFlow(t *testing.T) {
	strong := creature("c-strong", "dragonite", 134, 95, 91)
	feeble := creature("c-feeble", "caterpie", 30, 35, 45)

	players := gametest.NewPlayers(playerWith(1, strong), playerWith(2, feeble))
	battles := gametest.NewBattles()
	src := &gametest.Source{Floats: []float64{0.5}}
	svc := NewService(players, battles, src, zerolog.Nop())
	ctx := context.Background()

	session, err := svc.Challenge(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.BattleChallenge, session.Status)

	session, err = svc.Respond(ctx, session.BattleID, 2, true)
	require.NoError(t, err)
	assert.Equal(t, domain.BattleSelecting, session.Status)

	session, result, err := svc.Select(ctx, session.BattleID, 1, "c-strong")
	require.NoError(t, err)
	assert.Nil(t, result, "no resolution until both sides pick")
	assert.True(t, session.ChallengerReady)

	session, result, err = svc.Select(ctx, session.BattleID, 2, "c-feeble")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.BattleResolved, session.Status)

	assert.Equal(t, int64(1), result.WinnerID)
	assert.Equal(t, int64(2), result.LoserID)
	assert.Greater(t, result.ChallengerPower, result.OpponentPower)

	// Flat 0.5 draw means the reward factor is exactly 1.0.
	diff := result.ChallengerPower - result.OpponentPower
	bonus := float64(diff) / 10
	if bonus > constants.BattlePowerBonusCap {
		bonus = constants.BattlePowerBonusCap
	}
	assert.Equal(t, int(constants.BattleBaseReward+bonus), result.Reward)

	winner := players.Saved(1)
	assert.Equal(t, constants.StartingBalance+result.Reward, winner.Balance)
	assert.Equal(t, constants.StartingBalance, players.Saved(2).Balance)

	assert.False(t, battles.Exists(session.BattleID), "resolved session removed")
}

func TestTiesFavorOpponent(t *testing.T) {
	mirror := creature("c1", "ditto", 48, 48, 48)
	mirror2 := creature("c2", "ditto", 48, 48, 48)

	players := gametest.NewPlayers(playerWith(1, mirror), playerWith(2, mirror2))
	battles := gametest.NewBattles()
	svc := NewService(players, battles, &gametest.Source{Floats: []float64{0}}, zerolog.Nop())
	ctx := context.Background()

	session, err := svc.Challenge(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, session.BattleID, 2, true)
	require.NoError(t, err)
	_, _, err = svc.Select(ctx, session.BattleID, 1, "c1")
	require.NoError(t, err)
	_, result, err := svc.Select(ctx, session.BattleID, 2, "c2")
	require.NoError(t, err)

	require.NotNil(t, result)
	assert.Equal(t, result.ChallengerPower, result.OpponentPower)
	assert.Equal(t, int64(2), result.WinnerID, "equal power goes to the defender")
}

func TestChallengeValidation(t *testing.T) {
	armed := playerWith(1, creature("c1", "pikachu", 55, 40, 35))
	unarmed := domain.NewPlayer(2, constants.StartingBalance)
	players := gametest.NewPlayers(armed, unarmed)
	svc := NewService(players, gametest.NewBattles(), &gametest.Source{}, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Challenge(ctx, 1, 1)
	assert.ErrorIs(t, err, game.ErrInvalidState)

	_, err = svc.Challenge(ctx, 1, 2)
	assert.ErrorIs(t, err, game.ErrInvalidState)

	_, err = svc.Challenge(ctx, 2, 1)
	assert.ErrorIs(t, err, game.ErrInvalidState)
}

func TestRespondOnlyByAddressedOpponent(t *testing.T) {
	players := gametest.NewPlayers(
		playerWith(1, creature("c1", "pikachu", 55, 40, 35)),
		playerWith(2, creature("c2", "meowth", 45, 35, 40)),
	)
	svc := NewService(players, gametest.NewBattles(), &gametest.Source{}, zerolog.Nop())
	ctx := context.Background()

	session, err := svc.Challenge(ctx, 1, 2)
	require.NoError(t, err)

	_, err = svc.Respond(ctx, session.BattleID, 1, true)
	assert.ErrorIs(t, err, game.ErrUnauthorized)

	_, err = svc.Respond(ctx, session.BattleID, 99, true)
	assert.ErrorIs(t, err, game.ErrUnauthorized)

	session, err = svc.Respond(ctx, session.BattleID, 2, false)
	require.NoError(t, err)
	assert.Equal(t, domain.BattleDeclined, session.Status)

	_, _, err = svc.Select(ctx, session.BattleID, 1, "c1")
	assert.ErrorIs(t, err, game.ErrInvalidState, "declined session stays inert")
}

func TestSelectRequiresOwnedCreature(t *testing.T) {
	players := gametest.NewPlayers(
		playerWith(1, creature("c1", "pikachu", 55, 40, 35)),
		playerWith(2, creature("c2", "meowth", 45, 35, 40)),
	)
	svc := NewService(players, gametest.NewBattles(), &gametest.Source{}, zerolog.Nop())
	ctx := context.Background()

	session, err := svc.Challenge(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, session.BattleID, 2, true)
	require.NoError(t, err)

	_, _, err = svc.Select(ctx, session.BattleID, 1, "c2")
	assert.ErrorIs(t, err, game.ErrInvalidState)

	_, _, err = svc.Select(ctx, session.BattleID, 99, "c1")
	assert.ErrorIs(t, err, game.ErrUnauthorized)
}

func TestRewardBounds(t *testing.T) {
	for _, draw := range []float64{0, 0.25, 0.5, 0.75, 0.999} {
		svc := NewService(nil, nil, &gametest.Source{Floats: []float64{draw}}, zerolog.Nop())

		got := svc.reward(300, 200)
		assert.GreaterOrEqual(t, got, 408)
		assert.LessOrEqual(t, got, 612)
	}

	// Power gap contribution is capped.
	svc := NewService(nil, nil, &gametest.Source{Floats: []float64{0.5}}, zerolog.Nop())
	assert.Equal(t, 1500, svc.reward(100000, 0))

	// A defender win with lower power still pays the base reward.
	svc = NewService(nil, nil, &gametest.Source{Floats: []float64{0.5}}, zerolog.Nop())
	assert.Equal(t, 500, svc.reward(100, 200))
}

package economy

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

func newShop(players *gametest.Players) *Service {
	return NewService(players, gametest.NewPromos(), &gametest.Lookup{}, zerolog.Nop())
}

func TestBuyPokeball(t *testing.T) {
	players := gametest.NewPlayers()
	svc := newShop(players)

	// The starting balance covers exactly five basic balls plus change.
	purchase, err := svc.BuyPokeball(context.Background(), 7, "pokeball", 5)
	require.NoError(t, err)

	assert.Equal(t, 2500, purchase.TotalCost)
	assert.Equal(t, "pokeball", purchase.Item.ID)

	saved := players.Saved(7)
	assert.Equal(t, constants.StartingBalance-2500, saved.Balance)
	assert.Equal(t, 5, saved.Pokeballs["pokeball"])
}

func TestBuyPokeballInsufficientFunds(t *testing.T) {
	players := gametest.NewPlayers()
	svc := newShop(players)

	_, err := svc.BuyPokeball(context.Background(), 7, "masterball", 1)
	require.ErrorIs(t, err, game.ErrInsufficientFunds)

	saved := players.Saved(7)
	assert.Equal(t, constants.StartingBalance, saved.Balance, "rejected purchase leaves the balance alone")
	assert.Empty(t, saved.Pokeballs)
}

func TestBuyPokeballValidation(t *testing.T) {
	svc := newShop(gametest.NewPlayers())

	_, err := svc.BuyPokeball(context.Background(), 7, "pokeball", 0)
	assert.ErrorIs(t, err, game.ErrInvalidState)

	_, err = svc.BuyPokeball(context.Background(), 7, "pokeball", -3)
	assert.ErrorIs(t, err, game.ErrInvalidState)

	_, err = svc.BuyPokeball(context.Background(), 7, "beachball", 1)
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestBuyTrainer(t *testing.T) {
	rich := domain.NewPlayer(7, 300000)
	players := gametest.NewPlayers(rich)
	svc := newShop(players)

	purchase, err := svc.BuyTrainer(context.Background(), 7, "brock")
	require.NoError(t, err)

	assert.False(t, purchase.Upgraded)
	assert.Equal(t, 1, purchase.Level)

	saved := players.Saved(7)
	assert.Equal(t, "brock", saved.Trainer)
	assert.Equal(t, 1, saved.TrainerLevel)
	assert.Equal(t, 100000, saved.Balance)
}

func TestBuyTrainerUpgradesHeldTrainer(t *testing.T) {
	holder := domain.NewPlayer(7, 500000)
	holder.Trainer = "brock"
	holder.TrainerLevel = 1
	players := gametest.NewPlayers(holder)
	svc := newShop(players)

	purchase, err := svc.BuyTrainer(context.Background(), 7, "brock")
	require.NoError(t, err)

	assert.True(t, purchase.Upgraded)
	assert.Equal(t, 2, purchase.Level)

	saved := players.Saved(7)
	assert.Equal(t, 2, saved.TrainerLevel)
	assert.Equal(t, 300000, saved.Balance)
}

func TestBuyTrainerRequirements(t *testing.T) {
	rich := domain.NewPlayer(7, 1000000000)
	players := gametest.NewPlayers(rich)
	svc := newShop(players)
	ctx := context.Background()

	_, err := svc.BuyTrainer(ctx, 7, "sarner")
	require.ErrorIs(t, err, game.ErrRequirementsNotMet, "league too low")

	qualified := players.Saved(7)
	qualified.League = 5
	for _, name := range []string{"gengar", "charizard"} {
		qualified.Creatures = append(qualified.Creatures, domain.Creature{CreatureID: name, Name: name})
	}
	require.NoError(t, players.Save(ctx, qualified))

	_, err = svc.BuyTrainer(ctx, 7, "sarner")
	require.ErrorIs(t, err, game.ErrRequirementsNotMet, "missing a required creature")

	qualified = players.Saved(7)
	qualified.Creatures = append(qualified.Creatures, domain.Creature{CreatureID: "mewtwo", Name: "Mewtwo"})
	require.NoError(t, players.Save(ctx, qualified))

	purchase, err := svc.BuyTrainer(ctx, 7, "sarner")
	require.NoError(t, err)
	assert.Equal(t, 696969696, purchase.CoinReward)

	saved := players.Saved(7)
	assert.Equal(t, "sarner", saved.Trainer)
	assert.Equal(t, 1000000000-777777777+696969696, saved.Balance)
}

func TestBuyTrainerUnknown(t *testing.T) {
	svc := newShop(gametest.NewPlayers())
	_, err := svc.BuyTrainer(context.Background(), 7, "giovanni")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

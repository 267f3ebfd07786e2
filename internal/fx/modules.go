package fx

import (
	"database/sql"

	"pokebot/internal/api"
	"pokebot/internal/config"
	"pokebot/internal/database"
	"pokebot/internal/game"
	"pokebot/internal/game/arcade"
	"pokebot/internal/game/battle"
	"pokebot/internal/game/catch"
	"pokebot/internal/game/economy"
	"pokebot/internal/game/profile"
	"pokebot/internal/game/trade"
	"pokebot/internal/logger"
	"pokebot/internal/repository"
	"pokebot/internal/server"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// The game services depend on the store interfaces, so the concrete
// repositories and in-memory stores are bound to them here.
func providePlayerStore(db *sql.DB, log zerolog.Logger) game.PlayerStore {
	return repository.NewPlayerRepository(db, log)
}

func provideTradeStore(db *sql.DB, log zerolog.Logger) game.TradeStore {
	return repository.NewTradeRepository(db, log)
}

func provideBattleStore(db *sql.DB, log zerolog.Logger) game.BattleStore {
	return repository.NewBattleRepository(db, log)
}

func providePromoStore(db *sql.DB, log zerolog.Logger) game.PromoStore {
	return repository.NewPromoRepository(db, log)
}

func provideCreatureLookup(client *api.PokeAPIClient) game.CreatureLookup {
	return client
}

func provideWildStore() catch.WildStore {
	return catch.NewMemoryWildStore()
}

func provideCooldownStore() arcade.CooldownStore {
	return arcade.NewMemoryCooldowns()
}

func providePendingStore() arcade.PendingStore {
	return arcade.NewMemoryPending()
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(game.NewSource),
	// stores
	fx.Provide(providePlayerStore),
	fx.Provide(provideTradeStore),
	fx.Provide(provideBattleStore),
	fx.Provide(providePromoStore),
	fx.Provide(provideWildStore),
	fx.Provide(provideCooldownStore),
	fx.Provide(providePendingStore),
	// api client
	fx.Provide(api.NewPokeAPIClient),
	fx.Provide(provideCreatureLookup),
	// game services
	fx.Provide(catch.NewResolver),
	fx.Provide(catch.NewEncounters),
	fx.Provide(battle.NewService),
	fx.Provide(trade.NewNegotiator),
	fx.Provide(economy.NewService),
	fx.Provide(arcade.New),
	fx.Provide(profile.NewService),
	// server
	fx.Provide(server.NewGameServer),
)

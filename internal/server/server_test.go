package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pokebot/internal/config"
	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game/arcade"
	"pokebot/internal/game/battle"
	"pokebot/internal/game/catch"
	"pokebot/internal/game/economy"
	"pokebot/internal/game/gametest"
	"pokebot/internal/game/profile"
	"pokebot/internal/game/trade"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server  *GameServer
	mux     *http.ServeMux
	players *gametest.Players
	wilds   catch.WildStore
}

func newFixture(t *testing.T, seed ...*domain.Player) *fixture {
	t.Helper()

	players := gametest.NewPlayers(seed...)
	lookup := &gametest.Lookup{
		Creatures: map[string]domain.Creature{
			"1":         {CreatureID: "bulba-id", Name: "bulbasaur", Attack: 49, Defense: 49, HP: 45},
			"bulbasaur": {CreatureID: "bulba-id", Name: "bulbasaur", Attack: 49, Defense: 49, HP: 45},
		},
	}
	src := &gametest.Source{Ints: []int{0}, Floats: []float64{0.0, 0.5}}
	log := zerolog.Nop()

	wilds := catch.NewMemoryWildStore()
	resolver := catch.NewResolver(players, src, log)
	encounters := catch.NewEncounters(resolver, players, lookup, wilds, src, log)
	battles := battle.NewService(players, gametest.NewBattles(), src, log)
	trades := trade.NewNegotiator(players, gametest.NewTrades(), log)
	econ := economy.NewService(players, gametest.NewPromos(), lookup, log)
	arc := arcade.New(players, arcade.NewMemoryCooldowns(), arcade.NewMemoryPending(), src, log)
	profiles := profile.NewService(players, log)

	cfg := &config.Config{AdminIDs: []int64{999}}

	srv := NewGameServer(cfg, encounters, battles, trades, econ, arc, profiles, log)
	mux := http.NewServeMux()
	srv.Routes(mux)

	return &fixture{server: srv, mux: mux, players: players, wilds: wilds}
}

func (f *fixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestProfileCreatesPlayer(t *testing.T) {
	f := newFixture(t)

	rec := f.post(t, "/v1/player/profile", map[string]any{"player_id": 7})
	require.Equal(t, http.StatusOK, rec.Code)

	var player domain.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &player))
	assert.Equal(t, int64(7), player.PlayerID)
	assert.Equal(t, constants.StartingBalance, player.Balance)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/player/profile", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorTaxonomyMapping(t *testing.T) {
	// Each game failure class surfaces as its own status code.
	t.Run("not found is 404", func(t *testing.T) {
		f := newFixture(t)
		rec := f.post(t, "/v1/catch/attempt", map[string]any{"chat_id": 1, "player_id": 7})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("insufficient funds is 409", func(t *testing.T) {
		broke := domain.NewPlayer(7, 0)
		f := newFixture(t, broke)
		rec := f.post(t, "/v1/catch/summon", map[string]any{"chat_id": 1, "player_id": 7})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("cooldown is 429", func(t *testing.T) {
		f := newFixture(t)
		rec := f.post(t, "/v1/games/dice", map[string]any{"player_id": 7})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.post(t, "/v1/games/dice", map[string]any{"player_id": 7})
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("unauthorized is 403", func(t *testing.T) {
		f := newFixture(t)
		rec := f.post(t, "/v1/promocode/create", map[string]any{
			"admin_id": 7,
			"code":     "X",
			"reward":   map[string]any{"Kind": "coins", "Amount": 1},
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSummonThenCatch(t *testing.T) {
	f := newFixture(t)

	rec := f.post(t, "/v1/catch/summon", map[string]any{"chat_id": 1, "player_id": 7})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.post(t, "/v1/catch/attempt", map[string]any{"chat_id": 1, "player_id": 7})
	require.Equal(t, http.StatusOK, rec.Code)

	var result catch.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)

	saved := f.players.Saved(7)
	assert.Equal(t, 1, saved.CountByName("bulbasaur"))
}

func TestAdminSpawn(t *testing.T) {
	f := newFixture(t)

	rec := f.post(t, "/v1/admin/spawn", map[string]any{"admin_id": 7, "chat_id": 1, "key": "bulbasaur"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.post(t, "/v1/admin/spawn", map[string]any{"admin_id": 999, "chat_id": 1, "key": "bulbasaur"})
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := f.wilds.Get(1)
	assert.True(t, ok)
}

func TestPromoCreateAndRedeem(t *testing.T) {
	f := newFixture(t)

	rec := f.post(t, "/v1/promocode/create", map[string]any{
		"admin_id": 999,
		"code":     "FREE100",
		"reward":   map[string]any{"Kind": "coins", "Amount": 100},
		"max_uses": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.post(t, "/v1/promocode/redeem", map[string]any{"player_id": 7, "code": "FREE100"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constants.StartingBalance+100, f.players.Saved(7).Balance)

	rec = f.post(t, "/v1/promocode/redeem", map[string]any{"player_id": 7, "code": "FREE100"})
	assert.Equal(t, http.StatusConflict, rec.Code, "double redemption rejected")
}

func TestShopPurchase(t *testing.T) {
	f := newFixture(t)

	rec := f.post(t, "/v1/shop/pokeball", map[string]any{"player_id": 7, "item_id": "pokeball", "quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)

	saved := f.players.Saved(7)
	assert.Equal(t, constants.StartingBalance-2500, saved.Balance)
	assert.Equal(t, 5, saved.Pokeballs["pokeball"])
}

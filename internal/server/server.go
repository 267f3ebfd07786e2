// Package server is the transport boundary: it decodes each chat command
// into a typed request exactly once, invokes the rule services, and renders
// their result records as JSON. No game rule parses transport payloads.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"pokebot/internal/config"
	"pokebot/internal/constants"
	"pokebot/internal/game"
	"pokebot/internal/game/arcade"
	"pokebot/internal/game/battle"
	"pokebot/internal/game/catch"
	"pokebot/internal/game/economy"
	"pokebot/internal/game/profile"
	"pokebot/internal/game/trade"

	"github.com/rs/zerolog"
)

var errNotAdmin = fmt.Errorf("admin access required: %w", game.ErrUnauthorized)

type GameServer struct {
	cfg        *config.Config
	encounters *catch.Encounters
	battles    *battle.Service
	trades     *trade.Negotiator
	economy    *economy.Service
	arcade     *arcade.Arcade
	profiles   *profile.Service
	logger     zerolog.Logger
}

func NewGameServer(
	cfg *config.Config,
	encounters *catch.Encounters,
	battles *battle.Service,
	trades *trade.Negotiator,
	econ *economy.Service,
	arc *arcade.Arcade,
	profiles *profile.Service,
	logger zerolog.Logger,
) *GameServer {
	return &GameServer{
		cfg:        cfg,
		encounters: encounters,
		battles:    battles,
		trades:     trades,
		economy:    econ,
		arcade:     arc,
		profiles:   profiles,
		logger:     logger,
	}
}

// Routes registers every command endpoint on the mux.
func (s *GameServer) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/player/profile", s.handleProfile)
	mux.HandleFunc("POST /v1/player/main", s.handleSetMain)
	mux.HandleFunc("POST /v1/player/username", s.handleSetUsername)
	mux.HandleFunc("POST /v1/catch/summon", s.handleSummon)
	mux.HandleFunc("POST /v1/catch/attempt", s.handleCatchAttempt)
	mux.HandleFunc("POST /v1/evolve", s.handleEvolve)
	mux.HandleFunc("POST /v1/battle/challenge", s.handleBattleChallenge)
	mux.HandleFunc("POST /v1/battle/respond", s.handleBattleRespond)
	mux.HandleFunc("POST /v1/battle/select", s.handleBattleSelect)
	mux.HandleFunc("POST /v1/trade/open", s.handleTradeOpen)
	mux.HandleFunc("POST /v1/trade/respond", s.handleTradeRespond)
	mux.HandleFunc("POST /v1/trade/offer/add", s.handleTradeAdd)
	mux.HandleFunc("POST /v1/trade/offer/remove", s.handleTradeRemove)
	mux.HandleFunc("POST /v1/trade/confirm", s.handleTradeConfirm)
	mux.HandleFunc("POST /v1/trade/cancel", s.handleTradeCancel)
	mux.HandleFunc("POST /v1/shop/pokeball", s.handleBuyPokeball)
	mux.HandleFunc("POST /v1/shop/trainer", s.handleBuyTrainer)
	mux.HandleFunc("POST /v1/promocode/redeem", s.handleRedeem)
	mux.HandleFunc("POST /v1/promocode/create", s.handleCreatePromo)
	mux.HandleFunc("POST /v1/admin/spawn", s.handleSpawn)
	mux.HandleFunc("POST /v1/games/dice", s.handleDice)
	mux.HandleFunc("POST /v1/games/slots", s.handleSlots)
	mux.HandleFunc("POST /v1/games/daily", s.handleDaily)
	mux.HandleFunc("POST /v1/games/guess/start", s.handleGuessStart)
	mux.HandleFunc("POST /v1/games/guess/answer", s.handleGuessAnswer)
	mux.HandleFunc("POST /v1/games/quiz/start", s.handleQuizStart)
	mux.HandleFunc("POST /v1/games/quiz/answer", s.handleQuizAnswer)
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (s *GameServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps the game error taxonomy onto HTTP statuses. Every game
// failure is user-visible and never fatal.
func (s *GameServer) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrOnCooldown):
		status = http.StatusTooManyRequests
	case errors.Is(err, game.ErrInvalidState),
		errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientInventory),
		errors.Is(err, game.ErrRequirementsNotMet),
		errors.Is(err, game.ErrAlreadyRedeemed):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("command failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *GameServer) commandCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), constants.RequestTimeout)
}

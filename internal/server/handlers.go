package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pokebot/internal/domain"
	"pokebot/internal/game/arcade"
	"pokebot/internal/game/catch"
)

type playerRequest struct {
	PlayerID int64 `json:"player_id"`
}

func (s *GameServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[playerRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	player, err := s.profiles.Get(ctx, req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, player)
}

type setMainRequest struct {
	PlayerID   int64  `json:"player_id"`
	CreatureID string `json:"creature_id"`
}

func (s *GameServer) handleSetMain(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[setMainRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	player, err := s.profiles.SetMain(ctx, req.PlayerID, req.CreatureID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, player)
}

type setUsernameRequest struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
}

func (s *GameServer) handleSetUsername(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[setUsernameRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	player, err := s.profiles.SetUsername(ctx, req.PlayerID, strings.TrimSpace(req.Username))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, player)
}

type encounterRequest struct {
	ChatID   int64 `json:"chat_id"`
	PlayerID int64 `json:"player_id"`
}

func (s *GameServer) handleSummon(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[encounterRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	wild, err := s.encounters.Summon(ctx, req.ChatID, req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, wild)
}

func (s *GameServer) handleCatchAttempt(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[encounterRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	mods := catch.Modifiers{Boosted: s.cfg.IsBoostedChat(req.ChatID)}
	result, err := s.encounters.AttemptWild(ctx, req.ChatID, req.PlayerID, mods)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result)
}

type spawnRequest struct {
	AdminID int64  `json:"admin_id"`
	ChatID  int64  `json:"chat_id"`
	Key     string `json:"key"`
}

func (s *GameServer) handleSpawn(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[spawnRequest](w, r)
	if !ok {
		return
	}
	if !s.cfg.IsAdmin(req.AdminID) {
		s.writeError(w, errNotAdmin)
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	wild, err := s.encounters.Spawn(ctx, req.ChatID, strings.TrimSpace(req.Key))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, wild)
}

type evolveRequest struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
}

func (s *GameServer) handleEvolve(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[evolveRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	result, err := s.encounters.Evolve(ctx, req.PlayerID, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result)
}

type challengeRequest struct {
	ChallengerID int64 `json:"challenger_id"`
	OpponentID   int64 `json:"opponent_id"`
}

func (s *GameServer) handleBattleChallenge(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[challengeRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, err := s.battles.Challenge(ctx, req.ChallengerID, req.OpponentID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

type battleRespondRequest struct {
	BattleID string `json:"battle_id"`
	PlayerID int64  `json:"player_id"`
	Accept   bool   `json:"accept"`
}

func (s *GameServer) handleBattleRespond(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[battleRespondRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, err := s.battles.Respond(ctx, req.BattleID, req.PlayerID, req.Accept)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

type battleSelectRequest struct {
	BattleID   string `json:"battle_id"`
	PlayerID   int64  `json:"player_id"`
	CreatureID string `json:"creature_id"`
}

type battleSelectResponse struct {
	Session *domain.BattleSession `json:"session"`
	Result  any                   `json:"result,omitempty"`
}

func (s *GameServer) handleBattleSelect(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[battleSelectRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, result, err := s.battles.Select(ctx, req.BattleID, req.PlayerID, req.CreatureID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := battleSelectResponse{Session: session}
	if result != nil {
		resp.Result = result
	}
	s.writeJSON(w, resp)
}

type tradeOpenRequest struct {
	InitiatorID int64 `json:"initiator_id"`
	PartnerID   int64 `json:"partner_id"`
}

func (s *GameServer) handleTradeOpen(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[tradeOpenRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, err := s.trades.Open(ctx, req.InitiatorID, req.PartnerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

type tradeRespondRequest struct {
	TradeID  string `json:"trade_id"`
	PlayerID int64  `json:"player_id"`
	Accept   bool   `json:"accept"`
}

func (s *GameServer) handleTradeRespond(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[tradeRespondRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, err := s.trades.Respond(ctx, req.TradeID, req.PlayerID, req.Accept)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

type tradeOfferRequest struct {
	TradeID    string `json:"trade_id"`
	PlayerID   int64  `json:"player_id"`
	CreatureID string `json:"creature_id"`
}

func (s *GameServer) handleTradeAdd(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[tradeOfferRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, err := s.trades.AddToOffer(ctx, req.TradeID, req.PlayerID, req.CreatureID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

func (s *GameServer) handleTradeRemove(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[tradeOfferRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, err := s.trades.RemoveFromOffer(ctx, req.TradeID, req.PlayerID, req.CreatureID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

type tradeActionRequest struct {
	TradeID  string `json:"trade_id"`
	PlayerID int64  `json:"player_id"`
}

func (s *GameServer) handleTradeConfirm(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[tradeActionRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, err := s.trades.Confirm(ctx, req.TradeID, req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

func (s *GameServer) handleTradeCancel(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[tradeActionRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	session, err := s.trades.Cancel(ctx, req.TradeID, req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

type buyPokeballRequest struct {
	PlayerID int64  `json:"player_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (s *GameServer) handleBuyPokeball(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[buyPokeballRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	purchase, err := s.economy.BuyPokeball(ctx, req.PlayerID, req.ItemID, req.Quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, purchase)
}

type buyTrainerRequest struct {
	PlayerID  int64  `json:"player_id"`
	TrainerID string `json:"trainer_id"`
}

func (s *GameServer) handleBuyTrainer(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[buyTrainerRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	purchase, err := s.economy.BuyTrainer(ctx, req.PlayerID, req.TrainerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, purchase)
}

type redeemRequest struct {
	PlayerID int64  `json:"player_id"`
	Code     string `json:"code"`
}

func (s *GameServer) handleRedeem(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[redeemRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	redemption, err := s.economy.Redeem(ctx, req.PlayerID, strings.TrimSpace(req.Code))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, redemption)
}

type createPromoRequest struct {
	AdminID     int64         `json:"admin_id"`
	Code        string        `json:"code"`
	Reward      domain.Reward `json:"reward"`
	MaxUses     int           `json:"max_uses"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
	Description string        `json:"description,omitempty"`
}

func (s *GameServer) handleCreatePromo(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[createPromoRequest](w, r)
	if !ok {
		return
	}
	if !s.cfg.IsAdmin(req.AdminID) {
		s.writeError(w, errNotAdmin)
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	promo := &domain.Promocode{
		Code:        strings.TrimSpace(req.Code),
		Reward:      req.Reward,
		CreatedBy:   req.AdminID,
		CreatedAt:   time.Now(),
		ExpiresAt:   req.ExpiresAt,
		Description: req.Description,
	}
	if req.MaxUses > 0 {
		uses := req.MaxUses
		promo.MaxUses = &uses
	}
	if err := s.economy.CreatePromocode(ctx, promo); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, promo)
}

func (s *GameServer) handleDice(w http.ResponseWriter, r *http.Request) {
	s.runArcade(w, r, s.arcade.Dice)
}

func (s *GameServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	s.runArcade(w, r, s.arcade.Slots)
}

func (s *GameServer) handleDaily(w http.ResponseWriter, r *http.Request) {
	s.runArcade(w, r, s.arcade.Daily)
}

func (s *GameServer) runArcade(
	w http.ResponseWriter,
	r *http.Request,
	play func(ctx context.Context, playerID int64) (*arcade.Payout, error),
) {
	req, ok := decode[playerRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	payout, err := play(ctx, req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, payout)
}

func (s *GameServer) handleGuessStart(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[playerRequest](w, r)
	if !ok {
		return
	}

	round, err := s.arcade.StartGuess(req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, round)
}

type guessAnswerRequest struct {
	PlayerID int64 `json:"player_id"`
	Guess    int   `json:"guess"`
}

func (s *GameServer) handleGuessAnswer(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[guessAnswerRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	payout, err := s.arcade.AnswerGuess(ctx, req.PlayerID, req.Guess)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, payout)
}

func (s *GameServer) handleQuizStart(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[playerRequest](w, r)
	if !ok {
		return
	}

	round, err := s.arcade.StartQuiz(req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, round)
}

type quizAnswerRequest struct {
	PlayerID int64 `json:"player_id"`
	Answer   int   `json:"answer"`
}

func (s *GameServer) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[quizAnswerRequest](w, r)
	if !ok {
		return
	}
	ctx, cancel := s.commandCtx(r)
	defer cancel()

	payout, err := s.arcade.AnswerQuiz(ctx, req.PlayerID, req.Answer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, payout)
}

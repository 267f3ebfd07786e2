// Package battle implements the challenge flow and the power/reward
// resolution between two players' creatures.
package battle

import (
	"context"
	"fmt"

	"pokebot/internal/catalog"
	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type Result struct {
	WinnerID        int64
	LoserID         int64
	ChallengerPower int
	OpponentPower   int
	Reward          int
}

type Service struct {
	players game.PlayerStore
	battles game.BattleStore
	src     game.Source
	logger  zerolog.Logger
}

func NewService(players game.PlayerStore, battles game.BattleStore, src game.Source, logger zerolog.Logger) *Service {
	return &Service{players: players, battles: battles, src: src, logger: logger}
}

// Challenge opens a battle session. Both sides must own at least one
// creature; a player cannot challenge themselves.
func (s *Service) Challenge(ctx context.Context, challengerID, opponentID int64) (*domain.BattleSession, error) {
	if challengerID == opponentID {
		return nil, fmt.Errorf("cannot battle yourself: %w", game.ErrInvalidState)
	}

	challenger, err := s.players.GetOrCreate(ctx, challengerID)
	if err != nil {
		return nil, err
	}
	opponent, err := s.players.GetOrCreate(ctx, opponentID)
	if err != nil {
		return nil, err
	}
	if len(challenger.Creatures) == 0 {
		return nil, fmt.Errorf("challenger has no creatures: %w", game.ErrInvalidState)
	}
	if len(opponent.Creatures) == 0 {
		return nil, fmt.Errorf("opponent has no creatures: %w", game.ErrInvalidState)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate battle id: %w", err)
	}

	session := &domain.BattleSession{
		BattleID:     id,
		ChallengerID: challengerID,
		OpponentID:   opponentID,
		Status:       domain.BattleChallenge,
	}
	if err := s.battles.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("battle_id", id).
		Int64("challenger_id", challengerID).
		Int64("opponent_id", opponentID).
		Msg("battle challenge sent")

	return session, nil
}

// Respond records the addressed opponent's accept or decline. Anyone else
// answering is rejected; a declined session stays inert and a new challenge
// starts a fresh session.
func (s *Service) Respond(ctx context.Context, battleID string, playerID int64, accept bool) (*domain.BattleSession, error) {
	session, err := s.battles.Get(ctx, battleID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.BattleChallenge {
		return nil, fmt.Errorf("battle is not awaiting a response: %w", game.ErrInvalidState)
	}
	if playerID != session.OpponentID {
		return nil, fmt.Errorf("challenge is not addressed to this player: %w", game.ErrUnauthorized)
	}

	if accept {
		session.Status = domain.BattleSelecting
	} else {
		session.Status = domain.BattleDeclined
	}
	if err := s.battles.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Select records a side's creature pick. Once both sides have picked,
// resolution runs exactly once and the session is deleted.
func (s *Service) Select(ctx context.Context, battleID string, playerID int64, creatureID string) (*domain.BattleSession, *Result, error) {
	session, err := s.battles.Get(ctx, battleID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != domain.BattleSelecting {
		return nil, nil, fmt.Errorf("battle is not in selection: %w", game.ErrInvalidState)
	}
	if !session.IsParticipant(playerID) {
		return nil, nil, fmt.Errorf("battle %s: %w", battleID, game.ErrUnauthorized)
	}

	player, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	creature := player.CreatureByID(creatureID)
	if creature == nil {
		return nil, nil, fmt.Errorf("creature not owned by player: %w", game.ErrInvalidState)
	}

	picked := *creature
	if playerID == session.ChallengerID {
		session.ChallengerCreature = &picked
		session.ChallengerReady = true
	} else {
		session.OpponentCreature = &picked
		session.OpponentReady = true
	}

	if !session.ChallengerReady || !session.OpponentReady {
		if err := s.battles.Save(ctx, session); err != nil {
			return nil, nil, err
		}
		return session, nil, nil
	}

	result, err := s.resolve(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	session.Status = domain.BattleResolved
	if err := s.battles.Delete(ctx, session.BattleID); err != nil {
		s.logger.Warn().Err(err).Str("battle_id", session.BattleID).Msg("failed to delete resolved battle")
	}
	return session, result, nil
}

func (s *Service) resolve(ctx context.Context, session *domain.BattleSession) (*Result, error) {
	challenger, err := s.players.Get(ctx, session.ChallengerID)
	if err != nil {
		return nil, err
	}
	opponent, err := s.players.Get(ctx, session.OpponentID)
	if err != nil {
		return nil, err
	}

	challengerPower := Power(challenger, session.ChallengerCreature)
	opponentPower := Power(opponent, session.OpponentCreature)

	// Strict greater-than on the challenger's side: ties go to the opponent.
	result := &Result{
		ChallengerPower: challengerPower,
		OpponentPower:   opponentPower,
	}
	var winner *domain.Player
	if challengerPower > opponentPower {
		winner = challenger
		result.WinnerID = challenger.PlayerID
		result.LoserID = opponent.PlayerID
		result.Reward = s.reward(challengerPower, opponentPower)
	} else {
		winner = opponent
		result.WinnerID = opponent.PlayerID
		result.LoserID = challenger.PlayerID
		result.Reward = s.reward(opponentPower, challengerPower)
	}

	winner.Credit(result.Reward)
	if err := s.players.Save(ctx, winner); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("battle_id", session.BattleID).
		Int64("winner_id", result.WinnerID).
		Int64("loser_id", result.LoserID).
		Int("challenger_power", challengerPower).
		Int("opponent_power", opponentPower).
		Int("reward", result.Reward).
		Msg("battle resolved")

	return result, nil
}

// Power computes a side's effective battle power: CP scaled by the trainer
// multiplier plus the flat league stat bonuses.
func Power(player *domain.Player, creature *domain.Creature) int {
	multiplier := 1.0
	if player.Trainer != "" {
		if trainer, ok := catalog.TrainerByID(player.Trainer); ok {
			multiplier += trainer.PowerBonus
		}
	}

	league := catalog.LeagueByTier(player.League)
	total := float64(creature.CP())*multiplier +
		float64(league.AttackBonus+league.DefenseBonus+league.HealthBonus)
	return int(total)
}

// reward is 500 base plus a tenth of the power gap capped at 1000, scaled
// by a uniform draw in [0.8, 1.2].
func (s *Service) reward(winnerPower, loserPower int) int {
	diff := winnerPower - loserPower
	if diff < 0 {
		diff = 0
	}
	bonus := float64(diff) / 10
	if bonus > constants.BattlePowerBonusCap {
		bonus = constants.BattlePowerBonusCap
	}
	factor := constants.RewardFactorMin +
		s.src.Float64()*(constants.RewardFactorMax-constants.RewardFactorMin)
	return int((constants.BattleBaseReward + bonus) * factor)
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pokebot/internal/domain"
	"pokebot/internal/game"

	"github.com/rs/zerolog"
)

// TradeRepository persists trade sessions. Completed and cancelled sessions
// are deleted by the negotiator once resolved; nothing here outlives a trade.
type TradeRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTradeRepository(db *sql.DB, logger zerolog.Logger) *TradeRepository {
	return &TradeRepository{db: db, logger: logger}
}

func (r *TradeRepository) Get(ctx context.Context, tradeID string) (*domain.TradeSession, error) {
	var (
		raw                  []byte
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT doc, created_at, updated_at FROM trade_sessions WHERE trade_id = ?`, tradeID,
	).Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trade %s: %w", tradeID, err)
	}

	var doc tradeDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode trade %s: %w", tradeID, err)
	}
	return &domain.TradeSession{
		TradeID:        doc.TradeID,
		InitiatorID:    doc.InitiatorID,
		PartnerID:      doc.PartnerID,
		InitiatorOffer: doc.InitiatorOffer,
		PartnerOffer:   doc.PartnerOffer,
		InitiatorOK:    doc.InitiatorOK,
		PartnerOK:      doc.PartnerOK,
		Status:         domain.TradeStatus(doc.Status),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func (r *TradeRepository) Save(ctx context.Context, s *domain.TradeSession) error {
	raw, err := json.Marshal(tradeDoc{
		TradeID:        s.TradeID,
		InitiatorID:    s.InitiatorID,
		PartnerID:      s.PartnerID,
		InitiatorOffer: s.InitiatorOffer,
		PartnerOffer:   s.PartnerOffer,
		InitiatorOK:    s.InitiatorOK,
		PartnerOK:      s.PartnerOK,
		Status:         string(s.Status),
	})
	if err != nil {
		return fmt.Errorf("failed to encode trade %s: %w", s.TradeID, err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO trade_sessions (trade_id, doc, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (trade_id) DO UPDATE SET doc = excluded.doc, status = excluded.status, updated_at = excluded.updated_at`,
		s.TradeID, raw, string(s.Status), now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("trade_id", s.TradeID).Msg("failed to save trade session")
		return fmt.Errorf("failed to save trade %s: %w", s.TradeID, err)
	}
	return nil
}

func (r *TradeRepository) Delete(ctx context.Context, tradeID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trade_sessions WHERE trade_id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", tradeID, err)
	}
	return nil
}

type BattleRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewBattleRepository(db *sql.DB, logger zerolog.Logger) *BattleRepository {
	return &BattleRepository{db: db, logger: logger}
}

func (r *BattleRepository) Get(ctx context.Context, battleID string) (*domain.BattleSession, error) {
	var (
		raw                  []byte
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT doc, created_at, updated_at FROM battle_sessions WHERE battle_id = ?`, battleID,
	).Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load battle %s: %w", battleID, err)
	}

	var doc battleDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode battle %s: %w", battleID, err)
	}

	session := &domain.BattleSession{
		BattleID:        doc.BattleID,
		ChallengerID:    doc.ChallengerID,
		OpponentID:      doc.OpponentID,
		ChallengerReady: doc.ChallengerReady,
		OpponentReady:   doc.OpponentReady,
		Status:          domain.BattleStatus(doc.Status),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
	if doc.ChallengerCreature != nil {
		c := creatureFromDoc(*doc.ChallengerCreature)
		session.ChallengerCreature = &c
	}
	if doc.OpponentCreature != nil {
		c := creatureFromDoc(*doc.OpponentCreature)
		session.OpponentCreature = &c
	}
	return session, nil
}

func (r *BattleRepository) Save(ctx context.Context, s *domain.BattleSession) error {
	doc := battleDoc{
		BattleID:        s.BattleID,
		ChallengerID:    s.ChallengerID,
		OpponentID:      s.OpponentID,
		ChallengerReady: s.ChallengerReady,
		OpponentReady:   s.OpponentReady,
		Status:          string(s.Status),
	}
	if s.ChallengerCreature != nil {
		c := creatureToDoc(*s.ChallengerCreature)
		doc.ChallengerCreature = &c
	}
	if s.OpponentCreature != nil {
		c := creatureToDoc(*s.OpponentCreature)
		doc.OpponentCreature = &c
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode battle %s: %w", s.BattleID, err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO battle_sessions (battle_id, doc, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (battle_id) DO UPDATE SET doc = excluded.doc, status = excluded.status, updated_at = excluded.updated_at`,
		s.BattleID, raw, string(s.Status), now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("battle_id", s.BattleID).Msg("failed to save battle session")
		return fmt.Errorf("failed to save battle %s: %w", s.BattleID, err)
	}
	return nil
}

func (r *BattleRepository) Delete(ctx context.Context, battleID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM battle_sessions WHERE battle_id = ?`, battleID)
	if err != nil {
		return fmt.Errorf("failed to delete battle %s: %w", battleID, err)
	}
	return nil
}

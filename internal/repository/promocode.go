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

type PromoRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPromoRepository(db *sql.DB, logger zerolog.Logger) *PromoRepository {
	return &PromoRepository{db: db, logger: logger}
}

// Get looks up a promocode by its case-sensitive code.
func (r *PromoRepository) Get(ctx context.Context, code string) (*domain.Promocode, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT doc FROM promocodes WHERE code = ?`, code,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load promocode: %w", err)
	}

	var doc promoDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode promocode: %w", err)
	}
	return &domain.Promocode{
		Code: doc.Code,
		Reward: domain.Reward{
			Kind:     domain.RewardKind(doc.RewardKind),
			Amount:   doc.Amount,
			Name:     doc.Name,
			Quantity: doc.Quantity,
			RefID:    doc.RefID,
		},
		CreatedBy:   doc.CreatedBy,
		CreatedAt:   doc.CreatedAt,
		ExpiresAt:   doc.ExpiresAt,
		MaxUses:     doc.MaxUses,
		UseCount:    doc.UseCount,
		Description: doc.Description,
	}, nil
}

func (r *PromoRepository) Save(ctx context.Context, promo *domain.Promocode) error {
	raw, err := json.Marshal(promoDoc{
		Code:        promo.Code,
		RewardKind:  string(promo.Reward.Kind),
		Amount:      promo.Reward.Amount,
		Name:        promo.Reward.Name,
		Quantity:    promo.Reward.Quantity,
		RefID:       promo.Reward.RefID,
		CreatedBy:   promo.CreatedBy,
		CreatedAt:   promo.CreatedAt,
		ExpiresAt:   promo.ExpiresAt,
		MaxUses:     promo.MaxUses,
		UseCount:    promo.UseCount,
		Description: promo.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to encode promocode: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO promocodes (code, doc, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (code) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		promo.Code, raw, now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("code", promo.Code).Msg("failed to save promocode")
		return fmt.Errorf("failed to save promocode: %w", err)
	}
	return nil
}

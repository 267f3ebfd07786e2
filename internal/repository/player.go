package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(db *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

func (r *PlayerRepository) Get(ctx context.Context, playerID int64) (*domain.Player, error) {
	var (
		raw                  []byte
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT doc, created_at, updated_at FROM players WHERE player_id = ?`, playerID,
	).Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("player_id", playerID).Msg("failed to load player")
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	var doc playerDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode player %d: %w", playerID, err)
	}
	return playerFromDoc(doc, createdAt, updatedAt), nil
}

// GetOrCreate loads the player, creating a fresh record with the starting
// balance on first sight.
func (r *PlayerRepository) GetOrCreate(ctx context.Context, playerID int64) (*domain.Player, error) {
	player, err := r.Get(ctx, playerID)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, game.ErrNotFound) {
		return nil, err
	}

	player = domain.NewPlayer(playerID, constants.StartingBalance)
	if err := r.Save(ctx, player); err != nil {
		return nil, err
	}
	r.logger.Info().Int64("player_id", playerID).Msg("created new player")
	return player, nil
}

func (r *PlayerRepository) Save(ctx context.Context, player *domain.Player) error {
	raw, err := json.Marshal(playerToDoc(player))
	if err != nil {
		return fmt.Errorf("failed to encode player %d: %w", player.PlayerID, err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO players (player_id, doc, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (player_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		player.PlayerID, raw, now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("player_id", player.PlayerID).Msg("failed to save player")
		return fmt.Errorf("failed to save player %d: %w", player.PlayerID, err)
	}
	return nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT doc, created_at, updated_at FROM players ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var (
			raw                  []byte
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&raw, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		var doc playerDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode player row: %w", err)
		}
		players = append(players, *playerFromDoc(doc, createdAt, updatedAt))
	}
	return players, rows.Err()
}

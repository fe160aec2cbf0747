package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hotindex/internal/domain/analysis"
	"hotindex/internal/domain/weights"
)

// WeightStore persists weight configurations. Rows are append-only; at
// most one row is active, enforced by a partial unique index on
// (is_active) WHERE is_active and the transactional flip below.
type WeightStore struct {
	db *pgxpool.Pool
}

// NewWeightStore creates a weight configuration store.
func NewWeightStore(db *pgxpool.Pool) *WeightStore {
	return &WeightStore{db: db}
}

const weightColumns = `
	id, name, description,
	exposure_weights, engagement_weights, demand_weights,
	overall_weights, engagement_detail_weights,
	is_active, created_at
`

// GetActive returns the active configuration, creating and persisting
// the documented default when none exists yet.
func (s *WeightStore) GetActive(ctx context.Context) (weights.WeightConfiguration, error) {
	query := `SELECT ` + weightColumns + ` FROM weight_configurations WHERE is_active = true LIMIT 1`

	cfg, err := scanWeightRow(s.db.QueryRow(ctx, query))
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return weights.WeightConfiguration{}, fmt.Errorf("error querying active weight configuration: %w", err)
	}

	return s.Save(ctx, weights.Default())
}

// Save validates the candidate, then atomically deactivates the
// previous active configuration and inserts the candidate as active.
func (s *WeightStore) Save(ctx context.Context, candidate weights.WeightConfiguration) (weights.WeightConfiguration, error) {
	if err := candidate.Validate(); err != nil {
		return weights.WeightConfiguration{}, err
	}

	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now()
	}
	candidate.IsActive = true

	exposureJSON, engagementJSON, demandJSON, overallJSON, detailJSON, err := marshalGroups(candidate)
	if err != nil {
		return weights.WeightConfiguration{}, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE weight_configurations SET is_active = false WHERE is_active = true`); err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error deactivating previous configuration: %w", err)
	}

	insert := `
		INSERT INTO weight_configurations (` + weightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := tx.Exec(ctx, insert,
		candidate.ID, candidate.Name, candidate.Description,
		exposureJSON, engagementJSON, demandJSON, overallJSON, detailJSON,
		candidate.IsActive, candidate.CreatedAt,
	); err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error inserting weight configuration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error committing weight configuration: %w", err)
	}

	return candidate, nil
}

// Activate flips the active flag to an existing historical
// configuration in one transaction.
func (s *WeightStore) Activate(ctx context.Context, id string) (weights.WeightConfiguration, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE weight_configurations SET is_active = false WHERE is_active = true`); err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error deactivating previous configuration: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE weight_configurations SET is_active = true WHERE id = $1`, id)
	if err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error activating configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return weights.WeightConfiguration{}, analysis.ErrNotFound
	}

	cfg, err := scanWeightRow(tx.QueryRow(ctx, `SELECT `+weightColumns+` FROM weight_configurations WHERE id = $1`, id))
	if err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error reading activated configuration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return weights.WeightConfiguration{}, fmt.Errorf("error committing activation: %w", err)
	}

	return cfg, nil
}

// History returns configurations most-recent-first.
func (s *WeightStore) History(ctx context.Context, limit int) ([]weights.WeightConfiguration, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+weightColumns+` FROM weight_configurations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying weight history: %w", err)
	}
	defer rows.Close()

	var history []weights.WeightConfiguration
	for rows.Next() {
		cfg, err := scanWeightRow(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weight history: %w", err)
	}

	return history, nil
}

func marshalGroups(cfg weights.WeightConfiguration) ([]byte, []byte, []byte, []byte, []byte, error) {
	exposureJSON, err := json.Marshal(cfg.Exposure)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("error marshaling exposure weights: %w", err)
	}
	engagementJSON, err := json.Marshal(cfg.Engagement)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("error marshaling engagement weights: %w", err)
	}
	demandJSON, err := json.Marshal(cfg.Demand)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("error marshaling demand weights: %w", err)
	}
	overallJSON, err := json.Marshal(cfg.Overall)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("error marshaling overall weights: %w", err)
	}
	detailJSON, err := json.Marshal(cfg.EngagementDetail)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("error marshaling engagement detail weights: %w", err)
	}
	return exposureJSON, engagementJSON, demandJSON, overallJSON, detailJSON, nil
}

func scanWeightRow(row pgx.Row) (weights.WeightConfiguration, error) {
	var cfg weights.WeightConfiguration
	var exposureJSON, engagementJSON, demandJSON, overallJSON, detailJSON []byte

	err := row.Scan(
		&cfg.ID, &cfg.Name, &cfg.Description,
		&exposureJSON, &engagementJSON, &demandJSON, &overallJSON, &detailJSON,
		&cfg.IsActive, &cfg.CreatedAt,
	)
	if err != nil {
		return cfg, err
	}

	if err := json.Unmarshal(exposureJSON, &cfg.Exposure); err != nil {
		return cfg, fmt.Errorf("error unmarshaling exposure weights: %w", err)
	}
	if err := json.Unmarshal(engagementJSON, &cfg.Engagement); err != nil {
		return cfg, fmt.Errorf("error unmarshaling engagement weights: %w", err)
	}
	if err := json.Unmarshal(demandJSON, &cfg.Demand); err != nil {
		return cfg, fmt.Errorf("error unmarshaling demand weights: %w", err)
	}
	if err := json.Unmarshal(overallJSON, &cfg.Overall); err != nil {
		return cfg, fmt.Errorf("error unmarshaling overall weights: %w", err)
	}
	if err := json.Unmarshal(detailJSON, &cfg.EngagementDetail); err != nil {
		return cfg, fmt.Errorf("error unmarshaling engagement detail weights: %w", err)
	}

	return cfg, nil
}

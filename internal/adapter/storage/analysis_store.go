package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hotindex/internal/domain/analysis"
)

const uniqueViolationCode = "23505"

// AnalysisStore persists analysis records. A unique index on
// (keyword, date) backs the one-record-per-keyword-per-date invariant;
// the loser of a concurrent write gets ErrDuplicateRecord.
type AnalysisStore struct {
	db *pgxpool.Pool
}

// NewAnalysisStore creates an analysis record store.
func NewAnalysisStore(db *pgxpool.Pool) *AnalysisStore {
	return &AnalysisStore{db: db}
}

const recordColumns = `
	id, keyword, date, analysis_date, sources, metrics,
	weight_config_id, data_quality, processing_time_ms,
	insight_ref, report_ref
`

// Save inserts a new record. It never overwrites: an existing record
// for the same (keyword, date) yields ErrDuplicateRecord.
func (s *AnalysisStore) Save(ctx context.Context, record *analysis.AnalysisRecord) error {
	sourcesJSON, err := json.Marshal(record.Sources)
	if err != nil {
		return fmt.Errorf("error marshaling sources: %w", err)
	}
	metricsJSON, err := json.Marshal(record.Metrics)
	if err != nil {
		return fmt.Errorf("error marshaling metrics: %w", err)
	}

	query := `
		INSERT INTO analysis_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.db.Exec(ctx, query,
		record.ID, record.Keyword, record.Date, record.AnalysisDate,
		sourcesJSON, metricsJSON,
		nullable(record.WeightConfigID), string(record.DataQuality), record.ProcessingTimeMs,
		nullable(record.InsightRef), nullable(record.ReportRef),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return analysis.ErrDuplicateRecord
		}
		return fmt.Errorf("error inserting analysis record: %w", err)
	}

	return nil
}

// Get retrieves one record by ID.
func (s *AnalysisStore) Get(ctx context.Context, id string) (analysis.AnalysisRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM analysis_records WHERE id = $1`

	record, err := scanRecordRow(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return analysis.AnalysisRecord{}, analysis.ErrNotFound
		}
		return analysis.AnalysisRecord{}, fmt.Errorf("error querying analysis record: %w", err)
	}
	return record, nil
}

// FindByKeywordAndDateRange returns records ascending by date, for
// time-series rendering.
func (s *AnalysisStore) FindByKeywordAndDateRange(ctx context.Context, keyword string, start, end time.Time) ([]analysis.AnalysisRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM analysis_records
		WHERE keyword = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	return s.queryRecords(ctx, query, keyword, start, end)
}

// FindRecent returns records descending by date, newest first.
func (s *AnalysisStore) FindRecent(ctx context.Context, keyword string, start, end time.Time, limit int) ([]analysis.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	query := `
		SELECT ` + recordColumns + `
		FROM analysis_records
		WHERE keyword = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC
		LIMIT $4
	`
	return s.queryRecords(ctx, query, keyword, start, end, limit)
}

// AttachRefs attaches collaborator references onto an existing record
// without touching the scored fields.
func (s *AnalysisStore) AttachRefs(ctx context.Context, id, insightRef, reportRef string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE analysis_records SET insight_ref = $2, report_ref = $3 WHERE id = $1`,
		id, nullable(insightRef), nullable(reportRef))
	if err != nil {
		return fmt.Errorf("error attaching refs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return analysis.ErrNotFound
	}
	return nil
}

// Delete removes a record. Insight and report artifacts are referenced,
// not owned, so nothing cascades.
func (s *AnalysisStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM analysis_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting analysis record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return analysis.ErrNotFound
	}
	return nil
}

// Stats summarizes a keyword's records over a date range.
func (s *AnalysisStore) Stats(ctx context.Context, keyword string, start, end time.Time) (analysis.Stats, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM analysis_records
		WHERE keyword = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC
	`
	records, err := s.queryRecords(ctx, query, keyword, start, end)
	if err != nil {
		return analysis.Stats{}, err
	}
	stats := computeStats(records)
	stats.Keyword = keyword
	return stats, nil
}

func (s *AnalysisStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]analysis.AnalysisRecord, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying analysis records: %w", err)
	}
	defer rows.Close()

	var records []analysis.AnalysisRecord
	for rows.Next() {
		record, err := scanRecordRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning analysis record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis records: %w", err)
	}

	return records, nil
}

func scanRecordRow(row pgx.Row) (analysis.AnalysisRecord, error) {
	var record analysis.AnalysisRecord
	var sourcesJSON, metricsJSON []byte
	var quality string
	var weightConfigID, insightRef, reportRef *string

	err := row.Scan(
		&record.ID, &record.Keyword, &record.Date, &record.AnalysisDate,
		&sourcesJSON, &metricsJSON,
		&weightConfigID, &quality, &record.ProcessingTimeMs,
		&insightRef, &reportRef,
	)
	if err != nil {
		return record, err
	}

	if err := json.Unmarshal(sourcesJSON, &record.Sources); err != nil {
		return record, fmt.Errorf("error unmarshaling sources: %w", err)
	}
	if err := json.Unmarshal(metricsJSON, &record.Metrics); err != nil {
		return record, fmt.Errorf("error unmarshaling metrics: %w", err)
	}

	record.DataQuality = analysis.DataQuality(quality)
	if weightConfigID != nil {
		record.WeightConfigID = *weightConfigID
	}
	if insightRef != nil {
		record.InsightRef = *insightRef
	}
	if reportRef != nil {
		record.ReportRef = *reportRef
	}

	return record, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

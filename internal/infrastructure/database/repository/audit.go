package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/infrastructure/database"
	"guardian-lab/pkg/logger"
)

// AuditRepository persists a trace of every analysis for later review
type AuditRepository struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

func NewAuditRepository(db *database.PostgresDB, log *logger.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: log.WithComponent("audit_repository"),
	}
}

// EnsureSchema creates the audit table if it does not exist
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS analysis_audit (
			id UUID PRIMARY KEY,
			message TEXT NOT NULL,
			level TEXT NOT NULL,
			score INT NOT NULL,
			reasons TEXT[] NOT NULL,
			links TEXT[] NOT NULL DEFAULT '{}',
			analyzed_at TIMESTAMPTZ NOT NULL
		)`
	if err := r.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}
	return nil
}

// Record stores one analysis outcome and returns the persisted record
func (r *AuditRepository) Record(ctx context.Context, message string, verdict *models.Verdict) (*models.AuditRecord, error) {
	record := &models.AuditRecord{
		ID:         uuid.New(),
		Message:    message,
		Level:      verdict.Level,
		Score:      verdict.Score,
		Reasons:    verdict.Reasons,
		Links:      verdict.Links,
		AnalyzedAt: time.Now().UTC(),
	}

	const query = `
		INSERT INTO analysis_audit (id, message, level, score, reasons, links, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	err := r.db.Exec(ctx, query,
		record.ID, record.Message, string(record.Level), record.Score,
		record.Reasons, record.Links, record.AnalyzedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert audit record: %w", err)
	}

	return record, nil
}

// Recent returns the most recent audit records, newest first
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, message, level, score, reasons, links, analyzed_at
		FROM analysis_audit
		ORDER BY analyzed_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []models.AuditRecord
	for rows.Next() {
		var rec models.AuditRecord
		var level string
		if err := rows.Scan(&rec.ID, &rec.Message, &level, &rec.Score, &rec.Reasons, &rec.Links, &rec.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Level = models.RiskLevel(level)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}

	return records, nil
}

// CountByLevel returns how many analyses landed on each risk level
func (r *AuditRepository) CountByLevel(ctx context.Context) (map[models.RiskLevel]int64, error) {
	const query = `SELECT level, COUNT(*) FROM analysis_audit GROUP BY level`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit records: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.RiskLevel]int64)
	for rows.Next() {
		var level string
		var count int64
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan audit count: %w", err)
		}
		counts[models.RiskLevel(level)] = count
	}
	return counts, rows.Err()
}

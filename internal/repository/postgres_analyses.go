package repository

import (
	"context"
	"database/sql"
	"fmt"

	"visioncheck/internal/domain"
)

type PostgresAnalysesRepo struct {
	db *sql.DB
}

func NewPostgresAnalysesRepo(db *sql.DB) *PostgresAnalysesRepo {
	return &PostgresAnalysesRepo{db: db}
}

func (r *PostgresAnalysesRepo) Insert(ctx context.Context, rec *domain.AnalysisRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO analyses (record_id, user_id, disease, confidence, model_version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.RecordID, rec.UserID, rec.Disease, rec.Confidence, rec.ModelVersion, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}
	return nil
}

func (r *PostgresAnalysesRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT record_id, user_id, disease, confidence, model_version, created_at
		 FROM analyses
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis records: %w", err)
	}
	defer rows.Close()

	records := []domain.AnalysisRecord{}
	for rows.Next() {
		var rec domain.AnalysisRecord
		if err := rows.Scan(&rec.RecordID, &rec.UserID, &rec.Disease, &rec.Confidence, &rec.ModelVersion, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analysis records: %w", err)
	}
	return records, nil
}

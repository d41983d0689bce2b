package repository

import (
	"context"
	"sync"

	"visioncheck/internal/domain"
)

// MemoryAnalysesRepo: 用于 DB 未就绪时的兜底（历史只在进程生命周期内有效）
// - 按 user_id 隔离
// - 最新记录在前
type MemoryAnalysesRepo struct {
	mu      sync.RWMutex
	byUser  map[string][]domain.AnalysisRecord
	maxKeep int
}

func NewMemoryAnalysesRepo() *MemoryAnalysesRepo {
	return &MemoryAnalysesRepo{
		byUser:  map[string][]domain.AnalysisRecord{},
		maxKeep: 200,
	}
}

func (r *MemoryAnalysesRepo) Insert(ctx context.Context, rec *domain.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.byUser[rec.UserID]
	records = append([]domain.AnalysisRecord{*rec}, records...)
	if len(records) > r.maxKeep {
		records = records[:r.maxKeep]
	}
	r.byUser[rec.UserID] = records
	return nil
}

func (r *MemoryAnalysesRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.byUser[userID]
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	out := make([]domain.AnalysisRecord, limit)
	copy(out, records[:limit])
	return out, nil
}

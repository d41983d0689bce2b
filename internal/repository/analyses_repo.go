package repository

import (
	"context"

	"visioncheck/internal/domain"
)

// AnalysesRepo 分析历史访问接口
type AnalysesRepo interface {
	// Insert 写入一条分析记录（RecordID/CreatedAt 由调用方填好）
	Insert(ctx context.Context, rec *domain.AnalysisRecord) error
	// ListByUser 按用户倒序（最新在前）返回最近 limit 条记录
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error)
}

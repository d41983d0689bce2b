package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"visioncheck/internal/repository"
	"visioncheck/internal/service"

	"go.uber.org/zap"
)

// HistoryHandler /api/history 与 /api/history/export（需登录）
type HistoryHandler struct {
	analyses repository.AnalysesRepo
	logger   *zap.Logger
}

func NewHistoryHandler(analyses repository.AnalysesRepo, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{analyses: analyses, logger: logger}
}

// List GET /api/history：当前用户最近的分析记录
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		failJSON(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), 50)
	records, err := h.analyses.ListByUser(ctx, user.ID, limit)
	if err != nil {
		h.logger.Error("Failed to list analysis history", zap.Error(err))
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"records": records,
		"count":   len(records),
	})
}

// Export GET /api/history/export：历史记录导出为 xlsx
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		failJSON(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	records, err := h.analyses.ListByUser(ctx, user.ID, 0)
	if err != nil {
		h.logger.Error("Failed to load history for export", zap.Error(err))
		internalError(w)
		return
	}

	data, err := service.GenerateHistoryExport(records)
	if err != nil {
		h.logger.Error("Failed to generate history export", zap.Error(err))
		internalError(w)
		return
	}

	filename := fmt.Sprintf("screening-history-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

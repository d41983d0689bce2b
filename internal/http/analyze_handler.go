package httpapi

import (
	"errors"
	"net/http"
	"time"

	"visioncheck/internal/service"

	"go.uber.org/zap"
)

// maxAnalyzeBody data-URL 图片载荷上限（10MB 图片 base64 后约 13MB）
const maxAnalyzeBody = 16 << 20

// AnalyzeHandler /api/analyze
type AnalyzeHandler struct {
	analysis *service.AnalysisService
	logger   *zap.Logger
}

func NewAnalyzeHandler(analysis *service.AnalysisService, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analysis: analysis, logger: logger}
}

// ServeHTTP 实现 http.Handler 接口
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Describe(w, r)
	case http.MethodPost:
		h.Analyze(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Describe GET：静态能力描述
func (h *AnalyzeHandler) Describe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":      "visioncheck-analysis",
		"method":       "POST",
		"modelVersion": h.analysis.ModelVersion(),
		"categories":   h.analysis.Categories(),
		"input": map[string]any{
			"image":    "data URL (data:image/...)",
			"metadata": "optional object",
		},
		"maxImageBytes": maxAnalyzeBody,
	})
}

// Analyze POST：执行一次模拟分析
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	// 1. 参数解析
	var payload struct {
		Image    string         `json:"image"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := readBodyJSON(r, maxAnalyzeBody, &payload); err != nil {
		failJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// 2. 调用 Service
	req := service.AnalyzeRequest{
		Image:    payload.Image,
		Metadata: payload.Metadata,
	}
	if user, ok := UserFromContext(ctx); ok {
		req.UserID = user.ID
	}

	result, err := h.analysis.Analyze(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingImage), errors.Is(err, service.ErrInvalidImage):
			failJSON(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Analyze failed", zap.Error(err))
			internalError(w)
		}
		return
	}

	// 3. 构建响应
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success:        true,
		Result:         result,
		Timestamp:      nowRFC3339(),
		ProcessingTime: time.Since(started).Milliseconds(),
		ModelVersion:   h.analysis.ModelVersion(),
	})
}

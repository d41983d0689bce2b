package httpapi

import (
	"net/http"

	"visioncheck/internal/service"

	"go.uber.org/zap"
)

// ExplainHandler /api/explain
type ExplainHandler struct {
	explanation *service.ExplanationService
	logger      *zap.Logger
}

func NewExplainHandler(explanation *service.ExplanationService, logger *zap.Logger) *ExplainHandler {
	return &ExplainHandler{explanation: explanation, logger: logger}
}

// ServeHTTP 实现 http.Handler 接口
func (h *ExplainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Describe(w, r)
	case http.MethodPost:
		h.Explain(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Describe GET：静态能力描述
func (h *ExplainHandler) Describe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "visioncheck-explanation",
		"method":  "POST",
		"input": map[string]any{
			"disease":        "string (required)",
			"confidence":     "number (required)",
			"symptoms":       "optional string list",
			"modelBreakdown": "optional object",
		},
		"fields": []string{
			"overview", "keyFindings", "severityAssessment", "symptomAnalysis",
			"recommendations", "followUp", "disclaimer",
		},
	})
}

// Explain POST：生成解读文本
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. 参数解析（disease/confidence 必填，用指针区分缺失与零值）
	var payload struct {
		Disease        *string        `json:"disease"`
		Confidence     *float64       `json:"confidence"`
		Symptoms       []string       `json:"symptoms"`
		ModelBreakdown map[string]any `json:"modelBreakdown"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		failJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Disease == nil || *payload.Disease == "" {
		failJSON(w, http.StatusBadRequest, "disease is required")
		return
	}
	if payload.Confidence == nil {
		failJSON(w, http.StatusBadRequest, "confidence is required")
		return
	}

	// 2. 调用 Service
	req := service.ExplainRequest{
		Disease:    *payload.Disease,
		Confidence: *payload.Confidence,
		Symptoms:   payload.Symptoms,
	}

	explanation, err := h.explanation.Explain(ctx, req)
	if err != nil {
		h.logger.Error("Explain failed", zap.Error(err))
		internalError(w)
		return
	}

	// 3. 构建响应
	writeJSON(w, http.StatusOK, ExplainResponse{
		Success:     true,
		Explanation: explanation,
		Metadata: ExplainMetadata{
			Disease:     req.Disease,
			GeneratedAt: nowRFC3339(),
			Source:      "template",
		},
	})
}

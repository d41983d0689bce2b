package httpapi

import (
	"net/http"
	"time"

	"visioncheck/internal/domain"
)

// 响应信封与前端 `types/api.d.ts` 保持一致：
// - success: bool
// - 错误时附 message + timestamp
// - /api/analyze 成功时附 result/processingTime/modelVersion

// AnalyzeResponse POST /api/analyze 成功响应
type AnalyzeResponse struct {
	Success        bool                   `json:"success"`
	Result         *domain.AnalysisResult `json:"result"`
	Timestamp      string                 `json:"timestamp"`
	ProcessingTime int64                  `json:"processingTime"` // 毫秒
	ModelVersion   string                 `json:"modelVersion"`
}

// ExplainResponse POST /api/explain 成功响应
type ExplainResponse struct {
	Success     bool                `json:"success"`
	Explanation *domain.Explanation `json:"explanation"`
	Metadata    ExplainMetadata     `json:"metadata"`
}

// ExplainMetadata 解读响应的附加信息
type ExplainMetadata struct {
	Disease     string `json:"disease"`
	GeneratedAt string `json:"generatedAt"`
	Source      string `json:"source"` // 固定 "template"
}

// ErrorResponse 统一错误响应（400/401/500）
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func failJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: nowRFC3339(),
	})
}

func internalError(w http.ResponseWriter) {
	failJSON(w, http.StatusInternalServerError, "internal server error")
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

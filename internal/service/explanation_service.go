package service

import (
	"context"
	"fmt"
	"strings"

	"visioncheck/internal/domain"
	"visioncheck/internal/repository"

	"go.uber.org/zap"
)

// ExplainRequest "AI 解读"请求
type ExplainRequest struct {
	Disease    string   // 疾病名称（未知名称回落到 Normal 模板）
	Confidence float64  // 分析置信度
	Symptoms   []string // 可选：前端回传的症状列表；为空时取目录内容
}

// ExplanationService 按疾病模板插值生成解读文本（无任何模型推理）
type ExplanationService struct {
	diseases repository.DiseasesRepo
	logger   *zap.Logger
}

func NewExplanationService(diseases repository.DiseasesRepo, logger *zap.Logger) *ExplanationService {
	return &ExplanationService{diseases: diseases, logger: logger}
}

// Explain 生成七段解读文本
func (s *ExplanationService) Explain(ctx context.Context, req ExplainRequest) (*domain.Explanation, error) {
	record, ok := s.diseases.Get(req.Disease)
	if !ok {
		// 未知疾病名称：回落到 Normal 模板，不报错
		s.logger.Info("Unknown disease name, falling back to Normal template",
			zap.String("disease", req.Disease),
		)
		record = s.diseases.Fallback()
	}

	symptoms := req.Symptoms
	if len(symptoms) == 0 {
		symptoms = record.Symptoms
	}

	return &domain.Explanation{
		Overview: fmt.Sprintf(
			"The multi-stage analysis identified %s with a fused confidence of %g%%. %s",
			record.Name, req.Confidence, record.Description,
		),
		KeyFindings: fmt.Sprintf(
			"The most salient findings for %s in this image class are: %s.",
			record.Name, joinList(symptoms),
		),
		SeverityAssessment: fmt.Sprintf(
			"This condition is classified as severity level \"%s\". The confidence of %g%% reflects the agreement between the model branches, not the stage of the disease.",
			record.Severity, req.Confidence,
		),
		SymptomAnalysis: fmt.Sprintf(
			"Patients with %s typically present with %s. Individual presentation varies and some findings may be absent in early stages.",
			record.Name, joinList(record.Symptoms),
		),
		Recommendations: fmt.Sprintf(
			"Suggested next steps: %s.",
			joinList(record.Recommendations),
		),
		FollowUp: fmt.Sprintf(
			"Recommended follow-up: %s.",
			joinList(record.FollowUp),
		),
		Disclaimer: "This explanation is generated from a demonstration system and is not a medical diagnosis. Always consult a qualified ophthalmologist.",
	}, nil
}

func joinList(items []string) string {
	if len(items) == 0 {
		return "none recorded"
	}
	return strings.Join(items, "; ")
}

package service

import (
	"context"
	"testing"

	"visioncheck/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExplanationService() *ExplanationService {
	return NewExplanationService(repository.NewMemoryDiseasesRepo(), zap.NewNop())
}

func TestExplain_GlaucomaOverview(t *testing.T) {
	svc := newTestExplanationService()

	explanation, err := svc.Explain(context.Background(), ExplainRequest{
		Disease:    "Glaucoma",
		Confidence: 80,
	})
	require.NoError(t, err)

	assert.Contains(t, explanation.Overview, "Glaucoma")
	assert.Contains(t, explanation.Overview, "80")
	assert.NotEmpty(t, explanation.KeyFindings)
	assert.NotEmpty(t, explanation.SeverityAssessment)
	assert.NotEmpty(t, explanation.SymptomAnalysis)
	assert.NotEmpty(t, explanation.Recommendations)
	assert.NotEmpty(t, explanation.FollowUp)
	assert.NotEmpty(t, explanation.Disclaimer)
}

func TestExplain_UnknownDiseaseFallsBackToNormal(t *testing.T) {
	svc := newTestExplanationService()

	explanation, err := svc.Explain(context.Background(), ExplainRequest{
		Disease:    "Keratoconus",
		Confidence: 75,
	})
	require.NoError(t, err)

	// 未知名称走 Normal 模板，不报错
	assert.Contains(t, explanation.Overview, "Normal")
	assert.Contains(t, explanation.Overview, "75")
}

func TestExplain_CallerSymptomsOverrideCatalog(t *testing.T) {
	svc := newTestExplanationService()

	explanation, err := svc.Explain(context.Background(), ExplainRequest{
		Disease:    "Cataract",
		Confidence: 88.5,
		Symptoms:   []string{"sudden glare while driving"},
	})
	require.NoError(t, err)

	assert.Contains(t, explanation.KeyFindings, "sudden glare while driving")
	// 症状分析始终用目录内容
	assert.Contains(t, explanation.SymptomAnalysis, "Cloudy or dim vision")
}

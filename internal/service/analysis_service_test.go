package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"visioncheck/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testImage = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

func newTestAnalysisService(analyses repository.AnalysesRepo, delay time.Duration) *AnalysisService {
	svc := NewAnalysisService(repository.NewMemoryDiseasesRepo(), analyses, delay, "fusion-test", zap.NewNop())
	svc.SetRandSource(rand.NewSource(42))
	return svc
}

func TestAnalyze_MissingImage(t *testing.T) {
	svc := newTestAnalysisService(nil, 0)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{})
	assert.ErrorIs(t, err, ErrMissingImage)
}

func TestAnalyze_InvalidPayload(t *testing.T) {
	svc := newTestAnalysisService(nil, 0)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{Image: "data:text/plain;base64,aGVsbG8="})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestAnalyze_ResultProperties(t *testing.T) {
	svc := newTestAnalysisService(nil, 0)
	catalog := repository.NewMemoryDiseasesRepo()

	// 任意合法载荷：疾病必须在目录内，置信度在 [0, 95]
	for i := 0; i < 500; i++ {
		result, err := svc.Analyze(context.Background(), AnalyzeRequest{Image: testImage})
		require.NoError(t, err)

		_, ok := catalog.Get(result.Disease)
		assert.True(t, ok, "disease %q not in catalog", result.Disease)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 95.0)
		assert.NotEmpty(t, result.AnalysisID)

		// 分量范围
		assert.GreaterOrEqual(t, result.Breakdown.CNNScore, 70.0)
		assert.LessOrEqual(t, result.Breakdown.CNNScore, 92.0)
		assert.GreaterOrEqual(t, result.Breakdown.TransformerScore, 75.0)
		assert.LessOrEqual(t, result.Breakdown.TransformerScore, 95.0)
		assert.GreaterOrEqual(t, result.Breakdown.FusionBoost, 0.0)
		assert.LessOrEqual(t, result.Breakdown.FusionBoost, 6.0)
	}
}

func TestAnalyze_ContextCancelledDuringDelay(t *testing.T) {
	svc := newTestAnalysisService(nil, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Analyze(ctx, AnalyzeRequest{Image: testImage})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnalyze_RecordsHistoryForSignedInUser(t *testing.T) {
	analyses := repository.NewMemoryAnalysesRepo()
	svc := newTestAnalysisService(analyses, 0)

	result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Image:  testImage,
		UserID: "user-1",
	})
	require.NoError(t, err)

	records, err := analyses.ListByUser(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result.AnalysisID, records[0].RecordID)
	assert.Equal(t, result.Disease, records[0].Disease)
	assert.Equal(t, "fusion-test", records[0].ModelVersion)
}

func TestAnalyze_AnonymousLeavesNoHistory(t *testing.T) {
	analyses := repository.NewMemoryAnalysesRepo()
	svc := newTestAnalysisService(analyses, 0)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{Image: testImage})
	require.NoError(t, err)

	records, err := analyses.ListByUser(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, records, 0)
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"visioncheck/internal/repository"
	"visioncheck/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testImagePayload = "data:image/png;base64,iVBORw0KGgo="

func newTestAnalyzeHandler(analyses repository.AnalysesRepo) *AnalyzeHandler {
	svc := service.NewAnalysisService(repository.NewMemoryDiseasesRepo(), analyses, 0, "fusion-test", zap.NewNop())
	return NewAnalyzeHandler(svc, zap.NewNop())
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeHandler_MissingImage(t *testing.T) {
	h := newTestAnalyzeHandler(nil)

	rec := postJSON(t, h, "/api/analyze", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestAnalyzeHandler_BadMarker(t *testing.T) {
	h := newTestAnalyzeHandler(nil)

	rec := postJSON(t, h, "/api/analyze", map[string]any{"image": "hello world"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_Success(t *testing.T) {
	h := newTestAnalyzeHandler(nil)
	catalog := repository.NewMemoryDiseasesRepo()

	rec := postJSON(t, h, "/api/analyze", map[string]any{
		"image":    testImagePayload,
		"metadata": map[string]any{"source": "webcam"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "fusion-test", resp.ModelVersion)
	assert.NotEmpty(t, resp.Timestamp)
	require.NotNil(t, resp.Result)

	_, ok := catalog.Get(resp.Result.Disease)
	assert.True(t, ok, "disease %q not in catalog", resp.Result.Disease)
	assert.GreaterOrEqual(t, resp.Result.Confidence, 0.0)
	assert.LessOrEqual(t, resp.Result.Confidence, 95.0)
}

func TestAnalyzeHandler_Describe(t *testing.T) {
	h := newTestAnalyzeHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var desc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &desc))
	assert.Equal(t, "visioncheck-analysis", desc["service"])
	assert.Contains(t, desc["categories"], "Glaucoma")
}

func TestAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	h := newTestAnalyzeHandler(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

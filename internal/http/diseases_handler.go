package httpapi

import (
	"net/http"

	"visioncheck/internal/repository"
)

// DiseasesHandler GET /api/diseases：疾病目录（信息页用）
type DiseasesHandler struct {
	diseases repository.DiseasesRepo
}

func NewDiseasesHandler(diseases repository.DiseasesRepo) *DiseasesHandler {
	return &DiseasesHandler{diseases: diseases}
}

func (h *DiseasesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"diseases": h.diseases.List(),
	})
}

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"dendrite/internal/domain/services"
	"dendrite/internal/httputil"
)

// ReaderHandler handles the reader-facing page entry point
type ReaderHandler struct {
	service services.ReaderService
	logger  *slog.Logger
}

// NewReaderHandler creates a new reader handler
func NewReaderHandler(service services.ReaderService, logger *slog.Logger) *ReaderHandler {
	return &ReaderHandler{
		service: service,
		logger:  logger,
	}
}

// Redirect resolves a page number to a sampled variant artifact
// GET /r/{page}
func (h *ReaderHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	pageNumber, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || pageNumber < 1 {
		httputil.RespondError(w, http.StatusBadRequest, "invalid page number")
		return
	}

	location, err := h.service.ResolveVariant(r.Context(), pageNumber)
	if err != nil {
		handleError(w, err)
		return
	}

	// 302, not 301: the sampled variant changes between visits.
	http.Redirect(w, r, location, http.StatusFound)
}

// HealthCheck reports service liveness
// GET /health
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handler

import (
	"log/slog"
	"net/http"

	"dendrite/internal/domain/services"
	"dendrite/internal/httputil"
)

// ModerationHandler handles moderation HTTP requests
type ModerationHandler struct {
	service services.ModerationService
	logger  *slog.Logger
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(service services.ModerationService, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		logger:  logger,
	}
}

// GetVariant returns the moderator's open job, assigning one when needed
// GET /api/moderation/variant
func (h *ModerationHandler) GetVariant(w http.ResponseWriter, r *http.Request) {
	moderatorID := httputil.GetModeratorID(r)
	if moderatorID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	job, err := h.service.NextJob(r.Context(), moderatorID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, job)
}

type ratingRequest struct {
	IsApproved *bool `json:"isApproved"`
}

// SubmitRating records the verdict on the moderator's assigned variant
// POST /api/moderation/rating
func (h *ModerationHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	moderatorID := httputil.GetModeratorID(r)
	if moderatorID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ratingRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IsApproved == nil {
		httputil.RespondError(w, http.StatusBadRequest, "isApproved is required")
		return
	}

	if err := h.service.SubmitRating(r.Context(), moderatorID, *req.IsApproved); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reportRequest struct {
	Variant string `json:"variant"`
}

// SubmitReport records an anonymous reader report
// POST /api/moderation/report
func (h *ModerationHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Report(r.Context(), req.Variant); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

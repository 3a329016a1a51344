package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"dendrite/internal/config"
	"dendrite/internal/domain/services"
	"dendrite/internal/httputil"
)

// SubmissionHandler handles story and page form submissions
type SubmissionHandler struct {
	service services.GraphService
	logger  *slog.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(service services.GraphService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger,
	}
}

// SubmitStory accepts a new-story form post
// POST /api/submissions/story
func (h *SubmissionHandler) SubmitStory(w http.ResponseWriter, r *http.Request) {
	form, err := httputil.ParseForm(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &services.SubmitStoryRequest{
		Title:      form.Get("title"),
		Content:    form.Get("content"),
		AuthorName: form.Get("author"),
		AuthorID:   authorID(r),
		Options:    formOptions(form),
	}

	sub, err := h.service.SubmitStory(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"id": sub.ID})
}

// SubmitPage accepts a continuation form post. The form carries either the
// incoming option reference ("option") or a bare page number ("page") for a
// competing variant.
// POST /api/submissions/page
func (h *SubmissionHandler) SubmitPage(w http.ResponseWriter, r *http.Request) {
	form, err := httputil.ParseForm(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pageNumber := 0
	if raw := form.Get("page"); raw != "" {
		pageNumber, err = strconv.Atoi(raw)
		if err != nil || pageNumber < 1 {
			httputil.RespondError(w, http.StatusBadRequest, "invalid page number")
			return
		}
	}

	req := &services.SubmitPageRequest{
		IncomingOption: form.Get("option"),
		PageNumber:     pageNumber,
		Content:        form.Get("content"),
		AuthorName:     form.Get("author"),
		AuthorID:       authorID(r),
		Options:        formOptions(form),
	}

	sub, err := h.service.SubmitPage(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"id": sub.ID})
}

// formOptions collects option1..option4, dropping trailing blanks so a
// half-filled form still submits cleanly.
func formOptions(form url.Values) []string {
	var options []string
	for i := 1; i <= config.MaxOptionCount; i++ {
		value := form.Get(fmt.Sprintf("option%d", i))
		if value != "" {
			options = append(options, value)
		}
	}
	return options
}

// authorID returns the authenticated moderator ID when the submitter is
// signed in; anonymous submissions carry no author ID.
func authorID(r *http.Request) *string {
	if id := httputil.GetModeratorID(r); id != "" {
		return &id
	}
	return nil
}

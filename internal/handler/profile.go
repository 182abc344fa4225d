package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/interview-tracker/internal/model"
	"github.com/sakif/interview-tracker/internal/service"
)

// ProfileHandler serves the caller's single profile at /api/profile.
type ProfileHandler struct {
	svc    *service.ProfileService
	logger *slog.Logger
}

func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// HandleGet returns the profile, or JSON null when none has been saved.
//
// HTTP: GET /api/profile
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), identity(r))
	if err != nil {
		fail(h.logger, w, r, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: POST /api/profile
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.Profile
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.svc.Create(r.Context(), identity(r), in)
	if err != nil {
		fail(h.logger, w, r, "create profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: PUT /api/profile
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.Profile
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.svc.Update(r.Context(), identity(r), in)
	if err != nil {
		fail(h.logger, w, r, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

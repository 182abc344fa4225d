package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/interview-tracker/internal/service"
)

type NoteHandler struct {
	svc    *service.NoteService
	logger *slog.Logger
}

func NewNoteHandler(svc *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{svc: svc, logger: logger}
}

type noteRequest struct {
	Content string `json:"content"`
}

// HTTP: GET /api/notes?userId=
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.List(r.Context(), identity(r), r.URL.Query().Get("userId"))
	if err != nil {
		fail(h.logger, w, r, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// HTTP: POST /api/notes
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.svc.Create(r.Context(), identity(r), req.Content)
	if err != nil {
		fail(h.logger, w, r, "create note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// HTTP: PUT /api/notes/{id}
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.svc.Update(r.Context(), identity(r), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		fail(h.logger, w, r, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// HTTP: DELETE /api/notes/{id}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), identity(r), chi.URLParam(r, "id")); err != nil {
		fail(h.logger, w, r, "delete note", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/interview-tracker/internal/model"
	"github.com/sakif/interview-tracker/internal/service"
)

// InterviewHandler serves /api/interviews.
type InterviewHandler struct {
	svc    *service.InterviewService
	logger *slog.Logger
}

func NewInterviewHandler(svc *service.InterviewService, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{svc: svc, logger: logger}
}

// HandleList returns the caller's interviews, latest first.
//
// HTTP: GET /api/interviews?userId=
func (h *InterviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.svc.List(r.Context(), identity(r), r.URL.Query().Get("userId"))
	if err != nil {
		fail(h.logger, w, r, "list interviews", err)
		return
	}
	writeJSON(w, http.StatusOK, interviews)
}

// HandleGet returns a single interview.
//
// HTTP: GET /api/interviews/{id}
func (h *InterviewHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	iv, err := h.svc.Get(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(h.logger, w, r, "get interview", err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

// HandleCreate creates an interview and, if Google is linked, its
// calendar event.
//
// HTTP: POST /api/interviews
// REQUEST BODY: {"company","position","date","status","round","location?","notes?","salary?"}
func (h *InterviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.InterviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	iv, err := h.svc.Create(r.Context(), identity(r), in)
	if err != nil {
		fail(h.logger, w, r, "create interview", err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

// HandleUpdate replaces an interview's fields.
//
// HTTP: PUT /api/interviews/{id}
func (h *InterviewHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.InterviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	iv, err := h.svc.Update(r.Context(), identity(r), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(h.logger, w, r, "update interview", err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

// HandleDelete removes an interview.
//
// HTTP: DELETE /api/interviews/{id}
func (h *InterviewHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), identity(r), chi.URLParam(r, "id")); err != nil {
		fail(h.logger, w, r, "delete interview", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleExportICS streams the caller's interviews as an iCalendar file.
// A caller with no interviews gets 204.
//
// HTTP: GET /api/interviews.ics
func (h *InterviewHandler) HandleExportICS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="interviews.ics"`)

	err := h.svc.ExportICS(r.Context(), identity(r), w)
	if errors.Is(err, service.ErrNothingToExport) {
		w.Header().Del("Content-Disposition")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		w.Header().Del("Content-Disposition")
		fail(h.logger, w, r, "export interviews", err)
	}
}

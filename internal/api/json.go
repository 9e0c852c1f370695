package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// noticeResponse is returned when an edit was refused. Plan holds the
// unchanged state.
type noticeResponse struct {
	Error  string                `json:"error"`
	Notice string                `json:"notice"`
	Plan   *planservice.PlanView `json:"plan,omitempty"`
}

// decode reads a JSON body into v and validates it.
func decode(w http.ResponseWriter, r *http.Request, v validation.Validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if err := v.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}

// writeError maps service errors to status codes. view may be nil.
func writeError(w http.ResponseWriter, op string, err error, view *planservice.PlanView) {
	switch {
	case errors.Is(err, apperr.ErrBlocked), errors.Is(err, apperr.ErrBusy):
		notice := err.Error()
		if view != nil && view.Notice != "" {
			notice = view.Notice
		}
		writeJSON(w, http.StatusConflict, noticeResponse{Error: "edit refused", Notice: notice, Plan: view})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

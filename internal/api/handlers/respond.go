package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/taskstack/taskstack-be/internal/apperr"
)

// envelope is the uniform top-level response wrapper.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to write response body")
	}
}

// respondData writes {status:"success", data:...}.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{"status": "success", "data": data})
}

// respondError maps an error's kind to a transport status exactly once
// and writes the {status, message} envelope.
func respondError(w http.ResponseWriter, err error) {
	var appError *apperr.Error
	if !errors.As(err, &appError) {
		writeJSON(w, http.StatusInternalServerError, envelope{
			"status":  "error",
			"message": "Something went wrong",
		})
		return
	}

	switch appError.Kind() {
	case apperr.KindValidation:
		body := envelope{"status": "fail", "message": appError.Message()}
		if fields := appError.Fields(); fields != nil {
			body["errors"] = fields
		}
		writeJSON(w, http.StatusBadRequest, body)
	case apperr.KindUnauthenticated:
		writeJSON(w, http.StatusUnauthorized, envelope{"status": "fail", "message": appError.Message()})
	case apperr.KindNotFound:
		writeJSON(w, http.StatusNotFound, envelope{"status": "fail", "message": appError.Message()})
	case apperr.KindConflict:
		writeJSON(w, http.StatusConflict, envelope{"status": "fail", "message": appError.Message()})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{"status": "error", "message": appError.Message()})
	}
}

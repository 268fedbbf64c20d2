package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/entrust/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden), errors.Is(err, common.ErrNotActive):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorAlreadyExists), errors.Is(err, common.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the mapped status. Internal errors are logged by
// the caller and reported without detail.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

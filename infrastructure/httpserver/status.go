package httpserver

import (
	"encoding/json"
	goerrors "errors"
	"net/http"

	"courier/errors"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// statusFor maps the error taxonomy of the service layer onto HTTP codes.
// Anything outside the taxonomy is an internal error.
func statusFor(err error) int {
	switch {
	case goerrors.Is(err, errors.ErrEmptyContent),
		goerrors.Is(err, errors.ErrInvalidParticipants),
		goerrors.Is(err, errors.ErrInvalidPassword),
		goerrors.Is(err, errors.ErrUserAlreadyExists):
		return http.StatusBadRequest
	case goerrors.Is(err, errors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case goerrors.Is(err, errors.ErrForbidden):
		return http.StatusForbidden
	case goerrors.Is(err, errors.ErrThreadNotFound),
		goerrors.Is(err, errors.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

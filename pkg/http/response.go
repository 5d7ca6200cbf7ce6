package http

import (
	"encoding/json"
	"net/http"

	apperrors "stayhub/pkg/errors"
)

// Every response body carries a `success` discriminant. Clients of the
// original API switch on that field rather than the status code, so it is
// kept even though failures now also get real HTTP statuses.

type FailureResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteError converts any error to a failure response. Unknown errors come
// out as a generic internal failure so store faults never leak details to
// clients.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	message := appErr.Message
	if appErr.Code == apperrors.CodeInternal {
		message = "Internal server error"
	}

	return WriteJSON(w, appErr.StatusCode(), FailureResponse{
		Success: false,
		Message: message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func BadRequest(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusBadRequest, FailureResponse{
		Success: false,
		Message: message,
	})
}

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"taskboard/backend/logging"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Logger.Warnf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

// WriteError maps err to its status code. Errors without a kind are logged and hidden behind a
// generic message.
func WriteError(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	message := err.Error()
	if kind == KindInternal {
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", err)
		message = "Internal server error"
	}
	WriteJSON(w, kind.Status(), ErrorBody{Message: message})
}

// DecodeJSON decodes the request body into dst, reporting malformed input as a validation fault.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return NewValidation("Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return NewValidation("Request body is required")
		}
		return NewValidation("Invalid request payload: " + err.Error())
	}
	return nil
}

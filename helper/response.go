package helper

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const encodeFailedBody = `{"success":false,"message":"Failed to encode response"}` + "\n"

// WriteJSON sends v as the JSON body with the given status code. A value
// that cannot be encoded turns into a 500 error body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	raw, err := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		slog.Error("Failed to encode response", "action", "response_encode_failed", "status", status, "error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(encodeFailedBody))
		return
	}
	w.WriteHeader(status)
	w.Write(append(raw, '\n'))
}

// ErrorBody is the envelope for every non-2xx response.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Fields  any    `json:"fields,omitempty"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, body ErrorBody) {
	body.Success = false
	WriteJSON(w, status, body)
}

package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// MessageOK is the message carried by every successful read.
const MessageOK = "execute ok"

// Envelope is the standard API response wrapper. Data and Details are
// omitted from the JSON when nil.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON writes env with the given status code.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes a 200 response carrying data.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{
		Code:    http.StatusOK,
		Message: MessageOK,
		Data:    data,
	})
}

// Message writes a response without data, such as 201 Created or 202 Accepted.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Code:    status,
		Message: message,
	})
}

// Err writes an error response.
func Err(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Code:    status,
		Message: message,
	})
}

// ErrWithDetails writes an error response with additional details.
func ErrWithDetails(w http.ResponseWriter, status int, message string, details any) {
	JSON(w, status, Envelope{
		Code:    status,
		Message: message,
		Details: details,
	})
}

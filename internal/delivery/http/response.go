package http

import (
	"encoding/json"
	"io"
	"net/http"

	"crmsync/internal/domain"
)

// ReasonResponse is the body of every failed signup.
// swagger:model ReasonResponse
type ReasonResponse struct {
	Reason string `json:"reason"`
}

// MessageResponse is the body of every successful signup.
// swagger:model MessageResponse
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteResult writes a signup Result: its headers, its status and, if present, its JSON body.
// A result with no body (the arlo redirect) writes headers and status only.
func WriteResult(w http.ResponseWriter, result domain.Result) {
	for k, v := range result.Headers {
		w.Header().Set(k, v)
	}
	if result.Body == "" {
		w.WriteHeader(result.StatusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.StatusCode)
	_, _ = io.WriteString(w, result.Body)
}

// WriteJSON sets Content-Type to application/json, writes statusCode and encodes v.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteReason writes a failure body outside the signup service (e.g. an undecodable request).
func WriteReason(w http.ResponseWriter, statusCode int, reason string) {
	WriteJSON(w, statusCode, ReasonResponse{Reason: reason})
}

package http

import (
	"encoding/json"
	"net/http"
)

// errorInfo is the JSON error body shape shared by every endpoint.
type errorInfo struct {
	Message string `json:"message"`
}

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the {"message": ...} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorInfo{Message: message})
}

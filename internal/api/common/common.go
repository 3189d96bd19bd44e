// Package common holds the request and response helpers shared by the
// reporting API handlers.
package common

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned for every handler error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes data as a JSON response with the given status.
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteErrorResponse writes message wrapped in an ErrorResponse body.
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

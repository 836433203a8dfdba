package utils

import (
	"encoding/json"
	"net/http"

	"geo_hierarchy/logger"
)

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnw("error encoding response", "error", err)
	}
}

// WriteError writes {"success":false,"error":msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]any{"success": false, "error": msg})
}

// WriteMessage writes {"success":ok,"message":msg}.
func WriteMessage(w http.ResponseWriter, status int, ok bool, msg string) {
	WriteJSON(w, status, map[string]any{"success": ok, "message": msg})
}

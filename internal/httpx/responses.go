package httpx

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// JSON writes v as the entire response body. No envelope: endpoints
// own their wire shape.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a one-field JSON error body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

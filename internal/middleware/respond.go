package middleware

import (
	"encoding/json"
	"net/http"

	"inkwell/internal/content"
)

// writeError sends a failure envelope, so middleware rejections look like
// every other API error.
func writeError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(content.Fail[any](reason))
}

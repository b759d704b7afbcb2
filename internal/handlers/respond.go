package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/content"
)

// maxBodyBytes caps JSON request bodies. Post content is limited to
// 100,000 runes, so this leaves room for multi-byte text.
const maxBodyBytes = 1 << 20

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeFail answers with a failure envelope.
func writeFail(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, content.Fail[any](reason))
}

// statusFor maps a service error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case content.IsValidation(err):
		return http.StatusBadRequest
	case content.IsNotFound(err):
		return http.StatusNotFound
	case content.IsConflict(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respond writes the envelope for a service call. okStatus is used on
// success; errors pick their own status.
func respond[T any](w http.ResponseWriter, op string, v T, err error, okStatus int) {
	status := okStatus
	if err != nil {
		status = statusFor(err)
	}
	writeJSON(w, status, content.Respond(op, v, err))
}

// decodeJSON reads the request body into dst. Unknown fields are ignored.
// It writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("decode request body failed", "path", r.URL.Path, "error", err)
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// idParam parses the {id} URL parameter. It writes a 400 and returns false
// when the id is not a UUID.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

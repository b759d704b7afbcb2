// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"inkwell/internal/auth"
	"inkwell/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the authenticated admin identity.
	IdentityKey contextKey = "identity"
)

// RequireAuth enforces the access gate on every request it wraps. Requests
// the gate denies are redirected to the login path with 303 See Other.
// Allowed requests carrying a credential get the matching identity loaded
// into the context for IdentityFromCtx.
func RequireAuth(gate *auth.Gate, ids auth.Identifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := auth.CredentialFromRequest(r)

			// chi routes on the escaped path, so the gate must judge the same string.
			p := r.URL.EscapedPath()
			if !gate.Allow(r.Context(), p, credential) {
				slog.Info("admin access denied", "path", p, "has_credential", credential != "")
				http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
				return
			}

			if credential != "" && ids != nil {
				id, err := ids.Identify(r.Context(), credential)
				if err != nil {
					// Log but don't block; handlers fall back to an anonymous author.
					slog.Error("identity lookup failed", "error", err)
				} else if id != nil {
					r = r.WithContext(context.WithValue(r.Context(), IdentityKey, id))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromCtx extracts the admin identity from the request context.
// Returns nil if no identity is loaded.
func IdentityFromCtx(ctx context.Context) *models.Identity {
	id, _ := ctx.Value(IdentityKey).(*models.Identity)
	return id
}

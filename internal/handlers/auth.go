package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/content"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// totpIssuer names the account in authenticator apps.
const totpIssuer = "Inkwell"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	authn  *auth.Authenticator
	issuer auth.Issuer
	ttl    time.Duration
	secure bool
}

// NewAuth creates a new Auth handler group. Credentials minted by issuer
// are sent as a cookie living ttl; secure sets the cookie's Secure flag.
func NewAuth(authn *auth.Authenticator, issuer auth.Issuer, ttl time.Duration, secure bool) *Auth {
	return &Auth{authn: authn, issuer: issuer, ttl: ttl, secure: secure}
}

// loginInfo is what a client needs before posting credentials.
type loginInfo struct {
	CSRFToken    string `json:"csrfToken"`
	TOTPRequired bool   `json:"totpRequired"`
}

// LoginPage hands out the CSRF token and says whether a one-time code is
// needed.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, content.OK(loginInfo{
		CSRFToken:    middleware.CSRFTokenFromCtx(r.Context()),
		TOTPRequired: a.authn.TOTPEnabled(),
	}))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

type loginResponse struct {
	Identity  *models.Identity `json:"identity"`
	CSRFToken string           `json:"csrfToken"`
}

// LoginSubmit checks the credentials and sets the auth_token cookie.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := a.authn.Authenticate(req.Username, req.Password, req.Code)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, auth.ErrMissingCredentials) {
			status = http.StatusBadRequest
		}
		slog.Info("login rejected", "username", req.Username, "reason", err)
		writeFail(w, status, err.Error())
		return
	}

	token, err := a.issuer.Issue(ctx, *id)
	if err != nil {
		slog.Error("issue credential failed", "error", err)
		writeFail(w, http.StatusInternalServerError, "Failed to sign in. Please try again later.")
		return
	}
	auth.SetCookie(w, token, a.ttl, a.secure)

	slog.Info("admin signed in", "username", id.Username)
	writeJSON(w, http.StatusOK, content.OK(loginResponse{
		Identity:  id,
		CSRFToken: middleware.CSRFTokenFromCtx(ctx),
	}))
}

// Logout revokes the credential and clears the cookie.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if credential := auth.CredentialFromRequest(r); credential != "" {
		if err := a.issuer.Revoke(r.Context(), credential); err != nil {
			// The cookie is cleared regardless; the session expires on its own.
			slog.Error("revoke credential failed", "error", err)
		}
	}
	auth.ClearCookie(w, a.secure)
	writeJSON(w, http.StatusOK, content.OK[any](nil))
}

// TwoFAQR serves the TOTP enrolment QR code as a PNG.
func (a *Auth) TwoFAQR(w http.ResponseWriter, r *http.Request) {
	if !a.authn.TOTPEnabled() {
		writeFail(w, http.StatusNotFound, "Two-factor authentication is not configured")
		return
	}

	png, err := a.authn.EnrollmentQR(totpIssuer)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeFail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

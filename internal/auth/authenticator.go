// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

// Login failures, worded for display.
var (
	ErrMissingCredentials = errors.New("Username and password are required")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrInvalidCode        = errors.New("Invalid code. Please try again.")
)

// Authenticator checks the single configured admin account: a username, a
// bcrypt-hashed password and, when a TOTP secret is set, a one-time code.
type Authenticator struct {
	username   string
	hash       []byte
	totpSecret string
	identity   models.Identity
}

// NewAuthenticator hashes password and returns an authenticator for id.
// An empty totpSecret disables the second factor.
func NewAuthenticator(id models.Identity, password, totpSecret string) (*Authenticator, error) {
	if id.Username == "" || password == "" {
		return nil, errors.New("authenticator: username and password must be set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("authenticator bcrypt: %w", err)
	}
	return &Authenticator{
		username:   id.Username,
		hash:       hash,
		totpSecret: strings.TrimSpace(totpSecret),
		identity:   id,
	}, nil
}

// TOTPEnabled reports whether logins need a one-time code.
func (a *Authenticator) TOTPEnabled() bool {
	return a.totpSecret != ""
}

// Authenticate returns the admin identity when the credentials match.
// code is ignored unless TOTP is enabled.
func (a *Authenticator) Authenticate(username, password, code string) (*models.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	// Always run bcrypt so an unknown username costs the same as a wrong
	// password.
	pwErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	if !userOK || pwErr != nil {
		return nil, ErrInvalidCredentials
	}

	if a.TOTPEnabled() && !totp.Validate(strings.TrimSpace(code), a.totpSecret) {
		return nil, ErrInvalidCode
	}

	id := a.identity
	return &id, nil
}

// EnrollmentQR renders the otpauth:// URL for the admin's TOTP secret as a
// PNG QR code.
func (a *Authenticator) EnrollmentQR(issuer string) ([]byte, error) {
	if !a.TOTPEnabled() {
		return nil, errors.New("totp is not enabled")
	}
	png, err := qrcode.Encode(a.enrollmentURL(issuer), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("totp qr encode: %w", err)
	}
	return png, nil
}

func (a *Authenticator) enrollmentURL(issuer string) string {
	q := url.Values{}
	q.Set("secret", a.totpSecret)
	q.Set("issuer", issuer)
	return fmt.Sprintf("otpauth://totp/%s:%s?%s",
		url.PathEscape(issuer), url.PathEscape(a.username), q.Encode())
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth decides who may enter the admin area. The Gate holds the
// path policy; credential checks are delegated to a Verifier so the
// static shared token and Valkey-backed sessions are interchangeable.
package auth

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"inkwell/internal/models"
)

// CookieName is the cookie carrying the admin credential.
const CookieName = "auth_token"

// Verifier reports whether a credential is currently valid.
type Verifier interface {
	Verify(ctx context.Context, credential string) (bool, error)
}

// Issuer mints credentials for an authenticated identity and revokes them
// on logout.
type Issuer interface {
	Issue(ctx context.Context, id models.Identity) (string, error)
	Revoke(ctx context.Context, credential string) error
}

// Identifier resolves a credential back to the identity it was issued for.
// It returns nil when the credential is unknown.
type Identifier interface {
	Identify(ctx context.Context, credential string) (*models.Identity, error)
}

// Provider is a credential backend that can do all three.
type Provider interface {
	Verifier
	Issuer
	Identifier
}

// Gate guards every path under Prefix except LoginPath.
type Gate struct {
	Prefix    string
	LoginPath string
	Verifier  Verifier
}

// NewGate returns a gate for the admin area rooted at prefix.
func NewGate(prefix, loginPath string, v Verifier) *Gate {
	return &Gate{Prefix: prefix, LoginPath: loginPath, Verifier: v}
}

// Protects reports whether p falls inside the guarded area. p must be the
// path the router matches on (the escaped path), and only that exact
// string equal to LoginPath is exempt: aliases such as "/admin/x/../login"
// or "/admin/posts/..%2Flogin" are routed elsewhere, so they stay guarded.
func (g *Gate) Protects(p string) bool {
	if p == g.LoginPath {
		return false
	}
	p = path.Clean("/" + p)
	return p == g.Prefix || strings.HasPrefix(p, g.Prefix+"/")
}

// Allow decides whether a request for p carrying credential may proceed.
// The login path is always allowed; any other guarded path needs a
// credential the Verifier accepts. Verifier failures deny.
func (g *Gate) Allow(ctx context.Context, p, credential string) bool {
	if !g.Protects(p) {
		return true
	}
	if credential == "" || g.Verifier == nil {
		return false
	}
	ok, err := g.Verifier.Verify(ctx, credential)
	if err != nil {
		slog.Error("credential verification failed", "path", p, "error", err)
		return false
	}
	return ok
}

package auth

import (
	"context"
	"crypto/subtle"

	"inkwell/internal/models"
)

// StaticToken accepts exactly one shared token. Every successful login is
// handed the same token and logout cannot revoke it; it exists for local
// development and single-operator installs.
type StaticToken struct {
	token    string
	identity models.Identity
}

// NewStaticToken returns a provider that issues and accepts token.
func NewStaticToken(token string, id models.Identity) *StaticToken {
	return &StaticToken{token: token, identity: id}
}

func (s *StaticToken) Verify(_ context.Context, credential string) (bool, error) {
	return s.matches(credential), nil
}

func (s *StaticToken) Issue(context.Context, models.Identity) (string, error) {
	return s.token, nil
}

// Revoke is a no-op: the shared token stays valid until reconfigured.
func (s *StaticToken) Revoke(context.Context, string) error {
	return nil
}

func (s *StaticToken) Identify(_ context.Context, credential string) (*models.Identity, error) {
	if !s.matches(credential) {
		return nil, nil
	}
	id := s.identity
	return &id, nil
}

func (s *StaticToken) matches(credential string) bool {
	if s.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(s.token)) == 1
}

var _ Provider = (*StaticToken)(nil)

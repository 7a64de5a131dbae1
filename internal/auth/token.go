package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrTokenMissing = errors.New("missing bearer token")
	ErrTokenInvalid = errors.New("invalid token")
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrTokenMissing
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrTokenMissing
	}
	return token, nil
}

// Verifier checks admin tokens against a bcrypt hash. A zero Verifier
// accepts nothing; callers decide whether auth is enabled at all.
type Verifier struct {
	hash []byte
}

func NewVerifier(hash string) (*Verifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("admin token hash: %w", err)
	}
	return &Verifier{hash: []byte(hash)}, nil
}

func (v *Verifier) Verify(token string) error {
	if v == nil || len(v.hash) == 0 {
		return ErrTokenInvalid
	}
	if bcrypt.CompareHashAndPassword(v.hash, []byte(token)) != nil {
		return ErrTokenInvalid
	}
	return nil
}

func HashToken(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrTokenMissing
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(hash), nil
}

package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"recap/internal/config"
	"recap/internal/services"
)

// Gate checks the shared story password. It keeps casual visitors out and
// nothing more: there is no rate limiting or lockout.
type Gate struct {
	password []byte
	hash     []byte
}

// NewGate builds a gate from a plain password or a bcrypt hash. Exactly one
// must be set.
func NewGate(password, hash string) (*Gate, error) {
	password = strings.TrimSpace(password)
	hash = strings.TrimSpace(hash)
	switch {
	case password != "" && hash != "":
		return nil, services.Wrap(services.ErrConfiguration, "session", "gate", "set either password or password_hash, not both", nil)
	case hash != "":
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "session", "gate", "invalid password_hash", err)
		}
		return &Gate{hash: []byte(hash)}, nil
	case password != "":
		return &Gate{password: []byte(password)}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "session", "gate", "no password configured", nil)
	}
}

// GateFromConfig builds the gate from the [gate] section.
func GateFromConfig(cfg *config.Config) (*Gate, error) {
	return NewGate(cfg.Gate.Password, cfg.Gate.PasswordHash)
}

// Check reports whether submitted matches. Surrounding whitespace is ignored.
func (g *Gate) Check(submitted string) bool {
	candidate := []byte(strings.TrimSpace(submitted))
	if len(candidate) == 0 {
		return false
	}
	if g.hash != nil {
		return bcrypt.CompareHashAndPassword(g.hash, candidate) == nil
	}
	return subtle.ConstantTimeCompare(candidate, g.password) == 1
}

// HashPassword returns a bcrypt hash suitable for gate.password_hash.
func HashPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Package auth guards the admin surface with a shared secret.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// SecretParam is the query parameter that carries the admin secret.
const SecretParam = "senha"

// ErrUnauthorized is returned when the secret is missing or wrong.
var ErrUnauthorized = errors.New("senha incorreta")

// Gate checks requests against the configured admin secret.
type Gate struct {
	secret []byte
}

// NewGate creates a gate for secret. An empty secret rejects everything.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Check compares provided against the secret in constant time.
func (g *Gate) Check(provided string) error {
	if len(g.secret) == 0 || provided == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(provided), g.secret) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Authorize checks the secret sent in the request query string.
func (g *Gate) Authorize(r *http.Request) error {
	return g.Check(r.URL.Query().Get(SecretParam))
}

// Middleware runs next only for authorized requests. Rejected requests are
// handed to deny, which writes the 401 in whatever format the route needs.
func (g *Gate) Middleware(deny http.HandlerFunc, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Authorize(r); err != nil {
			deny(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Package auth guards the web UI with a single shared credential.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// ErrEmptyCredential is returned by NewGate when no credential is configured.
var ErrEmptyCredential = errors.New("credential cannot be empty")

// Realm is sent in the WWW-Authenticate challenge.
const Realm = "Coffee Roulette"

// Gate compares candidates against the configured credential.
// A Gate holds no session state; every request carries its own candidate.
type Gate struct {
	credential []byte
}

// NewGate creates a gate for credential.
func NewGate(credential string) (*Gate, error) {
	if credential == "" {
		return nil, ErrEmptyCredential
	}
	return &Gate{credential: []byte(credential)}, nil
}

// Check reports whether candidate equals the credential.
// The comparison takes the same time for every candidate of a given length.
func (g *Gate) Check(candidate string) bool {
	if candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), g.credential) == 1
}

// Middleware requires HTTP Basic auth with any user name and the gate's
// credential as password.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, password, ok := r.BasicAuth()
		if !ok || !g.Check(password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
			http.Error(w, "Incorrect password.", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

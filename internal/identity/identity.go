// Package identity provides the process-identity token used to recognize
// and drop self-originated keyspace notifications.
package identity

import (
	"os"

	"github.com/google/uuid"
)

// Token uniquely identifies this process's cache instance, with high
// probability, among other cache-client processes sharing the same remote
// store. It never contains ':', the detailed-channel wire delimiter.
type Token string

// Provider returns a stable token for the lifetime of the process.
type Provider struct {
	token Token
}

// NewProvider builds a Provider from the local hostname and a random
// component. The hostname is sanitized (colons replaced — IPv6 literals and
// some container hostnames carry them) and validated on a best-effort
// basis; an invalid or unavailable hostname falls back to "unknown-host"
// rather than failing construction, since the random component alone is
// already enough to make the token distinguishable.
func NewProvider() *Provider {
	return &Provider{token: Token(buildToken())}
}

// Current returns the process token.
func (p *Provider) Current() Token {
	return p.token
}

func buildToken() string {
	return sanitizeHost(hostnameOrFallback()) + "-" + uuid.NewString()
}

func hostnameOrFallback() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown-host"
	}
	return h
}

// sanitizeHost delegates to sanitizeToken for the wire-delimiter-safe,
// shape-validated rendering of h.
func sanitizeHost(h string) string {
	return sanitizeToken(h)
}

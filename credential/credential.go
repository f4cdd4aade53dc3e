// Package credential holds the access token used to talk to the document
// store and keeps it fresh. The token lives in an explicitly owned Cell that
// is handed to whoever needs it; there is no package-level state.
package credential

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoCredential is returned when the cell has not been filled yet.
var ErrNoCredential = errors.New("no credential available")

type Token struct {
	Value string
	// Expiry is zero when the token does not say.
	Expiry time.Time
}

// Cell is a thread-safe holder for the current token.
type Cell struct {
	mu    sync.RWMutex
	token Token
}

func (c *Cell) Set(t Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = t
}

func (c *Cell) Get() Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OIDCCallback serves the current token to the Mongo driver when the
// MONGODB-OIDC mechanism is used. The driver calls it on connect and again
// when the server rejects an expired token.
func (c *Cell) OIDCCallback(ctx context.Context, _ *options.OIDCArgs) (*options.OIDCCredential, error) {
	t := c.Get()
	if t.Value == "" {
		return nil, ErrNoCredential
	}

	cred := &options.OIDCCredential{AccessToken: t.Value}
	if !t.Expiry.IsZero() {
		exp := t.Expiry
		cred.ExpiresAt = &exp
	}
	return cred, nil
}

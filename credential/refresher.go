package credential

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultInterval matches the lifetime of the store's session tokens.
const DefaultInterval = 30 * time.Minute

var refreshes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipes_credential_refreshes_total",
		Help: "Credential refresh attempts by result",
	},
	[]string{"result"},
)

// Refresher periodically replaces the token in Cell with one from Source.
type Refresher struct {
	Source   Source
	Cell     *Cell
	Interval time.Duration
}

// Refresh fetches one token. On failure the previous token stays in place.
func (r *Refresher) Refresh(ctx context.Context) error {
	t, err := r.Source.Token(ctx)
	if err != nil {
		refreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh credential: %w", err)
	}
	r.Cell.Set(t)
	refreshes.WithLabelValues("ok").Inc()
	return nil
}

// Run refreshes every Interval until ctx is done. Refresh failures are
// logged and retried at the next tick; a request racing a refresh may see
// the old token.
func (r *Refresher) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				slog.Warn("credential refresh failed", "error", err)
				continue
			}
			slog.Debug("credential refreshed", "expiry", r.Cell.Get().Expiry)
		}
	}
}

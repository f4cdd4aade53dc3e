// Package home serves the liveness and readiness endpoints.
package home

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/julienschmidt/httprouter"

	"recipesplusplus/utils"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

type Status struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Failures  map[string]string `json:"failures,omitempty"`
}

// Health answers as long as the process is serving.
func Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, Status{Status: "healthy", Timestamp: time.Now().UTC()})
}

type Handler struct {
	Checks  map[string]Check
	Timeout time.Duration
}

// Ready runs every check and answers 503 if any of them fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	failures := map[string]string{}
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		utils.RespondWithJSON(w, http.StatusServiceUnavailable, Status{
			Status:    "not_ready",
			Timestamp: time.Now().UTC(),
			Failures:  failures,
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, Status{Status: "ready", Timestamp: time.Now().UTC()})
}

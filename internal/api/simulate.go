package api

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"
)

// Default simulation parameters.
const (
	DefaultLatencyMin  = 200 * time.Millisecond
	DefaultLatencyMax  = 1200 * time.Millisecond
	DefaultFailureRate = 0.075
)

// Simulation configures artificial latency on every request and a random
// server error on writes. The zero value disables both.
type Simulation struct {
	LatencyMin  time.Duration
	LatencyMax  time.Duration
	FailureRate float64
	// Float returns a number in [0, 1). Defaults to math/rand/v2.
	Float func() float64
}

func (s Simulation) float() float64 {
	if s.Float != nil {
		return s.Float()
	}
	return rand.Float64()
}

// latency draws a delay uniformly from [LatencyMin, LatencyMax].
func (s Simulation) latency() time.Duration {
	lo, hi := s.LatencyMin, s.LatencyMax
	if hi < lo {
		hi = lo
	}
	if hi <= 0 {
		return 0
	}
	return lo + time.Duration(s.float()*float64(hi-lo))
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Simulate delays each request and fails writes with probability
// FailureRate before they reach the handler, so a failed write changes
// nothing.
func Simulate(sim Simulation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := sim.latency(); d > 0 {
				if err := sleep(r.Context(), d); err != nil {
					return
				}
			}
			if isWrite(r.Method) && sim.FailureRate > 0 && sim.float() < sim.FailureRate {
				slog.Debug("simulated write failure", "method", r.Method, "path", r.URL.Path)
				httpError(w, http.StatusInternalServerError, "server_error", "simulated server error")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

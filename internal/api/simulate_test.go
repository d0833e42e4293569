package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
}

func TestSimulate_FailsWritesOnly(t *testing.T) {
	var calls int
	h := Simulate(Simulation{FailureRate: 0.5, Float: func() float64 { return 0.1 }})(countingHandler(&calls))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/jobs", nil))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", method, rr.Code)
		}
	}
	if calls != 0 {
		t.Fatalf("failed writes reached the handler %d times", calls)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	if rr.Code != http.StatusOK || calls != 1 {
		t.Fatalf("read: status = %d, calls = %d", rr.Code, calls)
	}
}

func TestSimulate_PassesAboveRate(t *testing.T) {
	var calls int
	h := Simulate(Simulation{FailureRate: 0.075, Float: func() float64 { return 0.5 }})(countingHandler(&calls))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/jobs/1", nil))
	if rr.Code != http.StatusOK || calls != 1 {
		t.Fatalf("status = %d, calls = %d", rr.Code, calls)
	}
}

func TestSimulation_Latency(t *testing.T) {
	tests := []struct {
		sim  Simulation
		want time.Duration
	}{
		{Simulation{}, 0},
		{Simulation{LatencyMin: 200 * time.Millisecond, LatencyMax: 1200 * time.Millisecond, Float: func() float64 { return 0 }}, 200 * time.Millisecond},
		{Simulation{LatencyMin: 200 * time.Millisecond, LatencyMax: 1200 * time.Millisecond, Float: func() float64 { return 0.5 }}, 700 * time.Millisecond},
		{Simulation{LatencyMin: 50 * time.Millisecond, Float: func() float64 { return 0.9 }}, 50 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := tt.sim.latency(); got != tt.want {
			t.Errorf("latency(%+v) = %v, want %v", tt.sim, got, tt.want)
		}
	}
}

func TestSimulate_DelaysRequest(t *testing.T) {
	var calls int
	h := Simulate(Simulation{LatencyMin: 20 * time.Millisecond, LatencyMax: 20 * time.Millisecond})(countingHandler(&calls))

	start := time.Now()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("request returned after %v, want at least 20ms", elapsed)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/translay/translay/internal/server/middleware"
)

// Pinger is the contract health checks run against dependencies.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the aggregate health payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthManager runs registered dependency checks.
type HealthManager struct {
	checkers map[string]Pinger
	version  string
}

func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		checkers: make(map[string]Pinger),
		version:  version,
	}
}

// RegisterChecker adds a named dependency check. Nil checkers are ignored.
func (hm *HealthManager) RegisterChecker(name string, checker Pinger) {
	if checker == nil {
		return
	}
	hm.checkers[name] = checker
}

func (hm *HealthManager) runChecks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string, len(hm.checkers))
	healthy := true

	for name, checker := range hm.checkers {
		if err := checker.Ping(ctx); err != nil {
			checks[name] = "unhealthy"
			healthy = false
			continue
		}
		checks[name] = "healthy"
	}

	return checks, healthy
}

// HealthHandler serves the aggregate health check.
func (hm *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := hm.runChecks(ctx)

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:    status,
		Version:   hm.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// LivenessHandler reports only that the process is serving requests.
func (hm *HealthManager) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessHandler reports whether dependencies are reachable.
func (hm *HealthManager) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := hm.runChecks(ctx)
	if !healthy {
		middleware.WriteErrorEnvelope(w, r, http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE", "readiness probe failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:    "ready",
		Version:   hm.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

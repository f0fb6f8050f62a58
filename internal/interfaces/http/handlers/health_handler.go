package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker is implemented by dependencies that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to HealthChecker.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewCheckFunc returns a HealthChecker named name that calls fn.
func NewCheckFunc(name string, fn func(ctx context.Context) error) CheckFunc {
	return CheckFunc{name: name, fn: fn}
}

func (c CheckFunc) Name() string                    { return c.name }
func (c CheckFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
	timeout  time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
		timeout:  5 * time.Second,
	}
}

// LivenessResponse is the response for the liveness check.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the response for the readiness check.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ComponentCheck represents the health status of a single component.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Liveness handles GET /healthz.  It never touches dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz.  Any unhealthy dependency yields 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if len(h.checkers) == 0 {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	resp := ReadinessResponse{Status: "ready", Components: components}
	for _, c := range components {
		if c.Status != "healthy" {
			resp.Status = "not_ready"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// checkAll checks every dependency concurrently.  Each checker writes only
// its own slot, so no lock is needed.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	checks := make([]ComponentCheck, len(h.checkers))
	var g errgroup.Group
	for i, checker := range h.checkers {
		i, checker := i, checker
		g.Go(func() error {
			start := time.Now()
			err := checker.Check(ctx)
			checks[i] = ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				checks[i].Status = "unhealthy"
				checks[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]ComponentCheck, len(checks))
	for i, checker := range h.checkers {
		results[checker.Name()] = checks[i]
	}
	return results
}

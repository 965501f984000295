package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"timecapsule/internal/platform/httpx"
)

// HealthCheck probes one shared resource.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// AppController is the root-level controller: service identity and health.
type AppController struct {
	ServiceName string
	Environment string
	APIVersion  string
	Checks      []HealthCheck
	Logger      *slog.Logger
}

type serviceInfoResponse struct {
	Service     string `json:"service"`
	Environment string `json:"environment"`
	APIVersion  string `json:"api_version"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (c AppController) Mount(r chi.Router) {
	r.Get("/", c.handleInfo)
	r.Get("/healthz", c.handleHealth)
}

// handleInfo godoc
// @Summary Service identity
// @Tags root
// @Produce json
// @Success 200 {object} serviceInfoResponse
// @Router / [get]
func (c AppController) handleInfo(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, serviceInfoResponse{
		Service:     c.ServiceName,
		Environment: c.Environment,
		APIVersion:  c.APIVersion,
	})
}

// handleHealth godoc
// @Summary Shared resource health
// @Tags root
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /healthz [get]
func (c AppController) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(c.Checks))
	var failed []string
	for _, check := range c.Checks {
		if err := check.Check(ctx); err != nil {
			results[check.Name] = "down"
			failed = append(failed, check.Name)
			if c.Logger != nil {
				c.Logger.Warn("health check failed",
					"event", "health_check_failed",
					"module", "internal/platform/httpserver",
					"layer", "platform",
					"check", check.Name,
					"error", err.Error(),
				)
			}
			continue
		}
		results[check.Name] = "up"
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		httpx.WriteError(w, http.StatusServiceUnavailable, "unhealthy", "failing checks: "+strings.Join(failed, ","))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: results})
}

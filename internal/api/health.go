package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	readinessTimeout = 2 * time.Second
	probeTimeout     = time.Second
)

// probe is one readiness dependency. A soft probe degrades the report
// when it fails; a hard one fails readiness outright.
type probe struct {
	name string
	ping func(ctx context.Context) error
	soft bool
}

type HealthHandler struct {
	probes  []probe
	env     string
	version string
}

// NewHealthHandler reports on the two backing stores. Postgres is
// hard: nothing works without it. Redis is soft: bookings degrade to
// best-effort locking and notifications queue up, so a Redis outage
// alone must not pull the server out of rotation.
func NewHealthHandler(pgPool *pgxpool.Pool, rdb *redis.Client, env, version string) *HealthHandler {
	return newHealthHandler([]probe{
		{name: "postgres", ping: pgPool.Ping},
		{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }, soft: true},
	}, env, version)
}

func newHealthHandler(probes []probe, env, version string) *HealthHandler {
	return &HealthHandler{probes: probes, env: env, version: version}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]string, len(h.probes))
	status := "ok"
	for _, p := range h.probes {
		pingCtx, pingCancel := context.WithTimeout(ctx, probeTimeout)
		err := p.ping(pingCtx)
		pingCancel()
		if err == nil {
			deps[p.name] = "ok"
			continue
		}
		deps[p.name] = "down"
		if !p.soft {
			status = "error"
		} else if status == "ok" {
			status = "degraded"
		}
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	})
}

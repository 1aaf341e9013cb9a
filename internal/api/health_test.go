package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthProbe(name string, soft bool, err error) probe {
	return probe{
		name: name,
		soft: soft,
		ping: func(context.Context) error { return err },
	}
}

func readiness(t *testing.T, probes ...probe) (int, ReadinessResponse) {
	t.Helper()
	h := newHealthHandler(probes, "test", "0.0.0")
	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestLiveness(t *testing.T) {
	h := newHealthHandler(nil, "test", "1.2.3")
	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp LivenessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestReadiness_AllUp(t *testing.T) {
	code, resp := readiness(t,
		healthProbe("postgres", false, nil),
		healthProbe("redis", true, nil),
	)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Dependencies["postgres"])
	assert.Equal(t, "ok", resp.Dependencies["redis"])
}

func TestReadiness_HardDependencyDownFailsReadiness(t *testing.T) {
	code, resp := readiness(t,
		healthProbe("postgres", false, errors.New("connection refused")),
		healthProbe("redis", true, nil),
	)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "down", resp.Dependencies["postgres"])
}

func TestReadiness_SoftDependencyDownDegrades(t *testing.T) {
	code, resp := readiness(t,
		healthProbe("postgres", false, nil),
		healthProbe("redis", true, errors.New("connection refused")),
	)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Dependencies["redis"])
}

func TestReadiness_BothDownReportsError(t *testing.T) {
	code, resp := readiness(t,
		healthProbe("postgres", false, errors.New("connection refused")),
		healthProbe("redis", true, errors.New("connection refused")),
	)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", resp.Status)
}

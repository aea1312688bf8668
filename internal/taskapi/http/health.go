package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
	"github.com/aussiebroadwan/taskapi/pkg/taskclient"
)

const serviceName = "Task Management API"

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process runs. With ?token= the response also reports whether
//	@Description	that token is well formed, correctly signed and unexpired, regardless of its subject.
//	@Tags			Health
//	@Produce		json
//	@Param			token	query		string					false	"Bearer token to check"
//	@Success		200		{object}	taskclient.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string, tokens *jwtx.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := taskclient.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		if raw := r.URL.Query().Get("token"); raw != "" {
			resp.Token = "invalid"
			if tokens.Valid(raw, time.Now()) {
				resp.Token = "valid"
			}
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Reports 503 while the database is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	taskclient.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	taskclient.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &taskclient.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, taskclient.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// ServiceHealthHandler godoc
//
//	@Summary		Task service health
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	taskclient.ServiceHealthResponse
//	@Router			/api/tasks/health [get].
func ServiceHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, taskclient.ServiceHealthResponse{
			Status:    "UP",
			Service:   serviceName,
			Timestamp: time.Now().UTC(),
		})
	}
}

package http

import (
	"net/http"
	"time"

	"github.com/sicc-salud/siccapi/internal/api/store"
	"github.com/sicc-salud/siccapi/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It checks the database connection
// and answers 503 when the service should be taken out of rotation.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

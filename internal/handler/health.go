package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/huntclub/hunt-api/internal/infra"
)

// Liveness answers GET /health without touching dependencies.
func Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// HealthHandler returns a readiness endpoint that pings the database. The
// ping error is logged, never returned to the client.
func HealthHandler(db infra.Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := infra.HealthCheck(r.Context(), db); err != nil {
			logger.Error("readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "unhealthy",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

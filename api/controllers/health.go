package controllers

import (
	"net/http"

	"github.com/mfarias-dev/puntoventa-backend/api/responses"
	"github.com/mfarias-dev/puntoventa-backend/pkg/config"
	"github.com/mfarias-dev/puntoventa-backend/pkg/db"
	"github.com/mfarias-dev/puntoventa-backend/pkg/logger"
	pkgredis "github.com/mfarias-dev/puntoventa-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Puntoventa-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and Redis so orchestrators only route
// traffic once the backing services answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Puntoventa-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.database", err)
				}
			} else {
				checks["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.redis", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}

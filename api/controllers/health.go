package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/techvent/inventory-backend/api/responses"
	"github.com/techvent/inventory-backend/pkg/config"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/logger"
)

// Pinger is implemented by clients that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TechVent-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the database and redis connections before
// reporting ready.
func HealthReady(cfg *config.Config, dbPinger, redisPinger Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TechVent-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if dbPinger != nil {
			if err := dbPinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisPinger != nil {
			if err := redisPinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

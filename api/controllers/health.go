package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/webcodesigner/pricemanager-backend/api/responses"
	"github.com/webcodesigner/pricemanager-backend/pkg/config"
	"github.com/webcodesigner/pricemanager-backend/pkg/db"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

// Pinger exposes the health check surface of an optional dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PriceManager-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the hard dependencies. Redis is optional wiring, so a
// nil client is simply reported as disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PriceManager-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}

		if dbP == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
		checks["database"] = "ok"

		if redisP == nil {
			checks["redis"] = "disabled"
		} else if err := redisP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
			return
		} else {
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

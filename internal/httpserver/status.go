package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

type ServerStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// StatusHandler answers with a fixed payload and touches no dependency.
func StatusHandler(service string) echo.HandlerFunc {
	body := ServerStatus{Status: "ok", Service: service}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, body)
	}
}

// ReadyHandler reports 503 while ping fails.
func ReadyHandler(ping func(context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness_failed", "status", 503, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	}
}

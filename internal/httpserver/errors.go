package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
)

// ErrorHandler renders every error as {"error": "..."}. Messages that are
// already maps are written as they are.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var body any = echo.Map{"error": http.StatusText(code)}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case echo.Map:
			body = m
		case string:
			body = echo.Map{"error": m}
		case error:
			body = echo.Map{"error": m.Error()}
		default:
			body = echo.Map{"error": http.StatusText(code)}
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}

// httpError logs a service error under event and turns it into the response
// for its class. Persistence details never reach the client.
func httpError(l *slog.Logger, event string, err error) error {
	var stock *domain.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		l.Warn(event, "status", 400, "reason", "insufficient stock", "product_id", stock.ProductID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"error":      "insufficient stock",
			"product_id": stock.ProductID,
			"requested":  stock.Requested,
			"available":  stock.Available,
		})
	case errors.Is(err, domain.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		l.Warn(event, "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		l.Warn(event, "status", 403, "reason", "forbidden", "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		l.Warn(event, "status", 409, "reason", "already exists", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", 400, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

package httpserver

import (
	"log/slog"
	"slices"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/inventory/internal/metrics"
	loggingmw "github.com/Skotchmaster/inventory/internal/middleware/logging"
)

// NewEcho builds the echo instance with the process-wide middleware chain.
// Only origins listed in corsOrigins may make cross-origin calls.
func NewEcho(logger *slog.Logger, m *metrics.Metrics, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if m != nil {
		e.Use(m.Middleware)
	}
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "frame-ancestors 'none'",
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			return slices.Contains(corsOrigins, origin), nil
		},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit("1M"))

	return e
}

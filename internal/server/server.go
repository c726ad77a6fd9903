package server

import (
	"context"
	"net/http"

	"ec-checkout/internal/config"
	"ec-checkout/internal/handler"
	appmw "ec-checkout/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Pinger はDBの疎通確認（/healthz）
type Pinger func(ctx context.Context) error

type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
}

// New はechoを組み立てる（起動はしない）
func New(cfg config.Config, log *zap.Logger, h Handlers, ping Pinger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(appmw.RequestLogger(log))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: cfg.RequestTimeout,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		if err := ping(c.Request().Context()); err != nil {
			log.Warn("health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, handler.ErrorResponse{Error: "db unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Products.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Orders.RegisterRoutes(e, cfg)

	return e
}

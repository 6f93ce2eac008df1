package router

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo, healthHandler *handler.HealthHandler) {
	e.GET("/health", healthHandler.Health)
	e.GET("/health/ready", healthHandler.Ready)
}

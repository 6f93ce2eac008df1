package router

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/adapter/api/handler"
	"skysend/internal/adapter/api/middleware"
)

func SetupReferenceRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	referenceHandler := handler.NewReferenceHandler()

	e.GET("/v1/airports", referenceHandler.ListAirports, authMiddleware.Authenticate)
	e.GET("/v1/airlines", referenceHandler.ListAirlines, authMiddleware.Authenticate)
}

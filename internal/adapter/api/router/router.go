package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skysend/internal/adapter/api/handler"
	"skysend/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	wsHandler *handler.WebSocketHandler,
	fileHandler *handler.FileHandler,
	healthHandler *handler.HealthHandler,
) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware, adminMiddleware)
	SetupOrderRouter(e, authMiddleware)
	SetupFlightRouter(e, authMiddleware)
	SetupReferenceRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupFileRouter(e, fileHandler, authMiddleware)
	SetupWebSocketRouter(e, wsHandler)
	SetupHealthRouter(e, healthHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

package router

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers the realtime endpoint. Authentication is
// handled inside the handler so clients can pass a token query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}

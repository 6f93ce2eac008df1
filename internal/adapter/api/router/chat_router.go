package router

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/adapter/api/handler"
	"skysend/internal/adapter/api/middleware"
)

// SetupChatRouter registers the chat REST endpoints. Chats themselves are
// created server-side when an order is matched, so there is no POST /chats.
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.GET("", chatHandler.GetConversations)
	chats.PUT("/:id/read", chatHandler.MarkChatAsRead)
	chats.PUT("/:id/typing", chatHandler.SetTyping)

	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.GET("/:id/messages", chatHandler.GetChatMessages)
}

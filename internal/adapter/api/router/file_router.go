package router

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/adapter/api/handler"
	"skysend/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, fileHandler *handler.FileHandler, authMiddleware *middleware.AuthMiddleware) {
	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)
	files.Use(middleware.UploadRateLimit())

	files.POST("/upload", fileHandler.Upload)
	files.POST("/signed-url", fileHandler.SignedUploadURL)
}

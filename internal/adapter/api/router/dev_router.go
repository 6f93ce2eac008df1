package router

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/adapter/api/handler"
)

// SetupDevRouter mounts the development-only token endpoint. Never mounted
// outside the development environment.
func SetupDevRouter(e *echo.Echo, environment string, devTokenHandler *handler.DevTokenHandler) {
	if environment != "development" {
		return
	}

	e.POST("/_dev/token", devTokenHandler.IssueToken)
}

package router

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/adapter/api/handler"
	"skysend/internal/adapter/api/middleware"
)

func SetupFlightRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	flightHandler := handler.GetFlightHandler()

	flights := e.Group("/v1/flights")
	flights.Use(authMiddleware.Authenticate)

	flights.POST("", flightHandler.CreateFlight)
	flights.GET("/mine", flightHandler.ListMyFlights)
	flights.GET("/search", flightHandler.SearchFlights)
	flights.GET("/:id", flightHandler.GetFlight)
	flights.PUT("/:id/status", flightHandler.UpdateStatus)
}

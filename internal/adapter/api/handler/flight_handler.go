package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"skysend/internal/usecase"
	"skysend/pkg/errors"
	"skysend/pkg/response"
	"skysend/pkg/utils"
)

type FlightHandler struct {
	flightUseCase *usecase.FlightUseCase
}

func NewFlightHandler(flightUseCase *usecase.FlightUseCase) *FlightHandler {
	return &FlightHandler{
		flightUseCase: flightUseCase,
	}
}

type createFlightRequest struct {
	Airline            string  `json:"airline" validate:"required"`
	FlightNumber       string  `json:"flight_number" validate:"required"`
	OriginAirport      string  `json:"origin_airport" validate:"required,len=3"`
	DestinationAirport string  `json:"destination_airport" validate:"required,len=3"`
	DepartureAt        string  `json:"departure_at" validate:"required"`
	CapacityKg         float64 `json:"capacity_kg" validate:"required,gt=0,lte=30"`
}

func (h *FlightHandler) CreateFlight(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req createFlightRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	departureAt, err := time.Parse(time.RFC3339, req.DepartureAt)
	if err != nil {
		return response.Error(c, errors.BadRequest("departure_at must be RFC3339", err))
	}

	flight, err := h.flightUseCase.CreateFlight(c.Request().Context(), uid, usecase.CreateFlightInput{
		Airline:            req.Airline,
		FlightNumber:       req.FlightNumber,
		OriginAirport:      req.OriginAirport,
		DestinationAirport: req.DestinationAirport,
		DepartureAt:        departureAt,
		CapacityKg:         req.CapacityKg,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, flight)
}

func (h *FlightHandler) GetFlight(c echo.Context) error {
	flight, err := h.flightUseCase.GetFlight(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, flight)
}

func (h *FlightHandler) ListMyFlights(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	flights, total, err := h.flightUseCase.ListMyFlights(c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, flights, total, pagination.PageSize, pagination.Offset)
}

func (h *FlightHandler) SearchFlights(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	var departAfter time.Time
	if raw := c.QueryParam("depart_after"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.Error(c, errors.BadRequest("depart_after must be RFC3339", err))
		}
		departAfter = parsed
	}

	flights, total, err := h.flightUseCase.SearchFlights(
		c.Request().Context(),
		c.QueryParam("origin"),
		c.QueryParam("destination"),
		departAfter,
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, flights, total, pagination.PageSize, pagination.Offset)
}

type updateFlightStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=departed completed cancelled"`
}

func (h *FlightHandler) UpdateStatus(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req updateFlightStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	flight, err := h.flightUseCase.UpdateFlightStatus(c.Request().Context(), uid, c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, flight)
}

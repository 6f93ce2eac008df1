package handler

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/domain/service"
	"skysend/pkg/response"
)

// ReferenceHandler serves the static airport and airline lists used by the
// order and flight forms. Optional ?q= narrows the result.
type ReferenceHandler struct{}

func NewReferenceHandler() *ReferenceHandler {
	return &ReferenceHandler{}
}

func (h *ReferenceHandler) ListAirports(c echo.Context) error {
	return response.Success(c, service.SearchAirports(c.QueryParam("q")))
}

func (h *ReferenceHandler) ListAirlines(c echo.Context) error {
	return response.Success(c, service.SearchAirlines(c.QueryParam("q")))
}

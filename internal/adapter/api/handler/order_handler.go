package handler

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/usecase"
	"skysend/pkg/errors"
	"skysend/pkg/response"
	"skysend/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type createOrderRequest struct {
	ItemType           string  `json:"item_type" validate:"required,oneof=document parcel"`
	ItemDescription    string  `json:"item_description" validate:"required,max=500"`
	WeightKg           float64 `json:"weight_kg" validate:"required,gt=0,lte=30"`
	Reward             float64 `json:"reward" validate:"required,gt=0"`
	OriginAirport      string  `json:"origin_airport" validate:"required,len=3"`
	DestinationAirport string  `json:"destination_airport" validate:"required,len=3"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.CreateOrder(c.Request().Context(), uid, usecase.CreateOrderInput{
		ItemType:           req.ItemType,
		ItemDescription:    req.ItemDescription,
		WeightKg:           req.WeightKg,
		Reward:             req.Reward,
		OriginAirport:      req.OriginAirport,
		DestinationAirport: req.DestinationAirport,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

// GetOrder accepts the order id or a tracking code in the path.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	uid := c.Get("uid").(string)

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.ListOrders(
		c.Request().Context(), uid, c.QueryParam("status"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, orders, total, pagination.PageSize, pagination.Offset)
}

type acceptOrderRequest struct {
	FlightID string `json:"flight_id" validate:"required"`
}

func (h *OrderHandler) AcceptOrder(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req acceptOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.AcceptOrder(c.Request().Context(), uid, c.Param("id"), req.FlightID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_transit delivered cancelled"`
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.UpdateStatus(c.Request().Context(), uid, c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

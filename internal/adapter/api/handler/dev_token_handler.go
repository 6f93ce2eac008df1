package handler

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/infrastructure/firebase"
	"skysend/pkg/errors"
	"skysend/pkg/response"
)

// DevTokenHandler issues long-lived ID tokens for local development. The
// router only mounts it when ENVIRONMENT is development.
type DevTokenHandler struct {
	firebaseAuth *firebase.FirebaseAuthClient
}

func NewDevTokenHandler(firebaseAuth *firebase.FirebaseAuthClient) *DevTokenHandler {
	return &DevTokenHandler{
		firebaseAuth: firebaseAuth,
	}
}

type devTokenRequest struct {
	UID string `json:"uid" validate:"required"`
}

func (h *DevTokenHandler) IssueToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	token, err := h.firebaseAuth.GenerateLongLivedToken(c.Request().Context(), req.UID)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate token", err))
	}

	return response.Success(c, map[string]string{
		"uid":   req.UID,
		"token": token,
	})
}

package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"skysend/internal/usecase"
	"skysend/pkg/errors"
	"skysend/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.userUseCase.GetUserProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type updateProfileRequest struct {
	Username  string `json:"username" validate:"omitempty,min=3"`
	Phone     string `json:"phone" validate:"omitempty,e164"`
	Bio       string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		Username:  req.Username,
		Phone:     req.Phone,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *UserHandler) UpdatePassword(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.userUseCase.UpdatePassword(c.Request().Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Password updated",
	})
}

type registerPushTokenRequest struct {
	Token string `json:"token"`
}

// RegisterPushToken stores the device push token. An empty token clears it,
// which clients send on logout.
func (h *UserHandler) RegisterPushToken(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req registerPushTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := h.userUseCase.RegisterPushToken(c.Request().Context(), uid, req.Token); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Push token registered",
	})
}

type verifyIdentityRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	IdNumber    string `json:"id_number" validate:"required"`
	IdCardImage string `json:"id_card_image" validate:"required,url"`
}

func (h *UserHandler) SubmitVerification(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req verifyIdentityRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return response.Error(c, errors.BadRequest("date_of_birth must be YYYY-MM-DD", err))
	}

	user, err := h.userUseCase.SubmitVerification(c.Request().Context(), uid, usecase.VerifyIdentityInput{
		FullName:    req.FullName,
		Address:     req.Address,
		DateOfBirth: dob,
		IdNumber:    req.IdNumber,
		IdCardImage: req.IdCardImage,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type processVerificationRequest struct {
	Status string `json:"status" validate:"required,oneof=verified rejected"`
}

func (h *UserHandler) ProcessVerification(c echo.Context) error {
	adminID := c.Get("uid").(string)
	userID := c.Param("id")

	var req processVerificationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.ProcessVerification(c.Request().Context(), adminID, userID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

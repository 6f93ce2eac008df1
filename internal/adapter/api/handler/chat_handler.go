package handler

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/usecase"
	"skysend/pkg/errors"
	"skysend/pkg/response"
	"skysend/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// GetConversations returns the merged chat list: one entry per counterpart,
// newest first.
func (h *ChatHandler) GetConversations(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	conversations, total, err := h.chatUseCase.GetConversations(
		c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, conversations, total, pagination.PageSize, pagination.Offset)
}

type sendMessageRequest struct {
	Text     string `json:"text" validate:"omitempty,max=4000"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	FileURL  string `json:"file_url" validate:"omitempty,url"`
	FileName string `json:"file_name" validate:"omitempty,max=255"`
	FileType string `json:"file_type" validate:"omitempty,max=100"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), uid, c.Param("id"), usecase.SendMessageInput{
		Text:     req.Text,
		ImageURL: req.ImageURL,
		FileURL:  req.FileURL,
		FileName: req.FileName,
		FileType: req.FileType,
	})
	if err != nil {
		return response.Error(c, err)
	}

	// Empty payloads are dropped without an error
	if message == nil {
		return response.Success(c, map[string]string{
			"status": "skipped",
		})
	}

	return response.Created(c, message)
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.GetChatMessages(
		c.Request().Context(), uid, c.Param("id"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, messages, total, pagination.PageSize, pagination.Offset)
}

func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.chatUseCase.MarkChatAsRead(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"status": "read",
	})
}

type typingRequest struct {
	Typing bool `json:"typing"`
}

func (h *ChatHandler) SetTyping(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req typingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := h.chatUseCase.SetTyping(c.Request().Context(), uid, c.Param("id"), req.Typing); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"status": "ok",
	})
}

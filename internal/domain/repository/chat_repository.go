package repository

import (
	"context"

	"skysend/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)
	Update(ctx context.Context, chat *entity.Chat) error
	Delete(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)
	GetLastMessage(ctx context.Context, chatID string) (*entity.Message, error)

	// Typing flags are ephemeral per (chat, user) booleans; they are set
	// explicitly and never expire server-side.
	SetTyping(ctx context.Context, chatID, userID string, typing bool) error
	GetTyping(ctx context.Context, chatID, userID string) (bool, error)
}

package repository

import (
	"context"
	"time"

	"skysend/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error

	// Presence writes are idempotent field sets, not full document updates,
	// so concurrent sessions racing on the same user are benign.
	SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) error
	SetPushToken(ctx context.Context, userID, token string) error
}

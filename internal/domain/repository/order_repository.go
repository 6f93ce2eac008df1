package repository

import (
	"context"

	"skysend/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByTrackingCode(ctx context.Context, code string) (*entity.Order, error)
	// ListByUser returns orders where the user is sender or courier.
	ListByUser(ctx context.Context, userID string, status string, limit, offset int) ([]*entity.Order, int64, error)
	Update(ctx context.Context, order *entity.Order) error
}

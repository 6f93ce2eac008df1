package repository

import (
	"context"
	"time"

	"skysend/internal/domain/entity"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *entity.Flight) error
	GetByID(ctx context.Context, id string) (*entity.Flight, error)
	ListByCourier(ctx context.Context, courierID string, limit, offset int) ([]*entity.Flight, int64, error)
	Search(ctx context.Context, origin, destination string, departAfter time.Time, limit, offset int) ([]*entity.Flight, int64, error)
	Update(ctx context.Context, flight *entity.Flight) error
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"skysend/internal/domain/entity"
	"skysend/internal/domain/repository"
	"skysend/pkg/errors"
)

type FlightUseCase struct {
	flightRepo repository.FlightRepository
	userRepo   repository.UserRepository
}

func NewFlightUseCase(flightRepo repository.FlightRepository, userRepo repository.UserRepository) *FlightUseCase {
	return &FlightUseCase{
		flightRepo: flightRepo,
		userRepo:   userRepo,
	}
}

type CreateFlightInput struct {
	Airline            string
	FlightNumber       string
	OriginAirport      string
	DestinationAirport string
	DepartureAt        time.Time
	CapacityKg         float64
}

func (uc *FlightUseCase) CreateFlight(ctx context.Context, courierID string, input CreateFlightInput) (*entity.Flight, error) {
	courier, err := uc.userRepo.GetByID(ctx, courierID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	if courier.VerificationStatus != "verified" {
		return nil, errors.Forbidden("Identity verification required before posting flights", nil)
	}

	if !input.DepartureAt.After(time.Now()) {
		return nil, errors.BadRequest("Departure must be in the future", nil)
	}

	now := time.Now()
	flight := &entity.Flight{
		ID:                 uuid.New().String(),
		CourierID:          courierID,
		Airline:            input.Airline,
		FlightNumber:       strings.ToUpper(input.FlightNumber),
		OriginAirport:      strings.ToUpper(input.OriginAirport),
		DestinationAirport: strings.ToUpper(input.DestinationAirport),
		DepartureAt:        input.DepartureAt,
		CapacityKg:         input.CapacityKg,
		Status:             "open",
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.flightRepo.Create(ctx, flight); err != nil {
		return nil, errors.Internal("Failed to create flight", err)
	}

	return flight, nil
}

func (uc *FlightUseCase) GetFlight(ctx context.Context, id string) (*entity.Flight, error) {
	flight, err := uc.flightRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("Flight", err)
	}
	return flight, nil
}

func (uc *FlightUseCase) ListMyFlights(ctx context.Context, courierID string, limit, offset int) ([]*entity.Flight, int64, error) {
	flights, total, err := uc.flightRepo.ListByCourier(ctx, courierID, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list flights", err)
	}
	return flights, total, nil
}

func (uc *FlightUseCase) SearchFlights(ctx context.Context, origin, destination string, departAfter time.Time, limit, offset int) ([]*entity.Flight, int64, error) {
	flights, total, err := uc.flightRepo.Search(ctx,
		strings.ToUpper(origin), strings.ToUpper(destination), departAfter, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to search flights", err)
	}
	return flights, total, nil
}

// UpdateFlightStatus lets the courier close out a flight. Orders already
// matched to it are untouched; their own status flow governs them.
func (uc *FlightUseCase) UpdateFlightStatus(ctx context.Context, courierID, flightID, status string) (*entity.Flight, error) {
	switch status {
	case "departed", "completed", "cancelled":
	default:
		return nil, errors.BadRequest("Status must be 'departed', 'completed' or 'cancelled'", nil)
	}

	flight, err := uc.flightRepo.GetByID(ctx, flightID)
	if err != nil {
		return nil, errors.NotFound("Flight", err)
	}
	if flight.CourierID != courierID {
		return nil, errors.Forbidden("Flight belongs to a different courier", nil)
	}

	flight.Status = status
	flight.UpdatedAt = time.Now()

	if err := uc.flightRepo.Update(ctx, flight); err != nil {
		return nil, errors.Internal("Failed to update flight", err)
	}

	return flight, nil
}

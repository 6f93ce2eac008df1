package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skysend/internal/domain/entity"
	"skysend/internal/domain/repository"
	"skysend/pkg/errors"
)

type firestoreFlightRepository struct {
	client *firestore.Client
}

func NewFirestoreFlightRepository(client *firestore.Client) repository.FlightRepository {
	return &firestoreFlightRepository{
		client: client,
	}
}

func (r *firestoreFlightRepository) Create(ctx context.Context, flight *entity.Flight) error {
	_, err := r.client.Collection("flights").Doc(flight.ID).Set(ctx, flight)
	return err
}

func (r *firestoreFlightRepository) GetByID(ctx context.Context, id string) (*entity.Flight, error) {
	doc, err := r.client.Collection("flights").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Flight", err)
		}
		return nil, err
	}

	var flight entity.Flight
	if err := doc.DataTo(&flight); err != nil {
		return nil, err
	}

	return &flight, nil
}

func (r *firestoreFlightRepository) ListByCourier(ctx context.Context, courierID string, limit, offset int) ([]*entity.Flight, int64, error) {
	query := r.client.Collection("flights").
		Where("courierId", "==", courierID).
		OrderBy("departureAt", firestore.Desc)

	return r.collect(ctx, query, limit, offset)
}

func (r *firestoreFlightRepository) Search(ctx context.Context, origin, destination string, departAfter time.Time, limit, offset int) ([]*entity.Flight, int64, error) {
	query := r.client.Collection("flights").Where("status", "==", "open")
	if origin != "" {
		query = query.Where("originAirport", "==", origin)
	}
	if destination != "" {
		query = query.Where("destinationAirport", "==", destination)
	}
	if !departAfter.IsZero() {
		query = query.Where("departureAt", ">=", departAfter)
	}
	query = query.OrderBy("departureAt", firestore.Asc)

	return r.collect(ctx, query, limit, offset)
}

func (r *firestoreFlightRepository) Update(ctx context.Context, flight *entity.Flight) error {
	_, err := r.client.Collection("flights").Doc(flight.ID).Set(ctx, flight)
	return err
}

func (r *firestoreFlightRepository) collect(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Flight, int64, error) {
	iter := query.Documents(ctx)
	var flights []*entity.Flight

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		var flight entity.Flight
		if err := doc.DataTo(&flight); err != nil {
			log.Printf("Skipping malformed flight doc %s: %v", doc.Ref.ID, err)
			continue
		}
		flights = append(flights, &flight)
	}

	total := int64(len(flights))

	if offset > 0 {
		if offset >= len(flights) {
			return []*entity.Flight{}, total, nil
		}
		flights = flights[offset:]
	}
	if limit > 0 && limit < len(flights) {
		flights = flights[:limit]
	}

	return flights, total, nil
}

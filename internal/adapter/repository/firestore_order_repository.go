package repository

import (
	"context"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skysend/internal/domain/entity"
	"skysend/internal/domain/repository"
	"skysend/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	return err
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection("orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, err
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *firestoreOrderRepository) GetByTrackingCode(ctx context.Context, code string) (*entity.Order, error) {
	query := r.client.Collection("orders").Where("trackingCode", "==", code).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		return nil, err
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListByUser merges the sender-side and courier-side queries, since Firestore
// has no OR over two fields. Pagination happens in memory after the merge.
func (r *firestoreOrderRepository) ListByUser(ctx context.Context, userID string, status string, limit, offset int) ([]*entity.Order, int64, error) {
	var orders []*entity.Order
	seen := make(map[string]bool)

	for _, field := range []string{"senderId", "courierId"} {
		query := r.client.Collection("orders").Where(field, "==", userID)
		if status != "" {
			query = query.Where("status", "==", status)
		}

		iter := query.Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, 0, err
			}

			var order entity.Order
			if err := doc.DataTo(&order); err != nil {
				log.Printf("Skipping malformed order doc %s: %v", doc.Ref.ID, err)
				continue
			}
			if seen[order.ID] {
				continue
			}
			seen[order.ID] = true
			orders = append(orders, &order)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	total := int64(len(orders))

	if offset > 0 {
		if offset >= len(orders) {
			return []*entity.Order{}, total, nil
		}
		orders = orders[offset:]
	}
	if limit > 0 && limit < len(orders) {
		orders = orders[:limit]
	}

	return orders, total, nil
}

func (r *firestoreOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	return err
}

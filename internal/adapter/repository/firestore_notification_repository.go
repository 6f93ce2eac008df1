package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skysend/internal/domain/entity"
	"skysend/internal/domain/repository"
	"skysend/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) items(userID string) *firestore.CollectionRef {
	return r.client.Collection("notifications").Doc(userID).Collection("items")
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	_, err := r.items(notification.UserID).Doc(notification.ID).Set(ctx, notification)
	return err
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, userID, id string) (*entity.Notification, error) {
	doc, err := r.items(userID).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Notification", err)
		}
		return nil, err
	}

	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, err
	}

	return &notification, nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	query := r.items(userID).OrderBy("createdAt", firestore.Desc)
	if unreadOnly {
		query = r.items(userID).Where("read", "==", false).OrderBy("createdAt", firestore.Desc)
	}

	iter := query.Documents(ctx)
	var notifications []*entity.Notification

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			log.Printf("Skipping malformed notification doc %s: %v", doc.Ref.ID, err)
			continue
		}
		notifications = append(notifications, &notification)
	}

	total := int64(len(notifications))

	if offset > 0 {
		if offset >= len(notifications) {
			return []*entity.Notification{}, total, nil
		}
		notifications = notifications[offset:]
	}
	if limit > 0 && limit < len(notifications) {
		notifications = notifications[:limit]
	}

	return notifications, total, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	_, err := r.items(userID).Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	return err
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	iter := r.items(userID).Where("read", "==", false).Documents(ctx)

	batch := r.client.Batch()
	count := 0

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}

		batch.Update(doc.Ref, []firestore.Update{
			{Path: "read", Value: true},
		})
		count++

		// Firestore batches cap at 500 writes
		if count == 500 {
			if _, err := batch.Commit(ctx); err != nil {
				return err
			}
			batch = r.client.Batch()
			count = 0
		}
	}

	if count > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (r *firestoreNotificationRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.items(userID).Doc(id).Delete(ctx)
	return err
}

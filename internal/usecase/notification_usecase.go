package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"skysend/internal/domain/entity"
	"skysend/internal/domain/repository"
	"skysend/pkg/errors"
)

// notificationCacheTTL bounds how long an unread count may be served from
// the snapshot. The message and order fan-out paths write notifications
// straight to the store, so a snapshot older than this re-reads.
const notificationCacheTTL = time.Minute

// NotificationUseCase serves the notification inbox. Reads go through a
// per-user in-memory cache so mark-read and delete can apply optimistically
// and revert if the store write fails.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository

	mu      sync.RWMutex
	cache   map[string][]*entity.Notification // userID -> newest first
	fetched map[string]time.Time              // userID -> snapshot time
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		cache:            make(map[string][]*entity.Notification),
		fetched:          make(map[string]time.Time),
	}
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	notifications, total, err := uc.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list notifications", err)
	}

	// Refresh the cache only from a full unfiltered read
	if !unreadOnly && limit == 0 && offset == 0 {
		uc.mu.Lock()
		uc.cache[userID] = notifications
		uc.fetched[userID] = time.Now()
		uc.mu.Unlock()
	}

	return notifications, total, nil
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	uc.mu.RLock()
	cached, ok := uc.cache[userID]
	fresh := ok && time.Since(uc.fetched[userID]) <= notificationCacheTTL
	uc.mu.RUnlock()

	if fresh {
		count := 0
		for _, n := range cached {
			if !n.Read {
				count++
			}
		}
		return count, nil
	}

	_, total, err := uc.notificationRepo.ListByUser(ctx, userID, true, 0, 0)
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}
	return int(total), nil
}

func (uc *NotificationUseCase) cachedByID(userID, id string) *entity.Notification {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for _, n := range uc.cache[userID] {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// MarkRead flips the read flag optimistically, then persists. A failed write
// reverts the flag and surfaces the error.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	cached := uc.cachedByID(userID, id)

	var wasRead bool
	if cached != nil {
		uc.mu.Lock()
		wasRead = cached.Read
		cached.Read = true
		uc.mu.Unlock()
	}

	if err := uc.notificationRepo.MarkRead(ctx, userID, id); err != nil {
		if cached != nil {
			uc.mu.Lock()
			cached.Read = wasRead
			uc.mu.Unlock()
		}
		return errors.Internal("Failed to mark notification as read", err)
	}

	return nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	uc.mu.Lock()
	var flipped []*entity.Notification
	for _, n := range uc.cache[userID] {
		if !n.Read {
			n.Read = true
			flipped = append(flipped, n)
		}
	}
	uc.mu.Unlock()

	if err := uc.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		uc.mu.Lock()
		for _, n := range flipped {
			n.Read = false
		}
		uc.mu.Unlock()
		return errors.Internal("Failed to mark notifications as read", err)
	}

	return nil
}

// Delete removes the notification optimistically. On a failed store delete
// the entry is restored at its timestamp-sorted position.
func (uc *NotificationUseCase) Delete(ctx context.Context, userID, id string) error {
	var removed *entity.Notification

	uc.mu.Lock()
	list := uc.cache[userID]
	for i, n := range list {
		if n.ID == id {
			removed = n
			uc.cache[userID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	uc.mu.Unlock()

	if err := uc.notificationRepo.Delete(ctx, userID, id); err != nil {
		if removed != nil {
			uc.mu.Lock()
			restored := append(uc.cache[userID], removed)
			sort.SliceStable(restored, func(i, j int) bool {
				return restored[i].CreatedAt.After(restored[j].CreatedAt)
			})
			uc.cache[userID] = restored
			uc.mu.Unlock()
		}
		return errors.Internal("Failed to delete notification", err)
	}

	return nil
}

// TapResult is the outcome of tapping a notification. The first tap on an
// unread notification only marks it read; a second tap navigates.
type TapResult struct {
	MarkedRead bool              `json:"marked_read"`
	Navigate   bool              `json:"navigate"`
	Route      string            `json:"route,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
}

func (uc *NotificationUseCase) Tap(ctx context.Context, userID, id string) (*TapResult, error) {
	notification := uc.cachedByID(userID, id)
	if notification == nil {
		var err error
		notification, err = uc.notificationRepo.GetByID(ctx, userID, id)
		if err != nil {
			return nil, errors.NotFound("Notification", err)
		}
	}

	if !notification.Read {
		if err := uc.MarkRead(ctx, userID, id); err != nil {
			return nil, err
		}
		return &TapResult{MarkedRead: true}, nil
	}

	route, params := routeFor(notification)
	return &TapResult{
		Navigate: true,
		Route:    route,
		Params:   params,
	}, nil
}

// routeFor maps a read notification to a client screen. Order references
// fall back from the document id through a numeric id to the tracking code,
// since older notification payloads carried different keys.
func routeFor(n *entity.Notification) (string, map[string]string) {
	switch n.Type {
	case entity.NotificationTypeMessage:
		if chatID := dataString(n, "chat_id"); chatID != "" {
			return "/chats/" + chatID, map[string]string{"chat_id": chatID}
		}

	case entity.NotificationTypeOrderStatus, entity.NotificationTypeRequest:
		if ref := orderRef(n); ref != "" {
			return "/orders/" + ref, map[string]string{"order": ref}
		}

	case entity.NotificationTypeFlightStatus:
		if flightID := dataString(n, "flight_id"); flightID != "" {
			return "/flights/" + flightID, map[string]string{"flight_id": flightID}
		}

	case entity.NotificationTypeKyc:
		return "/profile/verification", nil
	}

	return "/notifications", nil
}

func orderRef(n *entity.Notification) string {
	if id := dataString(n, "order_id"); id != "" {
		return id
	}
	if id := dataString(n, "id"); id != "" {
		return id
	}
	return dataString(n, "tracking_code")
}

func dataString(n *entity.Notification, key string) string {
	if n.Data == nil {
		return ""
	}
	switch v := n.Data[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int64:
		return fmt.Sprintf("%d", v)
	}
	return ""
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skysend/internal/domain/entity"
)

func seedNotifications(t *testing.T, uc *NotificationUseCase, repo *fakeNotificationRepo, userID string, notifications ...*entity.Notification) {
	t.Helper()
	repo.created = append(repo.created, notifications...)

	// Full unfiltered list primes the cache
	_, _, err := uc.List(context.Background(), userID, false, 0, 0)
	require.NoError(t, err)
}

func TestUnreadCountFromCache(t *testing.T) {
	repo := &fakeNotificationRepo{}
	uc := NewNotificationUseCase(repo)

	seedNotifications(t, uc, repo, "alice",
		&entity.Notification{ID: "n1", UserID: "alice"},
		&entity.Notification{ID: "n2", UserID: "alice", Read: true},
		&entity.Notification{ID: "n3", UserID: "alice"},
	)

	count, err := uc.UnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUnreadCountRereadsWhenSnapshotExpires(t *testing.T) {
	repo := &fakeNotificationRepo{}
	uc := NewNotificationUseCase(repo)

	seedNotifications(t, uc, repo, "alice",
		&entity.Notification{ID: "n1", UserID: "alice"},
	)

	// A notification written straight to the store, the way the message
	// fan-out does it, bypasses the snapshot.
	repo.created = append(repo.created, &entity.Notification{ID: "n2", UserID: "alice"})

	count, err := uc.UnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "fresh snapshot still serves the cached count")

	uc.mu.Lock()
	uc.fetched["alice"] = time.Now().Add(-2 * notificationCacheTTL)
	uc.mu.Unlock()

	count, err = uc.UnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "expired snapshot falls back to the store")
}

func TestMarkReadRevertsOnStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{}
	uc := NewNotificationUseCase(repo)

	n := &entity.Notification{ID: "n1", UserID: "alice"}
	seedNotifications(t, uc, repo, "alice", n)

	repo.markErr = errors.New("store down")
	err := uc.MarkRead(context.Background(), "alice", "n1")

	assert.Error(t, err)
	assert.False(t, n.Read, "optimistic flip must be reverted")

	repo.markErr = nil
	require.NoError(t, uc.MarkRead(context.Background(), "alice", "n1"))
	assert.True(t, n.Read)
}

func TestMarkAllReadRevertsOnStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{}
	uc := NewNotificationUseCase(repo)

	unread := &entity.Notification{ID: "n1", UserID: "alice"}
	alreadyRead := &entity.Notification{ID: "n2", UserID: "alice", Read: true}
	seedNotifications(t, uc, repo, "alice", unread, alreadyRead)

	repo.markErr = errors.New("store down")
	err := uc.MarkAllRead(context.Background(), "alice")

	assert.Error(t, err)
	assert.False(t, unread.Read)
	assert.True(t, alreadyRead.Read, "already-read entries are untouched by the revert")
}

func TestDeleteRestoresOnStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{}
	uc := NewNotificationUseCase(repo)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newer := &entity.Notification{ID: "n1", UserID: "alice", CreatedAt: base.Add(time.Hour)}
	older := &entity.Notification{ID: "n2", UserID: "alice", CreatedAt: base}
	seedNotifications(t, uc, repo, "alice", newer, older)

	repo.deleteErr = errors.New("store down")
	err := uc.Delete(context.Background(), "alice", "n1")

	assert.Error(t, err)
	require.Len(t, uc.cache["alice"], 2, "deleted entry is restored")
	assert.Equal(t, "n1", uc.cache["alice"][0].ID, "restore keeps newest-first order")

	repo.deleteErr = nil
	require.NoError(t, uc.Delete(context.Background(), "alice", "n1"))
	require.Len(t, uc.cache["alice"], 1)
	assert.Equal(t, "n2", uc.cache["alice"][0].ID)
}

func TestTapMarksReadFirstThenNavigates(t *testing.T) {
	repo := &fakeNotificationRepo{}
	uc := NewNotificationUseCase(repo)

	seedNotifications(t, uc, repo, "alice", &entity.Notification{
		ID:     "n1",
		UserID: "alice",
		Type:   entity.NotificationTypeMessage,
		Data:   map[string]interface{}{"chat_id": "chat-9"},
	})

	first, err := uc.Tap(context.Background(), "alice", "n1")
	require.NoError(t, err)
	assert.True(t, first.MarkedRead)
	assert.False(t, first.Navigate)
	assert.Empty(t, first.Route)

	second, err := uc.Tap(context.Background(), "alice", "n1")
	require.NoError(t, err)
	assert.False(t, second.MarkedRead)
	assert.True(t, second.Navigate)
	assert.Equal(t, "/chats/chat-9", second.Route)
	assert.Equal(t, map[string]string{"chat_id": "chat-9"}, second.Params)
}

func TestTapFallsBackToStoreWhenNotCached(t *testing.T) {
	repo := &fakeNotificationRepo{}
	uc := NewNotificationUseCase(repo)

	repo.created = append(repo.created, &entity.Notification{
		ID: "n1", UserID: "alice", Read: true, Type: entity.NotificationTypeKyc,
	})

	result, err := uc.Tap(context.Background(), "alice", "n1")
	require.NoError(t, err)
	assert.Equal(t, "/profile/verification", result.Route)
}

func TestRouteForOrderReferenceFallback(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
		want string
	}{
		{"order_id wins", map[string]interface{}{"order_id": "o-1", "id": "o-2", "tracking_code": "SS-X"}, "/orders/o-1"},
		{"id next", map[string]interface{}{"id": "o-2", "tracking_code": "SS-X"}, "/orders/o-2"},
		{"numeric id", map[string]interface{}{"id": float64(42)}, "/orders/42"},
		{"tracking code last", map[string]interface{}{"tracking_code": "SS-X"}, "/orders/SS-X"},
		{"nothing resolvable", nil, "/notifications"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, _ := routeFor(&entity.Notification{Type: entity.NotificationTypeOrderStatus, Data: tt.data})
			assert.Equal(t, tt.want, route)
		})
	}
}

func TestRouteForUnknownTypeGoesToInbox(t *testing.T) {
	route, params := routeFor(&entity.Notification{Type: "promo"})
	assert.Equal(t, "/notifications", route)
	assert.Nil(t, params)
}

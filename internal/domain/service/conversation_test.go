package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skysend/internal/domain/entity"
)

func TestPairKeyIsDirectionIndependent(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.Equal(t, "alice_bob", PairKey("bob", "alice"))
}

func TestMergeByPartnerCollapsesDuplicates(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []ChatItem{
		{
			ChatID:          "chat-1",
			PartnerID:       "bob",
			LastMessage:     "old message",
			LastMessageTime: base,
			UnreadCount:     2,
			OrderIDs:        []string{"order-1"},
		},
		{
			ChatID:          "chat-2",
			PartnerID:       "bob",
			LastMessage:     "newer message",
			LastMessageTime: base.Add(time.Hour),
			UnreadCount:     3,
			OrderIDs:        []string{"order-2", "order-1"},
		},
	}

	merged := MergeByPartner(items, "alice")

	assert.Len(t, merged, 1)
	assert.Equal(t, "chat-2", merged[0].ChatID)
	assert.Equal(t, "newer message", merged[0].LastMessage)
	assert.Equal(t, 5, merged[0].UnreadCount)
	assert.ElementsMatch(t, []string{"order-1", "order-2"}, merged[0].OrderIDs)
}

func TestMergeByPartnerIsOrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := ChatItem{ChatID: "c1", PartnerID: "bob", LastMessageTime: base, UnreadCount: 1, OrderIDs: []string{"o1"}}
	b := ChatItem{ChatID: "c2", PartnerID: "bob", LastMessageTime: base.Add(2 * time.Hour), UnreadCount: 2, OrderIDs: []string{"o2"}}
	c := ChatItem{ChatID: "c3", PartnerID: "bob", LastMessageTime: base.Add(time.Hour), UnreadCount: 4, OrderIDs: []string{"o3"}}

	permutations := [][]ChatItem{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}

	for _, perm := range permutations {
		merged := MergeByPartner(perm, "alice")
		assert.Len(t, merged, 1)
		assert.Equal(t, "c2", merged[0].ChatID)
		assert.Equal(t, 7, merged[0].UnreadCount)
		assert.ElementsMatch(t, []string{"o1", "o2", "o3"}, merged[0].OrderIDs)
	}
}

func TestMergeByPartnerSortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []ChatItem{
		{ChatID: "c1", PartnerID: "bob", LastMessageTime: base},
		{ChatID: "c2", PartnerID: "carol", LastMessageTime: base.Add(time.Hour)},
		{ChatID: "c3", PartnerID: "dave", LastMessageTime: base.Add(30 * time.Minute)},
	}

	merged := MergeByPartner(items, "alice")

	assert.Len(t, merged, 3)
	assert.Equal(t, "carol", merged[0].PartnerID)
	assert.Equal(t, "dave", merged[1].PartnerID)
	assert.Equal(t, "bob", merged[2].PartnerID)
}

func TestNormalizeParticipants(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, NormalizeParticipants([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, NormalizeParticipants([]interface{}{"a", "b"}))

	// Legacy map shape: userID -> truthy value, keys sorted for determinism
	got := NormalizeParticipants(map[string]interface{}{
		"bob":   true,
		"alice": true,
		"gone":  false,
	})
	assert.Equal(t, []string{"alice", "bob"}, got)

	assert.Empty(t, NormalizeParticipants(nil))
	assert.Empty(t, NormalizeParticipants(42))
}

func TestNormalizeParticipantsNumericMarkers(t *testing.T) {
	// Firestore decodes map numbers as int64; JSON payloads as float64.
	// A zero marker means removed, whatever the numeric type.
	got := NormalizeParticipants(map[string]interface{}{
		"alice": int64(1),
		"gone":  int64(0),
	})
	assert.Equal(t, []string{"alice"}, got)

	got = NormalizeParticipants(map[string]interface{}{
		"bob":  float64(1),
		"gone": float64(0),
	})
	assert.Equal(t, []string{"bob"}, got)

	got = NormalizeParticipants(map[string]interface{}{
		"carol": 1,
		"gone":  0,
	})
	assert.Equal(t, []string{"carol"}, got)
}

func TestOtherParticipant(t *testing.T) {
	assert.Equal(t, "bob", OtherParticipant([]string{"alice", "bob"}, "alice"))
	assert.Equal(t, "alice", OtherParticipant([]string{"alice", "bob"}, "bob"))
	assert.Equal(t, "", OtherParticipant([]string{"alice"}, "alice"))
	assert.Equal(t, "", OtherParticipant(nil, "alice"))
}

func TestPreviewTextPriority(t *testing.T) {
	assert.Equal(t, "No messages yet", PreviewText(nil))
	assert.Equal(t, "Photo sent", PreviewText(&entity.Message{ImageURL: "https://x/img.jpg", Text: "caption"}))
	assert.Equal(t, "File sent: doc.pdf", PreviewText(&entity.Message{FileURL: "https://x/doc.pdf", FileName: "doc.pdf"}))
	assert.Equal(t, "hello", PreviewText(&entity.Message{Text: "hello"}))
}

func TestNotificationBodyFallback(t *testing.T) {
	assert.Equal(t, "New message", NotificationBody(&entity.Message{}))
	assert.Equal(t, "Photo sent", NotificationBody(&entity.Message{ImageURL: "https://x/img.jpg"}))
	assert.Equal(t, "hi there", NotificationBody(&entity.Message{Text: "hi there"}))
}

func TestIsOnlineStalenessWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// A set flag counts on its own
	assert.True(t, IsOnline(true, time.Time{}, now))

	// A cleared flag still reads online while the heartbeat is fresh
	assert.True(t, IsOnline(false, now.Add(-time.Minute), now))
	assert.True(t, IsOnline(false, now.Add(-PresenceStaleness+time.Second), now))

	assert.False(t, IsOnline(false, now.Add(-PresenceStaleness-time.Second), now))
	assert.False(t, IsOnline(false, time.Time{}, now))
}

func TestSortMessagesAscending(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	messages := []*entity.Message{
		{ID: "m3", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "m1", CreatedAt: base},
		{ID: "m2", CreatedAt: base.Add(time.Minute)},
	}

	SortMessages(messages)

	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
	assert.Equal(t, "m3", messages[2].ID)
}

package service

import (
	"sort"
	"strings"
	"time"

	"skysend/internal/domain/entity"
)

// PresenceStaleness is the liveness window for heartbeat-based presence.
// A user whose flag was cleared still reads as online while the last
// heartbeat is inside this window.
const PresenceStaleness = 300 * time.Second

// ChatItem is one materialized conversation from the perspective of a single
// user: the counterpart, the latest message preview and the live flags.
type ChatItem struct {
	ChatID          string    `json:"chat_id"`
	PartnerID       string    `json:"partner_id"`
	PartnerName     string    `json:"partner_name,omitempty"`
	PartnerAvatar   string    `json:"partner_avatar,omitempty"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
	OrderIDs        []string  `json:"order_ids,omitempty"`
	IsTyping        bool      `json:"is_typing"`
	IsOnline        bool      `json:"is_online"`
}

// MergedChatItem is one conversation per unique partner. Multiple chats with
// the same counterpart (one per historical order) collapse into a single
// entry: the freshest chat is the representative, unread counts are summed
// and order ids are unioned.
type MergedChatItem struct {
	ChatItem
}

// PairKey builds a direction-independent bucket key for a pair of user ids,
// so a chat between A and B and a chat between B and A land in the same
// bucket no matter whose perspective the list is built from.
func PairKey(a, b string) string {
	if a < b {
		return a + "_" + b
	}
	return b + "_" + a
}

// MergeByPartner collapses chat items into one conversation per counterpart.
// Accumulation is incremental into a keyed map rather than a pairwise reduce,
// which keeps the result independent of input order when a partner has three
// or more historical chats.
func MergeByPartner(items []ChatItem, currentUserID string) []MergedChatItem {
	buckets := make(map[string]*MergedChatItem)
	order := make([]string, 0, len(items))

	for _, item := range items {
		key := PairKey(currentUserID, item.PartnerID)

		existing, ok := buckets[key]
		if !ok {
			merged := &MergedChatItem{ChatItem: item}
			merged.OrderIDs = dedupeIDs(nil, item.OrderIDs)
			buckets[key] = merged
			order = append(order, key)
			continue
		}

		// Representative record is whichever chat spoke last; unread counts
		// and order ids accumulate regardless of which record wins.
		unread := existing.UnreadCount + item.UnreadCount
		orderIDs := dedupeIDs(existing.OrderIDs, item.OrderIDs)

		if item.LastMessageTime.After(existing.LastMessageTime) {
			existing.ChatItem = item
		}
		existing.UnreadCount = unread
		existing.OrderIDs = orderIDs
	}

	result := make([]MergedChatItem, 0, len(buckets))
	for _, key := range order {
		result = append(result, *buckets[key])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastMessageTime.After(result[j].LastMessageTime)
	})

	return result
}

func dedupeIDs(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, id := range existing {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range incoming {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// NormalizeParticipants accepts the two participant encodings found in chat
// documents - an ordered array of ids, or a map of id -> truthy written by
// older mobile clients - and returns an ordered id list. Map keys are sorted
// so the result is deterministic.
func NormalizeParticipants(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case map[string]interface{}:
		out := make([]string, 0, len(v))
		for id, val := range v {
			if truthy(val) {
				out = append(out, id)
			}
		}
		sort.Strings(out)
		return out
	default:
		return nil
	}
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && !strings.EqualFold(t, "false")
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return v != nil
	}
}

// OtherParticipant returns the first participant that is not the current
// user, or "" for a malformed chat.
func OtherParticipant(participants []string, currentUserID string) string {
	for _, id := range participants {
		if id != currentUserID {
			return id
		}
	}
	return ""
}

// SortMessages orders messages ascending by server timestamp. The store
// returns them unordered, so this runs on every materialization rather than
// incrementally.
func SortMessages(messages []*entity.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}

// PreviewText derives the conversation-list preview for a message. Payload
// priority: image, then file, then text.
func PreviewText(m *entity.Message) string {
	if m == nil {
		return "No messages yet"
	}
	if m.ImageURL != "" {
		return "Photo sent"
	}
	if m.FileURL != "" {
		return "File sent: " + m.FileName
	}
	if m.Text != "" {
		return m.Text
	}
	return "No messages yet"
}

// NotificationBody derives the push/inbox body for a freshly sent message.
// Same priority ladder as PreviewText but with a generic fallback, since a
// notification always refers to a concrete send.
func NotificationBody(m *entity.Message) string {
	if m.ImageURL != "" {
		return "Photo sent"
	}
	if m.FileURL != "" {
		return "File sent: " + m.FileName
	}
	if m.Text != "" {
		return m.Text
	}
	return "New message"
}

// IsOnline derives liveness from the stored flag or the heartbeat
// timestamp: a set flag counts, and so does a heartbeat inside the
// staleness window even after the flag was cleared.
func IsOnline(online bool, lastSeen time.Time, now time.Time) bool {
	if online {
		return true
	}
	if lastSeen.IsZero() {
		return false
	}
	return now.Sub(lastSeen) <= PresenceStaleness
}

package realtime

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"

	"skysend/internal/domain/service"
	"skysend/internal/infrastructure/metrics"
)

// Event is one realtime update forwarded to a connected client.
type Event struct {
	Type      string                 `json:"type"` // "typing_indicator", "user_presence", "last_message"
	ChatID    string                 `json:"chat_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ChatWatcher attaches Firestore snapshot listeners for one user's
// conversations. Each chat gets three listeners - counterpart typing flag,
// counterpart presence, and the latest message - whose events are pushed
// through the sink (normally the user's websocket connection).
type ChatWatcher struct {
	client *firestore.Client
	userID string
	sink   func(Event)
}

func NewChatWatcher(client *firestore.Client, userID string, sink func(Event)) *ChatWatcher {
	return &ChatWatcher{
		client: client,
		userID: userID,
		sink:   sink,
	}
}

// Attach starts the listener group for a chat and returns its teardowns.
// Satisfies realtime.AttachFunc.
func (w *ChatWatcher) Attach(chatID string) []Teardown {
	partnerID := w.resolvePartner(chatID)
	if partnerID == "" {
		log.Printf("ChatWatcher: cannot resolve partner for chat %s, attaching message listener only", chatID)
		return []Teardown{w.watchLastMessage(chatID)}
	}

	return []Teardown{
		w.watchTyping(chatID, partnerID),
		w.watchPresence(chatID, partnerID),
		w.watchLastMessage(chatID),
	}
}

func (w *ChatWatcher) resolvePartner(chatID string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doc, err := w.client.Collection("chats").Doc(chatID).Get(ctx)
	if err != nil {
		log.Printf("ChatWatcher: failed to load chat %s: %v", chatID, err)
		return ""
	}

	participants := service.NormalizeParticipants(doc.Data()["participants"])
	return service.OtherParticipant(participants, w.userID)
}

func (w *ChatWatcher) watchTyping(chatID, partnerID string) Teardown {
	ctx, cancel := context.WithCancel(context.Background())
	ref := w.client.Collection("chats").Doc(chatID).Collection("typing").Doc(partnerID)

	metrics.ListenerGroups.Inc()
	go func() {
		defer metrics.ListenerGroups.Dec()

		iter := ref.Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("ChatWatcher: typing listener for chat %s stopped: %v", chatID, err)
				}
				return
			}

			typing := false
			if snap.Exists() {
				typing, _ = snap.Data()["typing"].(bool)
			}

			w.sink(Event{
				Type:   "typing_indicator",
				ChatID: chatID,
				Data: map[string]interface{}{
					"user_id":   partnerID,
					"is_typing": typing,
				},
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}
	}()

	return Teardown(cancel)
}

func (w *ChatWatcher) watchPresence(chatID, partnerID string) Teardown {
	ctx, cancel := context.WithCancel(context.Background())
	ref := w.client.Collection("users").Doc(partnerID)

	metrics.ListenerGroups.Inc()
	go func() {
		defer metrics.ListenerGroups.Dec()

		iter := ref.Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("ChatWatcher: presence listener for chat %s stopped: %v", chatID, err)
				}
				return
			}
			if !snap.Exists() {
				continue
			}

			data := snap.Data()
			online, _ := data["online"].(bool)
			lastSeen, _ := data["lastSeen"].(time.Time)

			w.sink(Event{
				Type:   "user_presence",
				ChatID: chatID,
				Data: map[string]interface{}{
					"user_id":   partnerID,
					"is_online": service.IsOnline(online, lastSeen, time.Now()),
					"last_seen": lastSeen.Format(time.RFC3339),
				},
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}
	}()

	return Teardown(cancel)
}

func (w *ChatWatcher) watchLastMessage(chatID string) Teardown {
	ctx, cancel := context.WithCancel(context.Background())
	query := w.client.Collection("chats").Doc(chatID).Collection("messages").
		OrderBy("createdAt", firestore.Desc).Limit(1)

	metrics.ListenerGroups.Inc()
	go func() {
		defer metrics.ListenerGroups.Dec()

		iter := query.Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("ChatWatcher: message listener for chat %s stopped: %v", chatID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil || len(docs) == 0 {
				continue
			}

			data := docs[0].Data()
			w.sink(Event{
				Type:   "last_message",
				ChatID: chatID,
				Data: map[string]interface{}{
					"message_id": docs[0].Ref.ID,
					"sender_id":  data["senderId"],
					"text":       data["text"],
					"image_url":  data["imageUrl"],
					"file_url":   data["fileUrl"],
				},
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}
	}()

	return Teardown(cancel)
}

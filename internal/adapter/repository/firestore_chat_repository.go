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
	"skysend/internal/domain/service"
	"skysend/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	return err
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, err
	}
	return chatFromDoc(doc)
}

// chatFromDoc decodes a chat document, tolerating the legacy shapes older
// mobile clients wrote: participants as a map of userID -> true and missing
// unread counters.
func chatFromDoc(doc *firestore.DocumentSnapshot) (*entity.Chat, error) {
	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		data := doc.Data()
		participants := service.NormalizeParticipants(data["participants"])
		if len(participants) == 0 {
			return nil, err
		}
		chat = entity.Chat{
			ID:           doc.Ref.ID,
			Participants: participants,
		}
		if v, ok := data["lastMessage"].(string); ok {
			chat.LastMessage = v
		}
	}

	if chat.ID == "" {
		chat.ID = doc.Ref.ID
	}
	if len(chat.Participants) == 0 {
		chat.Participants = service.NormalizeParticipants(doc.Data()["participants"])
	}
	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	query := r.client.Collection("chats").Where("participants", "array-contains", userID)

	iter := query.Documents(ctx)
	var chats []*entity.Chat

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		chat, err := chatFromDoc(doc)
		if err != nil {
			log.Printf("Skipping malformed chat doc %s: %v", doc.Ref.ID, err)
			continue
		}
		chats = append(chats, chat)
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})

	total := int64(len(chats))

	if offset > 0 {
		if offset >= len(chats) {
			return []*entity.Chat{}, total, nil
		}
		chats = chats[offset:]
	}
	if limit > 0 && limit < len(chats) {
		chats = chats[:limit]
	}

	return chats, total, nil
}

func (r *firestoreChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	return err
}

func (r *firestoreChatRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("chats").Doc(id).Delete(ctx)
	return err
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	_, err := r.client.Collection("chats").Doc(message.ChatID).
		Collection("messages").Doc(message.ID).Set(ctx, message)
	return err
}

func (r *firestoreChatRepository) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("chats").Doc(chatID).
		Collection("messages").
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Skipping malformed message doc %s: %v", doc.Ref.ID, err)
			continue
		}
		messages = append(messages, &message)
	}

	total := int64(len(messages))

	if offset > 0 {
		if offset >= len(messages) {
			return []*entity.Message{}, total, nil
		}
		messages = messages[offset:]
	}
	if limit > 0 && limit < len(messages) {
		messages = messages[:limit]
	}

	return messages, total, nil
}

func (r *firestoreChatRepository) GetLastMessage(ctx context.Context, chatID string) (*entity.Message, error) {
	query := r.client.Collection("chats").Doc(chatID).
		Collection("messages").
		OrderBy("createdAt", firestore.Desc).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, err
	}

	return &message, nil
}

func (r *firestoreChatRepository) SetTyping(ctx context.Context, chatID, userID string, typing bool) error {
	_, err := r.client.Collection("chats").Doc(chatID).
		Collection("typing").Doc(userID).Set(ctx, map[string]interface{}{
		"typing": typing,
	})
	return err
}

func (r *firestoreChatRepository) GetTyping(ctx context.Context, chatID, userID string) (bool, error) {
	doc, err := r.client.Collection("chats").Doc(chatID).
		Collection("typing").Doc(userID).Get(ctx)
	if err != nil {
		return false, err
	}

	typing, _ := doc.Data()["typing"].(bool)
	return typing, nil
}

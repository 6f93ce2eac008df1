package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"skysend/internal/domain/entity"
	"skysend/internal/domain/repository"
	"skysend/internal/domain/service"
	"skysend/internal/infrastructure/metrics"
	"skysend/internal/infrastructure/push"
	"skysend/internal/infrastructure/ratelimit"
	"skysend/internal/infrastructure/realtime"
	ws "skysend/internal/infrastructure/websocket"
	"skysend/pkg/errors"
)

type ChatUseCase struct {
	chatRepo         repository.ChatRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	pushSender       PushSender
	wsManager        *ws.Manager
	rateLimiter      *ratelimit.RateLimiter
	fsClient         *firestore.Client
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	pushSender PushSender,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
	fsClient *firestore.Client,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:         chatRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		pushSender:       pushSender,
		wsManager:        wsManager,
		rateLimiter:      rateLimiter,
		fsClient:         fsClient,
	}
}

// GetConversations builds the chat list for a user: every chat is
// materialized independently and chats sharing a counterpart are collapsed
// into one conversation. A chat that fails to materialize is dropped from
// this response and logged, never failing the whole list.
func (uc *ChatUseCase) GetConversations(ctx context.Context, userID string, limit, offset int) ([]service.MergedChatItem, int64, error) {
	chats, _, err := uc.chatRepo.ListByUserID(ctx, userID, 0, 0)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list chats", err)
	}

	items := make([]service.ChatItem, 0, len(chats))
	for _, chat := range chats {
		item, err := uc.materializeChat(ctx, chat, userID)
		if err != nil {
			log.Printf("GetConversations: dropping chat %s: %v", chat.ID, err)
			continue
		}
		items = append(items, item)
	}

	merged := service.MergeByPartner(items, userID)
	total := int64(len(merged))

	if offset > 0 {
		if offset >= len(merged) {
			return []service.MergedChatItem{}, total, nil
		}
		merged = merged[offset:]
	}
	if limit > 0 && limit < len(merged) {
		merged = merged[:limit]
	}

	return merged, total, nil
}

// materializeChat resolves one chat document into a list entry from the
// viewer's perspective.
func (uc *ChatUseCase) materializeChat(ctx context.Context, chat *entity.Chat, userID string) (service.ChatItem, error) {
	partnerID := service.OtherParticipant(chat.Participants, userID)
	if partnerID == "" {
		return service.ChatItem{}, errors.BadRequest("Chat has no counterpart", nil)
	}

	item := service.ChatItem{
		ChatID:      chat.ID,
		PartnerID:   partnerID,
		UnreadCount: chat.UnreadCount[userID],
		OrderIDs:    chat.OrderIDs,
	}

	last, err := uc.chatRepo.GetLastMessage(ctx, chat.ID)
	if err != nil {
		return service.ChatItem{}, err
	}
	item.LastMessage = service.PreviewText(last)
	if last != nil {
		item.LastMessageTime = last.CreatedAt
	} else {
		item.LastMessageTime = chat.LastMessageAt
	}

	// Partner profile, typing and presence are cosmetic; failures there
	// degrade the entry instead of dropping it.
	if partner, err := uc.userRepo.GetByID(ctx, partnerID); err == nil {
		item.PartnerName = partner.Username
		item.PartnerAvatar = partner.AvatarURL
		item.IsOnline = service.IsOnline(partner.Online, partner.LastSeen, time.Now())
	} else {
		log.Printf("materializeChat: partner %s lookup failed: %v", partnerID, err)
	}

	if typing, err := uc.chatRepo.GetTyping(ctx, chat.ID, partnerID); err == nil {
		item.IsTyping = typing
	}

	return item, nil
}

type SendMessageInput struct {
	Text     string
	ImageURL string
	FileURL  string
	FileName string
	FileType string
}

// SendMessage appends a message to a chat. An empty payload or a chat with
// no resolvable counterpart is a silent no-op: no message write, no chat
// update, no notification, no push.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, chatID string, input SendMessageInput) (*entity.Message, error) {
	if allowed, wait := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("Too many messages, slow down", wait)
	}

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, errors.NotFound("Chat", err)
	}

	isParticipant := false
	for _, p := range chat.Participants {
		if p == senderID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}

	message := &entity.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      input.Text,
		ImageURL:  input.ImageURL,
		FileURL:   input.FileURL,
		FileName:  input.FileName,
		FileType:  input.FileType,
		CreatedAt: time.Now(),
	}

	recipientID := service.OtherParticipant(chat.Participants, senderID)
	message.RecipientID = recipientID

	if message.Empty() || recipientID == "" {
		return nil, nil
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, errors.Internal("Failed to send message", err)
	}
	metrics.MessagesSent.Inc()

	chat.LastMessage = service.PreviewText(message)
	chat.LastMessageAt = message.CreatedAt
	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	chat.UnreadCount[recipientID]++
	chat.UpdatedAt = message.CreatedAt

	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, errors.Internal("Failed to update chat", err)
	}

	// Sending a message ends the sender's typing state
	if err := uc.chatRepo.SetTyping(ctx, chatID, senderID, false); err != nil {
		log.Printf("SendMessage: failed to clear typing for %s: %v", senderID, err)
	}

	uc.broadcastMessage(chat, message)
	uc.fanOut(ctx, chat, message, recipientID)

	return message, nil
}

func (uc *ChatUseCase) broadcastMessage(chat *entity.Chat, message *entity.Message) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":    "new_message",
		"chat_id": chat.ID,
		"message": message,
	})
	if err != nil {
		return
	}

	uc.wsManager.SendToChatRoom(chat.ID, payload, message.SenderID)
	if !uc.wsManager.IsInChatRoom(chat.ID, message.RecipientID) {
		uc.wsManager.SendToUser(message.RecipientID, payload)
	}
}

// fanOut delivers the off-screen notification for a message: an inbox
// document plus an Expo push. Both legs are best effort; a failure is
// logged and the send still succeeds.
func (uc *ChatUseCase) fanOut(ctx context.Context, chat *entity.Chat, message *entity.Message, recipientID string) {
	// No notification when the recipient has the chat open
	if uc.wsManager.IsInChatRoom(chat.ID, recipientID) {
		return
	}

	sender, err := uc.userRepo.GetByID(ctx, message.SenderID)
	senderName := "New message"
	if err == nil {
		senderName = sender.Username
	}

	notification := &entity.Notification{
		ID:     uuid.New().String(),
		UserID: recipientID,
		Type:   entity.NotificationTypeMessage,
		Title:  senderName,
		Body:   service.NotificationBody(message),
		Data: map[string]interface{}{
			"chat_id":    chat.ID,
			"message_id": message.ID,
			"sender_id":  message.SenderID,
		},
		CreatedAt: time.Now(),
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("fanOut: failed to write notification for %s: %v", recipientID, err)
	} else {
		metrics.NotificationsCreated.Inc()
	}

	recipient, err := uc.userRepo.GetByID(ctx, recipientID)
	if err != nil || recipient.ExpoPushToken == "" {
		return
	}

	pushErr := uc.pushSender.Send(ctx, push.Message{
		To:    recipient.ExpoPushToken,
		Title: senderName,
		Body:  service.NotificationBody(message),
		Data: map[string]interface{}{
			"type":    entity.NotificationTypeMessage,
			"chat_id": chat.ID,
		},
	})
	if pushErr != nil {
		log.Printf("fanOut: push delivery to %s failed: %v", recipientID, pushErr)
	}
}

func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, 0, errors.NotFound("Chat", err)
	}

	isParticipant := false
	for _, p := range chat.Participants {
		if p == userID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return nil, 0, errors.Forbidden("Not a participant of this chat", nil)
	}

	messages, total, err := uc.chatRepo.GetMessagesByChat(ctx, chatID, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to load messages", err)
	}

	service.SortMessages(messages)
	return messages, total, nil
}

// MarkChatAsRead zeroes the viewer's unread counter for the chat.
func (uc *ChatUseCase) MarkChatAsRead(ctx context.Context, userID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return errors.NotFound("Chat", err)
	}

	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	if chat.UnreadCount[userID] == 0 {
		return nil
	}

	chat.UnreadCount[userID] = 0
	chat.UpdatedAt = time.Now()

	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return errors.Internal("Failed to mark chat as read", err)
	}

	return nil
}

// SetTyping records a typing flag and fans it out to the chat room over
// websocket. Rate limited because clients fire it on every keystroke burst.
func (uc *ChatUseCase) SetTyping(ctx context.Context, userID, chatID string, typing bool) error {
	if allowed, _ := uc.rateLimiter.Allow(userID, "typing"); !allowed {
		return nil
	}

	if err := uc.chatRepo.SetTyping(ctx, chatID, userID, typing); err != nil {
		return errors.Internal("Failed to set typing state", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":    "typing",
		"chat_id": chatID,
		"user_id": userID,
		"typing":  typing,
	})
	if err == nil {
		uc.wsManager.SendToChatRoom(chatID, payload, userID)
	}

	return nil
}

// Subscribe builds the live listener registry for one connected user. The
// returned manager is reconciled against the user's chat list on connect and
// whenever the list changes, and closed on disconnect.
func (uc *ChatUseCase) Subscribe(userID string) *realtime.SubscriptionManager {
	watcher := realtime.NewChatWatcher(uc.fsClient, userID, func(event realtime.Event) {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		uc.wsManager.SendToUser(userID, payload)
	})

	return realtime.NewSubscriptionManager(watcher.Attach)
}

// DesiredChats is the set of chat ids the user's subscriptions should track.
func (uc *ChatUseCase) DesiredChats(ctx context.Context, userID string) ([]string, error) {
	chats, _, err := uc.chatRepo.ListByUserID(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(chats))
	for _, chat := range chats {
		ids = append(ids, chat.ID)
	}
	return ids, nil
}

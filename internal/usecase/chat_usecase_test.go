package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skysend/internal/domain/entity"
	"skysend/internal/infrastructure/push"
	"skysend/internal/infrastructure/ratelimit"
	ws "skysend/internal/infrastructure/websocket"
)

type fakeChatRepo struct {
	chats          map[string]*entity.Chat
	messages       map[string][]*entity.Message
	lastMessageErr map[string]error
	typing         map[string]bool

	createMessageCalls int
	updateCalls        int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:          make(map[string]*entity.Chat),
		messages:       make(map[string][]*entity.Message),
		lastMessageErr: make(map[string]error),
		typing:         make(map[string]bool),
	}
}

func (f *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return chat, nil
}

func (f *fakeChatRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	var out []*entity.Chat
	for _, chat := range f.chats {
		for _, p := range chat.Participants {
			if p == userID {
				out = append(out, chat)
				break
			}
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	f.updateCalls++
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) Delete(ctx context.Context, id string) error {
	delete(f.chats, id)
	return nil
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	f.createMessageCalls++
	f.messages[message.ChatID] = append(f.messages[message.ChatID], message)
	return nil
}

func (f *fakeChatRepo) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	msgs := f.messages[chatID]
	return msgs, int64(len(msgs)), nil
}

func (f *fakeChatRepo) GetLastMessage(ctx context.Context, chatID string) (*entity.Message, error) {
	if err := f.lastMessageErr[chatID]; err != nil {
		return nil, err
	}
	msgs := f.messages[chatID]
	if len(msgs) == 0 {
		return nil, nil
	}
	return msgs[len(msgs)-1], nil
}

func (f *fakeChatRepo) SetTyping(ctx context.Context, chatID, userID string, typing bool) error {
	f.typing[chatID+":"+userID] = typing
	return nil
}

func (f *fakeChatRepo) GetTyping(ctx context.Context, chatID, userID string) (bool, error) {
	return f.typing[chatID+":"+userID], nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	if user, ok := f.users[userID]; ok {
		user.Online = online
		user.LastSeen = lastSeen
	}
	return nil
}

func (f *fakeUserRepo) SetPushToken(ctx context.Context, userID, token string) error {
	if user, ok := f.users[userID]; ok {
		user.ExpoPushToken = token
	}
	return nil
}

type fakeNotificationRepo struct {
	created []*entity.Notification

	createErr  error
	markErr    error
	deleteErr  error
	markedRead []string
	deleted    []string
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, userID, id string) (*entity.Notification, error) {
	for _, n := range f.created {
		if n.UserID == userID && n.ID == id {
			return n, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	var out []*entity.Notification
	for _, n := range f.created {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedRead = append(f.markedRead, id)
	for _, n := range f.created {
		if n.UserID == userID && n.ID == id {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	for _, n := range f.created {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, userID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePushSender struct {
	sent []push.Message
	err  error
}

func (f *fakePushSender) Send(ctx context.Context, msg push.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newChatFixture() (*ChatUseCase, *fakeChatRepo, *fakeUserRepo, *fakeNotificationRepo, *fakePushSender) {
	chatRepo := newFakeChatRepo()
	userRepo := &fakeUserRepo{users: map[string]*entity.User{
		"alice": {ID: "alice", Username: "Alice", ExpoPushToken: "ExponentPushToken[alice]"},
		"bob":   {ID: "bob", Username: "Bob", ExpoPushToken: "ExponentPushToken[bob]"},
	}}
	notificationRepo := &fakeNotificationRepo{}
	pushSender := &fakePushSender{}

	uc := NewChatUseCase(chatRepo, userRepo, notificationRepo, pushSender, ws.NewManager(), ratelimit.NewRateLimiter(), nil)
	return uc, chatRepo, userRepo, notificationRepo, pushSender
}

func seedChat(chatRepo *fakeChatRepo, id string, participants ...string) *entity.Chat {
	chat := &entity.Chat{
		ID:           id,
		Participants: participants,
		UnreadCount:  map[string]int{},
		CreatedAt:    time.Now(),
	}
	chatRepo.chats[id] = chat
	return chat
}

func TestSendMessageEmptyPayloadIsNoOp(t *testing.T) {
	uc, chatRepo, _, notificationRepo, pushSender := newChatFixture()
	seedChat(chatRepo, "chat-1", "alice", "bob")

	msg, err := uc.SendMessage(context.Background(), "alice", "chat-1", SendMessageInput{})

	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Zero(t, chatRepo.createMessageCalls)
	assert.Zero(t, chatRepo.updateCalls)
	assert.Empty(t, notificationRepo.created)
	assert.Empty(t, pushSender.sent)
}

func TestSendMessageWithoutCounterpartIsNoOp(t *testing.T) {
	uc, chatRepo, _, notificationRepo, pushSender := newChatFixture()
	seedChat(chatRepo, "chat-1", "alice")

	msg, err := uc.SendMessage(context.Background(), "alice", "chat-1", SendMessageInput{Text: "hello"})

	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Zero(t, chatRepo.createMessageCalls)
	assert.Empty(t, notificationRepo.created)
	assert.Empty(t, pushSender.sent)
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	uc, chatRepo, _, _, _ := newChatFixture()
	seedChat(chatRepo, "chat-1", "alice", "bob")

	_, err := uc.SendMessage(context.Background(), "mallory", "chat-1", SendMessageInput{Text: "hi"})

	assert.Error(t, err)
	assert.Zero(t, chatRepo.createMessageCalls)
}

func TestSendMessageUpdatesChatAndFansOut(t *testing.T) {
	uc, chatRepo, _, notificationRepo, pushSender := newChatFixture()
	seedChat(chatRepo, "chat-1", "alice", "bob")

	msg, err := uc.SendMessage(context.Background(), "alice", "chat-1", SendMessageInput{Text: "hi bob"})

	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "bob", msg.RecipientID)

	chat := chatRepo.chats["chat-1"]
	assert.Equal(t, "hi bob", chat.LastMessage)
	assert.Equal(t, 1, chat.UnreadCount["bob"])
	assert.Zero(t, chat.UnreadCount["alice"])

	require.Len(t, notificationRepo.created, 1)
	assert.Equal(t, entity.NotificationTypeMessage, notificationRepo.created[0].Type)
	assert.Equal(t, "bob", notificationRepo.created[0].UserID)
	assert.Equal(t, "hi bob", notificationRepo.created[0].Body)

	require.Len(t, pushSender.sent, 1)
	assert.Equal(t, "ExponentPushToken[bob]", pushSender.sent[0].To)
}

func TestSendMessageImagePayloadUsesPreview(t *testing.T) {
	uc, chatRepo, _, notificationRepo, _ := newChatFixture()
	seedChat(chatRepo, "chat-1", "alice", "bob")

	msg, err := uc.SendMessage(context.Background(), "alice", "chat-1", SendMessageInput{
		ImageURL: "https://storage.googleapis.com/x/photo.jpg",
	})

	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "Photo sent", chatRepo.chats["chat-1"].LastMessage)
	require.Len(t, notificationRepo.created, 1)
	assert.Equal(t, "Photo sent", notificationRepo.created[0].Body)
}

func TestSendMessageSurvivesFanOutFailures(t *testing.T) {
	uc, chatRepo, _, notificationRepo, pushSender := newChatFixture()
	seedChat(chatRepo, "chat-1", "alice", "bob")
	notificationRepo.createErr = errors.New("store down")
	pushSender.err = errors.New("expo down")

	msg, err := uc.SendMessage(context.Background(), "alice", "chat-1", SendMessageInput{Text: "hi"})

	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, 1, chatRepo.createMessageCalls)
}

func TestSendMessageClearsSenderTyping(t *testing.T) {
	uc, chatRepo, _, _, _ := newChatFixture()
	seedChat(chatRepo, "chat-1", "alice", "bob")
	chatRepo.typing["chat-1:alice"] = true

	_, err := uc.SendMessage(context.Background(), "alice", "chat-1", SendMessageInput{Text: "hi"})

	require.NoError(t, err)
	assert.False(t, chatRepo.typing["chat-1:alice"])
}

func TestGetConversationsMergesByPartner(t *testing.T) {
	uc, chatRepo, _, _, _ := newChatFixture()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := seedChat(chatRepo, "chat-1", "alice", "bob")
	first.UnreadCount["alice"] = 2
	first.OrderIDs = []string{"order-1"}
	chatRepo.messages["chat-1"] = []*entity.Message{
		{ID: "m1", ChatID: "chat-1", SenderID: "bob", Text: "older", CreatedAt: base},
	}

	second := seedChat(chatRepo, "chat-2", "alice", "bob")
	second.UnreadCount["alice"] = 1
	second.OrderIDs = []string{"order-2"}
	chatRepo.messages["chat-2"] = []*entity.Message{
		{ID: "m2", ChatID: "chat-2", SenderID: "bob", Text: "newer", CreatedAt: base.Add(time.Hour)},
	}

	conversations, total, err := uc.GetConversations(context.Background(), "alice", 0, 0)

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, conversations, 1)
	assert.Equal(t, "chat-2", conversations[0].ChatID)
	assert.Equal(t, "newer", conversations[0].LastMessage)
	assert.Equal(t, 3, conversations[0].UnreadCount)
	assert.ElementsMatch(t, []string{"order-1", "order-2"}, conversations[0].OrderIDs)
}

func TestGetConversationsDropsFailingChat(t *testing.T) {
	uc, chatRepo, _, _, _ := newChatFixture()

	seedChat(chatRepo, "chat-1", "alice", "bob")
	seedChat(chatRepo, "chat-2", "alice", "carol")
	chatRepo.lastMessageErr["chat-2"] = errors.New("listener broke")

	conversations, _, err := uc.GetConversations(context.Background(), "alice", 0, 0)

	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "chat-1", conversations[0].ChatID)
}

func TestMarkChatAsRead(t *testing.T) {
	uc, chatRepo, _, _, _ := newChatFixture()
	chat := seedChat(chatRepo, "chat-1", "alice", "bob")
	chat.UnreadCount["alice"] = 4
	chat.UnreadCount["bob"] = 2

	require.NoError(t, uc.MarkChatAsRead(context.Background(), "alice", "chat-1"))

	assert.Zero(t, chat.UnreadCount["alice"])
	assert.Equal(t, 2, chat.UnreadCount["bob"], "counterpart counter is untouched")

	// Already-zero counter skips the store write
	updates := chatRepo.updateCalls
	require.NoError(t, uc.MarkChatAsRead(context.Background(), "alice", "chat-1"))
	assert.Equal(t, updates, chatRepo.updateCalls)
}

func TestDesiredChats(t *testing.T) {
	uc, chatRepo, _, _, _ := newChatFixture()
	seedChat(chatRepo, "chat-1", "alice", "bob")
	seedChat(chatRepo, "chat-2", "alice", "carol")
	seedChat(chatRepo, "chat-3", "dave", "carol")

	ids, err := uc.DesiredChats(context.Background(), "alice")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"chat-1", "chat-2"}, ids)
}

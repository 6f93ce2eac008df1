package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"skysend/internal/adapter/api/middleware"
	"skysend/internal/domain/repository"
	"skysend/internal/infrastructure/realtime"
	ws "skysend/internal/infrastructure/websocket"
	"skysend/internal/usecase"
	"skysend/pkg/errors"
)

// heartbeatInterval refreshes lastSeen while a socket stays open. It must be
// comfortably inside the presence staleness window.
const heartbeatInterval = 30 * time.Second

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // restrict in production
	},
}

// session is the per-connection server state: the live chat subscriptions
// and the heartbeat stopper.
type session struct {
	subs *realtime.SubscriptionManager
	stop chan struct{}
}

type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
	chatUseCase    *usecase.ChatUseCase
	userRepo       repository.UserRepository

	mu       sync.Mutex
	sessions map[string]*session
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
	chatUseCase *usecase.ChatUseCase,
	userRepo repository.UserRepository,
) *WebSocketHandler {
	h := &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
		chatUseCase:    chatUseCase,
		userRepo:       userRepo,
		sessions:       make(map[string]*session),
	}

	wsManager.OnMessage = h.handleMessage
	wsManager.OnDisconnect = h.handleDisconnect

	return h
}

// HandleWebSocket authenticates, upgrades and wires up the connection:
// presence goes online, the heartbeat starts and the user's chat listeners
// are attached.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		// Mobile clients cannot set headers on the ws handshake; allow a
		// token query parameter as fallback
		token := c.QueryParam("token")
		if token == "" {
			return errors.Unauthorized("Authentication required", nil)
		}
		uid, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
		if err != nil {
			return errors.Unauthorized("Invalid or expired token", err)
		}
		userID = uid
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	h.startSession(client)

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}

func (h *WebSocketHandler) startSession(client *ws.Client) {
	ctx := context.Background()
	userID := client.UserID

	if err := h.userRepo.SetPresence(ctx, userID, true, time.Now()); err != nil {
		log.Printf("WebSocket: failed to set %s online: %v", userID, err)
	}

	sess := &session{
		subs: h.chatUseCase.Subscribe(userID),
		stop: make(chan struct{}),
	}

	h.mu.Lock()
	if old, ok := h.sessions[userID]; ok {
		close(old.stop)
		old.subs.Close()
	}
	h.sessions[userID] = sess
	h.mu.Unlock()

	h.reconcileSubscriptions(ctx, userID, sess)

	go h.heartbeat(userID, sess.stop)
}

// heartbeat keeps lastSeen fresh so presence survives missed disconnects.
func (h *WebSocketHandler) heartbeat(userID string, stop chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := h.userRepo.SetPresence(context.Background(), userID, true, time.Now()); err != nil {
				log.Printf("WebSocket: heartbeat for %s failed: %v", userID, err)
			}
		case <-stop:
			return
		}
	}
}

func (h *WebSocketHandler) reconcileSubscriptions(ctx context.Context, userID string, sess *session) {
	desired, err := h.chatUseCase.DesiredChats(ctx, userID)
	if err != nil {
		log.Printf("WebSocket: failed to list chats for %s: %v", userID, err)
		return
	}
	sess.subs.Reconcile(desired)
}

type inboundFrame struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id,omitempty"`
}

func (h *WebSocketHandler) handleMessage(client *ws.Client, message []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		log.Printf("WebSocket: malformed frame from %s: %v", client.UserID, err)
		return
	}

	ctx := context.Background()

	switch frame.Type {
	case "ping":
		if err := h.userRepo.SetPresence(ctx, client.UserID, true, time.Now()); err != nil {
			log.Printf("WebSocket: ping presence for %s failed: %v", client.UserID, err)
		}
		pong, _ := json.Marshal(map[string]string{"type": "pong"})
		h.wsManager.SendToUser(client.UserID, pong)

	case "join_chat_room":
		if frame.ChatID == "" {
			return
		}
		h.wsManager.JoinChatRoom(frame.ChatID, client.UserID)
		client.ActiveChatRoom = frame.ChatID

	case "leave_chat_room":
		if frame.ChatID == "" {
			return
		}
		h.wsManager.LeaveChatRoom(frame.ChatID, client.UserID)
		if client.ActiveChatRoom == frame.ChatID {
			client.ActiveChatRoom = ""
		}

	case "typing_start", "typing_stop":
		if frame.ChatID == "" {
			return
		}
		typing := frame.Type == "typing_start"
		if err := h.chatUseCase.SetTyping(ctx, client.UserID, frame.ChatID, typing); err != nil {
			log.Printf("WebSocket: typing update for %s failed: %v", client.UserID, err)
		}

	case "mark_read":
		if frame.ChatID == "" {
			return
		}
		if err := h.chatUseCase.MarkChatAsRead(ctx, client.UserID, frame.ChatID); err != nil {
			log.Printf("WebSocket: mark read for %s failed: %v", client.UserID, err)
		}

	case "refresh_subscriptions":
		h.mu.Lock()
		sess, ok := h.sessions[client.UserID]
		h.mu.Unlock()
		if ok {
			h.reconcileSubscriptions(ctx, client.UserID, sess)
		}

	default:
		log.Printf("WebSocket: unknown frame type %q from %s", frame.Type, client.UserID)
	}
}

// handleDisconnect tears the session down: listeners detach exactly once,
// the heartbeat stops and presence goes offline with a final lastSeen.
func (h *WebSocketHandler) handleDisconnect(client *ws.Client) {
	h.mu.Lock()
	sess, ok := h.sessions[client.UserID]
	if ok {
		delete(h.sessions, client.UserID)
	}
	h.mu.Unlock()

	if ok {
		close(sess.stop)
		sess.subs.Close()
	}

	if err := h.userRepo.SetPresence(context.Background(), client.UserID, false, time.Now()); err != nil {
		log.Printf("WebSocket: failed to set %s offline: %v", client.UserID, err)
	}
}

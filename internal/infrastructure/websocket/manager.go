package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"skysend/internal/infrastructure/metrics"
)

// Client is one authenticated WebSocket connection.
type Client struct {
	UserID         string
	Conn           *websocket.Conn
	Send           chan []byte
	ActiveChatRoom string
}

// Manager tracks active connections and chat-room membership. One client per
// user id; a newer connection replaces the previous one.
type Manager struct {
	clients         map[string]*Client
	chatRoomClients map[string]map[string]bool // chatID -> set of userIDs
	Register        chan *Client
	Unregister      chan *Client
	mutex           sync.RWMutex

	// OnMessage handles inbound frames; set by the websocket handler before
	// any client connects.
	OnMessage func(client *Client, message []byte)
	// OnDisconnect runs after a client is unregistered.
	OnDisconnect func(client *Client)
}

func NewManager() *Manager {
	return &Manager{
		clients:         make(map[string]*Client),
		chatRoomClients: make(map[string]map[string]bool),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
	}
}

// Start runs the registration loop until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				old, replaced := m.clients[client.UserID]
				if replaced && old != client {
					close(old.Send)
				}
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				if !replaced {
					metrics.WebsocketClients.Inc()
				}
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				current, ok := m.clients[client.UserID]
				isCurrent := ok && current == client
				if isCurrent {
					delete(m.clients, client.UserID)
					close(client.Send)
					for chatID, members := range m.chatRoomClients {
						if members[client.UserID] {
							delete(members, client.UserID)
							if len(members) == 0 {
								delete(m.chatRoomClients, chatID)
							}
						}
					}
				}
				m.mutex.Unlock()

				// A stale client that was already replaced by a newer
				// connection must not tear down the newer session.
				if isCurrent {
					metrics.WebsocketClients.Dec()
					log.Printf("Client unregistered: %s", client.UserID)
					if m.OnDisconnect != nil {
						m.OnDisconnect(client)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser delivers a frame to one user if connected. Slow consumers are
// dropped rather than blocking the caller.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		log.Printf("WebSocket: send buffer full for %s, dropping connection", userID)
		m.Unregister <- client
	}
}

// SendToChatRoom delivers a frame to every member of a chat room except the
// excluded user (normally the sender).
func (m *Manager) SendToChatRoom(chatID string, message []byte, excludeUserID string) {
	m.mutex.RLock()
	members := make([]string, 0, len(m.chatRoomClients[chatID]))
	for userID := range m.chatRoomClients[chatID] {
		if userID != excludeUserID {
			members = append(members, userID)
		}
	}
	m.mutex.RUnlock()

	for _, userID := range members {
		m.SendToUser(userID, message)
	}
}

func (m *Manager) JoinChatRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.chatRoomClients[chatID] == nil {
		m.chatRoomClients[chatID] = make(map[string]bool)
	}
	m.chatRoomClients[chatID][userID] = true
}

func (m *Manager) LeaveChatRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if members, ok := m.chatRoomClients[chatID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.chatRoomClients, chatID)
		}
	}
}

// IsInChatRoom reports whether a user currently has the chat room open.
func (m *Manager) IsInChatRoom(chatID, userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.chatRoomClients[chatID][userID]
}

// ReadPump reads frames from the connection until it closes, then
// unregisters the client.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error for %s: %v", c.UserID, err)
			}
			break
		}

		if m.OnMessage != nil {
			m.OnMessage(c, message)
		}
	}
}

// WritePump drains the send channel to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error for %s: %v", c.UserID, err)
			return
		}
	}
}

package websockets

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/AbbasAlizada1380/mellat/internal/events"
	"github.com/AbbasAlizada1380/mellat/internal/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_EVENT = "event"

	SEND_BUFFER   = 32
	WRITE_TIMEOUT = 10 * time.Second
	PONG_TIMEOUT  = 60 * time.Second
	PING_INTERVAL = (PONG_TIMEOUT * 9) / 10
)

type Message struct {
	Type  string       `json:"type"`
	Event events.Event `json:"event"`
}

type Client struct {
	ID     string
	UserID uint
	send   chan []byte
}

// Manager relays change events from the bus to every connected dashboard.
type Manager struct {
	log         logger.Logger
	mu          sync.RWMutex
	clients     map[string]*Client
	unsubscribe func()
	done        chan struct{}
}

func New(eventBus *events.EventBus) (*Manager, error) {
	if eventBus == nil {
		return nil, errors.New("event bus is nil")
	}

	ch, unsubscribe := eventBus.Subscribe()
	m := &Manager{
		log:         logger.New("websockets"),
		clients:     make(map[string]*Client),
		unsubscribe: unsubscribe,
		done:        make(chan struct{}),
	}
	go m.run(ch)

	return m, nil
}

func (m *Manager) run(ch <-chan events.Event) {
	defer close(m.done)
	log := m.log.Function("run")

	for event := range ch {
		payload, err := json.Marshal(Message{Type: MESSAGE_TYPE_EVENT, Event: event})
		if err != nil {
			log.Er("failed to encode event", err, "type", event.Type)
			continue
		}
		m.broadcast(payload)
	}
}

func (m *Manager) broadcast(payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, client := range m.clients {
		select {
		case client.send <- payload:
		default:
			m.log.Function("broadcast").Warn("dropping slow client", "clientID", id)
			delete(m.clients, id)
			close(client.send)
		}
	}
}

func (m *Manager) register(userID uint) *Client {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		send:   make(chan []byte, SEND_BUFFER),
	}

	m.mu.Lock()
	m.clients[client.ID] = client
	m.mu.Unlock()

	m.log.Function("register").Debug("Client connected", "clientID", client.ID, "userID", userID)
	return client
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.send)
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// HandleWebSocket serves one connection until the peer goes away. Inbound
// messages are ignored; the read loop only keeps the connection alive. It
// returns only after the write pump has stopped, since the connection is
// recycled once the handler returns.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(uint)
	client := m.register(userID)

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		m.writePump(c, client)
	}()

	m.readLoop(c, client)

	m.unregister(client)
	<-pumpDone
}

func (m *Manager) readLoop(c *websocket.Conn, client *Client) {
	_ = c.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.log.Function("readLoop").Warn("connection closed", "clientID", client.ID, "error", err)
			}
			return
		}
	}
}

// writePump owns every write on c. Closing the connection on exit also
// unblocks the read loop.
func (m *Manager) writePump(c *websocket.Conn, client *Client) {
	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case payload, ok := <-client.send:
			_ = c.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if !ok {
				_ = c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close stops relaying and disconnects every client.
func (m *Manager) Close() {
	m.unsubscribe()
	<-m.done

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, client := range m.clients {
		delete(m.clients, id)
		close(client.send)
	}
}

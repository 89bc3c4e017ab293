package ws

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

var ErrNoConnection = errors.New("user has no live connection")

type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client serializes writes, a websocket connection allows one writer.
type client struct {
	mu   sync.Mutex
	conn Conn
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks the live connections of every user.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}

	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]map[*client]struct{}),
		logger:  logger,
	}
}

// Register adds conn for userID; the returned func removes it again.
func (h *Hub) Register(userID int64, conn Conn) func() {
	c := &client{conn: conn}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	h.logger.WithField("userID", userID).Debug("websocket connected")

	return func() {
		h.remove(userID, c)
	}
}

func (h *Hub) remove(userID int64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}

	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}

	h.logger.WithField("userID", userID).Debug("websocket disconnected")
}

func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Send writes payload to every connection of userID and returns how many
// got it. Connections failing the write are dropped. A user without
// connections is not an error.
func (h *Hub) Send(userID int64, payload []byte) (int, error) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	var (
		sent int
		errs []error
	)

	for _, c := range targets {
		if err := c.write(payload); err != nil {
			errs = append(errs, err)
			h.remove(userID, c)
			_ = c.conn.Close()
			continue
		}
		sent++
	}

	if sent == 0 && len(errs) > 0 {
		return 0, fmt.Errorf("user %d: %w", userID, errors.Join(errs...))
	}

	return sent, nil
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conns := range h.clients {
		for c := range conns {
			_ = c.conn.Close()
		}
		delete(h.clients, userID)
	}
}

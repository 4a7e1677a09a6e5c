package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"trattoria-order-service/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	TopicKitchen  = "kitchen"
	TopicDelivery = "delivery"

	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SnapshotFunc returns the current board state pushed to subscribers.
type SnapshotFunc func() any

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(value)
}

func (c *client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

type topic struct {
	snapshot SnapshotFunc
	mu       sync.RWMutex
	clients  map[*client]struct{}
}

// Server pushes board snapshots to websocket subscribers. It implements
// events.Publisher so boards notify it like any other sink.
type Server struct {
	Logger    *zap.Logger
	heartbeat time.Duration

	topics map[string]*topic
}

func New(logger *zap.Logger, heartbeat time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &Server{Logger: logger, heartbeat: heartbeat, topics: make(map[string]*topic)}
}

// Register must be called for every topic before the server handles traffic.
func (s *Server) Register(name string, snapshot SnapshotFunc) {
	s.topics[name] = &topic{snapshot: snapshot, clients: make(map[*client]struct{})}
}

func topicFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "kitchen."), eventType == events.TypeOrderPlaced:
		return TopicKitchen
	case strings.HasPrefix(eventType, "delivery."):
		return TopicDelivery
	default:
		return ""
	}
}

func (s *Server) Publish(_ context.Context, evt events.Event) error {
	t, ok := s.topics[topicFor(evt.Type)]
	if !ok {
		return nil
	}
	s.broadcast(t, map[string]any{
		"type":  evt.Type,
		"event": evt,
		"data":  t.snapshot(),
	})
	return nil
}

func (s *Server) broadcast(t *topic, message any) {
	t.mu.RLock()
	clients := make([]*client, 0, len(t.clients))
	for c := range t.clients {
		clients = append(clients, c)
	}
	t.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(message); err != nil {
			_ = c.conn.Close()
			s.unsubscribe(t, c)
		}
	}
}

func (s *Server) subscribe(t *topic, c *client) {
	t.mu.Lock()
	t.clients[c] = struct{}{}
	t.mu.Unlock()
}

func (s *Server) unsubscribe(t *topic, c *client) {
	t.mu.Lock()
	delete(t.clients, c)
	t.mu.Unlock()
}

// Subscribers reports the open connections on a topic.
func (s *Server) Subscribers(name string) int {
	t, ok := s.topics[name]
	if !ok {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}

func (s *Server) OrdersWS(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, TopicKitchen, "orders.state")
}

func (s *Server) DeliveryOrdersWS(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, TopicDelivery, "delivery-orders.state")
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, name, stateType string) {
	t, ok := s.topics[name]
	if !ok {
		http.Error(w, "unknown topic", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	s.subscribe(t, c)
	defer s.unsubscribe(t, c)

	if err := c.writeJSON(map[string]any{"type": stateType, "data": t.snapshot()}); err != nil {
		return
	}

	readWait := s.heartbeat * 2
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-clientClosed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				s.Logger.Debug("ws ping failed", zap.String("topic", name), zap.Error(err))
				return
			}
		}
	}
}

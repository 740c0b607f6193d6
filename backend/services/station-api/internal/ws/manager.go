package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is the JSON frame delivered to subscribers.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Observer is notified as subscribers come and go.
type Observer interface {
	ClientConnected()
	ClientDisconnected()
}

// Manager tracks subscriber connections and fans events out to them.
type Manager struct {
	mu           sync.RWMutex
	connections  map[string]*Connection
	pingInterval time.Duration
	observer     Observer
	logger       *zap.Logger
}

// NewManager builds connection manager. observer may be nil.
func NewManager(pingInterval time.Duration, observer Observer, logger *zap.Logger) *Manager {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Manager{
		connections:  make(map[string]*Connection),
		pingInterval: pingInterval,
		observer:     observer,
		logger:       logger,
	}
}

// PingInterval is the keepalive period.
func (m *Manager) PingInterval() time.Duration {
	return m.pingInterval
}

// Add registers new connection.
func (m *Manager) Add(conn *Connection) {
	m.mu.Lock()
	m.connections[conn.ID()] = conn
	total := len(m.connections)
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.ClientConnected()
	}
	m.logger.Info("subscriber connected", zap.String("conn_id", conn.ID()), zap.Int("total", total))
}

// Remove removes connection.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	_, ok := m.connections[id]
	delete(m.connections, id)
	total := len(m.connections)
	m.mu.Unlock()

	if !ok {
		return
	}
	if m.observer != nil {
		m.observer.ClientDisconnected()
	}
	m.logger.Info("subscriber disconnected", zap.String("conn_id", id), zap.Int("total", total))
}

// Count returns the number of live connections.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Publish broadcasts an event to every connection.
func (m *Manager) Publish(eventType string, data any) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		m.logger.Error("failed to marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, conn := range m.connections {
		conn.Send(payload)
	}
}

// Start runs the keepalive loop until ctx is done, then closes every
// connection.
func (m *Manager) Start(ctx context.Context) {
	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			for _, conn := range m.snapshot() {
				if err := conn.Ping(); err != nil {
					m.logger.Debug("ping failed", zap.String("conn_id", conn.ID()), zap.Error(err))
					conn.Close()
				}
			}
		}
	}
}

func (m *Manager) snapshot() []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Connection, 0, len(m.connections))
	for _, conn := range m.connections {
		out = append(out, conn)
	}
	return out
}

func (m *Manager) closeAll() {
	for _, conn := range m.snapshot() {
		conn.Close()
	}
}

package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentEvent tells SSE subscribers that a tool changed a document.
type DocumentEvent struct {
	Tool      string    `json:"tool"`
	PostID    int       `json:"postId"`
	Timestamp time.Time `json:"timestamp"`
}

// sseClient is one connected SSE subscriber.
type sseClient struct {
	id      string
	writer  http.ResponseWriter
	flusher http.Flusher
	done    chan struct{}
}

// EventBroker fans document-change events out to SSE clients, so an editor
// UI can refresh a page preview after a tool mutated it.
type EventBroker struct {
	log          *zap.Logger
	keepalive    time.Duration
	clients      map[string]*sseClient
	clientsMutex sync.RWMutex
	broadcast    chan DocumentEvent
}

// BrokerConfig holds the broker's tunables.
type BrokerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
}

// DefaultBrokerConfig returns the default broker configuration.
func DefaultBrokerConfig() *BrokerConfig {
	return &BrokerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
	}
}

// NewEventBroker starts a broker and its broadcast loop.
func NewEventBroker(logger *zap.Logger, config *BrokerConfig) *EventBroker {
	if config == nil {
		config = DefaultBrokerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &EventBroker{
		log:       logger,
		keepalive: config.KeepaliveInterval,
		clients:   map[string]*sseClient{},
		broadcast: make(chan DocumentEvent, config.BufferSize),
	}
	go b.broadcastLoop()
	return b
}

// Broadcast queues an event for every connected client. A full queue drops
// the event rather than blocking a tool handler.
func (b *EventBroker) Broadcast(event DocumentEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case b.broadcast <- event:
	default:
		b.log.Warn("broadcast channel full, dropping event",
			zap.String("tool", event.Tool), zap.Int("postID", event.PostID))
	}
}

func (b *EventBroker) broadcastLoop() {
	for event := range b.broadcast {
		b.clientsMutex.RLock()
		clients := make([]*sseClient, 0, len(b.clients))
		for _, client := range b.clients {
			clients = append(clients, client)
		}
		b.clientsMutex.RUnlock()

		for _, client := range clients {
			if err := b.sendEvent(client, "document-changed", event); err != nil {
				b.log.Error("failed to send event to client", zap.String("clientID", client.id), zap.Error(err))
				b.removeClient(client.id)
			}
		}
	}
}

func (b *EventBroker) sendEvent(client *sseClient, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	fmt.Fprintf(client.writer, "event: %s\n", name)
	fmt.Fprintf(client.writer, "data: %s\n\n", payload)
	client.flusher.Flush()
	return nil
}

func (b *EventBroker) addClient(w http.ResponseWriter) *sseClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	client := &sseClient{
		id:      uuid.NewString(),
		writer:  w,
		flusher: flusher,
		done:    make(chan struct{}),
	}

	b.clientsMutex.Lock()
	b.clients[client.id] = client
	b.clientsMutex.Unlock()

	if err := b.sendEvent(client, "connected", map[string]string{"clientID": client.id}); err != nil {
		b.removeClient(client.id)
		return nil
	}
	b.log.Info("SSE client connected", zap.String("clientID", client.id))
	return client
}

func (b *EventBroker) removeClient(clientID string) {
	b.clientsMutex.Lock()
	defer b.clientsMutex.Unlock()
	if client, exists := b.clients[clientID]; exists {
		close(client.done)
		delete(b.clients, clientID)
		b.log.Info("SSE client disconnected", zap.String("clientID", clientID))
	}
}

// ConnectedClients returns the ids of the currently connected clients.
func (b *EventBroker) ConnectedClients() []string {
	b.clientsMutex.RLock()
	defer b.clientsMutex.RUnlock()
	ids := make([]string, 0, len(b.clients))
	for id := range b.clients {
		ids = append(ids, id)
	}
	return ids
}

// HandleSSE is the SSE subscription endpoint.
func (b *EventBroker) HandleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	client := b.addClient(w)
	if client == nil {
		return
	}

	ctx := r.Context()
	ticker := time.NewTicker(b.keepalive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			b.removeClient(client.id)
			return
		case <-client.done:
			return
		case <-ticker.C:
			if err := b.sendEvent(client, "keepalive", map[string]any{"timestamp": time.Now()}); err != nil {
				b.removeClient(client.id)
				return
			}
		}
	}
}

package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"soros-rag-be/internal/dto"
	"soros-rag-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries events between instances sharing the same Redis.
const ClusterChannel = "soros:cluster_events"

type Hub struct {
	// Connected chat clients keyed by connection id.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns so late register/unregister sends do not block.
	done     chan struct{}
	doneOnce sync.Once

	mu sync.RWMutex

	// Optional. When set, broadcasts go through Redis so every instance delivers them.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

// Run owns the client registry until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.doneOnce.Do(func() { close(h.done) })

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Id] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.Id})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.Id]; ok {
				delete(h.clients, client.Id)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.Id})
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers an event to every connected client on every instance.
func (h *Hub) Broadcast(event dto.ChatSocketEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode event", map[string]interface{}{"error": err.Error(), "type": event.Type})
		return
	}

	if h.rdb == nil {
		h.deliverLocal(data)
		return
	}

	// The subscriber loop delivers to local clients, including the ones on this instance.
	if err := h.rdb.Publish(context.Background(), ClusterChannel, data).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed, delivering locally only", map[string]interface{}{"error": err.Error()})
		h.deliverLocal(data)
	}
}

func (h *Hub) deliverLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.enqueue(data)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !json.Valid([]byte(msg.Payload)) {
				h.logger.Warn("Hub", "Dropping malformed cluster event", nil)
				continue
			}
			h.deliverLocal([]byte(msg.Payload))
		}
	}
}

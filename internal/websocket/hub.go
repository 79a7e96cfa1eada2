package websocket

import (
	"context"
	"sync"

	"crm-service/internal/domain/activity"
	wstypes "crm-service/internal/domain/websocket"

	"go.uber.org/zap"
)

type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	done   chan struct{}
	logger *zap.Logger
}

// BroadcastMessage targets subscribers of Channel. A non-zero CustomerID
// skips clients filtering on other customers.
type BroadcastMessage struct {
	CustomerID int64
	Channel    wstypes.ChannelType
	Message    *wstypes.WSMessage
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client, 16),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		done:            make(chan struct{}),
		logger:          logger,
	}
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

// Attach hands the client to the run loop. It reports false once the hub has
// shut down, in which case the caller owns the connection.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("client_id", client.id),
		zap.Int("total", total),
	)

	client.Subscribe(wstypes.ChannelSystem)
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"client_id": client.id,
		"channels":  []wstypes.ChannelType{wstypes.ChannelActivity, wstypes.ChannelSystem},
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, exists := h.clients[client]
	delete(h.clients, client)
	total := len(h.clients)
	h.mu.Unlock()

	if !exists {
		return
	}
	client.Close()
	h.logger.Info("websocket client disconnected",
		zap.String("client_id", client.id),
		zap.Int("total", total),
	)
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.Wants(msg.Channel, msg.CustomerID) {
			client.SendMessage(msg.Message)
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishActivity fans a timeline entry out to activity subscribers.
// It never blocks; when the queue is full the event is dropped.
func (h *Hub) PublishActivity(e *activity.Entry) {
	msg := wstypes.NewMessage(wstypes.EventTypeActivity, wstypes.ActivityData{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Action:     e.Action,
		Timestamp:  e.Timestamp,
	})

	select {
	case h.broadcast <- &BroadcastMessage{CustomerID: e.CustomerID, Channel: wstypes.ChannelActivity, Message: msg}:
	default:
		h.logger.Warn("activity broadcast queue full, dropping event", zap.Int64("customer_id", e.CustomerID))
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

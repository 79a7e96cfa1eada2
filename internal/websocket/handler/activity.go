package handler

import (
	"context"
	"fmt"

	"crm-service/internal/domain/activity"
	wstypes "crm-service/internal/domain/websocket"
	ws "crm-service/internal/websocket"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type ActivityLister interface {
	List(ctx context.Context, customerID int64, limit int) ([]activity.Entry, error)
}

// ActivityHandler answers timeline history requests over the socket.
type ActivityHandler struct {
	activity ActivityLister
}

func NewActivityHandler(activity ActivityLister) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

func (h *ActivityHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeActivityHistory}
}

func (h *ActivityHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeActivityHistory:
		return h.handleHistory(ctx, client, msg)
	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func (h *ActivityHandler) handleHistory(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	var req wstypes.ActivityHistoryRequest
	if err := ws.MapToStruct(msg.Data, &req); err != nil {
		return fmt.Errorf("invalid history request: %w", err)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("customer_id is required")
	}
	if req.Limit <= 0 || req.Limit > maxHistoryLimit {
		req.Limit = defaultHistoryLimit
	}

	entries, err := h.activity.List(ctx, req.CustomerID, req.Limit)
	if err != nil {
		return err
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeActivityHistory, map[string]interface{}{
		"customer_id": req.CustomerID,
		"entries":     entries,
		"count":       len(entries),
	}))
	return nil
}

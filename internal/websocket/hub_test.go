package websocket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crm-service/internal/domain/activity"
	wstypes "crm-service/internal/domain/websocket"
	ws "crm-service/internal/websocket"
	"crm-service/internal/websocket/handler"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLister struct {
	entries []activity.Entry
}

func (f *fakeLister) List(_ context.Context, customerID int64, limit int) ([]activity.Entry, error) {
	var out []activity.Entry
	for _, e := range f.entries {
		if e.CustomerID == customerID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func startHub(t *testing.T, lister handler.ActivityLister) (*ws.Hub, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := ws.NewHub(zap.NewNop())
	hub.RegisterHandler(handler.NewActivityHandler(lister))
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := ws.NewClient(hub, conn)
		if !hub.Attach(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	connected := readMessage(t, conn)
	require.Equal(t, wstypes.EventTypeConnected, connected.Type)
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *wstypes.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := wstypes.ParseMessage(data)
	require.NoError(t, err)
	return msg
}

func send(t *testing.T, conn *websocket.Conn, eventType wstypes.EventType, data interface{}) {
	t.Helper()
	raw, err := wstypes.NewMessage(eventType, data).ToJSON()
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func TestHub_PublishActivityRespectsCustomerFilter(t *testing.T) {
	hub, conn := startHub(t, &fakeLister{})

	send(t, conn, wstypes.EventTypeSubscribe, wstypes.SubscribeRequest{
		Channels:    []wstypes.ChannelType{wstypes.ChannelActivity},
		CustomerIDs: []int64{7},
	})
	ack := readMessage(t, conn)
	require.Equal(t, wstypes.EventTypeSubscribe, ack.Type)

	hub.PublishActivity(&activity.Entry{ID: 1, CustomerID: 8, Action: "Auto-tagged: Interested"})
	hub.PublishActivity(&activity.Entry{ID: 2, CustomerID: 7, Action: "Auto-tagged: Hot Lead"})

	msg := readMessage(t, conn)
	require.Equal(t, wstypes.EventTypeActivity, msg.Type)

	var data wstypes.ActivityData
	require.NoError(t, ws.MapToStruct(msg.Data, &data))
	assert.Equal(t, int64(7), data.CustomerID)
	assert.Equal(t, "Auto-tagged: Hot Lead", data.Action)
	assert.Equal(t, 1, hub.TotalClients())
}

func TestHub_PingPong(t *testing.T) {
	_, conn := startHub(t, &fakeLister{})

	send(t, conn, wstypes.EventTypePing, nil)

	assert.Equal(t, wstypes.EventTypePong, readMessage(t, conn).Type)
}

func TestActivityHandler_History(t *testing.T) {
	lister := &fakeLister{entries: []activity.Entry{
		{ID: 3, CustomerID: 5, Action: "Reminder set: call back (due 2026-03-01)"},
		{ID: 2, CustomerID: 5, Action: "Auto-tagged: Interested"},
		{ID: 1, CustomerID: 6, Action: "Auto-tagged: Hot Lead"},
	}}
	_, conn := startHub(t, lister)

	send(t, conn, wstypes.EventTypeActivityHistory, wstypes.ActivityHistoryRequest{CustomerID: 5})
	msg := readMessage(t, conn)
	require.Equal(t, wstypes.EventTypeActivityHistory, msg.Type)

	var body struct {
		CustomerID int64            `json:"customer_id"`
		Entries    []activity.Entry `json:"entries"`
		Count      int              `json:"count"`
	}
	require.NoError(t, ws.MapToStruct(msg.Data, &body))
	assert.Equal(t, int64(5), body.CustomerID)
	assert.Equal(t, 2, body.Count)

	send(t, conn, wstypes.EventTypeActivityHistory, wstypes.ActivityHistoryRequest{})
	assert.Equal(t, wstypes.EventTypeError, readMessage(t, conn).Type)
}

func TestHub_AttachAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(zap.NewNop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	attached := make(chan bool, 1)
	go func() { attached <- hub.Attach(ws.NewClient(hub, nil)) }()

	select {
	case ok := <-attached:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("Attach blocked after the hub stopped")
	}
	assert.Zero(t, hub.TotalClients())
}

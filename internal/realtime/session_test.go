package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// startRealtimeServer wires hub, registrar and a minimal upgrade handler the
// same way the API endpoint does, over a loopback listener.
func startRealtimeServer(t *testing.T, hub *Hub, reg *Registrar, identity Identity) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}

		sess := NewSession(r.Context(), conn, 8, zerolog.Nop())
		hub.Register(sess)
		if err := reg.Connect(r.Context(), sess.ID(), identity); err != nil {
			hub.Unregister(sess.ID())
			sess.Close(err)
			return
		}

		sess.Run()
		<-sess.Done()

		_ = reg.Disconnect(context.Background(), sess.ID())
		hub.Unregister(sess.ID())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSessionReceivesAccountBroadcasts(t *testing.T) {
	hub := newTestHub()
	reg := NewRegistrar(hub, zerolog.Nop())
	pub := NewGroupPublisher(hub)

	srv := startRealtimeServer(t, hub, reg, Identity{UserID: "user-1", AccountID: "acct-a"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	require.NoError(t, err)
	defer client.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		return hub.GroupSize("account-acct-a") == 1
	}, 2*time.Second, 10*time.Millisecond, "connection should be enrolled in its account group")

	receiptID := uuid.New()
	require.NoError(t, pub.ReceiptDeleted(ctx, "acct-a", ReceiptDeletedEvent{ReceiptID: receiptID}))

	_, raw, err := client.Read(ctx)
	require.NoError(t, err)

	var env struct {
		Type string              `json:"type"`
		Data ReceiptDeletedEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	require.Equal(t, KindReceiptDeleted, env.Type)
	require.Equal(t, receiptID, env.Data.ReceiptID)
}

func TestSessionAbruptCloseStillLeavesGroup(t *testing.T) {
	hub := newTestHub()
	reg := NewRegistrar(hub, zerolog.Nop())

	srv := startRealtimeServer(t, hub, reg, Identity{UserID: "user-1", AccountID: "acct-a"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.GroupSize("account-acct-a") == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Drop the connection without a close handshake.
	require.NoError(t, client.CloseNow())

	require.Eventually(t, func() bool {
		return hub.GroupSize("account-acct-a") == 0
	}, 2*time.Second, 10*time.Millisecond, "group removal must run on abnormal termination too")
}

func TestSessionWithoutAccountClaimReceivesNothing(t *testing.T) {
	hub := newTestHub()
	reg := NewRegistrar(hub, zerolog.Nop())
	pub := NewGroupPublisher(hub)

	srv := startRealtimeServer(t, hub, reg, Identity{UserID: "user-1"})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	require.NoError(t, err)
	defer client.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, pub.ReceiptDeleted(ctx, "acct-a", ReceiptDeletedEvent{ReceiptID: uuid.New()}))

	readCtx, readCancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer readCancel()
	_, _, err = client.Read(readCtx)
	require.Error(t, err, "a connection without an account claim must observe no broadcasts")
}

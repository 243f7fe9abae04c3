package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hifi/types"
)

// dialTestHub stands up an HTTP server that registers each connection
// with the hub, and dials it.
func dialTestHub(t *testing.T, h Hub) *gorilla.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := GetUpgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(h, conn)
		h.RegisterClient(client)
		client.StartPumps()
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsProgress(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := dialTestHub(t, h)

	// registration is async; keep notifying until the message lands
	done := make(chan struct{})
	defer close(done)
	go func() {
		msg := types.ProgressMessage{
			JobID:     "job-1",
			Type:      "progress",
			Scanned:   7,
			Timestamp: time.Now(),
		}
		for {
			select {
			case <-done:
				return
			case <-time.After(10 * time.Millisecond):
				h.NotifyProgress(msg)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var got types.ProgressMessage
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "job-1", got.JobID)
	assert.Equal(t, "progress", got.Type)
	assert.Equal(t, 7, got.Scanned)
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	first := dialTestHub(t, h)
	second := dialTestHub(t, h)

	done := make(chan struct{})
	defer close(done)
	go func() {
		msg := types.ProgressMessage{JobID: "job-2", Type: "complete", Timestamp: time.Now()}
		for {
			select {
			case <-done:
				return
			case <-time.After(10 * time.Millisecond):
				h.NotifyProgress(msg)
			}
		}
	}()

	for _, conn := range []*gorilla.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var got types.ProgressMessage
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "job-2", got.JobID)
	}
}

func TestHubNotifyWithoutClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	// must not block even with nobody listening
	for i := 0; i < 200; i++ {
		h.NotifyProgress(types.ProgressMessage{JobID: "noop", Type: "progress"})
	}
}

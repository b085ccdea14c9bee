package feed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ScriptBoard/internal/logging"
	"ScriptBoard/internal/state"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func next(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func newHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logging.NewNop())
	t.Cleanup(hub.Close)
	return hub
}

func waitViewers(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Viewers() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestViewerGetsCurrentSceneOnConnect(t *testing.T) {
	hub := newHub(t)
	scene := state.NewScene()
	scene.AddShape(state.NewFilledCircle(state.Pt(1, 2), 3, state.ParseColor("red")))
	hub.Attach(scene)

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	msg := next(t, dial(t, srv))
	assert.Equal(t, "scene", msg.Type)
	assert.Equal(t, scene.Snapshot(), msg.Scene)
}

func TestChangesAreBroadcast(t *testing.T) {
	hub := newHub(t)
	scene := state.NewScene()
	hub.Attach(scene)

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	a, b := dial(t, srv), dial(t, srv)
	first := next(t, a)
	next(t, b)
	waitViewers(t, hub, 2)

	scene.SetZoom(2)
	for _, conn := range []*websocket.Conn{a, b} {
		msg := next(t, conn)
		assert.Equal(t, 2.0, msg.Scene.Zoom)
		assert.Greater(t, msg.Seq, first.Seq)
	}

	scene.Undo()
	assert.Equal(t, 1.0, next(t, a).Scene.Zoom)
}

func TestClosedViewerIsForgotten(t *testing.T) {
	hub := newHub(t)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitViewers(t, hub, 1)
	conn.Close()
	waitViewers(t, hub, 0)

	assert.NotPanics(t, func() { hub.Publish(state.Snapshot{}) })
}

func TestNothingIsEncodedWithoutViewers(t *testing.T) {
	hub := newHub(t)
	scene := state.NewScene()
	hub.Attach(scene)

	for i := range 100 {
		scene.AddShape(state.NewFilledCircle(state.Pt(float64(i), 0), 1, state.ParseColor("red")))
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Nil(t, hub.frame)
	assert.Equal(t, uint64(0), hub.frameSeq)
}

func TestStalledViewerDoesNotSlowTheScene(t *testing.T) {
	hub := newHub(t)
	scene := state.NewScene()
	hub.Attach(scene)

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	dial(t, srv) // never read
	healthy := dial(t, srv)
	waitViewers(t, hub, 2)

	const shapes = 3000
	start := time.Now()
	for i := range shapes {
		scene.AddShape(state.NewFilledCircle(state.Pt(float64(i), 0), 1, state.ParseColor("red")))
	}
	assert.Less(t, time.Since(start), 2*time.Second)

	// Frames coalesce, so the healthy viewer catches up to the final scene.
	msg := next(t, healthy)
	for len(msg.Scene.Shapes) != shapes {
		msg = next(t, healthy)
	}
	assert.Equal(t, scene.Revision(), msg.Scene.Revision)
}

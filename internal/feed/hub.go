// Package feed mirrors the runner's scene to websocket viewers. Every
// viewer gets the current scene on connect and again after each change.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ScriptBoard/internal/logging"
	"ScriptBoard/internal/state"
)

// Path is where the scene feed is served.
const Path = "/scene"

const writeTimeout = time.Second

// Message is one frame on the feed.
type Message struct {
	Type  string         `json:"type"`
	Seq   uint64         `json:"seq"`
	Scene state.Snapshot `json:"scene"`
}

// Hub tracks connected viewers and broadcasts scene snapshots to them.
// Publish only records the snapshot; a broadcaster goroutine encodes it
// once viewers exist and hands the frame to each viewer's write pump.
type Hub struct {
	mu       sync.Mutex
	viewers  map[*viewer]bool
	latest   state.Snapshot
	have     bool
	seq      uint64
	frame    []byte
	frameSeq uint64

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	upgrader  websocket.Upgrader
	log       *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	h := &Hub{
		viewers: make(map[*viewer]bool),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		upgrader: websocket.Upgrader{
			// Viewers are local tools, not browsers on other origins we care about.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logging.For(log, logging.CategoryFeed),
	}
	go h.broadcast()
	return h
}

// Attach publishes scene now and after every change to it. It must be
// called on the goroutine that changes the scene.
func (h *Hub) Attach(scene *state.Scene) {
	snap := scene.Snapshot()
	publish := func() {
		snap.Revision = scene.Revision()
		h.Publish(snap)
	}
	scene.Listen(state.Listener{
		ShapesChanged: func(shapes []state.Shape) {
			snap.Shapes = shapes
			publish()
		},
		BackgroundChanged: func(c state.Color) {
			snap.Background = c
			publish()
		},
		ZoomChanged: func(zoom float64) {
			snap.Zoom = zoom
			publish()
		},
	})
	h.Publish(snap)
}

// Publish makes snap the current scene and returns without waiting on any
// viewer. The caller must not modify snap's shapes afterwards.
func (h *Hub) Publish(snap state.Snapshot) {
	h.mu.Lock()
	h.latest = snap
	h.have = true
	h.seq++
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Upgrade failed", "error", err)
		return
	}
	v := newViewer(conn)
	if !h.add(v) {
		conn.Close()
		return
	}
	defer h.remove(v)
	go v.writePump(h.log)

	if frame := h.current(); frame != nil {
		v.push(frame)
	}

	// Viewers never send anything we act on; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// broadcast sends the newest frame to every viewer each time Publish wakes
// it. Snapshots published while it is busy collapse into one frame.
func (h *Hub) broadcast() {
	for {
		select {
		case <-h.done:
			return
		case <-h.wake:
		}
		frame := h.current()
		if frame == nil {
			continue
		}
		h.mu.Lock()
		for v := range h.viewers {
			v.push(frame)
		}
		h.mu.Unlock()
	}
}

// current returns the encoded latest snapshot, or nil when there is nothing
// to send or nobody to send it to.
func (h *Hub) current() []byte {
	h.mu.Lock()
	if !h.have || len(h.viewers) == 0 {
		h.mu.Unlock()
		return nil
	}
	if h.frameSeq == h.seq {
		frame := h.frame
		h.mu.Unlock()
		return frame
	}
	snap, seq := h.latest, h.seq
	h.mu.Unlock()

	data, err := json.Marshal(Message{Type: "scene", Seq: seq, Scene: snap})
	if err != nil {
		h.log.Error("Failed to encode scene", "error", err)
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if seq > h.frameSeq {
		h.frame, h.frameSeq = data, seq
	}
	return data
}

func (h *Hub) add(v *viewer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return false
	default:
	}
	h.viewers[v] = true
	h.log.Info("Viewer connected", "remote", v.conn.RemoteAddr().String())
	return true
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.viewers[v] {
		delete(h.viewers, v)
		v.close()
		h.log.Info("Viewer disconnected", "remote", v.conn.RemoteAddr().String())
	}
}

// Close disconnects every viewer and stops broadcasting.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.viewers {
		delete(h.viewers, v)
		v.close()
	}
}

// viewer is one websocket connection with a single-slot outbox. A slow
// viewer only ever has the newest frame waiting.
type viewer struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func newViewer(conn *websocket.Conn) *viewer {
	return &viewer{conn: conn, send: make(chan []byte, 1), done: make(chan struct{})}
}

// push queues frame, replacing any frame the pump has not taken yet.
func (v *viewer) push(frame []byte) {
	for {
		select {
		case v.send <- frame:
			return
		default:
		}
		select {
		case <-v.send:
		default:
		}
	}
}

func (v *viewer) writePump(log *slog.Logger) {
	for {
		select {
		case <-v.done:
			return
		case frame := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := v.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug("Dropping viewer", "remote", v.conn.RemoteAddr().String(), "error", err)
				// Closing makes the read loop in ServeHTTP return and remove us.
				v.conn.Close()
				return
			}
		}
	}
}

// close must be called with the hub lock held, once per viewer.
func (v *viewer) close() {
	close(v.done)
	v.conn.Close()
}

// Handler serves the feed at Path.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	return mux
}

// Serve listens on addr until ctx is done.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		h.Close()
	}()

	h.log.Info("Scene feed listening", "addr", addr, "path", Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

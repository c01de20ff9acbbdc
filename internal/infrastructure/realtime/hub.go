// Package realtime fans shape change events out to connected board peers
// over WebSocket.
package realtime

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/inkboard/inkboard/internal/ports"
)

// Frame is one broadcast message on the wire.
type Frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// peerConn tracks a single WebSocket connection.
type peerConn struct {
	ws        *websocket.Conn
	sendCh    chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

// Hub keeps the set of connected peers and broadcasts frames to all of
// them. Slow peers have frames dropped rather than stalling the sender;
// they catch up on their next shape:sync.
type Hub struct {
	logger ports.Logger
	peers  sync.Map // connID (uint64) -> *peerConn
	nextID atomic.Uint64
}

// NewHub creates an empty hub.
func NewHub(logger ports.Logger) *Hub {
	return &Hub{logger: logger}
}

// Send broadcasts one event to every connected peer.
func (h *Hub) Send(event string, payload any) error {
	frame := Frame{Event: event, Payload: payload}
	h.peers.Range(func(_, value any) bool {
		peer := value.(*peerConn)
		select {
		case peer.sendCh <- frame:
		default:
			h.logger.Warn("realtime: dropped frame for slow peer", map[string]interface{}{
				"event": event,
			})
		}
		return true
	})
	return nil
}

// HandleUpgrade upgrades an HTTP request to a WebSocket peer connection
// and blocks until the peer disconnects.
func (h *Hub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{
			"localhost",
			"localhost:*",
			"127.0.0.1",
			"127.0.0.1:*",
			"[::1]",
			"[::1]:*",
		},
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", map[string]interface{}{"error": err.Error()})
		return
	}

	connID := h.nextID.Add(1)
	peer := &peerConn{
		ws:     ws,
		sendCh: make(chan Frame, 64),
		done:   make(chan struct{}),
	}
	h.peers.Store(connID, peer)
	h.logger.Info("peer connected", map[string]interface{}{"conn_id": connID})

	go h.writeLoop(peer)
	h.readLoop(r.Context(), peer)

	peer.closeOnce.Do(func() { close(peer.done) })
	h.peers.Delete(connID)
	ws.Close(websocket.StatusNormalClosure, "")
	h.logger.Info("peer disconnected", map[string]interface{}{"conn_id": connID})
}

// Close disconnects every peer, used at server shutdown.
func (h *Hub) Close() {
	h.peers.Range(func(key, value any) bool {
		peer := value.(*peerConn)
		peer.closeOnce.Do(func() { close(peer.done) })
		peer.ws.Close(websocket.StatusGoingAway, "server shutting down")
		h.peers.Delete(key)
		return true
	})
}

// readLoop drains incoming frames. Peers only listen on this channel, so
// anything they send is discarded; the loop exists to notice disconnects.
func (h *Hub) readLoop(ctx context.Context, peer *peerConn) {
	for {
		select {
		case <-peer.done:
			return
		default:
		}
		var discard map[string]any
		if err := wsjson.Read(ctx, peer.ws, &discard); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(peer *peerConn) {
	for {
		select {
		case <-peer.done:
			return
		case frame := <-peer.sendCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := wsjson.Write(ctx, peer.ws, frame)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

var _ ports.Broadcaster = (*Hub)(nil)

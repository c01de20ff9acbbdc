// Package httpapi exposes the interpretation pipeline over HTTP for the
// board UI: one endpoint to interpret free text, one to confirm deferred
// destructive operations, plus shape listing and the WebSocket upgrade.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
	"github.com/inkboard/inkboard/internal/services"
)

// Server is the HTTP surface in front of the interpreter.
type Server struct {
	interpreter *services.InterpreterService
	store       ports.ShapeStore
	upgrade     http.HandlerFunc
	logger      ports.Logger
	addr        string

	pending   *confirmRegistry
	httpSrv   *http.Server
	boundAddr string
}

// NewServer wires the HTTP surface. upgrade handles GET /ws; confirmTTL
// bounds how long a deferred destructive action stays claimable.
func NewServer(interpreter *services.InterpreterService, store ports.ShapeStore, upgrade http.HandlerFunc, confirmTTL time.Duration, addr string, logger ports.Logger) *Server {
	return &Server{
		interpreter: interpreter,
		store:       store,
		upgrade:     upgrade,
		logger:      logger,
		addr:        addr,
		pending:     newConfirmRegistry(confirmTTL),
	}
}

// Start begins serving. Blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/interpret", s.handleInterpret)
	mux.HandleFunc("POST /v1/confirm/{id}", s.handleConfirm)
	mux.HandleFunc("GET /v1/shapes", s.handleShapes)
	mux.HandleFunc("GET /ws", s.upgrade)

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.boundAddr = listener.Addr().String()
	s.httpSrv = &http.Server{Handler: mux}

	s.logger.Info("server started", map[string]interface{}{"addr": s.boundAddr})

	go func() {
		<-ctx.Done()
		s.Stop(context.Background())
	}()

	if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

// BoundAddr returns the actual listen address. Only valid after Start.
func (s *Server) BoundAddr() string { return s.boundAddr }

type interpretRequest struct {
	Text   string `json:"text"`
	Locale string `json:"locale"`
}

// interpretResponse is the wire form of an AIResponse: the deferred action
// itself never crosses the wire, only a claimable id.
type interpretResponse struct {
	domain.AIResponse
	ConfirmID string `json:"confirm_id,omitempty"`
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	var req interpretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse("invalid request body"))
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse("text is required"))
		return
	}

	resp := s.interpreter.InterpretWithFallback(r.Context(), req.Text, req.Locale)

	out := interpretResponse{AIResponse: resp}
	if resp.Type == domain.ResponseConfirmation && resp.Confirm != nil {
		out.ConfirmID = s.pending.add(resp.Confirm)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	confirm, ok := s.pending.claim(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, domain.ErrorResponse("confirmation expired or unknown"))
		return
	}
	writeJSON(w, http.StatusOK, confirm())
}

func (s *Server) handleShapes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"shapes": s.store.All()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// confirmRegistry holds deferred destructive actions until the user
// explicitly confirms them or the TTL lapses. Claiming is one-shot.
type confirmRegistry struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingConfirm
}

type pendingConfirm struct {
	confirm domain.ConfirmFunc
	expires time.Time
}

func newConfirmRegistry(ttl time.Duration) *confirmRegistry {
	return &confirmRegistry{ttl: ttl, entries: make(map[string]pendingConfirm)}
}

func (c *confirmRegistry) add(confirm domain.ConfirmFunc) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep()
	id := uuid.NewString()
	c.entries[id] = pendingConfirm{confirm: confirm, expires: time.Now().Add(c.ttl)}
	return id
}

func (c *confirmRegistry) claim(id string) (domain.ConfirmFunc, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep()
	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	delete(c.entries, id)
	return entry.confirm, true
}

func (c *confirmRegistry) sweep() {
	now := time.Now()
	for id, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, id)
		}
	}
}

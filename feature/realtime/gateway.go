package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"board-sync/core/hub"
	"board-sync/core/server"
	"board-sync/feature/board"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Settings tunes websocket sessions.
type Settings struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	ReplyBuffer    int
}

// DefaultSettings returns the settings used by the start command.
func DefaultSettings() Settings {
	return Settings{
		WriteTimeout:   10 * time.Second,
		PongTimeout:    60 * time.Second,
		PingInterval:   50 * time.Second,
		MaxMessageSize: 64 * 1024,
		ReplyBuffer:    4,
	}
}

// Envelope is the JSON frame exchanged over the socket.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Gateway pushes board snapshots to websocket observers and feeds their commands
// to the dispatcher.
type Gateway struct {
	dispatcher *board.Dispatcher
	hub        *hub.Hub[*board.Snapshot]
	logger     *zap.Logger
	settings   Settings
	upgrader   websocket.Upgrader

	sessions atomic.Int64
}

// NewGateway creates a websocket gateway.
func NewGateway(dispatcher *board.Dispatcher, h *hub.Hub[*board.Snapshot], cfg server.Config, logger *zap.Logger, settings Settings) *Gateway {
	return &Gateway{
		dispatcher: dispatcher,
		hub:        h,
		logger:     logger,
		settings:   settings,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return cfg.AllowsOrigin(r.Header.Get("Origin"))
			},
		},
	}
}

// Router returns the HTTP handler serving /ws and /healthz.
func (g *Gateway) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			g.logger.Debug("Handled realtime request",
				zap.String("method", request.Method),
				zap.String("path", request.URL.Path),
				zap.Duration("duration", m.Duration),
				zap.Int("status", m.Code))
		})
	})
	r.Methods(http.MethodGet).Path("/ws").HandlerFunc(g.handleSocket)
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(g.handleHealth)
	return r
}

// Sessions returns the number of connected observers.
func (g *Gateway) Sessions() int64 {
	return g.sessions.Load()
}

// ListenAndServe serves the gateway on addr until ctx is cancelled.
func (g *Gateway) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: g.Router()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Hijacked websocket connections are not tracked by Shutdown; closing the hub ends them.
		g.hub.Close()
		return srv.Shutdown(shutdownCtx)
	}
}

func (g *Gateway) handleHealth(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(writer).Encode(map[string]any{
		"status":   "ok",
		"sessions": g.Sessions(),
	})
	if err != nil {
		g.logger.Debug("Health write failed", zap.Error(err))
	}
}

func (g *Gateway) handleSocket(writer http.ResponseWriter, request *http.Request) {
	conn, err := g.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		g.logger.Warn("Failed to upgrade websocket", zap.Error(err))
		return
	}

	s := &session{
		id:      uuid.NewString(),
		conn:    conn,
		gateway: g,
		replies: make(chan Envelope, g.settings.ReplyBuffer),
	}
	s.logger = g.logger.With(zap.String("session", s.id), zap.String("remote", request.RemoteAddr))

	// Subscribe before counting the session so a visible session never misses a broadcast.
	sub := g.hub.Subscribe()
	g.sessions.Add(1)
	defer g.sessions.Add(-1)

	s.logger.Info("Client connected")
	s.run(request.Context(), sub)
	s.logger.Info("Client disconnected")
}

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"board-sync/core/hub"
	"board-sync/feature/board"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// session is one websocket observer. Only the write loop writes to conn.
type session struct {
	id      string
	conn    *websocket.Conn
	gateway *Gateway
	logger  *zap.Logger
	replies chan Envelope
}

func (s *session) run(parent context.Context, sub *hub.Subscription[*board.Snapshot]) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	defer s.conn.Close()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop(ctx, sub.C)
		cancel()
		// Unblocks readLoop when the writer stops first.
		_ = s.conn.Close()
	}()

	s.readLoop(ctx)
	cancel()
	<-done
}

func (s *session) readLoop(ctx context.Context) {
	settings := s.gateway.settings
	s.conn.SetReadLimit(settings.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(settings.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(settings.PongTimeout))
	})

	for {
		messageType, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				s.logger.Debug("Read failed", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(settings.PongTimeout))

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		s.handle(ctx, message)
	}
}

// handle runs one command. Failures are logged and never reported back to the client.
func (s *session) handle(ctx context.Context, message []byte) {
	var cmd board.Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.logger.Warn("Dropped undecodable message", zap.Error(err))
		return
	}

	out, err := s.gateway.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		if errors.Is(err, board.ErrMalformedCommand) {
			s.logger.Warn("Rejected command", zap.String("command", cmd.Name), zap.Error(err))
		}
		return
	}

	// Broadcast snapshots reach this session through the hub like everyone else's.
	if out.Snapshot == nil || out.Broadcast {
		return
	}
	select {
	case s.replies <- Envelope{Event: out.Event(), Payload: out.Snapshot}:
	case <-ctx.Done():
	}
}

func (s *session) writeLoop(ctx context.Context, updates <-chan *board.Snapshot) {
	settings := s.gateway.settings
	ping := time.NewTicker(settings.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			s.close(websocket.CloseNormalClosure)
			return
		case snap, ok := <-updates:
			if !ok {
				s.close(websocket.CloseGoingAway)
				return
			}
			if err := s.write(Envelope{Event: board.EventStateUpdate, Payload: snap}); err != nil {
				return
			}
		case env := <-s.replies:
			if err := s.write(env); err != nil {
				return
			}
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(settings.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("Ping failed", zap.Error(err))
				return
			}
		}
	}
}

func (s *session) write(env Envelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.gateway.settings.WriteTimeout))
	if err := s.conn.WriteJSON(env); err != nil {
		s.logger.Debug("Write failed", zap.String("event", env.Event), zap.Error(err))
		return err
	}
	return nil
}

func (s *session) close(code int) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.gateway.settings.WriteTimeout))
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""))
}

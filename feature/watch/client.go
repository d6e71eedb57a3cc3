package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"board-sync/feature/board"

	"github.com/gorilla/websocket"
)

// Message is one server frame.
type Message struct {
	Event    string
	Snapshot *board.Snapshot
}

// Client is a websocket connection to the realtime gateway.
type Client struct {
	conn *websocket.Conn
	// gorilla allows one concurrent writer.
	writeMu sync.Mutex
}

// Dial connects to url, e.g. ws://localhost:3001/ws. origin may be empty.
func Dial(ctx context.Context, url, origin string) (*Client, error) {
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Send writes one command envelope. payload may be nil.
func (c *Client) Send(event string, payload any) error {
	cmd := board.Command{Name: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", event, err)
		}
		cmd.Payload = raw
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(cmd)
}

// RequestState asks for the initial state.
func (c *Client) RequestState() error {
	return c.Send(board.CmdGetInitialState, nil)
}

// Next blocks until the next snapshot frame arrives.
func (c *Client) Next() (Message, error) {
	var env struct {
		Event   string          `json:"event"`
		Payload *board.Snapshot `json:"payload"`
	}
	if err := c.conn.ReadJSON(&env); err != nil {
		return Message{}, err
	}
	return Message{Event: env.Event, Snapshot: env.Payload}, nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return c.conn.Close()
}

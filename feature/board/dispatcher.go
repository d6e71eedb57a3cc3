package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Command names accepted by the dispatcher.
const (
	CmdGetInitialState = "getInitialState"
	CmdAddItem         = "addItem"
	CmdAddFolder       = "addFolder"
	CmdMoveItem        = "moveItem"
	CmdMoveFolder      = "moveFolder"
	CmdToggleFolder    = "toggleFolder"
)

// Event names used when delivering snapshots.
const (
	EventInitialState = "initialState"
	EventStateUpdate  = "stateUpdate"
)

// ErrMalformedCommand is returned when a command's name or payload is invalid.
// The engine is never invoked for a malformed command.
var ErrMalformedCommand = errors.New("malformed command")

// Command is an inbound client command. Payload is the raw JSON argument.
type Command struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AddItemRequest is the payload of addItem. Order is accepted but ignored: the
// engine always appends.
type AddItemRequest struct {
	Title    string  `json:"title"`
	Icon     string  `json:"icon"`
	FolderID *string `json:"folderId"`
	Order    *int    `json:"order,omitempty"`
}

// AddFolderRequest is the payload of addFolder. IsOpen defaults to true.
type AddFolderRequest struct {
	Name   string `json:"name"`
	IsOpen *bool  `json:"isOpen,omitempty"`
	Order  *int   `json:"order,omitempty"`
}

// MoveItemRequest is the payload of moveItem. A null targetFolderId is the root scope.
type MoveItemRequest struct {
	ItemID         string  `json:"itemId"`
	TargetFolderID *string `json:"targetFolderId"`
	NewOrder       *int    `json:"newOrder"`
}

// MoveFolderRequest is the payload of moveFolder.
type MoveFolderRequest struct {
	FolderID string `json:"folderId"`
	NewOrder *int   `json:"newOrder"`
}

// Outcome is what the dispatcher did with a command.
type Outcome struct {
	Command string
	Result  Result
	// Snapshot is the state after the command; nil when nothing was applied.
	Snapshot *Snapshot
	// Broadcast is true when Snapshot was published to every observer.
	// When false and Snapshot is set, it is meant for the requester only.
	Broadcast bool
}

// Event returns the event name a transport should deliver Snapshot under.
func (o *Outcome) Event() string {
	if o.Broadcast {
		return EventStateUpdate
	}
	return EventInitialState
}

// Broadcaster publishes snapshots to every connected observer.
type Broadcaster interface {
	Publish(snapshot *Snapshot) int
}

// Dispatcher maps commands to engine operations and publishes the resulting state.
type Dispatcher struct {
	engine      *Engine
	snapshots   *SnapshotBuilder
	broadcaster Broadcaster
	logger      *zap.Logger

	// mu orders mutations so snapshots are published in commit order.
	mu sync.Mutex
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(engine *Engine, snapshots *SnapshotBuilder, broadcaster Broadcaster, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		engine:      engine,
		snapshots:   snapshots,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Dispatch decodes and executes a transport command.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (*Outcome, error) {
	switch cmd.Name {
	case CmdGetInitialState:
		return d.GetInitialState(ctx)
	case CmdAddItem:
		var req AddItemRequest
		if err := decode(cmd, &req); err != nil {
			return nil, err
		}
		return d.AddItem(ctx, req)
	case CmdAddFolder:
		var req AddFolderRequest
		if err := decode(cmd, &req); err != nil {
			return nil, err
		}
		return d.AddFolder(ctx, req)
	case CmdMoveItem:
		var req MoveItemRequest
		if err := decode(cmd, &req); err != nil {
			return nil, err
		}
		return d.MoveItem(ctx, req)
	case CmdMoveFolder:
		var req MoveFolderRequest
		if err := decode(cmd, &req); err != nil {
			return nil, err
		}
		return d.MoveFolder(ctx, req)
	case CmdToggleFolder:
		var folderID string
		if err := decode(cmd, &folderID); err != nil {
			return nil, err
		}
		return d.ToggleFolder(ctx, folderID)
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrMalformedCommand, cmd.Name)
	}
}

// GetInitialState builds a snapshot for the requester only.
func (d *Dispatcher) GetInitialState(ctx context.Context) (*Outcome, error) {
	snap, err := d.snapshots.Build(ctx)
	if err != nil {
		d.logger.Error("Failed to get initial state", zap.Error(err))
		return nil, err
	}
	return &Outcome{Command: CmdGetInitialState, Result: Result{Status: StatusOK}, Snapshot: snap}, nil
}

// AddItem appends a new item and broadcasts the new state.
func (d *Dispatcher) AddItem(ctx context.Context, req AddItemRequest) (*Outcome, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Icon = strings.TrimSpace(req.Icon)
	if req.Title == "" || req.Icon == "" {
		return nil, fmt.Errorf("%w: addItem requires title and icon", ErrMalformedCommand)
	}
	if req.FolderID != nil && *req.FolderID == "" {
		return nil, fmt.Errorf("%w: addItem folderId must be null or a folder id", ErrMalformedCommand)
	}

	return d.apply(ctx, CmdAddItem, func() (Result, error) {
		return d.engine.AddItem(ctx, NewItem{Title: req.Title, Icon: req.Icon, FolderID: req.FolderID})
	})
}

// AddFolder appends a new root folder and broadcasts the new state.
func (d *Dispatcher) AddFolder(ctx context.Context, req AddFolderRequest) (*Outcome, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: addFolder requires name", ErrMalformedCommand)
	}
	open := true
	if req.IsOpen != nil {
		open = *req.IsOpen
	}

	return d.apply(ctx, CmdAddFolder, func() (Result, error) {
		return d.engine.AddFolder(ctx, NewFolder{Name: req.Name, IsOpen: open})
	})
}

// MoveItem reorders or reparents an item and broadcasts the new state.
func (d *Dispatcher) MoveItem(ctx context.Context, req MoveItemRequest) (*Outcome, error) {
	if req.ItemID == "" || req.NewOrder == nil {
		return nil, fmt.Errorf("%w: moveItem requires itemId and newOrder", ErrMalformedCommand)
	}
	if *req.NewOrder < 0 {
		return nil, fmt.Errorf("%w: moveItem newOrder must be >= 0", ErrMalformedCommand)
	}
	if req.TargetFolderID != nil && *req.TargetFolderID == "" {
		return nil, fmt.Errorf("%w: moveItem targetFolderId must be null or a folder id", ErrMalformedCommand)
	}

	return d.apply(ctx, CmdMoveItem, func() (Result, error) {
		return d.engine.MoveItem(ctx, req.ItemID, ScopeOf(req.TargetFolderID), *req.NewOrder)
	})
}

// MoveFolder reorders a folder and broadcasts the new state.
func (d *Dispatcher) MoveFolder(ctx context.Context, req MoveFolderRequest) (*Outcome, error) {
	if req.FolderID == "" || req.NewOrder == nil {
		return nil, fmt.Errorf("%w: moveFolder requires folderId and newOrder", ErrMalformedCommand)
	}
	if *req.NewOrder < 0 {
		return nil, fmt.Errorf("%w: moveFolder newOrder must be >= 0", ErrMalformedCommand)
	}

	return d.apply(ctx, CmdMoveFolder, func() (Result, error) {
		return d.engine.MoveFolder(ctx, req.FolderID, *req.NewOrder)
	})
}

// ToggleFolder flips a folder open or closed and broadcasts the new state.
func (d *Dispatcher) ToggleFolder(ctx context.Context, folderID string) (*Outcome, error) {
	if folderID == "" {
		return nil, fmt.Errorf("%w: toggleFolder requires a folder id", ErrMalformedCommand)
	}

	return d.apply(ctx, CmdToggleFolder, func() (Result, error) {
		return d.engine.ToggleFolder(ctx, folderID)
	})
}

// Compact renumbers every scope densely and broadcasts if anything moved.
func (d *Dispatcher) Compact(ctx context.Context) (*Outcome, error) {
	return d.apply(ctx, "compact", func() (Result, error) {
		return d.engine.Compact(ctx)
	})
}

// apply runs one engine operation and publishes its result before the next
// mutation may start.
func (d *Dispatcher) apply(ctx context.Context, name string, op func() (Result, error)) (*Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := op()
	return d.commit(ctx, name, res, err)
}

// commit turns an engine result into an outcome. Only committed changes are broadcast.
func (d *Dispatcher) commit(ctx context.Context, name string, res Result, err error) (*Outcome, error) {
	l := d.logger.With(zap.String("command", name), zap.String("id", res.ID))
	if err != nil {
		l.Error("Command failed", zap.Error(err))
		return nil, err
	}

	out := &Outcome{Command: name, Result: res}
	if !res.Changed() {
		l.Debug("Command applied no change", zap.Stringer("status", res.Status))
		return out, nil
	}

	snap, err := d.snapshots.Build(ctx)
	if err != nil {
		l.Error("Failed to build snapshot after command", zap.Error(err))
		return nil, err
	}
	out.Snapshot = snap
	out.Broadcast = true

	delivered := d.broadcaster.Publish(snap)
	l.Info("Command applied",
		zap.Int64("affected", res.Affected),
		zap.Int("observers", delivered))
	return out, nil
}

func decode(cmd Command, dst any) error {
	if len(bytes.TrimSpace(cmd.Payload)) == 0 {
		return fmt.Errorf("%w: %s requires a payload", ErrMalformedCommand, cmd.Name)
	}
	if err := json.Unmarshal(cmd.Payload, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedCommand, cmd.Name, err)
	}
	return nil
}

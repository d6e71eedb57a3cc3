// Package board implements the ordered folder/item board and its ordering engine.
//
// Items live in a scope (the root, or one folder); folders live in the root. Within
// every scope the order values of its items are exactly 0..k-1, and the same holds for
// folders. Items and folders keep independent sequences even when both sit at the root.
//
// # Components
//
//   - Store: entity store contract (point reads, placements, range shifts, ordered
//     scans, transactions) with a GORM implementation.
//   - Engine: add, move, toggle and compact operations. Each runs under one lock inside
//     one transaction and reports a Result (ok, not found, storage error).
//   - SnapshotBuilder: the full state, each list sorted by order ascending.
//   - Dispatcher: validates commands, drives the engine and broadcasts the new state.
//   - Handler: REST routes under /api.
//
// # Moves
//
// Moving an item closes the gap in its source scope (decrement orders above the old
// position) and then opens a slot in the target scope (increment orders at or above
// the new position). The second shift sees the result of the first, which is what
// makes same-scope moves come out right. Folder moves shift only the interval between
// the old and new position.
//
// # HTTP Endpoints
//
//   - GET /api/state
//   - POST /api/items, POST /api/items/:id/move
//   - POST /api/folders, POST /api/folders/:id/move, POST /api/folders/:id/toggle
package board

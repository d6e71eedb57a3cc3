// Package realtime serves the board over websockets.
//
// # Overview
//
// The gateway runs its own net/http server next to the Fiber API. Each connection
// subscribes to the snapshot hub and may send commands using the same envelope
// the server pushes:
//
//	{"event": "moveItem", "payload": {"itemId": "i1", "targetFolderId": null, "newOrder": 0}}
//
// getInitialState is answered on the requesting connection only, under the
// "initialState" event. Every committed mutation reaches all connections, the
// sender included, as "stateUpdate".
//
// # Errors
//
// Malformed commands, unknown ids and storage failures are logged. Nothing is
// written back to the client for them.
//
// # Routes
//
//	GET /ws       websocket upgrade, origin checked against server.allowed_origin
//	GET /healthz  {"status": "ok", "sessions": N}
package realtime

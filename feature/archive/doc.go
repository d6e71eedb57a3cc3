// Package archive copies board snapshots to object storage.
//
// Two kinds of object are written under the configured prefix:
//
//	<prefix>/latest.json                  rewritten by the Worker when the board changed
//	<prefix>/history/<utc timestamp>.json one per Archive call, pruned to archive.keep
//
// The Worker subscribes to the snapshot hub and flushes at most once per
// archive.interval_seconds, skipping writes whose content is unchanged.
//
// # HTTP Endpoints
//
//   - POST /archive : Archives the current state.
//   - GET /archive : Lists history objects, newest first.
//   - GET /archive/latest : Returns latest.json.
package archive

// Package integrity checks the board for ordering and schema problems.
//
// # Checks Provided
//
//   - Order: every scope's folders and items must carry orders 0..n-1, and every
//     folder reference must point at an existing folder. With fix=true the board is
//     compacted: each scope is renumbered in its current order (ties by id) and
//     orphaned items are appended to the root.
//   - Schema: the items and folders tables must carry every column the store uses.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/order : Runs order check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
package integrity

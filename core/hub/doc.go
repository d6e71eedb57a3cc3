// Package hub provides the in-process publish/subscribe channel used to broadcast
// board snapshots.
//
// The command dispatcher publishes each committed snapshot once; every connected
// observer (websocket session, archive worker) holds a Subscription and drains its
// channel at its own pace. Delivery never stalls the publisher: when an observer's
// queue is full its oldest snapshot is evicted, so it always ends on the latest one.
//
// # Usage
//
//	h := hub.New[*board.Snapshot](0)
//	sub := h.Subscribe()
//	defer sub.Close()
//	for snap := range sub.C {
//	    ...
//	}
package hub

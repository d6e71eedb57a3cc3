// Package watch is a terminal observer for the board.
//
// It connects to the realtime gateway, asks for the initial state and redraws on
// every stateUpdate. Root folders come first, each in order; open folders list
// their items indented beneath them and closed folders show only how many items
// they hold. Root items follow the folders.
//
//	board-sync watch --url ws://localhost:3001/ws
//
// Rows and Render are also used by the tree command for one-shot output.
package watch

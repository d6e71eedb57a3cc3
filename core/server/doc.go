// Package server holds the listener settings of the two front doors: the Fiber
// REST API on Port and the websocket gateway on RealtimePort.
//
// AllowedOrigin feeds both the REST CORS middleware and the gateway's handshake
// check through AllowsOrigin.
package server

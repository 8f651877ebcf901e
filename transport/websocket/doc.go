// Package websocket pushes Shape Connector round state to browsers.
//
// A central Hub owns the client sets, keyed by lowercase session ID. Every
// connection gets a read pump, which only keeps the pong deadline alive, and
// a write pump, which drains the client's send buffer and pings the peer.
// Clients that fall behind are dropped rather than slowing the hub.
//
// Message Protocol:
//
// Server to client only. Each frame carries one or more newline separated
// JSON messages:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	// in an HTTP handler
//	hub.ServeWS(w, r, sessionID)
//
//	// after a mutation
//	hub.BroadcastToSession(sessionID, state)
package websocket

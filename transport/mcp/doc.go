// Package mcp exposes Shape Connector to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API (see package api) and the JSON response is rendered as text an
// agent can read. Tool arguments are coerced with spf13/cast, so numbers sent
// as strings or floats are accepted.
//
// MCP Tools:
//   - create_session, get_session, list_sessions
//   - game_state: board with path markers, start and end nodes, progress
//   - select_cell: press one cell (rewinds when the cell is selected)
//   - bulk_select: press several cells, stopping at the first rejection
//   - reset_path, new_round
//   - hint: next cell on a completable path
//   - move_history: paginated presses plus the current round
//   - list_configs, describe_cell, game_instructions
//
// Board Rendering:
//
// Cells render as color initial plus shape glyph (o circle, # square,
// ^ triangle, x cross). "(Ro)" marks a cell on the path and "[Ro]" the last
// selected one.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp

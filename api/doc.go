// Package api provides the HTTP REST API for Shape Connector.
//
// Routes are registered on a gorilla/mux router wrapped in chi's RequestID
// and Recoverer middleware plus a zerolog access log.
//
// Session Management:
//   - POST /api/sessions - Create session ({"config_id": "medium"}, body optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get session
//   - DELETE /api/sessions/{id} - Delete session
//
// Round Operations:
//   - GET /api/sessions/{id}/state - Current round state
//   - POST /api/sessions/{id}/select - Press one cell ({"x": 1, "y": 2})
//   - POST /api/sessions/{id}/bulk-select - Press several cells ({"cells": [...], "reset": true})
//   - POST /api/sessions/{id}/reset - Clear the path
//   - POST /api/sessions/{id}/new-round - Generate a fresh puzzle
//   - GET /api/sessions/{id}/hint - Next cell on a completing path
//   - GET /api/sessions/{id}/history - Paginated presses (?page=&limit=&order=)
//
// Stateless:
//   - POST /api/generate - Board and puzzle for sizes, difficulty and optional seed
//   - POST /api/validate - Run the move validator on a supplied puzzle and path
//   - GET /api/daily/{difficulty} - The puzzle of a date (?date=YYYY-MM-DD)
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get preset
//   - POST /api/configs - Save preset
//
// Other:
//   - GET /health
//   - GET /ws?session={id} - WebSocket state stream
//
// Seeds in /api/generate responses are decimal strings since they may not
// fit a JSON number.
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. Wrapped service sentinels map
// to 404 (unknown session or config) and 400 (invalid request or settings);
// anything else is a 500.
package api

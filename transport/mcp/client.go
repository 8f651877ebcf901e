package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Shape Connector",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Shape Connector - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build a path of adjacent cells from a node that looks like the start node to
a node that looks like the end node, using exactly the number of cells the
round asks for. Each step must share a shape or a color with the previous one.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage sessions
- game_state: board, path and progress
- select_cell: press one cell - requires intent explanation
- bulk_select: press several cells in order - requires intent explanation
- reset_path: clear the path
- new_round: generate a fresh puzzle
- hint: next cell on a path that can still be completed
- move_history: past presses
- list_configs: available presets
- describe_cell: details of one cell
- game_instructions: full rules

NOTE: The 'intent' parameter on select tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func coordProperty(axis string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": fmt.Sprintf("%s coordinate of the cell (0-based)", axis),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, e.g. easy, medium or hard (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Round operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the current path and the round progress",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_cell",
		Description: "Press one cell. Pressing a selected cell rewinds the path to it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          coordProperty("X"),
				"y":          coordProperty("Y"),
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why this cell (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleSelectCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_select",
		Description: "Press several cells in order, stopping at the first rejected press",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"cells": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x": map[string]interface{}{"type": "integer"},
							"y": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Cells to press, in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the planned path (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Clear the path before pressing",
				},
			},
			Required: []string{"session_id", "cells"},
		},
	}, c.handleBulkSelect)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_path",
		Description: "Clear the current path and keep the puzzle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_round",
		Description: "Generate a fresh puzzle for the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Suggest the next cell on a path that can still be completed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get press history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the shape, color and selection state of one cell, and whether it can follow the last selected cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          coordProperty("X"),
				"y":          coordProperty("Y"),
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// arguments returns the tool call arguments, empty when absent
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func requireSession(args map[string]interface{}) (string, error) {
	sessionID := strings.TrimSpace(cast.ToString(args["session_id"]))
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return sessionID, nil
}

// parseCell accepts {"x":1,"y":2} or [1,2]
func parseCell(v interface{}) (engine.Coord, error) {
	switch cell := v.(type) {
	case map[string]interface{}:
		xv, okX := cell["x"]
		yv, okY := cell["y"]
		if !okX || !okY || xv == nil || yv == nil {
			return engine.Coord{}, fmt.Errorf("cell needs x and y")
		}
		x, err := cast.ToIntE(xv)
		if err != nil {
			return engine.Coord{}, fmt.Errorf("cell x: %w", err)
		}
		y, err := cast.ToIntE(yv)
		if err != nil {
			return engine.Coord{}, fmt.Errorf("cell y: %w", err)
		}
		return engine.Coord{X: x, Y: y}, nil
	case []interface{}:
		pair, err := cast.ToIntSliceE(cell)
		if err != nil || len(pair) != 2 {
			return engine.Coord{}, fmt.Errorf("cell must be a pair of integers")
		}
		return engine.Coord{X: pair[0], Y: pair[1]}, nil
	default:
		return engine.Coord{}, fmt.Errorf("unsupported cell %v", v)
	}
}

func parseCoordArgs(args map[string]interface{}) (engine.Coord, error) {
	return parseCell(map[string]interface{}{"x": args["x"], "y": args["y"]})
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID := cast.ToString(args["config_id"])

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		round, status := 0, "playing"
		if s.GameState != nil {
			round = s.GameState.Round
			status = roundStatus(s.GameState)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Round: %d, %s, Created: %s)\n",
			s.ID, s.ConfigName, round, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSelectCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// intent is only there for the caller's benefit
	cell, err := parseCoordArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.SelectResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/select"), cell, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSelectResult(&result)), nil
}

func (c *Client) handleBulkSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := cast.ToSliceE(args["cells"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cells: %v", err)), nil
	}

	cells := make([]engine.Coord, 0, len(raw))
	for i, v := range raw {
		cell, err := parseCell(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cells[%d]: %v", i, err)), nil
		}
		cells = append(cells, cell)
	}

	body := map[string]interface{}{
		"cells": cells,
		"reset": cast.ToBool(args["reset"]),
	}

	var result service.BulkSelectResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-select"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkSelectResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.roundAction(ctx, request, "/reset")
}

func (c *Client) handleNewRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.roundAction(ctx, request, "/new-round")
}

// roundAction posts a body-less round mutation and renders its state
func (c *Client) roundAction(ctx context.Context, request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, suffix), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var hint service.HintResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/hint"), nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHint(&hint)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page := cast.ToInt(args["page"]); page > 0 {
		params.Set("page", cast.ToString(page))
	}
	if limit := cast.ToInt(args["limit"]); limit > 0 {
		params.Set("limit", cast.ToString(limit))
	}
	if order := cast.ToString(args["order"]); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Also fetch the current round from live state
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultText(formatHistory(&history)), nil
	}

	result := formatHistory(&history) + "\n" + formatCurrentSegment(session.GameState)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Board: %dx%d, Path: %d cells\n\n",
			config.Name, config.ConfigID, config.Description, config.BoardSize, config.BoardSize, config.PathSize)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Shape Connector - Complete Instructions

GAME OBJECTIVE:
Connect a chain of shapes across the board. The round shows a START node and
an END node and asks for a path of an exact length. You win when your path
has that length, its first cell looks like the start node and its last cell
looks like the end node. "Looks like" means same shape and same color; the
cells you use do not have to be the ones the puzzle was built from.

PIECES:
• Shapes: circle (o), square (#), triangle (^), cross (x)
• Colors: red (R), green (G), blue (B), yellow (Y)
• A cell is drawn as color letter plus shape glyph: "Bx" is a blue cross

SELECTION RULES:
• The first cell must match the start node's shape AND color
• Every next cell must be up, down, left or right of the last one
• It must share the shape OR the color of the last one
• A cell can only be used once per path
• Once the path has the required length nothing more can be added

UNDO:
• Pressing the last selected cell removes it
• Pressing an earlier selected cell cuts the path back to that cell
• reset_path clears the whole path

BOARD LEGEND (game_state):
• " Bx " unselected cell
• "(Bx)" cell on your path
• "[Bx]" the last selected cell
• " bx " faded cell once the puzzle is solved

STRATEGY:
1. Find every cell matching the start node; each is a candidate first cell
2. Count the steps you have left (remaining moves) and the distance to a
   cell matching the end node; never wander further than you can return
3. Chains of a single color or shape run out quickly; plan switches early
4. If you are stuck, ask for a hint: it names a next cell on a completable
   path or tells you to undo

ROUND END:
• SOLVED: the path is complete and matches both ends
• OUT OF MOVES: the path is full but its last cell does not match the end.
  Undo a few cells and try another branch
• new_round generates a fresh puzzle; the session keeps its history

API USAGE BEST PRACTICES:
- Use bulk_select to play a planned path in one call
- bulk_select stops at the first rejected press and says why
- Pass reset=true to bulk_select to replay a path from scratch

Good luck connecting!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	at, err := parseCoordArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	node := state.Board.At(at)
	if node == nil {
		size := state.Board.Size()
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates %s are out of bounds. Board size is %dx%d (0-%d for both x and y)",
			at, size, size, size-1)), nil
	}

	return mcp.NewToolResultText(describeCell(&state, node)), nil
}

func describeCell(state *engine.GameState, node *engine.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell at %s:\n━━━━━━━━━━━━━━━━━━━━━━━━\n", node.Coord())
	fmt.Fprintf(&b, "Token: %s\nShape: %s\nColor: %s\n", cellToken(node), node.Shape, node.Color)

	if idx := engine.NodePathIndex(state.Path, node); idx >= 0 {
		fmt.Fprintf(&b, "Selected: yes, position %d of %d in the path\n", idx+1, len(state.Path))
		if idx == len(state.Path)-1 {
			b.WriteString("Pressing it again removes it from the path.\n")
		} else {
			b.WriteString("Pressing it again cuts the path back to this cell.\n")
		}
	} else {
		b.WriteString("Selected: no\n")
	}

	fmt.Fprintf(&b, "Matches start node: %v\n", engine.IsMatchingNode(node, state.StartNode))
	fmt.Fprintf(&b, "Matches end node: %v\n", engine.IsMatchingNode(node, state.EndNode))
	fmt.Fprintf(&b, "Same-looking cells on board: %d\n", engine.CountMatching(state.Board, node))

	if last := state.Path.Last(); last != nil && !engine.IsNodeInPath(state.Path, node) {
		adjacent := engine.ManhattanDistance(last.Coord(), node.Coord()) == 1
		shares := last.Shape == node.Shape || last.Color == node.Color
		fmt.Fprintf(&b, "Next to last selected %s: %v\n", last.Coord(), adjacent)
		fmt.Fprintf(&b, "Shares shape or color with it: %v\n", shares)
	}

	return b.String()
}

var shapeGlyphs = map[engine.Shape]string{
	engine.ShapeCircle:   "o",
	engine.ShapeSquare:   "#",
	engine.ShapeTriangle: "^",
	engine.ShapeCross:    "x",
}

// cellToken renders a node as color initial plus shape glyph, e.g. "Bx"
func cellToken(node *engine.Node) string {
	if node == nil {
		return "??"
	}
	color := strings.ToUpper(node.Color.String()[:1])
	glyph, ok := shapeGlyphs[node.Shape]
	if !ok {
		glyph = "?"
	}
	return color + glyph
}

func roundStatus(state *engine.GameState) string {
	switch {
	case state.Solved:
		return "solved"
	case state.Failed:
		return "out of moves"
	default:
		return "playing"
	}
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatNode(node *engine.Node) string {
	if node == nil {
		return "none"
	}
	return fmt.Sprintf("%s [%s]", node, cellToken(node))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Round: %d | Path: %d/%d | Remaining: %d | Progress: %.0f%% | Presses: %d\n",
		state.Round, len(state.Path), state.PuzzleLength, state.RemainingMoves, state.Progress*100, state.CurrentMovesCount)
	fmt.Fprintf(&b, "Start: %s\nEnd: %s\n\n", formatNode(state.StartNode), formatNode(state.EndNode))

	b.WriteString(formatBoard(state.Board))

	if len(state.Path) > 0 {
		tokens := make([]string, len(state.Path))
		for i := range state.Path {
			tokens[i] = fmt.Sprintf("%s%s", cellToken(&state.Path[i]), state.Path[i].Coord())
		}
		fmt.Fprintf(&b, "\nPath: %s\n", strings.Join(tokens, " → "))
	}

	if state.Solved {
		b.WriteString("\n🎉 SOLVED!")
	} else if state.Failed {
		b.WriteString("\n💀 OUT OF MOVES")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

// formatBoard draws the board with column and row indexes
func formatBoard(board engine.Board) string {
	var b strings.Builder
	b.WriteString("   ")
	for x := 0; x < board.Size(); x++ {
		fmt.Fprintf(&b, "%3d ", x)
	}
	b.WriteString("\n")

	for y, row := range board {
		fmt.Fprintf(&b, "%2d ", y)
		for i := range row {
			node := &row[i]
			token := cellToken(node)
			switch node.State {
			case engine.StateSelected:
				fmt.Fprintf(&b, "[%s]", token)
			case engine.StateConnected:
				fmt.Fprintf(&b, "(%s)", token)
			case engine.StateFaded:
				fmt.Fprintf(&b, " %s ", strings.ToLower(token))
			default:
				fmt.Fprintf(&b, " %s ", token)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatSelectResult(result *service.SelectResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s %s\n", result.Feedback, result.Cell)
	} else {
		fmt.Fprintf(&b, "✗ %s %s\n", result.Feedback, result.Cell)
	}

	if result.Node != nil {
		fmt.Fprintf(&b, "Cell: %s\n", formatNode(result.Node))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatBulkSelectResult(sessionID string, result *service.BulkSelectResult) string {
	var b strings.Builder

	size, configName := 0, ""
	if result.GameState != nil {
		size = result.GameState.Board.Size()
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s • Board: %dx%d\n", sessionID, configName, size, size)
	fmt.Fprintf(&b, "Executed %d/%d presses • Path %d → %d\n",
		result.SelectionsExecuted, result.RequestedSelections, result.StartPathLength, result.EndPathLength)
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d presses\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on press %d (%s): %s\n", result.StoppedOnSelection, result.StopReasonCode, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatStepLine(s service.StepInfo) string {
	status := "✓"
	if s.Feedback == engine.FeedbackReject || s.Feedback == engine.FeedbackLocked {
		status = "✗"
	}
	return fmt.Sprintf("%d. %s %s %s %s path=%d %s\n",
		s.Idx, s.Cell, s.Color, s.Shape, s.Feedback, s.PathLength, status)
}

func formatHint(hint *service.HintResult) string {
	switch {
	case hint.Solved:
		return "The puzzle is already solved. Start a new round to keep playing."
	case hint.Undo:
		return fmt.Sprintf("↩ %s", hint.Message)
	case hint.Node != nil:
		return fmt.Sprintf("➜ %s\nNext cell: x=%d y=%d (%s)\nSearch expanded %d states",
			hint.Message, hint.Node.X, hint.Node.Y, cellToken(hint.Node), hint.Expanded)
	default:
		return hint.Message
	}
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Press History (Page %d/%d) — Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s %s %s [path: %d]\n",
			move.MoveNumber, move.Action, move.Cell, move.Feedback, status, move.PathLength)
	}

	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Round: unavailable"
	}
	header := fmt.Sprintf("Current Round %d — Presses: %d\n\n", state.Round, state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no presses this round)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s %s [path: %d]\n", i+1, move.Cell, move.Feedback, status, move.PathLength)
	}
	return b.String()
}

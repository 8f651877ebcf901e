package main

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

	"github.com/wricardo/shape-connector/game/engine"
	"github.com/wricardo/shape-connector/game/service"
)

// Client talks to the REST API on behalf of a single session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// roundResponse is the body of reset and new-round calls
type roundResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client plays
func (c *Client) SessionID() string {
	return c.sessionID
}

// CreateSession starts a session with configID, or the server default when empty
func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var session service.SessionInfo
	if err := c.call(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

// Resume attaches the client to an existing session
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.GameState, error) {
	c.sessionID = sessionID
	return c.GetState(ctx)
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.call(ctx, http.MethodGet, c.sessionPath("state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Select(ctx context.Context, cell engine.Coord) (*service.SelectResult, error) {
	var result service.SelectResult
	if err := c.call(ctx, http.MethodPost, c.sessionPath("select"), cell, &result); err != nil {
		return nil, fmt.Errorf("select %s: %w", cell, err)
	}
	return &result, nil
}

// BulkSelect presses cells in order, clearing the path first when reset is set
func (c *Client) BulkSelect(ctx context.Context, cells []engine.Coord, reset bool) (*service.BulkSelectResult, error) {
	req := struct {
		Cells []engine.Coord `json:"cells"`
		Reset bool           `json:"reset,omitempty"`
	}{Cells: cells, Reset: reset}

	var result service.BulkSelectResult
	if err := c.call(ctx, http.MethodPost, c.sessionPath("bulk-select"), req, &result); err != nil {
		return nil, fmt.Errorf("bulk select: %w", err)
	}
	return &result, nil
}

func (c *Client) Hint(ctx context.Context) (*service.HintResult, error) {
	var hint service.HintResult
	if err := c.call(ctx, http.MethodGet, c.sessionPath("hint"), nil, &hint); err != nil {
		return nil, fmt.Errorf("hint: %w", err)
	}
	return &hint, nil
}

func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp roundResponse
	if err := c.call(ctx, http.MethodPost, c.sessionPath("reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.State, nil
}

func (c *Client) NewRound(ctx context.Context) (*engine.GameState, error) {
	var resp roundResponse
	if err := c.call(ctx, http.MethodPost, c.sessionPath("new-round"), nil, &resp); err != nil {
		return nil, fmt.Errorf("new round: %w", err)
	}
	return resp.State, nil
}

func (c *Client) sessionPath(action string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + "/" + action
}

// call sends body as JSON and decodes a successful response into result
func (c *Client) call(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s", resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

package stardew

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"farmhand/internal/domain/farm"

	"github.com/gorilla/websocket"
)

var ErrNotConnected = errors.New("not connected to game bridge")

const defaultRequestTimeout = 15 * time.Second

// Client speaks the game mod's websocket protocol: JSON command
// messages correlated to responses by id. It implements the world
// provider, action sink and reachability oracle ports over a single
// connection. Writes are serialized; reads happen on one goroutine.
type Client struct {
	url            string
	requestTimeout time.Duration

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool

	pendingMu sync.Mutex
	pending   map[string]chan response

	nextID atomic.Uint64
}

type request struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Action string         `json:"action,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

type response struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Config struct {
	URL            string
	RequestTimeout time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Client{
		url:            cfg.URL,
		requestTimeout: cfg.RequestTimeout,
		pending:        make(map[string]chan response),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial game bridge: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.connected = false
			}
			c.mu.Unlock()
			c.failAllPending()
			return
		}

		var resp response
		if err := json.Unmarshal(message, &resp); err != nil || resp.ID == "" {
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.pendingMu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

func (c *Client) failAllPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for id, ch := range c.pending {
		delete(c.pending, id)
		close(ch)
	}
}

func (c *Client) send(ctx context.Context, action string, params map[string]any) (response, error) {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()
	if !connected || conn == nil {
		return response{}, ErrNotConnected
	}

	id := fmt.Sprintf("req-%d", c.nextID.Add(1))
	msg := request{ID: id, Type: "command", Action: action, Params: params}
	data, err := json.Marshal(msg)
	if err != nil {
		return response{}, err
	}

	ch := make(chan response, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	// The websocket connection allows one concurrent writer.
	c.mu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.mu.Unlock()
	if err != nil {
		c.dropPending(id)
		return response{}, err
	}

	timeout := c.requestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-ch:
		if !ok {
			return response{}, ErrNotConnected
		}
		return resp, nil
	case <-ctx.Done():
		c.dropPending(id)
		return response{}, ctx.Err()
	case <-timer.C:
		c.dropPending(id)
		return response{}, fmt.Errorf("timeout waiting for %s response", action)
	}
}

func (c *Client) dropPending(id string) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

// Snapshot fetches the full game state and normalizes it at this
// boundary; nothing past the bridge sees the mod's raw shape.
func (c *Client) Snapshot(ctx context.Context) (farm.Snapshot, error) {
	resp, err := c.send(ctx, "get_game_state", nil)
	if err != nil {
		return farm.Snapshot{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(resp.Data, &raw); err != nil {
		return farm.Snapshot{}, fmt.Errorf("decode game state: %w", err)
	}
	return farm.NormalizeSnapshot(raw), nil
}

func (c *Client) Surroundings(ctx context.Context) (farm.Surroundings, error) {
	resp, err := c.send(ctx, "get_surroundings", nil)
	if err != nil {
		return farm.Surroundings{}, err
	}
	return decodeSurroundings(resp.Data)
}

// Execute translates one core action into a mod command and reports
// the mod's verdict. A transport error is distinct from the mod
// rejecting the action.
func (c *Client) Execute(ctx context.Context, action farm.Action) (bool, string, error) {
	command, params := encodeAction(action)
	resp, err := c.send(ctx, command, params)
	if err != nil {
		return false, "", err
	}
	return resp.Success, resp.Message, nil
}

// IsReachable asks the mod's pathfinder. Callers are expected to treat
// any error as reachable.
func (c *Client) IsReachable(ctx context.Context, from, to farm.Point) (bool, error) {
	resp, err := c.send(ctx, "is_reachable", map[string]any{
		"fromX": from.X,
		"fromY": from.Y,
		"toX":   to.X,
		"toY":   to.Y,
	})
	if err != nil {
		return false, err
	}
	if !resp.Success {
		return false, errors.New(resp.Message)
	}
	var result struct {
		Reachable bool `json:"reachable"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return false, fmt.Errorf("decode reachability: %w", err)
	}
	return result.Reachable, nil
}

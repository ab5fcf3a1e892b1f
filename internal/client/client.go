// Package client talks to a running Sportrium server over HTTP and websocket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client calls the chat and health endpoints of a Sportrium server.
type Client struct {
	base       string
	httpClient *http.Client
}

// New creates a client for the server at base.
// If base is empty, uses SPORTRIUM_SERVER_URL or defaults to localhost:8080.
// Timeout can be configured via SPORTRIUM_CLIENT_TIMEOUT (default 30s).
func New(base string) *Client {
	if base == "" {
		base = os.Getenv("SPORTRIUM_SERVER_URL")
	}
	if base == "" {
		base = "http://localhost:8080"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("SPORTRIUM_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Message is one transcript turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one chat turn sent to the server.
type Request struct {
	Messages  []Message `json:"messages,omitempty"`
	Message   string    `json:"message,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
}

// Reply is the server's answer.
type Reply struct {
	OK         bool   `json:"ok"`
	Provenance string `json:"provenance"`
	Reply      string `json:"reply"`
	Error      string `json:"error,omitempty"`
}

// Chat sends one turn and returns the reply. A rejected request is returned as an error.
func (c *Client) Chat(ctx context.Context, req Request) (*Reply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var out Reply
	status, err := c.do(ctx, http.MethodPost, "/api/chat", bytes.NewReader(body), &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || !out.OK {
		return nil, fmt.Errorf("server rejected chat (%d): %s", status, out.Error)
	}
	return &out, nil
}

// Health fetches the server's health report.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	status, err := c.do(ctx, http.MethodGet, "/api/health", nil, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("server error: %d", status)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, result any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return resp.StatusCode, fmt.Errorf("unmarshal response (%s): %w", resp.Status, err)
	}
	return resp.StatusCode, nil
}

// Conversation is an open websocket chat. The server pins the session to the
// connection, so consecutive turns share memory.
type Conversation struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Dial opens a websocket conversation.
func (c *Client) Dial(ctx context.Context) (*Conversation, error) {
	wsBase := strings.Replace(c.base, "http://", "ws://", 1)
	wsBase = strings.Replace(wsBase, "https://", "wss://", 1)

	u, err := url.Parse(wsBase + "/api/chat/ws")
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connect: %w", err)
	}
	resp.Body.Close()
	return &Conversation{conn: conn}, nil
}

// Send sends one message and waits for the reply.
func (cv *Conversation) Send(ctx context.Context, req Request) (*Reply, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = cv.conn.SetReadDeadline(deadline)
		defer cv.conn.SetReadDeadline(time.Time{})
	}

	if err := cv.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	var out Reply
	if err := cv.conn.ReadJSON(&out); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("read reply: %w", err)
	}
	if !out.OK {
		return nil, fmt.Errorf("server rejected chat: %s", out.Error)
	}
	return &out, nil
}

// Close ends the conversation. It is safe to call more than once.
func (cv *Conversation) Close() error {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if cv.closed {
		return nil
	}
	cv.closed = true
	_ = cv.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return cv.conn.Close()
}

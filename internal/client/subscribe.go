package client

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// Change is one notification from /lessons/events.
type Change struct {
	Type    string `json:"type"`
	Version int64  `json:"version"`
}

// Subscribe connects to the change feed. The channel is closed when ctx ends
// or the connection drops; callers resubscribe if they need to.
func (c *Client) Subscribe(ctx context.Context) (<-chan Change, error) {
	u := *c.base
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = strings.TrimRight(u.Path, "/") + "/lessons/events"

	dialer := *websocket.DefaultDialer
	if c.http.Timeout > 0 {
		dialer.HandshakeTimeout = c.http.Timeout
	}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	out := make(chan Change, 8)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(out)
		defer close(done)
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ch Change
			if err := json.Unmarshal(msg, &ch); err != nil {
				continue
			}
			select {
			case out <- ch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

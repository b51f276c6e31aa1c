package komorebi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// ErrNoFocusedMonitor reports a state document with no focused monitor, a
// transient daemon condition distinct from connection failures.
var ErrNoFocusedMonitor = errors.New("no focused monitor")

// socketMessage is the daemon's externally tagged command envelope.
type socketMessage struct {
	Type    string `json:"type"`
	Content any    `json:"content,omitempty"`
}

// SubscribeOptions controls the daemon-side behaviour of a subscription.
type SubscribeOptions struct {
	// FilterStateChanges asks the daemon to only push notifications for
	// events that changed its state. The client-side relevance filter
	// still runs either way.
	FilterStateChanges bool
}

// Client performs one-shot queries and subscription registrations against
// the daemon's control socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the daemon control socket at socketPath.
func NewClient(socketPath string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{socketPath: socketPath, timeout: timeout}
}

// Query sends a State query and decodes the reply.
func (c *Client) Query(ctx context.Context) (State, error) {
	reply, err := c.roundTrip(ctx, socketMessage{Type: "State"})
	if err != nil {
		return State{}, fmt.Errorf("query state: %w", err)
	}

	var state State
	if err := json.Unmarshal(reply, &state); err != nil {
		return State{}, fmt.Errorf("query state: decode reply: %w", err)
	}
	return state, nil
}

// Subscribe registers sockName as a notification subscriber. The daemon
// will connect to that socket and push one JSON notification per line.
func (c *Client) Subscribe(ctx context.Context, sockName string, opts SubscribeOptions) error {
	msg := socketMessage{Type: "AddSubscriberSocket", Content: sockName}
	if opts.FilterStateChanges {
		// Tuple-encoded variant carrying the options document.
		msg = socketMessage{
			Type:    "AddSubscriberSocketWithOptions",
			Content: []any{sockName, map[string]bool{"filter_state_changes": true}},
		}
	}
	if err := c.send(ctx, msg); err != nil {
		return fmt.Errorf("subscribe %s: %w", sockName, err)
	}
	return nil
}

// FocusWorkspace asks the daemon to focus the workspace at idx (0-based)
// on the focused monitor.
func (c *Client) FocusWorkspace(ctx context.Context, idx int) error {
	if idx < 0 {
		return fmt.Errorf("focus workspace: negative index %d", idx)
	}
	if err := c.send(ctx, socketMessage{Type: "FocusWorkspaceNumber", Content: idx}); err != nil {
		return fmt.Errorf("focus workspace %d: %w", idx, err)
	}
	return nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.socketPath, err)
	}
	_ = conn.SetDeadline(time.Now().Add(c.timeout))
	return conn, nil
}

// send writes a single command and closes the connection.
func (c *Client) send(ctx context.Context, msg socketMessage) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// roundTrip writes a command and reads the reply until the daemon closes
// the connection.
func (c *Client) roundTrip(ctx context.Context, msg socketMessage) ([]byte, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write message: %w", err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		// Half-close so the daemon sees EOF on our side of the request.
		_ = uc.CloseWrite()
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}

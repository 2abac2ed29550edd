package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// ErrAuthRejected is returned when the host rejects the handshake with 401.
var ErrAuthRejected = errors.New("host rejected authentication (401)")

// ErrNotConnected is returned by writes while no connection is up.
var ErrNotConnected = errors.New("not connected")

const (
	writeTimeout      = 10 * time.Second
	readLimit         = MaxLineSize
	minReconnectDelay = time.Second
	maxReconnectDelay = 10 * time.Second
)

// Connection states reported through OnStateChange.
const (
	StateConnecting   = "connecting"
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
	StateAuthFailed   = "auth_failed"
)

// WebSocket is a client transport that dials the host and exchanges one
// envelope per text frame.
type WebSocket struct {
	URL     string // e.g. "ws://127.0.0.1:7878/chat"
	Token   string // sent as a bearer token when set
	Handler Handler
	Logger  *slog.Logger

	OnStateChange func(state string, err error)

	// Reconnect delays; zero values use the package defaults.
	MinDelay time.Duration
	MaxDelay time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocket creates a client for url.
func NewWebSocket(url, token string, handler Handler) *WebSocket {
	return &WebSocket{
		URL:     url,
		Token:   token,
		Handler: handler,
	}
}

// Run connects and serves until ctx is cancelled, reconnecting with
// exponential backoff after each disconnect. It returns ErrAuthRejected
// when the host refuses the token.
func (w *WebSocket) Run(ctx context.Context) error {
	minDelay, maxDelay := w.MinDelay, w.MaxDelay
	if minDelay <= 0 {
		minDelay = minReconnectDelay
	}
	if maxDelay <= 0 {
		maxDelay = maxReconnectDelay
	}
	backoff := NewBackoff(minDelay, maxDelay)

	w.notifyState(StateConnecting, nil)
	for {
		connected, err := w.connectAndServe(ctx)
		if ctx.Err() != nil {
			w.notifyState(StateDisconnected, ctx.Err())
			return ctx.Err()
		}
		if errors.Is(err, ErrAuthRejected) {
			w.notifyState(StateAuthFailed, err)
			return err
		}
		if connected {
			backoff.Reset()
		}

		delay := backoff.Next()
		w.notifyState(StateDisconnected, err)
		w.logger().Warn("host disconnected, reconnecting", "error", err, "delay", delay)
		select {
		case <-ctx.Done():
			w.notifyState(StateDisconnected, ctx.Err())
			return ctx.Err()
		case <-time.After(delay):
		}
		w.notifyState(StateConnecting, nil)
	}
}

func (w *WebSocket) connectAndServe(ctx context.Context) (connected bool, err error) {
	opts := &websocket.DialOptions{
		HTTPHeader: make(http.Header),
	}
	if w.Token != "" {
		opts.HTTPHeader.Set("Authorization", "Bearer "+w.Token)
	}

	conn, resp, err := websocket.Dial(ctx, w.URL, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return false, ErrAuthRejected
		}
		return false, fmt.Errorf("dial: %w", err)
	}
	conn.SetReadLimit(readLimit)

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.conn = nil
		w.mu.Unlock()
		conn.CloseNow()
	}()

	w.notifyState(StateConnected, nil)
	w.logger().Info("connected to host", "url", w.URL)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return true, fmt.Errorf("read: %w", err)
		}
		if typ != websocket.MessageText {
			w.logger().Debug("ignoring binary frame", "size", len(data))
			continue
		}
		w.Handler.HandleMessageReceive(ctx, data)
	}
}

// Send writes cmd as a text frame. Commands sent while disconnected are
// logged and dropped.
func (w *WebSocket) Send(cmd protocol.Command) {
	if err := w.writeJSON(context.Background(), cmd); err != nil {
		w.logger().Error("failed to send command", "command", cmd.Command, "error", err)
	}
}

// Connected reports whether a connection is currently up.
func (w *WebSocket) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil
}

func (w *WebSocket) writeJSON(ctx context.Context, v any) error {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}

func (w *WebSocket) notifyState(state string, err error) {
	if w.OnStateChange != nil {
		w.OnStateChange(state, err)
	}
}

func (w *WebSocket) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

// Package transport carries command and event envelopes between the chat
// UI process and the host extension.
package transport

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tidwall/gjson"
)

// Handler consumes one raw inbound envelope.
type Handler interface {
	HandleMessageReceive(ctx context.Context, data []byte)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ctx context.Context, data []byte)

// HandleMessageReceive calls f(ctx, data).
func (f HandlerFunc) HandleMessageReceive(ctx context.Context, data []byte) {
	f(ctx, data)
}

// Mux routes inbound envelopes to channel handlers by their sender field.
// Envelopes from senders nobody registered are dropped.
type Mux struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewMux creates an empty mux. A nil logger means slog.Default().
func NewMux(logger *slog.Logger) *Mux {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mux{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Handle registers h for sender, replacing any previous handler.
func (m *Mux) Handle(sender string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[sender] = h
}

// HandleMessageReceive implements Handler so a Mux can sit behind any transport.
func (m *Mux) HandleMessageReceive(ctx context.Context, data []byte) {
	m.Route(ctx, data)
}

// Route forwards data to the handler registered for its sender. It reports
// whether a handler took the envelope.
func (m *Mux) Route(ctx context.Context, data []byte) bool {
	if !gjson.ValidBytes(data) {
		m.logger.Debug("dropping undecodable envelope", "size", len(data))
		return false
	}
	sender := gjson.GetBytes(data, "sender").String()

	m.mu.RLock()
	h, ok := m.handlers[sender]
	m.mu.RUnlock()
	if !ok {
		m.logger.Debug("no handler for sender", "sender", sender)
		return false
	}

	h.HandleMessageReceive(ctx, data)
	return true
}

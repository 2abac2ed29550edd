package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// MaxLineSize is the longest inbound JSON line Stdio accepts.
const MaxLineSize = 1 << 20

// Stdio exchanges envelopes as JSON lines: one event per line in, one
// command per line out.
type Stdio struct {
	in      io.Reader
	handler Handler
	logger  *slog.Logger

	mu  sync.Mutex
	out *bufio.Writer
}

// NewStdio creates a transport reading from in and writing to out.
func NewStdio(in io.Reader, out io.Writer, handler Handler, logger *slog.Logger) *Stdio {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stdio{
		in:      in,
		out:     bufio.NewWriter(out),
		handler: handler,
		logger:  logger,
	}
}

// Run reads lines until the input closes or ctx is done. Blank lines are
// skipped. A line longer than MaxLineSize stops the loop with an error.
func (s *Stdio) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		// The scanner reuses its buffer between lines.
		data := append([]byte(nil), line...)
		s.handler.HandleMessageReceive(ctx, data)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Send writes cmd as one JSON line. Write failures are logged and the
// command is dropped.
func (s *Stdio) Send(cmd protocol.Command) {
	if err := s.write(cmd); err != nil {
		s.logger.Error("failed to send command", "command", cmd.Command, "error", err)
	}
}

// Emit writes any JSON value as one line. The CLI uses it for UI events.
func (s *Stdio) Emit(v any) error {
	return s.write(v)
}

func (s *Stdio) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(data); err != nil {
		return err
	}
	if err := s.out.WriteByte('\n'); err != nil {
		return err
	}
	return s.out.Flush()
}

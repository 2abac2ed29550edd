package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tiancaiamao/chatconnector/internal/tabs"
	"github.com/tiancaiamao/chatconnector/pkg/config"
	"github.com/tiancaiamao/chatconnector/pkg/connector"
	"github.com/tiancaiamao/chatconnector/pkg/correlation"
	"github.com/tiancaiamao/chatconnector/pkg/followup"
	debughttp "github.com/tiancaiamao/chatconnector/pkg/http"
	"github.com/tiancaiamao/chatconnector/pkg/transport"
)

type listenOptions struct {
	openTab   bool
	debugAddr string
}

func listenCmd(load runtimeLoader) *cobra.Command {
	var opts listenOptions

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Dispatch host messages and print UI events",
		Long: `Connects to the host over the configured transport.

With the websocket transport, UI actions are read as JSON lines on stdin and
UI events are written as JSON lines on stdout. With the stdio transport, stdin
and stdout carry the host envelopes and UI events go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runListen(ctx, cfg, os.Stdin, os.Stdout, os.Stderr, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.openTab, "open-tab", true, "open a tab at startup so context commands have a target")
	cmd.Flags().StringVar(&opts.debugAddr, "http", "", "enable HTTP debug server on specified address (e.g., ':6060')")
	return cmd
}

// newBridge wires a connector for cfg to sender and reports UI events through emit.
func newBridge(cfg *config.Config, sender connector.Sender, emit emitFunc) *bridge {
	registry := tabs.NewRegistry()
	followUps := followup.NewGenerator(cfg.ProductName)
	conn := connector.New(sender, uiCallbacks(emit, registry),
		connector.WithTabType(cfg.TabType),
		connector.WithFollowUpGenerator(followUps),
		connector.WithTracker(correlation.NewTracker(cfg.CorrelationTTL)),
		connector.WithLogger(slog.Default().With("sender", cfg.Sender)),
	)
	return &bridge{
		conn:      conn,
		tabs:      registry,
		followUps: followUps,
		emit:      emit,
	}
}

func runListen(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer, opts listenOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mux := transport.NewMux(nil)
	g, gctx := errgroup.WithContext(ctx)
	var b *bridge

	switch cfg.Transport {
	case config.TransportWebSocket:
		host := transport.NewWebSocket(cfg.WebSocket.URL, cfg.WebSocket.Token, mux)

		// The UI side shares stdio: actions in, events out.
		ui := transport.NewStdio(stdin, stdout, transport.HandlerFunc(func(ctx context.Context, data []byte) {
			b.HandleMessageReceive(ctx, data)
		}), nil)
		b = newBridge(cfg, host, newEmitter(ui.Emit))
		mux.Handle(cfg.Sender, b.conn)

		var announce sync.Once
		host.OnStateChange = func(state string, err error) {
			slog.Info("Host connection", "state", state, "error", err)
			if state == transport.StateConnected && opts.openTab {
				announce.Do(func() { b.openTab() })
			}
		}

		g.Go(func() error {
			return host.Run(gctx)
		})
		g.Go(func() error {
			// Closing stdin ends the session.
			defer cancel()
			return readUntilDone(gctx, ui.Run)
		})

	case config.TransportStdio:
		events := transport.NewStdio(nil, stderr, nil, nil)
		host := transport.NewStdio(stdin, stdout, mux, nil)
		b = newBridge(cfg, host, newEmitter(events.Emit))
		mux.Handle(cfg.Sender, b.conn)
		if opts.openTab {
			b.openTab()
		}

		g.Go(func() error {
			defer cancel()
			return readUntilDone(gctx, host.Run)
		})

	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	if opts.debugAddr != "" {
		g.Go(func() error {
			return debughttp.Serve(gctx, opts.debugAddr, b.conn)
		})
	}

	slog.Info("Listening", "transport", cfg.Transport, "sender", cfg.Sender, "tabType", cfg.TabType)

	err := g.Wait()
	b.conn.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readUntilDone runs a stdin reader but returns as soon as ctx ends; a read
// blocked on stdin cannot be interrupted and is abandoned.
func readUntilDone(ctx context.Context, run func(context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		done <- run(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

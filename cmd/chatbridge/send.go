package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiancaiamao/chatconnector/pkg/config"
	"github.com/tiancaiamao/chatconnector/pkg/transport"
)

func sendCmd(load runtimeLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "send <action-json>",
		Short: "Print the host command for one UI action",
		Long: `Turns one UI action into its host command and writes it to stdout as a
JSON line, e.g.

  chatbridge send '{"action":"prompt","tabID":"t1","message":"hello"}'`,
		Example: `  chatbridge send '{"action":"vote","tabID":"t1","messageId":"m1","vote":"upvote"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Close()
			return runSend(cmd.Context(), cfg, args[0], os.Stdout, os.Stderr)
		},
	}
}

func runSend(ctx context.Context, cfg *config.Config, raw string, stdout, stderr io.Writer) error {
	var a Action
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return fmt.Errorf("invalid action: %w", err)
	}

	out := transport.NewStdio(nil, stdout, nil, nil)
	events := transport.NewStdio(nil, stderr, nil, nil)
	b := newBridge(cfg, out, newEmitter(events.Emit))
	return b.apply(ctx, a)
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiancaiamao/chatconnector/pkg/config"
	"github.com/tiancaiamao/chatconnector/pkg/logger"
)

func main() {
	// Replaced by the configured logger once a subcommand loads its config.
	slog.SetDefault(logger.NewDefaultLogger().Logger)

	var (
		configPath string
		debug      bool
	)

	root := &cobra.Command{
		Use:           "chatbridge",
		Short:         "Bridge between a chat UI and its host extension",
		Long:          "Dispatches host messages to UI events and turns UI actions into host commands for one chat channel.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.chatconnector/config.yaml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	load := func() (*config.Config, *logger.Logger, error) {
		return loadRuntime(configPath, debug)
	}
	root.AddCommand(
		listenCmd(load),
		sendCmd(load),
		initCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		slog.Error("chatbridge failed", "error", err)
		os.Exit(1)
	}
}

type runtimeLoader func() (*config.Config, *logger.Logger, error)

// loadRuntime reads the config and installs the configured logger as the
// slog default.
func loadRuntime(configPath string, debug bool) (*config.Config, *logger.Logger, error) {
	if configPath == "" {
		p, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get config path: %w", err)
		}
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	log, err := cfg.Log.CreateLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(log.Logger)
	slog.Debug("Loaded config", "path", configPath, "transport", cfg.Transport, "tabType", cfg.TabType)
	return cfg, log, nil
}

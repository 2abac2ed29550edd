package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tiancaiamao/chatconnector/pkg/logger"
	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// EnvPrefix prefixes every environment override, e.g. CHATCONNECTOR_TAB_TYPE.
const EnvPrefix = "CHATCONNECTOR_"

// Transport kinds.
const (
	TransportStdio     = "stdio"
	TransportWebSocket = "websocket"
)

// Config represents the application configuration.
type Config struct {
	// Channel identity
	TabType     string `yaml:"tabType" env:"TAB_TYPE"`
	Sender      string `yaml:"sender" env:"SENDER"`
	ProductName string `yaml:"productName,omitempty" env:"PRODUCT_NAME"`

	// How long a context command's trigger id stays routable; 0 keeps entries forever.
	CorrelationTTL time.Duration `yaml:"correlationTTL" env:"CORRELATION_TTL"`

	Transport string          `yaml:"transport" env:"TRANSPORT"` // stdio or websocket
	WebSocket WebSocketConfig `yaml:"websocket,omitempty" envPrefix:"WEBSOCKET_"`

	Log LogConfig `yaml:"log" envPrefix:"LOG_"`
}

// WebSocketConfig configures the websocket transport.
type WebSocketConfig struct {
	URL   string `yaml:"url,omitempty" env:"URL"`
	Token string `yaml:"token,omitempty" env:"TOKEN"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" env:"LEVEL"`   // debug, info, warn, error
	File   string `yaml:"file,omitempty" env:"FILE"`     // empty = no file logging
	Prefix string `yaml:"prefix,omitempty" env:"PREFIX"` // prepended to messages
	JSON   bool   `yaml:"json,omitempty" env:"JSON"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		TabType:        protocol.TabTypeChat,
		Sender:         protocol.SenderChat,
		CorrelationTTL: 10 * time.Minute,
		Transport:      TransportStdio,
		Log:            *DefaultLogConfig(),
	}
}

// DefaultLogConfig returns default logging configuration.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:  "info",
		Prefix: "[chatbridge] ",
	}
}

// CreateLogger creates a logger from the log configuration. Console output
// goes to stderr so stdout stays free for the wire.
func (c *LogConfig) CreateLogger() (*logger.Logger, error) {
	if c == nil {
		c = DefaultLogConfig()
	}

	return logger.NewLogger(&logger.Config{
		Level:    logger.ParseLogLevel(c.Level),
		Prefix:   c.Prefix,
		Console:  true,
		File:     c.File != "",
		FilePath: c.File,
		JSON:     c.JSON,
	})
}

// LoadConfig loads configuration from file and merges with environment variables.
// Environment variables take precedence over config file values. A missing
// file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.TabType == "" {
		return errors.New("tabType is required")
	}
	if c.Sender == "" {
		return errors.New("sender is required")
	}
	if c.CorrelationTTL < 0 {
		return fmt.Errorf("correlationTTL must not be negative, got %s", c.CorrelationTTL)
	}
	switch c.Transport {
	case TransportStdio:
	case TransportWebSocket:
		if c.WebSocket.URL == "" {
			return errors.New("websocket.url is required for the websocket transport")
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	return nil
}

// SaveConfig saves configuration to file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold a websocket token.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetDefaultConfigPath returns the default config file path.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".chatconnector", "config.yaml"), nil
}

// Package connector routes messages between a chat UI and its host
// extension for one chat channel.
//
// Outbound, each UI intent (link click, vote, code insertion, tab
// lifecycle, prompt submission) becomes exactly one protocol.Command handed
// to the Sender. Inbound, HandleMessageReceive classifies a host message by
// its type and invokes the matching UI callback. Unknown or malformed
// messages are dropped without error.
package connector

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tiancaiamao/chatconnector/pkg/correlation"
	"github.com/tiancaiamao/chatconnector/pkg/followup"
	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// DefaultCorrelationTTL bounds how long a trigger id stays routable to its tab.
const DefaultCorrelationTTL = 10 * time.Minute

// Sender delivers a command to the host. Delivery and ordering belong to
// the implementation.
type Sender interface {
	Send(cmd protocol.Command)
}

// SenderFunc adapts a function to a Sender.
type SenderFunc func(cmd protocol.Command)

// Send calls f(cmd).
func (f SenderFunc) Send(cmd protocol.Command) {
	f(cmd)
}

// Callbacks are the UI hooks invoked for host events. Any of them may be nil.
type Callbacks struct {
	// OnChatAnswerReceived receives answers and auth prompts. When nil,
	// chat messages and auth exceptions are ignored entirely.
	OnChatAnswerReceived func(tabID string, item protocol.ChatItem)
	OnError              func(tabID, message, title string)
	OnWarning            func(tabID, message, title string)
	// OnContextCommand asks the UI to run an editor command. It returns the
	// tab that took it, or ok=false when no tab is available.
	OnContextCommand          func(item protocol.ChatItem, command string) (tabID string, ok bool)
	OnOpenSettings            func(tabID string)
	OnFeatureConfigsAvailable func(highlight *protocol.HighlightCommand)
}

// Connector is the dispatcher for a single chat channel.
type Connector struct {
	sender    Sender
	callbacks Callbacks
	followUps *followup.Generator
	tracker   *correlation.Tracker
	tabType   string
	logger    *slog.Logger
	metrics   *Metrics

	// Background sends that callers do not wait for.
	wg sync.WaitGroup
}

// Option configures a Connector.
type Option func(*Connector)

// WithTabType overrides the channel discriminator stamped on every command.
func WithTabType(tabType string) Option {
	return func(c *Connector) {
		c.tabType = tabType
	}
}

// WithFollowUpGenerator sets the generator used for auth follow-ups.
func WithFollowUpGenerator(g *followup.Generator) Option {
	return func(c *Connector) {
		c.followUps = g
	}
}

// WithTracker sets the correlation tracker shared with other components.
func WithTracker(t *correlation.Tracker) Option {
	return func(c *Connector) {
		c.tracker = t
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Connector) {
		c.logger = l
	}
}

// New creates a connector sending through sender. Callbacks are fixed for
// the lifetime of the connector; unset hooks other than
// OnChatAnswerReceived and OnContextCommand become no-ops.
func New(sender Sender, callbacks Callbacks, opts ...Option) *Connector {
	c := &Connector{
		sender:    sender,
		callbacks: callbacks,
		tabType:   protocol.TabTypeChat,
		metrics:   newMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.followUps == nil {
		c.followUps = followup.NewGenerator("")
	}
	if c.tracker == nil {
		c.tracker = correlation.NewTracker(DefaultCorrelationTTL)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("tabType", c.tabType)

	if c.callbacks.OnError == nil {
		c.callbacks.OnError = func(string, string, string) {}
	}
	if c.callbacks.OnWarning == nil {
		c.callbacks.OnWarning = func(string, string, string) {}
	}
	if c.callbacks.OnOpenSettings == nil {
		c.callbacks.OnOpenSettings = func(string) {}
	}
	if c.callbacks.OnFeatureConfigsAvailable == nil {
		c.callbacks.OnFeatureConfigsAvailable = func(*protocol.HighlightCommand) {}
	}

	return c
}

// TabType returns the channel discriminator of this connector.
func (c *Connector) TabType() string {
	return c.tabType
}

// Tracker returns the correlation tracker in use.
func (c *Connector) Tracker() *correlation.Tracker {
	return c.tracker
}

// Wait blocks until background sends started by inbound handling finish.
func (c *Connector) Wait() {
	c.wg.Wait()
}

func (c *Connector) send(cmd protocol.Command) {
	cmd.TabType = c.tabType
	c.metrics.command(cmd.Command)
	c.logger.Debug("send command", "command", cmd.Command, "tabID", cmd.TabID)
	c.sender.Send(cmd)
}

// sendAsync sends cmd on a new goroutine tracked by Wait.
func (c *Connector) sendAsync(cmd protocol.Command) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.send(cmd)
	}()
}

package connector

import (
	"context"
	"errors"

	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// HandleMessageReceive is the single ingress for host messages. It decodes
// data, classifies it and dispatches it. Malformed JSON and unknown types
// are logged at debug level and dropped. Once ctx is done, callbacks still
// run but acknowledgements to the host are no longer sent.
func (c *Connector) HandleMessageReceive(ctx context.Context, data []byte) {
	ev, err := protocol.ParseEvent(data)
	if err != nil {
		unknown := errors.Is(err, protocol.ErrUnknownEventType)
		c.metrics.drop(unknown)
		if unknown {
			c.logger.Debug("ignoring unknown event", "error", err)
		} else {
			c.logger.Debug("dropping malformed event", "error", err)
		}
		return
	}
	c.Dispatch(ctx, ev)
}

// Dispatch routes one classified event to its handler. Exactly one branch
// runs per call.
func (c *Connector) Dispatch(ctx context.Context, ev protocol.Event) {
	c.metrics.event(ev.EventType())

	switch ev := ev.(type) {
	case protocol.ErrorMessage:
		c.callbacks.OnError(ev.TabID, ev.Message, ev.Title)

	case protocol.InvalidTokenNotification:
		c.callbacks.OnWarning(ev.TabID, ev.Message, ev.Title)

	case protocol.ChatContent:
		c.processChatContent(ctx, ev)

	case protocol.ChatStreamEnd:
		c.processChatStreamEnd(ev)

	case protocol.ChatIgnored:
		c.metrics.ignoredChat()
		c.logger.Debug("chat message without content", "messageType", ev.MessageType)

	case protocol.EditorContextCommand:
		c.processEditorContextCommand(ev)

	case protocol.AuthNeeded:
		c.processAuthNeeded(ev)

	case protocol.OpenSettings:
		c.callbacks.OnOpenSettings(ev.TabID)

	case protocol.FeatureConfigsAvailable:
		c.callbacks.OnFeatureConfigsAvailable(ev.HighlightCommand)
	}
}

// resolveTab falls back to the tab tracked for the trigger id when the host
// did not name one.
func (c *Connector) resolveTab(tabID, triggerID string) string {
	if tabID != "" || triggerID == "" {
		return tabID
	}
	if tracked, ok := c.tracker.Lookup(triggerID); ok {
		return tracked
	}
	return tabID
}

func (c *Connector) processChatContent(ctx context.Context, ev protocol.ChatContent) {
	if c.callbacks.OnChatAnswerReceived == nil {
		return
	}

	messageID := ev.MessageID
	if messageID == "" {
		messageID = ev.TriggerID
	}

	item := protocol.ChatItem{
		Type:              ev.MessageType,
		MessageID:         messageID,
		Body:              ev.Body,
		FollowUp:          followUpBlock(ev.FollowUps, ev.FollowUpsHeader),
		CanBeVoted:        true,
		CodeReference:     ev.CodeReference,
		UserIntent:        ev.UserIntent,
		CodeBlockLanguage: ev.CodeBlockLanguage,
	}
	if ev.RelatedSuggestions != nil {
		item.RelatedContent = &protocol.RelatedContent{
			Title:   protocol.RelatedContentTitle,
			Content: ev.RelatedSuggestions,
		}
	}

	c.callbacks.OnChatAnswerReceived(c.resolveTab(ev.TabID, ev.TriggerID), item)

	if ev.MessageType == protocol.ChatItemSystemPrompt || ev.MessageType == protocol.ChatItemAIPrompt {
		// No acks once the dispatch context is done.
		if err := ctx.Err(); err != nil {
			c.logger.Debug("skipping trigger-message-processed", "requestID", ev.RequestID, "error", err)
			return
		}
		c.sendAsync(protocol.Command{
			Command:   protocol.CommandTriggerMessageProcessed,
			RequestID: ev.RequestID,
		})
	}
}

func (c *Connector) processChatStreamEnd(ev protocol.ChatStreamEnd) {
	if c.callbacks.OnChatAnswerReceived == nil {
		return
	}

	item := protocol.ChatItem{
		Type:              ev.MessageType,
		MessageID:         ev.MessageID,
		Body:              nil,
		RelatedContent:    nil,
		FollowUp:          followUpBlock(ev.FollowUps, nil),
		CodeReference:     ev.CodeReference,
		UserIntent:        ev.UserIntent,
		CodeBlockLanguage: ev.CodeBlockLanguage,
	}

	tabID := c.resolveTab(ev.TabID, ev.TriggerID)
	if ev.TriggerID != "" {
		c.tracker.Take(ev.TriggerID)
	}
	c.callbacks.OnChatAnswerReceived(tabID, item)
}

func (c *Connector) processEditorContextCommand(ev protocol.EditorContextCommand) {
	tabID, ok := "", false
	if c.callbacks.OnContextCommand != nil {
		tabID, ok = c.callbacks.OnContextCommand(protocol.ChatItem{
			Type: protocol.ChatItemPrompt,
			Body: protocol.Ptr(ev.Message),
		}, ev.Command)
	}

	if ok && tabID != "" {
		c.tracker.Record(ev.TriggerID, tabID)
	} else {
		tabID = protocol.NoAvailableTabs
	}

	c.send(protocol.Command{
		Command:   protocol.CommandTriggerTabIDReceived,
		TabID:     tabID,
		TriggerID: ev.TriggerID,
	})
}

func (c *Connector) processAuthNeeded(ev protocol.AuthNeeded) {
	if c.callbacks.OnChatAnswerReceived == nil {
		return
	}

	c.callbacks.OnChatAnswerReceived(c.resolveTab(ev.TabID, ev.TriggerID), protocol.ChatItem{
		Type:       protocol.ChatItemSystemPrompt,
		MessageID:  ev.TriggerID,
		Body:       protocol.Ptr(ev.Message),
		FollowUp:   c.followUps.AuthFollowUps(c.tabType, ev.AuthType),
		CanBeVoted: false,
	})
}

// followUpBlock returns nil unless there is at least one option.
func followUpBlock(options []protocol.FollowUpOption, header *string) *protocol.FollowUpBlock {
	if len(options) == 0 {
		return nil
	}
	text := protocol.DefaultFollowUpsHeader
	if header != nil {
		text = *header
	}
	return &protocol.FollowUpBlock{Text: text, Options: options}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tiancaiamao/chatconnector/internal/tabs"
	"github.com/tiancaiamao/chatconnector/pkg/connector"
	"github.com/tiancaiamao/chatconnector/pkg/followup"
	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// Action names accepted on the UI side.
const (
	ActionOpenTab    = "open-tab"
	ActionCloseTab   = "close-tab"
	ActionSwitchTab  = "switch-tab"
	ActionPrompt     = "prompt"
	ActionStop       = "stop"
	ActionClear      = "clear"
	ActionHelp       = "help"
	ActionVote       = "vote"
	ActionFeedback   = "feedback"
	ActionSourceLink = "source-link"
	ActionBodyLink   = "body-link"
	ActionInfoLink   = "info-link"
	ActionFollowUp   = "follow-up"
	ActionInsertCode = "insert-code"
	ActionCopyCode   = "copy-code"
	ActionListTabs   = "list-tabs"
)

var errNoTab = errors.New("no tab given and no active tab")

// Action is one UI intent read as a JSON line.
type Action struct {
	Action    string `json:"action"`
	TabID     string `json:"tabID,omitempty"`
	MessageID string `json:"messageId,omitempty"`

	Message string `json:"message,omitempty"` // prompt text
	Command string `json:"command,omitempty"` // quick action, e.g. "/dev"
	Link    string `json:"link,omitempty"`

	Vote           protocol.Vote            `json:"vote,omitempty"`
	SelectedOption string                   `json:"selectedOption,omitempty"`
	Comment        string                   `json:"comment,omitempty"`
	FollowUp       *protocol.FollowUpOption `json:"followUp,omitempty"`

	Code                string                       `json:"code,omitempty"`
	InsertionTargetType protocol.InsertionTargetType `json:"insertionTargetType,omitempty"`
	CodeReference       []protocol.CodeReference     `json:"codeReference,omitempty"`
	EventID             string                       `json:"eventId,omitempty"`
	CodeBlockIndex      *int                         `json:"codeBlockIndex,omitempty"`
	TotalCodeBlocks     *int                         `json:"totalCodeBlocks,omitempty"`
	UserIntent          string                       `json:"userIntent,omitempty"`
	CodeBlockLanguage   string                       `json:"codeBlockLanguage,omitempty"`
}

// bridge applies UI actions to one connector.
type bridge struct {
	conn      *connector.Connector
	tabs      *tabs.Registry
	followUps *followup.Generator
	emit      emitFunc
}

// HandleMessageReceive decodes one UI action line and applies it. Failures
// are reported back to the UI instead of stopping the loop.
func (b *bridge) HandleMessageReceive(ctx context.Context, data []byte) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		b.emit(UIEvent{Event: EventActionFailed, Message: fmt.Sprintf("invalid action: %v", err)})
		return
	}
	if err := b.apply(ctx, a); err != nil {
		slog.Warn("Action failed", "action", a.Action, "error", err)
		b.emit(UIEvent{Event: EventActionFailed, TabID: a.TabID, Message: err.Error(), Command: a.Action})
	}
}

func (b *bridge) apply(ctx context.Context, a Action) error {
	switch a.Action {
	case ActionOpenTab:
		b.openTab()
		return nil
	case ActionListTabs:
		active, _ := b.tabs.Active()
		b.emit(UIEvent{Event: EventTabList, TabID: active, Tabs: b.tabs.List()})
		return nil
	}

	tabID := a.TabID
	if tabID == "" {
		active, ok := b.tabs.Active()
		if !ok {
			return errNoTab
		}
		tabID = active
	}

	switch a.Action {
	case ActionCloseTab:
		// Tabs minted elsewhere are not in the registry; the host still hears about them.
		if b.tabs.Has(tabID) {
			if err := b.tabs.Close(tabID); err != nil {
				return err
			}
		}
		b.conn.TabRemoved(tabID)
		b.emit(UIEvent{Event: EventTabClosed, TabID: tabID})

	case ActionSwitchTab:
		prev, err := b.tabs.Activate(tabID)
		if err != nil {
			return fmt.Errorf("switch to %s: %w", tabID, err)
		}
		b.conn.TabChanged(tabID, prev)
		b.emit(UIEvent{Event: EventTabSwitched, TabID: tabID})

	case ActionPrompt:
		return b.conn.RequestGenerativeAIAnswer(ctx, tabID, connector.ChatPayload{
			ChatMessage: a.Message,
			ChatCommand: a.Command,
		})

	case ActionStop:
		b.conn.StopChatResponse(tabID)
	case ActionClear:
		b.conn.ClearChat(tabID)
	case ActionHelp:
		b.conn.Help(tabID)

	case ActionVote:
		if a.Vote != protocol.VoteUp && a.Vote != protocol.VoteDown {
			return fmt.Errorf("invalid vote %q", a.Vote)
		}
		b.conn.ChatItemVoted(tabID, a.MessageID, a.Vote)

	case ActionFeedback:
		b.conn.SendFeedback(tabID, connector.FeedbackPayload{
			MessageID:      a.MessageID,
			SelectedOption: a.SelectedOption,
			Comment:        a.Comment,
		})

	case ActionSourceLink:
		b.conn.SourceLinkClick(tabID, a.MessageID, a.Link)
	case ActionBodyLink:
		b.conn.ResponseBodyLinkClick(tabID, a.MessageID, a.Link)
	case ActionInfoLink:
		b.conn.InfoLinkClick(tabID, a.Link)

	case ActionFollowUp:
		if a.FollowUp == nil {
			return errors.New("follow-up action without followUp")
		}
		b.conn.FollowUpClicked(tabID, a.MessageID, *a.FollowUp)

	case ActionInsertCode:
		b.conn.CodeInsertedAtCursor(tabID, a.codeAction())
	case ActionCopyCode:
		b.conn.CodeCopiedToClipboard(tabID, a.codeAction())

	default:
		return fmt.Errorf("unknown action %q", a.Action)
	}
	return nil
}

// openTab mints a tab, announces it to the host and greets it with the
// welcome follow-ups.
func (b *bridge) openTab() string {
	tabID, prev := b.tabs.Open()
	b.conn.TabAdded(tabID)
	if prev != "" {
		b.conn.TabChanged(tabID, prev)
	}

	b.emit(UIEvent{Event: EventTabOpened, TabID: tabID})
	b.emit(UIEvent{
		Event: EventAnswer,
		TabID: tabID,
		Item: &protocol.ChatItem{
			Type:     protocol.ChatItemAnswer,
			FollowUp: b.followUps.WelcomeFollowUps(b.conn.TabType()),
		},
	})
	return tabID
}

func (a Action) codeAction() connector.CodeAction {
	return connector.CodeAction{
		MessageID:           a.MessageID,
		Code:                a.Code,
		InsertionTargetType: a.InsertionTargetType,
		CodeReference:       a.CodeReference,
		EventID:             a.EventID,
		CodeBlockIndex:      a.CodeBlockIndex,
		TotalCodeBlocks:     a.TotalCodeBlocks,
		UserIntent:          a.UserIntent,
		CodeBlockLanguage:   a.CodeBlockLanguage,
	}
}

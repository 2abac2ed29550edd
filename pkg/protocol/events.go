package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event type constants (host → UI).
const (
	EventErrorMessage                 = "errorMessage"
	EventShowInvalidTokenNotification = "showInvalidTokenNotification"
	EventChatMessage                  = "chatMessage"
	EventEditorContextCommandMessage  = "editorContextCommandMessage"
	EventAuthNeededException          = "authNeededException"
	EventOpenSettingsMessage          = "openSettingsMessage"
	EventFeatureConfigsAvailable      = "featureConfigsAvailableMessage"
)

// ErrUnknownEventType is returned by ParseEvent for a type this package does not know.
var ErrUnknownEventType = errors.New("unknown event type")

// Envelope is the raw inbound message as the host sends it. Every field
// except Type is optional on the wire.
type Envelope struct {
	Type   string `json:"type"`
	Sender string `json:"sender,omitempty"`
	TabID  string `json:"tabID,omitempty"`

	Message            *string           `json:"message,omitempty"`
	Title              string            `json:"title,omitempty"`
	MessageID          string            `json:"messageID,omitempty"`
	TriggerID          string            `json:"triggerID,omitempty"`
	RequestID          string            `json:"requestID,omitempty"`
	MessageType        ChatItemType      `json:"messageType,omitempty"`
	RelatedSuggestions []SourceLink      `json:"relatedSuggestions,omitempty"`
	CodeReference      []CodeReference   `json:"codeReference,omitempty"`
	FollowUps          []FollowUpOption  `json:"followUps,omitempty"`
	FollowUpsHeader    *string           `json:"followUpsHeader,omitempty"`
	UserIntent         string            `json:"userIntent,omitempty"`
	CodeBlockLanguage  string            `json:"codeBlockLanguage,omitempty"`
	AuthType           AuthFollowUpType  `json:"authType,omitempty"`
	HighlightCommand   *HighlightCommand `json:"highlightCommand,omitempty"`
	Command            string            `json:"command,omitempty"`
}

// AuthFollowUpType names the remediation an auth prompt should offer.
type AuthFollowUpType string

const (
	AuthFull             AuthFollowUpType = "full-auth"
	AuthReauth           AuthFollowUpType = "re-auth"
	AuthMissingScopes    AuthFollowUpType = "missing_scopes"
	AuthUseSupportedAuth AuthFollowUpType = "use-supported-auth"
)

// Event is one classified inbound message. The concrete types below are
// the only implementations.
type Event interface {
	EventType() string
}

// ErrorMessage asks the UI to show an error in a tab.
type ErrorMessage struct {
	TabID   string
	Message string
	Title   string
}

// InvalidTokenNotification asks the UI to warn that the session token is invalid.
type InvalidTokenNotification struct {
	TabID   string
	Message string
	Title   string
}

// ChatAnswer holds the fields shared by both chat message variants.
type ChatAnswer struct {
	TabID             string
	MessageID         string
	TriggerID         string
	RequestID         string
	MessageType       ChatItemType
	CodeReference     []CodeReference
	FollowUps         []FollowUpOption
	FollowUpsHeader   *string
	UserIntent        string
	CodeBlockLanguage string
}

// ChatContent is a chat message carrying a body, related suggestions or a
// code reference.
type ChatContent struct {
	ChatAnswer
	Body               *string
	RelatedSuggestions []SourceLink
}

// ChatStreamEnd is an empty answer that closes a stream.
type ChatStreamEnd struct {
	ChatAnswer
}

// ChatIgnored is a chat message with no content whose type is not answer.
// It is classified so callers can see it, but nothing handles it.
type ChatIgnored struct {
	ChatAnswer
}

// EditorContextCommand is a command triggered from the editor, such as
// "explain this code", that needs a tab.
type EditorContextCommand struct {
	TriggerID string
	Message   string
	Command   string
}

// AuthNeeded reports that the user must authenticate before chatting.
type AuthNeeded struct {
	TabID     string
	TriggerID string
	Message   string
	AuthType  AuthFollowUpType
}

// OpenSettings asks the UI to open the settings for a tab.
type OpenSettings struct {
	TabID string
}

// FeatureConfigsAvailable announces feature configuration from the host.
type FeatureConfigsAvailable struct {
	HighlightCommand *HighlightCommand
}

func (ErrorMessage) EventType() string             { return EventErrorMessage }
func (InvalidTokenNotification) EventType() string { return EventShowInvalidTokenNotification }
func (ChatContent) EventType() string              { return EventChatMessage }
func (ChatStreamEnd) EventType() string            { return EventChatMessage }
func (ChatIgnored) EventType() string              { return EventChatMessage }
func (EditorContextCommand) EventType() string     { return EventEditorContextCommandMessage }
func (AuthNeeded) EventType() string               { return EventAuthNeededException }
func (OpenSettings) EventType() string             { return EventOpenSettingsMessage }
func (FeatureConfigsAvailable) EventType() string  { return EventFeatureConfigsAvailable }

// ParseEvent decodes a raw host message and classifies it.
// An unknown type returns ErrUnknownEventType.
func ParseEvent(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return Classify(env)
}

// Classify turns a decoded envelope into its typed event.
func Classify(env Envelope) (Event, error) {
	switch env.Type {
	case EventErrorMessage:
		return ErrorMessage{TabID: env.TabID, Message: deref(env.Message), Title: env.Title}, nil

	case EventShowInvalidTokenNotification:
		return InvalidTokenNotification{TabID: env.TabID, Message: deref(env.Message), Title: env.Title}, nil

	case EventChatMessage:
		return classifyChat(env), nil

	case EventEditorContextCommandMessage:
		return EditorContextCommand{TriggerID: env.TriggerID, Message: deref(env.Message), Command: env.Command}, nil

	case EventAuthNeededException:
		return AuthNeeded{
			TabID:     env.TabID,
			TriggerID: env.TriggerID,
			Message:   deref(env.Message),
			AuthType:  env.AuthType,
		}, nil

	case EventOpenSettingsMessage:
		return OpenSettings{TabID: env.TabID}, nil

	case EventFeatureConfigsAvailable:
		return FeatureConfigsAvailable{HighlightCommand: env.HighlightCommand}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}
}

func classifyChat(env Envelope) Event {
	answer := ChatAnswer{
		TabID:             env.TabID,
		MessageID:         env.MessageID,
		TriggerID:         env.TriggerID,
		RequestID:         env.RequestID,
		MessageType:       env.MessageType,
		CodeReference:     env.CodeReference,
		FollowUps:         env.FollowUps,
		FollowUpsHeader:   env.FollowUpsHeader,
		UserIntent:        env.UserIntent,
		CodeBlockLanguage: env.CodeBlockLanguage,
	}

	if env.Message != nil || env.RelatedSuggestions != nil || env.CodeReference != nil {
		return ChatContent{
			ChatAnswer:         answer,
			Body:               env.Message,
			RelatedSuggestions: env.RelatedSuggestions,
		}
	}
	if env.MessageType == ChatItemAnswer {
		return ChatStreamEnd{ChatAnswer: answer}
	}
	return ChatIgnored{ChatAnswer: answer}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

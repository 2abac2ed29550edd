package main

import (
	"log/slog"

	"github.com/tiancaiamao/chatconnector/internal/tabs"
	"github.com/tiancaiamao/chatconnector/pkg/connector"
	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// UI event names written by listen.
const (
	EventAnswer         = "answer"
	EventError          = "error"
	EventWarning        = "warning"
	EventContextCommand = "contextCommand"
	EventOpenSettings   = "openSettings"
	EventFeatureConfigs = "featureConfigs"
	EventTabOpened      = "tabOpened"
	EventTabClosed      = "tabClosed"
	EventTabSwitched    = "tabSwitched"
	EventActionFailed   = "actionFailed"
	EventTabList        = "tabList"
)

// UIEvent is one line of listen's UI output.
type UIEvent struct {
	Event     string                     `json:"event"`
	TabID     string                     `json:"tabID,omitempty"`
	Item      *protocol.ChatItem         `json:"item,omitempty"`
	Message   string                     `json:"message,omitempty"`
	Title     string                     `json:"title,omitempty"`
	Command   string                     `json:"command,omitempty"`
	Highlight *protocol.HighlightCommand `json:"highlightCommand,omitempty"`
	Tabs      []string                   `json:"tabs,omitempty"`
}

type emitFunc func(ev UIEvent)

// newEmitter adapts a JSON-lines writer; write errors are logged.
func newEmitter(write func(v any) error) emitFunc {
	return func(ev UIEvent) {
		if err := write(ev); err != nil {
			slog.Error("Failed to write UI event", "event", ev.Event, "error", err)
		}
	}
}

// uiCallbacks turns connector callbacks into UI events. Context commands go
// to the active tab.
func uiCallbacks(emit emitFunc, registry *tabs.Registry) connector.Callbacks {
	return connector.Callbacks{
		OnChatAnswerReceived: func(tabID string, item protocol.ChatItem) {
			emit(UIEvent{Event: EventAnswer, TabID: tabID, Item: &item})
		},
		OnError: func(tabID, message, title string) {
			emit(UIEvent{Event: EventError, TabID: tabID, Message: message, Title: title})
		},
		OnWarning: func(tabID, message, title string) {
			emit(UIEvent{Event: EventWarning, TabID: tabID, Message: message, Title: title})
		},
		OnContextCommand: func(item protocol.ChatItem, command string) (string, bool) {
			tabID, ok := registry.Active()
			if !ok {
				return "", false
			}
			emit(UIEvent{Event: EventContextCommand, TabID: tabID, Item: &item, Command: command})
			return tabID, true
		},
		OnOpenSettings: func(tabID string) {
			emit(UIEvent{Event: EventOpenSettings, TabID: tabID})
		},
		OnFeatureConfigsAvailable: func(highlight *protocol.HighlightCommand) {
			emit(UIEvent{Event: EventFeatureConfigs, Highlight: highlight})
		},
	}
}

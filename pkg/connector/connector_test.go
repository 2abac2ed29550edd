package connector_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiancaiamao/chatconnector/pkg/connector"
	"github.com/tiancaiamao/chatconnector/pkg/correlation"
	"github.com/tiancaiamao/chatconnector/pkg/followup"
	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// recordingSender records every command handed to it.
type recordingSender struct {
	mu   sync.Mutex
	sent []protocol.Command
}

func (r *recordingSender) Send(cmd protocol.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, cmd)
}

func (r *recordingSender) commands() []protocol.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Command(nil), r.sent...)
}

type answer struct {
	tabID string
	item  protocol.ChatItem
}

// uiRecorder collects every callback invocation.
type uiRecorder struct {
	answers  []answer
	errors   []string
	warnings []string
	settings []string
	features []*protocol.HighlightCommand
	context  []protocol.ChatItem

	contextTab string
	contextOK  bool
}

func (u *uiRecorder) callbacks() connector.Callbacks {
	return connector.Callbacks{
		OnChatAnswerReceived: func(tabID string, item protocol.ChatItem) {
			u.answers = append(u.answers, answer{tabID: tabID, item: item})
		},
		OnError: func(tabID, message, title string) {
			u.errors = append(u.errors, tabID+"|"+message+"|"+title)
		},
		OnWarning: func(tabID, message, title string) {
			u.warnings = append(u.warnings, tabID+"|"+message+"|"+title)
		},
		OnContextCommand: func(item protocol.ChatItem, command string) (string, bool) {
			u.context = append(u.context, item)
			return u.contextTab, u.contextOK
		},
		OnOpenSettings: func(tabID string) {
			u.settings = append(u.settings, tabID)
		},
		OnFeatureConfigsAvailable: func(h *protocol.HighlightCommand) {
			u.features = append(u.features, h)
		},
	}
}

func (u *uiRecorder) invocations() int {
	return len(u.answers) + len(u.errors) + len(u.warnings) + len(u.settings) + len(u.features) + len(u.context)
}

func newTestConnector(t *testing.T) (*connector.Connector, *recordingSender, *uiRecorder) {
	t.Helper()
	sender := &recordingSender{}
	ui := &uiRecorder{}
	c := connector.New(sender, ui.callbacks())
	return c, sender, ui
}

func receive(t *testing.T, c *connector.Connector, msg map[string]any) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	c.HandleMessageReceive(context.Background(), data)
	c.Wait()
}

func TestEmitterCommands(t *testing.T) {
	idx, total := 1, 3
	tests := []struct {
		name    string
		emit    func(c *connector.Connector)
		command string
		check   func(t *testing.T, cmd protocol.Command)
	}{
		{
			name:    "source link",
			emit:    func(c *connector.Connector) { c.SourceLinkClick("tab-1", "m1", "https://example.com") },
			command: protocol.CommandSourceLinkClick,
			check: func(t *testing.T, cmd protocol.Command) {
				assert.Equal(t, "m1", cmd.MessageID)
				assert.Equal(t, "https://example.com", cmd.Link)
			},
		},
		{
			name:    "response body link",
			emit:    func(c *connector.Connector) { c.ResponseBodyLinkClick("tab-1", "m1", "https://example.com/b") },
			command: protocol.CommandResponseBodyLinkClick,
			check: func(t *testing.T, cmd protocol.Command) {
				assert.Equal(t, "https://example.com/b", cmd.Link)
			},
		},
		{
			name:    "footer info link",
			emit:    func(c *connector.Connector) { c.InfoLinkClick("tab-1", "https://example.com/info") },
			command: protocol.CommandFooterInfoLinkClick,
			check: func(t *testing.T, cmd protocol.Command) {
				assert.Equal(t, "https://example.com/info", cmd.Link)
				assert.Empty(t, cmd.MessageID)
			},
		},
		{
			name: "follow up",
			emit: func(c *connector.Connector) {
				c.FollowUpClicked("tab-1", "m1", protocol.FollowUpOption{PillText: "more", Prompt: "tell me more"})
			},
			command: protocol.CommandFollowUpClicked,
			check: func(t *testing.T, cmd protocol.Command) {
				require.NotNil(t, cmd.FollowUp)
				assert.Equal(t, "tell me more", cmd.FollowUp.Prompt)
			},
		},
		{
			name:    "new tab",
			emit:    func(c *connector.Connector) { c.TabAdded("tab-1") },
			command: protocol.CommandNewTabCreated,
		},
		{
			name: "insert code",
			emit: func(c *connector.Connector) {
				c.CodeInsertedAtCursor("tab-1", connector.CodeAction{
					MessageID:           "m1",
					Code:                "fmt.Println()",
					InsertionTargetType: protocol.InsertionBlock,
					EventID:             "e1",
					CodeBlockIndex:      &idx,
					TotalCodeBlocks:     &total,
					CodeBlockLanguage:   "go",
				})
			},
			command: protocol.CommandInsertCodeAtCursor,
			check: func(t *testing.T, cmd protocol.Command) {
				assert.Equal(t, "fmt.Println()", cmd.Code)
				assert.Equal(t, protocol.InsertionBlock, cmd.InsertionTargetType)
				assert.Equal(t, "e1", cmd.EventID)
				require.NotNil(t, cmd.CodeBlockIndex)
				assert.Equal(t, 1, *cmd.CodeBlockIndex)
				require.NotNil(t, cmd.TotalCodeBlocks)
				assert.Equal(t, 3, *cmd.TotalCodeBlocks)
				assert.Equal(t, "go", cmd.CodeBlockLanguage)
			},
		},
		{
			name: "copy code",
			emit: func(c *connector.Connector) {
				c.CodeCopiedToClipboard("tab-1", connector.CodeAction{MessageID: "m1", Code: "x := 1", InsertionTargetType: protocol.InsertionSelection})
			},
			command: protocol.CommandCodeCopiedToClipboard,
			check: func(t *testing.T, cmd protocol.Command) {
				assert.Equal(t, "x := 1", cmd.Code)
				assert.Equal(t, protocol.InsertionSelection, cmd.InsertionTargetType)
			},
		},
		{
			name:    "tab removed",
			emit:    func(c *connector.Connector) { c.TabRemoved("tab-1") },
			command: protocol.CommandTabRemoved,
		},
		{
			name:    "tab changed",
			emit:    func(c *connector.Connector) { c.TabChanged("tab-1", "tab-0") },
			command: protocol.CommandTabChanged,
			check: func(t *testing.T, cmd protocol.Command) {
				assert.Equal(t, "tab-0", cmd.PrevTabID)
			},
		},
		{
			name:    "stop response",
			emit:    func(c *connector.Connector) { c.StopChatResponse("tab-1") },
			command: protocol.CommandStopResponse,
		},
		{
			name:    "vote",
			emit:    func(c *connector.Connector) { c.ChatItemVoted("tab-1", "m1", protocol.VoteUp) },
			command: protocol.CommandChatItemVoted,
			check: func(t *testing.T, cmd protocol.Command) {
				assert.Equal(t, protocol.VoteUp, cmd.Vote)
				assert.Equal(t, "m1", cmd.MessageID)
			},
		},
		{
			name: "feedback",
			emit: func(c *connector.Connector) {
				c.SendFeedback("tab-1", connector.FeedbackPayload{MessageID: "m1", SelectedOption: "inaccurate", Comment: "wrong api"})
			},
			command: protocol.CommandChatItemFeedback,
			check: func(t *testing.T, cmd protocol.Command) {
				assert.Equal(t, "inaccurate", cmd.SelectedOption)
				assert.Equal(t, "wrong api", cmd.Comment)
			},
		},
		{
			name: "chat prompt",
			emit: func(c *connector.Connector) {
				err := c.RequestGenerativeAIAnswer(context.Background(), "tab-1", connector.ChatPayload{ChatMessage: "hi", ChatCommand: "/dev"})
				if err != nil {
					panic(err)
				}
			},
			command: protocol.CommandChatPrompt,
			check: func(t *testing.T, cmd protocol.Command) {
				require.NotNil(t, cmd.ChatMessage)
				assert.Equal(t, "hi", *cmd.ChatMessage)
				assert.Equal(t, "/dev", cmd.ChatCommand)
			},
		},
		{
			name:    "clear",
			emit:    func(c *connector.Connector) { c.ClearChat("tab-1") },
			command: protocol.CommandClear,
			check: func(t *testing.T, cmd protocol.Command) {
				require.NotNil(t, cmd.ChatMessage)
				assert.Equal(t, "", *cmd.ChatMessage)
			},
		},
		{
			name:    "help",
			emit:    func(c *connector.Connector) { c.Help("tab-1") },
			command: protocol.CommandHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sender, _ := newTestConnector(t)
			tt.emit(c)

			sent := sender.commands()
			require.Len(t, sent, 1)
			assert.Equal(t, tt.command, sent[0].Command)
			assert.Equal(t, protocol.TabTypeChat, sent[0].TabType)
			assert.Equal(t, "tab-1", sent[0].TabID)
			if tt.check != nil {
				tt.check(t, sent[0])
			}
		})
	}
}

func TestEmitterUsesConfiguredTabType(t *testing.T) {
	sender := &recordingSender{}
	c := connector.New(sender, connector.Callbacks{}, connector.WithTabType("review"))
	c.TabAdded("tab-1")

	sent := sender.commands()
	require.Len(t, sent, 1)
	assert.Equal(t, "review", sent[0].TabType)
	assert.Equal(t, "review", c.TabType())
}

func TestRequestGenerativeAIAnswerCanceled(t *testing.T) {
	c, sender, _ := newTestConnector(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.RequestGenerativeAIAnswer(ctx, "tab-1", connector.ChatPayload{ChatMessage: "hi"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.commands())
}

func TestChatMessageAnswer(t *testing.T) {
	c, sender, ui := newTestConnector(t)

	receive(t, c, map[string]any{
		"type":        "chatMessage",
		"tabID":       "tab-1",
		"message":     "hello",
		"messageType": "answer",
		"messageID":   "m1",
	})

	require.Len(t, ui.answers, 1)
	got := ui.answers[0]
	assert.Equal(t, "tab-1", got.tabID)
	require.NotNil(t, got.item.Body)
	assert.Equal(t, "hello", *got.item.Body)
	assert.Equal(t, "m1", got.item.MessageID)
	assert.Equal(t, protocol.ChatItemAnswer, got.item.Type)
	assert.True(t, got.item.CanBeVoted)
	assert.Nil(t, got.item.FollowUp)
	assert.Nil(t, got.item.RelatedContent)
	assert.Empty(t, sender.commands())
}

func TestChatMessageFollowUps(t *testing.T) {
	t.Run("default header", func(t *testing.T) {
		c, _, ui := newTestConnector(t)
		receive(t, c, map[string]any{
			"type":        "chatMessage",
			"tabID":       "tab-1",
			"message":     "hello",
			"messageType": "answer",
			"messageID":   "m1",
			"followUps":   []map[string]any{{"pillText": "a"}, {"pillText": "b"}},
		})

		require.Len(t, ui.answers, 1)
		fu := ui.answers[0].item.FollowUp
		require.NotNil(t, fu)
		assert.Equal(t, "Suggested follow up questions:", fu.Text)
		require.Len(t, fu.Options, 2)
		assert.Equal(t, "a", fu.Options[0].PillText)
		assert.Equal(t, "b", fu.Options[1].PillText)
	})

	t.Run("custom header", func(t *testing.T) {
		c, _, ui := newTestConnector(t)
		receive(t, c, map[string]any{
			"type":            "chatMessage",
			"tabID":           "tab-1",
			"message":         "hello",
			"messageType":     "answer",
			"followUps":       []map[string]any{{"pillText": "a"}},
			"followUpsHeader": "Try next:",
		})
		require.Len(t, ui.answers, 1)
		require.NotNil(t, ui.answers[0].item.FollowUp)
		assert.Equal(t, "Try next:", ui.answers[0].item.FollowUp.Text)
	})

	t.Run("empty list", func(t *testing.T) {
		c, _, ui := newTestConnector(t)
		receive(t, c, map[string]any{
			"type":        "chatMessage",
			"tabID":       "tab-1",
			"message":     "hello",
			"messageType": "answer",
			"followUps":   []map[string]any{},
		})
		require.Len(t, ui.answers, 1)
		assert.Nil(t, ui.answers[0].item.FollowUp)
	})
}

func TestChatMessageRelatedSuggestions(t *testing.T) {
	c, _, ui := newTestConnector(t)
	receive(t, c, map[string]any{
		"type":        "chatMessage",
		"tabID":       "tab-1",
		"messageType": "answer-part",
		"triggerID":   "trigger-9",
		"relatedSuggestions": []map[string]any{
			{"title": "Effective Go", "url": "https://go.dev/doc/effective_go"},
		},
	})

	require.Len(t, ui.answers, 1)
	item := ui.answers[0].item
	assert.Nil(t, item.Body)
	assert.Equal(t, "trigger-9", item.MessageID)
	assert.True(t, item.CanBeVoted)
	require.NotNil(t, item.RelatedContent)
	assert.Equal(t, "Sources", item.RelatedContent.Title)
	require.Len(t, item.RelatedContent.Content, 1)
	assert.Equal(t, "https://go.dev/doc/effective_go", item.RelatedContent.Content[0].URL)
}

func TestChatMessageStreamEnd(t *testing.T) {
	c, _, ui := newTestConnector(t)
	receive(t, c, map[string]any{
		"type":              "chatMessage",
		"tabID":             "tab-1",
		"messageType":       "answer",
		"messageID":         "m1",
		"userIntent":        "EXPLAIN_CODE_SELECTION",
		"codeBlockLanguage": "go",
		"followUps":         []map[string]any{{"pillText": "a"}},
		"followUpsHeader":   "ignored for stream end",
	})

	require.Len(t, ui.answers, 1)
	item := ui.answers[0].item
	assert.Equal(t, protocol.ChatItemAnswer, item.Type)
	assert.Nil(t, item.Body)
	assert.Nil(t, item.RelatedContent)
	assert.Equal(t, "m1", item.MessageID)
	assert.Equal(t, "EXPLAIN_CODE_SELECTION", item.UserIntent)
	assert.Equal(t, "go", item.CodeBlockLanguage)
	assert.False(t, item.CanBeVoted)
	require.NotNil(t, item.FollowUp)
	assert.Equal(t, protocol.DefaultFollowUpsHeader, item.FollowUp.Text)
}

func TestChatMessageWithoutContentIsIgnored(t *testing.T) {
	c, sender, ui := newTestConnector(t)
	receive(t, c, map[string]any{
		"type":        "chatMessage",
		"tabID":       "tab-1",
		"messageType": "answer-part",
	})
	assert.Zero(t, ui.invocations())
	assert.Empty(t, sender.commands())
}

func TestSystemPromptSendsTriggerProcessed(t *testing.T) {
	for _, messageType := range []string{"system-prompt", "ai-prompt"} {
		t.Run(messageType, func(t *testing.T) {
			c, sender, ui := newTestConnector(t)
			receive(t, c, map[string]any{
				"type":        "chatMessage",
				"tabID":       "tab-1",
				"message":     "Explain this",
				"messageType": messageType,
				"requestID":   "r1",
			})

			require.Len(t, ui.answers, 1)
			sent := sender.commands()
			require.Len(t, sent, 1)
			assert.Equal(t, protocol.CommandTriggerMessageProcessed, sent[0].Command)
			assert.Equal(t, "r1", sent[0].RequestID)
			assert.Equal(t, protocol.TabTypeChat, sent[0].TabType)
		})
	}
}

func TestSystemPromptAfterCancelSkipsAck(t *testing.T) {
	c, sender, ui := newTestConnector(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.HandleMessageReceive(ctx, []byte(`{"type":"chatMessage","tabID":"tab-1","message":"Explain this","messageType":"system-prompt","requestID":"r1"}`))
	c.Wait()

	require.Len(t, ui.answers, 1, "the answer itself is still delivered")
	assert.Empty(t, sender.commands())
}

func TestChatMessageWithoutAnswerCallback(t *testing.T) {
	sender := &recordingSender{}
	c := connector.New(sender, connector.Callbacks{})

	data := []byte(`{"type":"chatMessage","tabID":"tab-1","message":"x","messageType":"system-prompt","requestID":"r1"}`)
	c.HandleMessageReceive(context.Background(), data)
	c.HandleMessageReceive(context.Background(), []byte(`{"type":"authNeededException","tabID":"tab-1","authType":"full-auth"}`))
	c.Wait()

	assert.Empty(t, sender.commands())
}

func TestEditorContextCommand(t *testing.T) {
	t.Run("no tab available", func(t *testing.T) {
		c, sender, ui := newTestConnector(t)
		receive(t, c, map[string]any{
			"type":      "editorContextCommandMessage",
			"message":   "Explain this code",
			"command":   "aws.amazonq.explainCode",
			"triggerID": "trigger-1",
		})

		require.Len(t, ui.context, 1)
		assert.Equal(t, protocol.ChatItemPrompt, ui.context[0].Type)
		require.NotNil(t, ui.context[0].Body)
		assert.Equal(t, "Explain this code", *ui.context[0].Body)

		sent := sender.commands()
		require.Len(t, sent, 1)
		assert.Equal(t, protocol.CommandTriggerTabIDReceived, sent[0].Command)
		assert.Equal(t, protocol.NoAvailableTabs, sent[0].TabID)
		assert.Equal(t, "trigger-1", sent[0].TriggerID)
		assert.Zero(t, c.Tracker().Len())
	})

	t.Run("no callback", func(t *testing.T) {
		sender := &recordingSender{}
		c := connector.New(sender, connector.Callbacks{})
		c.HandleMessageReceive(context.Background(), []byte(`{"type":"editorContextCommandMessage","message":"m","triggerID":"t"}`))

		sent := sender.commands()
		require.Len(t, sent, 1)
		assert.Equal(t, protocol.NoAvailableTabs, sent[0].TabID)
	})

	t.Run("resolved tab routes later answers", func(t *testing.T) {
		c, sender, ui := newTestConnector(t)
		ui.contextTab, ui.contextOK = "tab-7", true

		receive(t, c, map[string]any{
			"type":      "editorContextCommandMessage",
			"message":   "Explain this code",
			"triggerID": "trigger-2",
		})

		sent := sender.commands()
		require.Len(t, sent, 1)
		assert.Equal(t, "tab-7", sent[0].TabID)
		assert.Equal(t, "trigger-2", sent[0].TriggerID)

		receive(t, c, map[string]any{
			"type":        "chatMessage",
			"triggerID":   "trigger-2",
			"message":     "partial",
			"messageType": "answer-stream",
		})
		receive(t, c, map[string]any{
			"type":        "chatMessage",
			"triggerID":   "trigger-2",
			"messageType": "answer",
		})

		require.Len(t, ui.answers, 2)
		assert.Equal(t, "tab-7", ui.answers[0].tabID)
		assert.Equal(t, "tab-7", ui.answers[1].tabID)
		assert.Zero(t, c.Tracker().Len(), "stream end should release the trigger")
	})
}

func TestAuthNeededException(t *testing.T) {
	c, sender, ui := newTestConnector(t)
	receive(t, c, map[string]any{
		"type":      "authNeededException",
		"tabID":     "tab-1",
		"triggerID": "trigger-3",
		"message":   "Please sign in",
		"authType":  "re-auth",
	})

	require.Len(t, ui.answers, 1)
	item := ui.answers[0].item
	assert.Equal(t, protocol.ChatItemSystemPrompt, item.Type)
	assert.False(t, item.CanBeVoted)
	assert.Equal(t, "trigger-3", item.MessageID)
	require.NotNil(t, item.Body)
	assert.Equal(t, "Please sign in", *item.Body)
	require.NotNil(t, item.FollowUp)
	require.NotEmpty(t, item.FollowUp.Options)
	assert.Equal(t, "Re-authenticate", item.FollowUp.Options[0].PillText)
	assert.Equal(t, "re-auth", item.FollowUp.Options[0].Type)
	assert.Empty(t, sender.commands())
}

func TestAuthNeededUsesConfiguredGenerator(t *testing.T) {
	sender := &recordingSender{}
	ui := &uiRecorder{}
	c := connector.New(sender, ui.callbacks(), connector.WithFollowUpGenerator(followup.NewGenerator("Acme")))

	receive(t, c, map[string]any{"type": "authNeededException", "tabID": "tab-1", "authType": "missing_scopes"})
	require.Len(t, ui.answers, 1)
	assert.Equal(t, "Enable Acme", ui.answers[0].item.FollowUp.Options[0].PillText)
}

func TestNotificationCallbacks(t *testing.T) {
	c, sender, ui := newTestConnector(t)

	receive(t, c, map[string]any{"type": "errorMessage", "tabID": "tab-1", "message": "boom", "title": "Error"})
	receive(t, c, map[string]any{"type": "showInvalidTokenNotification", "tabID": "tab-2", "message": "expired", "title": "Token"})
	receive(t, c, map[string]any{"type": "openSettingsMessage", "tabID": "tab-3"})
	receive(t, c, map[string]any{
		"type":             "featureConfigsAvailableMessage",
		"highlightCommand": map[string]any{"command": "/dev", "description": "Build features"},
	})
	receive(t, c, map[string]any{"type": "featureConfigsAvailableMessage"})

	assert.Equal(t, []string{"tab-1|boom|Error"}, ui.errors)
	assert.Equal(t, []string{"tab-2|expired|Token"}, ui.warnings)
	assert.Equal(t, []string{"tab-3"}, ui.settings)
	require.Len(t, ui.features, 2)
	require.NotNil(t, ui.features[0])
	assert.Equal(t, "/dev", ui.features[0].Command)
	assert.Nil(t, ui.features[1])
	assert.Empty(t, ui.answers)
	assert.Empty(t, sender.commands())
}

func TestUnrecognizedMessagesAreIgnored(t *testing.T) {
	c, sender, ui := newTestConnector(t)

	inputs := [][]byte{
		[]byte(`{"type":"somethingNew","tabID":"tab-1","message":"hi"}`),
		[]byte(`{"tabID":"tab-1"}`),
		[]byte(`not json`),
		[]byte(`{"type":"chatMessage","followUps":"not a list"}`),
	}
	for _, in := range inputs {
		c.HandleMessageReceive(context.Background(), in)
		c.HandleMessageReceive(context.Background(), in)
	}
	c.Wait()

	assert.Zero(t, ui.invocations())
	assert.Empty(t, sender.commands())
}

func TestSharedTracker(t *testing.T) {
	tracker := correlation.NewTracker(0)
	sender := &recordingSender{}
	ui := &uiRecorder{contextTab: "tab-9", contextOK: true}
	c := connector.New(sender, ui.callbacks(), connector.WithTracker(tracker))

	receive(t, c, map[string]any{"type": "editorContextCommandMessage", "message": "m", "triggerID": "t-1"})

	got, ok := tracker.Lookup("t-1")
	require.True(t, ok)
	assert.Equal(t, "tab-9", got)
	assert.Same(t, tracker, c.Tracker())
}

func TestMetrics(t *testing.T) {
	c, _, ui := newTestConnector(t)
	ui.contextTab, ui.contextOK = "tab-1", true

	c.TabAdded("tab-1")
	c.TabAdded("tab-2")
	receive(t, c, map[string]any{"type": "editorContextCommandMessage", "message": "m", "triggerID": "t-1"})
	receive(t, c, map[string]any{"type": "chatMessage", "triggerID": "t-1", "message": "hi"})
	receive(t, c, map[string]any{"type": "chatMessage", "tabID": "tab-1"})
	c.HandleMessageReceive(context.Background(), []byte(`{"type":"somethingNew"}`))
	c.HandleMessageReceive(context.Background(), []byte(`not json`))
	c.Wait()

	m := c.Metrics()
	assert.Equal(t, int64(2), m.Commands[protocol.CommandNewTabCreated])
	assert.Equal(t, int64(1), m.Commands[protocol.CommandTriggerTabIDReceived])
	assert.Equal(t, int64(2), m.Events[protocol.EventChatMessage])
	assert.Equal(t, int64(1), m.Events[protocol.EventEditorContextCommandMessage])
	assert.Equal(t, int64(1), m.IgnoredChats)
	assert.Equal(t, int64(1), m.UnknownEvents)
	assert.Equal(t, int64(1), m.MalformedEvents)
	assert.Equal(t, 1, m.TrackedTriggers)

	// Snapshots are copies.
	m.Events[protocol.EventChatMessage] = 100
	assert.Equal(t, int64(2), c.Metrics().Events[protocol.EventChatMessage])
}

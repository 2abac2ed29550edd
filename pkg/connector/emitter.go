package connector

import (
	"context"

	"github.com/tiancaiamao/chatconnector/pkg/protocol"
)

// CodeAction describes a code block the user inserted or copied.
type CodeAction struct {
	MessageID           string
	Code                string
	InsertionTargetType protocol.InsertionTargetType
	CodeReference       []protocol.CodeReference
	EventID             string
	CodeBlockIndex      *int
	TotalCodeBlocks     *int
	UserIntent          string
	CodeBlockLanguage   string
}

// FeedbackPayload is the user's written feedback on an answer.
type FeedbackPayload struct {
	MessageID      string
	SelectedOption string
	Comment        string
}

// ChatPayload is a prompt typed by the user.
type ChatPayload struct {
	ChatMessage string
	ChatCommand string // quick action such as "/help", may be empty
}

// SourceLinkClick reports a click on a source link of an answer.
func (c *Connector) SourceLinkClick(tabID, messageID, link string) {
	c.send(protocol.Command{
		Command:   protocol.CommandSourceLinkClick,
		TabID:     tabID,
		MessageID: messageID,
		Link:      link,
	})
}

// ResponseBodyLinkClick reports a click on a link inside an answer body.
func (c *Connector) ResponseBodyLinkClick(tabID, messageID, link string) {
	c.send(protocol.Command{
		Command:   protocol.CommandResponseBodyLinkClick,
		TabID:     tabID,
		MessageID: messageID,
		Link:      link,
	})
}

// InfoLinkClick reports a click on a footer info link.
func (c *Connector) InfoLinkClick(tabID, link string) {
	c.send(protocol.Command{
		Command: protocol.CommandFooterInfoLinkClick,
		TabID:   tabID,
		Link:    link,
	})
}

// FollowUpClicked reports that the user picked a follow-up.
func (c *Connector) FollowUpClicked(tabID, messageID string, followUp protocol.FollowUpOption) {
	c.send(protocol.Command{
		Command:   protocol.CommandFollowUpClicked,
		TabID:     tabID,
		MessageID: messageID,
		FollowUp:  &followUp,
	})
}

// TabAdded reports a newly created tab.
func (c *Connector) TabAdded(tabID string) {
	c.send(protocol.Command{
		Command: protocol.CommandNewTabCreated,
		TabID:   tabID,
	})
}

// CodeInsertedAtCursor asks the host to insert code at the editor cursor.
func (c *Connector) CodeInsertedAtCursor(tabID string, action CodeAction) {
	c.send(codeCommand(protocol.CommandInsertCodeAtCursor, tabID, action))
}

// CodeCopiedToClipboard reports that code was copied from an answer.
func (c *Connector) CodeCopiedToClipboard(tabID string, action CodeAction) {
	c.send(codeCommand(protocol.CommandCodeCopiedToClipboard, tabID, action))
}

func codeCommand(command, tabID string, action CodeAction) protocol.Command {
	return protocol.Command{
		Command:             command,
		TabID:               tabID,
		MessageID:           action.MessageID,
		Code:                action.Code,
		InsertionTargetType: action.InsertionTargetType,
		CodeReference:       action.CodeReference,
		EventID:             action.EventID,
		CodeBlockIndex:      action.CodeBlockIndex,
		TotalCodeBlocks:     action.TotalCodeBlocks,
		UserIntent:          action.UserIntent,
		CodeBlockLanguage:   action.CodeBlockLanguage,
	}
}

// TabRemoved reports a closed tab.
func (c *Connector) TabRemoved(tabID string) {
	c.send(protocol.Command{
		Command: protocol.CommandTabRemoved,
		TabID:   tabID,
	})
}

// TabChanged reports a switch to tabID. prevTabID may be empty.
func (c *Connector) TabChanged(tabID, prevTabID string) {
	c.send(protocol.Command{
		Command:   protocol.CommandTabChanged,
		TabID:     tabID,
		PrevTabID: prevTabID,
	})
}

// StopChatResponse tells the host the user stopped the answer in tabID.
// Nothing is cancelled locally.
func (c *Connector) StopChatResponse(tabID string) {
	c.send(protocol.Command{
		Command: protocol.CommandStopResponse,
		TabID:   tabID,
	})
}

// ChatItemVoted reports an up or down vote on an answer.
func (c *Connector) ChatItemVoted(tabID, messageID string, vote protocol.Vote) {
	c.send(protocol.Command{
		Command:   protocol.CommandChatItemVoted,
		TabID:     tabID,
		MessageID: messageID,
		Vote:      vote,
	})
}

// SendFeedback reports written feedback on an answer.
func (c *Connector) SendFeedback(tabID string, feedback FeedbackPayload) {
	c.send(protocol.Command{
		Command:        protocol.CommandChatItemFeedback,
		TabID:          tabID,
		MessageID:      feedback.MessageID,
		SelectedOption: feedback.SelectedOption,
		Comment:        feedback.Comment,
	})
}

// RequestGenerativeAIAnswer submits a prompt. It returns once the prompt
// is handed to the sender; the answer arrives later through
// HandleMessageReceive and may never arrive at all.
func (c *Connector) RequestGenerativeAIAnswer(ctx context.Context, tabID string, payload ChatPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.send(protocol.Command{
		Command:     protocol.CommandChatPrompt,
		TabID:       tabID,
		ChatMessage: protocol.Ptr(payload.ChatMessage),
		ChatCommand: payload.ChatCommand,
	})
	return nil
}

// ClearChat asks the host to clear the conversation in tabID.
func (c *Connector) ClearChat(tabID string) {
	c.send(protocol.Command{
		Command:     protocol.CommandClear,
		TabID:       tabID,
		ChatMessage: protocol.Ptr(""),
	})
}

// Help asks the host for the help answer in tabID.
func (c *Connector) Help(tabID string) {
	c.send(protocol.Command{
		Command:     protocol.CommandHelp,
		TabID:       tabID,
		ChatMessage: protocol.Ptr(""),
	})
}

package protocol

// Command type constants. These strings are the wire contract with the host
// extension and must not change.
const (
	CommandSourceLinkClick         = "source-link-click"
	CommandResponseBodyLinkClick   = "response-body-link-click"
	CommandFooterInfoLinkClick     = "footer-info-link-click"
	CommandFollowUpClicked         = "follow-up-was-clicked"
	CommandNewTabCreated           = "new-tab-was-created"
	CommandInsertCodeAtCursor      = "insert_code_at_cursor_position"
	CommandCodeCopiedToClipboard   = "code_was_copied_to_clipboard"
	CommandTabRemoved              = "tab-was-removed"
	CommandTabChanged              = "tab-was-changed"
	CommandStopResponse            = "stop-response"
	CommandChatItemVoted           = "chat-item-voted"
	CommandChatItemFeedback        = "chat-item-feedback"
	CommandChatPrompt              = "chat-prompt"
	CommandClear                   = "clear"
	CommandHelp                    = "help"
	CommandTriggerMessageProcessed = "trigger-message-processed"
	CommandTriggerTabIDReceived    = "trigger-tabID-received"
)

const (
	// TabTypeChat is the channel discriminator stamped on every command.
	TabTypeChat = "cwc"
	// SenderChat is the sender name the host uses for this channel.
	SenderChat = "CWChat"
	// NoAvailableTabs is sent instead of a tab id when no tab took a context command.
	NoAvailableTabs = "no-available-tabs"
	// DefaultFollowUpsHeader is used when an answer carries follow-ups without a header.
	DefaultFollowUpsHeader = "Suggested follow up questions:"
	// RelatedContentTitle titles the related-suggestion block of an answer.
	RelatedContentTitle = "Sources"
)

// ChatItemType is the kind of a chat turn.
type ChatItemType string

const (
	ChatItemPrompt       ChatItemType = "prompt"
	ChatItemAnswer       ChatItemType = "answer"
	ChatItemAnswerPart   ChatItemType = "answer-part"
	ChatItemAnswerStream ChatItemType = "answer-stream"
	ChatItemSystemPrompt ChatItemType = "system-prompt"
	ChatItemAIPrompt     ChatItemType = "ai-prompt"
)

// InsertionTargetType describes what part of an answer a code action used.
type InsertionTargetType string

const (
	InsertionSelection InsertionTargetType = "selection"
	InsertionBlock     InsertionTargetType = "block"
)

// Vote is the value of a chat-item-voted command.
type Vote string

const (
	VoteUp   Vote = "upvote"
	VoteDown Vote = "downvote"
)

// Command is an outbound envelope sent from the UI to the host.
type Command struct {
	Command string `json:"command"`
	TabID   string `json:"tabID,omitempty"`
	TabType string `json:"tabType"`

	MessageID           string              `json:"messageId,omitempty"`
	Link                string              `json:"link,omitempty"`
	FollowUp            *FollowUpOption     `json:"followUp,omitempty"`
	Code                string              `json:"code,omitempty"`
	InsertionTargetType InsertionTargetType `json:"insertionTargetType,omitempty"`
	CodeReference       []CodeReference     `json:"codeReference,omitempty"`
	EventID             string              `json:"eventId,omitempty"`
	CodeBlockIndex      *int                `json:"codeBlockIndex,omitempty"`
	TotalCodeBlocks     *int                `json:"totalCodeBlocks,omitempty"`
	UserIntent          string              `json:"userIntent,omitempty"`
	CodeBlockLanguage   string              `json:"codeBlockLanguage,omitempty"`
	PrevTabID           string              `json:"prevTabID,omitempty"`
	Vote                Vote                `json:"vote,omitempty"`
	SelectedOption      string              `json:"selectedOption,omitempty"`
	Comment             string              `json:"comment,omitempty"`
	ChatMessage         *string             `json:"chatMessage,omitempty"` // clear and help send ""
	ChatCommand         string              `json:"chatCommand,omitempty"`
	RequestID           string              `json:"requestID,omitempty"`
	TriggerID           string              `json:"triggerID,omitempty"`
}

// FollowUpOption is a single suggested action shown under a chat item.
type FollowUpOption struct {
	Type        string `json:"type,omitempty"`
	PillText    string `json:"pillText"`
	Prompt      string `json:"prompt,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"` // "info", "success", "warning", "error"
	Disabled    bool   `json:"disabled,omitempty"`
}

// FollowUpBlock groups follow-up options under a header text.
type FollowUpBlock struct {
	Text    string           `json:"text"`
	Options []FollowUpOption `json:"options"`
}

// CodeReference attributes a span of generated code to a licensed source.
type CodeReference struct {
	LicenseName               string       `json:"licenseName,omitempty"`
	Repository                string       `json:"repository,omitempty"`
	URL                       string       `json:"url,omitempty"`
	Information               string       `json:"information,omitempty"`
	RecommendationContentSpan *ContentSpan `json:"recommendationContentSpan,omitempty"`
}

// ContentSpan is a half-open character range.
type ContentSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SourceLink is a related suggestion attached to an answer.
type SourceLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body,omitempty"`
}

// RelatedContent is the titled list of sources rendered under an answer.
type RelatedContent struct {
	Title   string       `json:"title"`
	Content []SourceLink `json:"content"`
}

// HighlightCommand is a quick action the host wants the UI to advertise.
type HighlightCommand struct {
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// ChatItem is the normalized UI representation of one conversation turn.
// Body is nil while an answer is still streaming or when a stream closes.
type ChatItem struct {
	Type              ChatItemType    `json:"type"`
	MessageID         string          `json:"messageId,omitempty"`
	Body              *string         `json:"body,omitempty"`
	FollowUp          *FollowUpBlock  `json:"followUp,omitempty"`
	CanBeVoted        bool            `json:"canBeVoted"`
	RelatedContent    *RelatedContent `json:"relatedContent,omitempty"`
	CodeReference     []CodeReference `json:"codeReference,omitempty"`
	UserIntent        string          `json:"userIntent,omitempty"`
	CodeBlockLanguage string          `json:"codeBlockLanguage,omitempty"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

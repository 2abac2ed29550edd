// Package followup builds the suggested actions shown under chat items.
package followup

import "github.com/tiancaiamao/chatconnector/pkg/protocol"

// DefaultProductName is used in pill text when no product name is configured.
const DefaultProductName = "Amazon Q"

// Generator produces follow-up blocks. It holds no per-call state.
type Generator struct {
	productName string
}

// NewGenerator creates a generator. An empty productName falls back to DefaultProductName.
func NewGenerator(productName string) *Generator {
	if productName == "" {
		productName = DefaultProductName
	}
	return &Generator{productName: productName}
}

// AuthFollowUps returns the remediation actions for an auth-required
// condition. The option type echoes authType so the host knows which flow
// the user picked.
func (g *Generator) AuthFollowUps(tabType string, authType protocol.AuthFollowUpType) *protocol.FollowUpBlock {
	var pillText string
	switch authType {
	case protocol.AuthUseSupportedAuth, protocol.AuthMissingScopes:
		pillText = "Enable " + g.productName
	case protocol.AuthReauth:
		pillText = "Re-authenticate"
	default:
		pillText = "Authenticate"
	}

	// Every channel currently offers the same single pill.
	return &protocol.FollowUpBlock{
		Text: "",
		Options: []protocol.FollowUpOption{
			{
				PillText: pillText,
				Type:     string(authType),
				Status:   "info",
			},
		},
	}
}

// WelcomeFollowUps returns the example prompts offered in a fresh tab.
func (g *Generator) WelcomeFollowUps(tabType string) *protocol.FollowUpBlock {
	return &protocol.FollowUpBlock{
		Text: "Try Examples:",
		Options: []protocol.FollowUpOption{
			{
				PillText: "Explain selected code",
				Prompt:   "Explain selected code",
				Type:     "init-prompt",
			},
			{
				PillText: "How can " + g.productName + " help me?",
				Prompt:   "How can " + g.productName + " help me?",
				Type:     "init-prompt",
			},
		},
	}
}

package contract

//go:generate mockgen -source=slack.go -destination=../../../mocks/mock_slack.go -package=mocks

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackClient defines the interface for Slack operations
// This allows mocking in tests while keeping the real implementation simple
type SlackClient interface {
	// PostMessageContext sends a message to a Slack channel
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)

	// AddReactionContext attaches a reaction to a message
	AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error

	// GetConversationHistoryContext reads messages from a channel
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)

	// AuthTestContext identifies the bot user behind the token
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

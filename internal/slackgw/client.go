// Package slackgw wraps the Slack Web API client used by the bot.
package slackgw

import (
	"context"
	"fmt"

	"github.com/diegoclair/slack-wfh-bot/internal/domain/contract"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// Client spaces outbound Web API calls with a token bucket so bursts of
// reactions stay under Slack's per-method rate limits.
type Client struct {
	api     contract.SlackClient
	limiter *rate.Limiter
}

var _ contract.SlackClient = (*Client)(nil)

// NewRateLimited allows perSecond calls on average with bursts of burst calls.
func NewRateLimited(api contract.SlackClient, perSecond float64, burst int) *Client {
	if burst < 1 {
		burst = 1
	}
	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (c *Client) wait(ctx context.Context, method string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter rejected %s: %w", method, err)
	}
	return nil
}

func (c *Client) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	if err := c.wait(ctx, "chat.postMessage"); err != nil {
		return "", "", err
	}
	return c.api.PostMessageContext(ctx, channelID, options...)
}

func (c *Client) AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error {
	if err := c.wait(ctx, "reactions.add"); err != nil {
		return err
	}
	return c.api.AddReactionContext(ctx, name, item)
}

func (c *Client) GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	if err := c.wait(ctx, "conversations.history"); err != nil {
		return nil, err
	}
	return c.api.GetConversationHistoryContext(ctx, params)
}

// AuthTestContext is only called at startup and is not rate limited.
func (c *Client) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	return c.api.AuthTestContext(ctx)
}

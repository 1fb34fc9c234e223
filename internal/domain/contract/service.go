package contract

//go:generate mockgen -source=service.go -destination=../../../mocks/mock_service.go -package=mocks

import (
	"context"

	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
)

// WorkflowService routes inbound reactions through the request workflow.
type WorkflowService interface {
	HandleReaction(ctx context.Context, event entity.ReactionEvent) error
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/config"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/contract"
	"github.com/diegoclair/slack-wfh-bot/internal/logger"
	"github.com/sirupsen/logrus"
)

// Scheduler posts the weekly prompt.
type Scheduler interface {
	Start()
	Stop(ctx context.Context) error
	NextRun() time.Time
}

type Instance struct {
	Workflow  contract.WorkflowService
	Scheduler Scheduler
}

// NewInstance resolves the bot identity and builds the services sharing it.
func NewInstance(ctx context.Context, cfg *config.Config, dm contract.DataManager, slackClient contract.SlackClient, log logrus.FieldLogger) (*Instance, error) {
	auth, err := slackClient.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to identify bot user: %w", err)
	}

	logger.Component(log, "service").WithFields(logrus.Fields{
		"bot_user": auth.UserID,
		"team":     auth.Team,
	}).Info("Authenticated with Slack")

	return &Instance{
		Workflow:  newWorkflow(dm, slackClient, cfg.Channels, auth.UserID, logger.Component(log, "workflow")),
		Scheduler: newScheduler(cfg.Schedule, cfg.Channels.Request, slackClient, logger.Component(log, "scheduler")),
	}, nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/config"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/contract"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// promptTimeout bounds one weekly prompt run, including rate limited Slack calls.
const promptTimeout = time.Minute

type scheduler struct {
	cron        *cron.Cron
	schedule    weeklySchedule
	location    *time.Location
	slackClient contract.SlackClient
	channelID   string
	now         func() time.Time
	log         *logrus.Entry

	mu      sync.Mutex
	running bool
}

func newScheduler(cfg config.Schedule, channelID string, slackClient contract.SlackClient, log *logrus.Entry) *scheduler {
	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	cronLogger := cron.PrintfLogger(log)

	return &scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		schedule: weeklySchedule{
			weekday: cfg.Weekday,
			hour:    cfg.Hour,
			minute:  cfg.Minute,
		},
		location:    location,
		slackClient: slackClient,
		channelID:   channelID,
		now:         time.Now,
		log:         log,
	}
}

// Start arms the weekly job. The cron engine re-arms it after every run.
func (s *scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	s.cron.Schedule(s.schedule, cron.FuncJob(s.run))
	s.cron.Start()

	s.log.WithField("next_run", s.NextRun().Format(time.RFC3339)).Info("Scheduler started")
}

// Stop cancels pending wake-ups and waits for a running job, or for ctx.
func (s *scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	s.log.Info("Scheduler stopping...")
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.log.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler did not stop in time: %w", ctx.Err())
	}
}

// NextRun returns the next weekly prompt time.
func (s *scheduler) NextRun() time.Time {
	return ComputeNextOccurrence(s.now().In(s.location), s.schedule.weekday, s.schedule.hour, s.schedule.minute).At
}

func (s *scheduler) run() {
	now := s.now().In(s.location)

	if !s.schedule.due(now) {
		s.log.WithFields(logrus.Fields{
			"now":      now.Format(time.RFC3339),
			"next_run": s.NextRun().Format(time.RFC3339),
		}).Warn("Woke outside the weekly prompt window, skipping until next week")
		weeklyPromptsTotal.WithLabelValues("missed").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), promptTimeout)
	defer cancel()

	if err := s.postWeeklyPrompt(ctx); err != nil {
		s.log.WithError(err).Error("Failed to post weekly prompt")
		weeklyPromptsTotal.WithLabelValues("failed").Inc()
		return
	}

	weeklyPromptsTotal.WithLabelValues("posted").Inc()
}

func (s *scheduler) postWeeklyPrompt(ctx context.Context) error {
	text, reactions := WeeklyPrompt()

	channelID, ts, err := s.slackClient.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("failed to send weekly prompt: %w", err)
	}

	ref := slack.NewRefToMessage(channelID, ts)
	for _, reaction := range reactions {
		if err := s.slackClient.AddReactionContext(ctx, reaction, ref); err != nil {
			return fmt.Errorf("failed to add reaction %s to weekly prompt: %w", reaction, err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"channel": channelID,
		"ts":      ts,
	}).Info("Weekly prompt posted")

	return nil
}

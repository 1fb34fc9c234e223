package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/config"
	"github.com/diegoclair/slack-wfh-bot/internal/domain"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/contract"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
	"github.com/diegoclair/slack-wfh-bot/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// reopenTimeout bounds the compensating write after a failed outcome notice.
const reopenTimeout = 10 * time.Second

type workflow struct {
	dm          contract.DataManager
	slackClient contract.SlackClient
	channels    config.Channels
	botUserID   string
	now         func() time.Time
	log         *logrus.Entry
}

func newWorkflow(dm contract.DataManager, slackClient contract.SlackClient, channels config.Channels, botUserID string, log *logrus.Entry) *workflow {
	return &workflow{
		dm:          dm,
		slackClient: slackClient,
		channels:    channels,
		botUserID:   botUserID,
		now:         time.Now,
		log:         log,
	}
}

// HandleReaction moves a request through the workflow based on where the
// reaction was added and which emoji was used.
func (w *workflow) HandleReaction(ctx context.Context, event entity.ReactionEvent) error {
	log := logger.FromContext(ctx, w.log).WithFields(logrus.Fields{
		"channel":  event.ChannelID,
		"ts":       event.MessageTS,
		"reaction": event.Reaction,
		"user":     event.UserID,
	})

	if event.UserID == "" || event.UserID == w.botUserID {
		reactionsTotal.WithLabelValues(routeIgnored, "bot").Inc()
		return nil
	}

	switch event.ChannelID {
	case w.channels.Request:
		return w.handleSelection(ctx, log, event)
	case w.channels.Review:
		return w.handleReview(ctx, log, event)
	default:
		reactionsTotal.WithLabelValues(routeIgnored, "channel").Inc()
		return nil
	}
}

func (w *workflow) handleSelection(ctx context.Context, log *logrus.Entry, event entity.ReactionEvent) error {
	day, ok := DayForReaction(event.Reaction)
	if !ok {
		reactionsTotal.WithLabelValues(routeSelection, "unmapped").Inc()
		return nil
	}

	text, reactions := ReviewRequest(event.UserID, day)

	channelID, ts, err := w.slackClient.PostMessageContext(ctx, w.channels.Review, slack.MsgOptionText(text, false))
	if err != nil {
		reactionsTotal.WithLabelValues(routeSelection, "error").Inc()
		return fmt.Errorf("failed to send review request: %w", err)
	}

	// record before the reactions exist so no review can race the insert
	request, err := w.recordRequest(ctx, &entity.Request{
		ChannelID:   channelID,
		MessageTS:   ts,
		RequesterID: event.UserID,
		Day:         day,
		Status:      entity.RequestStatusPending,
		CreatedAt:   w.now(),
	})
	if err != nil {
		reactionsTotal.WithLabelValues(routeSelection, "error").Inc()
		return err
	}

	ref := slack.NewRefToMessage(channelID, ts)
	for _, reaction := range reactions {
		if err := w.slackClient.AddReactionContext(ctx, reaction, ref); err != nil {
			reactionsTotal.WithLabelValues(routeSelection, "error").Inc()
			return fmt.Errorf("failed to add reaction %s to review request: %w", reaction, err)
		}
	}

	log.WithFields(logrus.Fields{
		"request_id": request.ID,
		"day":        day,
	}).Info("Work from home request sent for review")
	reactionsTotal.WithLabelValues(routeSelection, "requested").Inc()

	return nil
}

func (w *workflow) handleReview(ctx context.Context, log *logrus.Entry, event entity.ReactionEvent) error {
	var status entity.RequestStatus
	switch event.Reaction {
	case domain.ReactionConfirm:
		status = entity.RequestStatusConfirmed
	case domain.ReactionDecline:
		status = entity.RequestStatusDeclined
	default:
		reactionsTotal.WithLabelValues(routeReview, "unmapped").Inc()
		return nil
	}

	request, err := w.loadRequest(ctx, event)
	if errors.Is(err, ErrNotReviewRequest) {
		log.WithError(err).Debug("Ignoring review reaction on a message without a request")
		reactionsTotal.WithLabelValues(routeReview, "not_request").Inc()
		return nil
	}
	if err != nil {
		reactionsTotal.WithLabelValues(routeReview, "error").Inc()
		return err
	}

	log = log.WithFields(logrus.Fields{
		"request_id": request.ID,
		"requester":  request.RequesterID,
		"day":        request.Day,
	})

	if !request.IsPending() {
		log.WithField("status", request.Status).Info("Request already resolved, ignoring reaction")
		reactionsTotal.WithLabelValues(routeReview, "duplicate").Inc()
		return nil
	}

	targetChannel := w.channels.Confirmed
	if status == entity.RequestStatusDeclined {
		targetChannel = w.channels.Declined
	}

	resolved, err := w.dm.Request().Resolve(ctx, request.ID, status, event.UserID, w.now())
	if err != nil {
		reactionsTotal.WithLabelValues(routeReview, "error").Inc()
		return fmt.Errorf("failed to resolve request: %w", err)
	}
	if !resolved {
		log.Info("Request already resolved, ignoring reaction")
		reactionsTotal.WithLabelValues(routeReview, "duplicate").Inc()
		return nil
	}

	text := Outcome(request.RequesterID, request.Day, status, event.UserID)
	if _, _, err := w.slackClient.PostMessageContext(ctx, targetChannel, slack.MsgOptionText(text, false)); err != nil {
		w.reopen(ctx, log, request.ID, status)
		reactionsTotal.WithLabelValues(routeReview, "error").Inc()
		return fmt.Errorf("failed to send %s notice: %w", status, err)
	}

	log.WithField("status", status).Info("Work from home request resolved")
	reactionsTotal.WithLabelValues(routeReview, string(status)).Inc()
	requestsResolvedTotal.WithLabelValues(string(status)).Inc()

	return nil
}

// loadRequest finds the request behind a review message. Messages that have no
// record, such as those posted before a restart with an in-memory store, are
// recovered from their text and recorded.
func (w *workflow) loadRequest(ctx context.Context, event entity.ReactionEvent) (*entity.Request, error) {
	request, err := w.dm.Request().GetByMessage(ctx, event.ChannelID, event.MessageTS)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if request != nil {
		return request, nil
	}

	if event.ItemUserID != "" && event.ItemUserID != w.botUserID {
		return nil, fmt.Errorf("%w: message authored by %s", ErrNotReviewRequest, event.ItemUserID)
	}

	text, err := w.messageText(ctx, event.ChannelID, event.MessageTS)
	if err != nil {
		return nil, err
	}

	requesterID, day, err := ExtractRequest(text)
	if err != nil {
		return nil, err
	}

	return w.recordRequest(ctx, &entity.Request{
		ChannelID:   event.ChannelID,
		MessageTS:   event.MessageTS,
		RequesterID: requesterID,
		Day:         day,
		Status:      entity.RequestStatusPending,
		CreatedAt:   w.now(),
	})
}

// recordRequest stores request, or returns the one already recorded for the
// same message by a concurrent reaction.
func (w *workflow) recordRequest(ctx context.Context, request *entity.Request) (*entity.Request, error) {
	err := w.dm.Request().Create(ctx, request)
	if err == nil {
		return request, nil
	}
	if !errors.Is(err, contract.ErrRequestExists) {
		return nil, fmt.Errorf("failed to record request: %w", err)
	}

	existing, err := w.dm.Request().GetByMessage(ctx, request.ChannelID, request.MessageTS)
	if err != nil {
		return nil, fmt.Errorf("failed to get recorded request: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("request for message %s vanished after a conflicting insert", request.MessageTS)
	}

	return existing, nil
}

// reopen undoes a resolution whose notice could not be sent, so a later
// reaction can retry. It runs even when ctx has already expired.
func (w *workflow) reopen(ctx context.Context, log *logrus.Entry, id int64, status entity.RequestStatus) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reopenTimeout)
	defer cancel()

	ok, err := w.dm.Request().Reopen(ctx, id, status)
	if err != nil {
		log.WithError(err).Error("Failed to reopen request after the notice failed")
		return
	}
	if !ok {
		log.Warn("Request changed before it could be reopened")
	}
}

func (w *workflow) messageText(ctx context.Context, channelID, ts string) (string, error) {
	history, err := w.slackClient.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Latest:    ts,
		Oldest:    ts,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch review message: %w", err)
	}

	if len(history.Messages) == 0 {
		return "", fmt.Errorf("%w: message %s not found", ErrNotReviewRequest, ts)
	}

	return history.Messages[0].Text, nil
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/domain/contract"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
	"github.com/diegoclair/slack-wfh-bot/internal/logger"
	slackcmd "github.com/diegoclair/slack-wfh-bot/internal/slack"
	"github.com/diegoclair/slack-wfh-bot/internal/slackgw"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// eventTimeout bounds the handling of one reaction, including rate limited Slack calls.
const eventTimeout = 2 * time.Minute

// ScheduleReader exposes when the weekly prompt fires next.
type ScheduleReader interface {
	NextRun() time.Time
}

type SlackHandler struct {
	workflow      contract.WorkflowService
	dm            contract.DataManager
	schedule      ScheduleReader
	signingSecret string
	log           *logrus.Entry

	inflight sync.WaitGroup
}

var _ slackgw.Dispatcher = (*SlackHandler)(nil)

func New(workflow contract.WorkflowService, dm contract.DataManager, schedule ScheduleReader, signingSecret string, log *logrus.Entry) *SlackHandler {
	return &SlackHandler{
		workflow:      workflow,
		dm:            dm,
		schedule:      schedule,
		signingSecret: signingSecret,
		log:           log,
	}
}

// verify reads the body and checks the Slack request signature. It writes the
// error status itself and returns ok=false when the request must be rejected.
func (h *SlackHandler) verify(w http.ResponseWriter, r *http.Request) (body []byte, ok bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	// Verify Slack signature
	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}

	if err := verifier.Ensure(); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}

	return body, true
}

// HandleEvents receives Events API callbacks. It acknowledges right away and
// handles the event in the background since Slack expects a reply within 3 seconds.
func (h *SlackHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, ok := h.verify(w, r)
	if !ok {
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		h.log.WithError(err).Warn("Failed to parse Slack event")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch eventsAPIEvent.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))

	case slackevents.CallbackEvent:
		// the first delivery was received, only our reply was late
		if r.Header.Get("X-Slack-Retry-Reason") == "http_timeout" {
			h.log.WithField("retry", r.Header.Get("X-Slack-Retry-Num")).Info("Ignoring redelivered Slack event")
			w.WriteHeader(http.StatusOK)
			return
		}
		h.Dispatch(eventsAPIEvent)
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// Dispatch hands a callback event to the workflow without blocking the transport.
func (h *SlackHandler) Dispatch(event slackevents.EventsAPIEvent) {
	reaction, ok := event.InnerEvent.Data.(*slackevents.ReactionAddedEvent)
	if !ok {
		return
	}

	reactionEvent, ok := slackgw.ReactionFromEvent(reaction)
	if !ok {
		return
	}

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		h.handleReaction(reactionEvent)
	}()
}

func (h *SlackHandler) handleReaction(event entity.ReactionEvent) {
	log := h.log.WithField("event_id", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Recovered from panic while handling reaction")
		}
	}()

	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), eventTimeout)
	defer cancel()

	if err := h.workflow.HandleReaction(ctx, event); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"channel":  event.ChannelID,
			"ts":       event.MessageTS,
			"reaction": event.Reaction,
		}).Error("Failed to handle reaction")
	}
}

// Wait blocks until in-flight events finish or ctx ends.
func (h *SlackHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("in-flight events did not finish: %w", ctx.Err())
	}
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.verify(w, r); !ok {
		return
	}

	// Parse command
	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Parse our command
	cmd, err := slackcmd.ParseCommand(s.Text)
	if err != nil {
		h.respondWithError(w, err.Error())
		return
	}

	// Handle command
	response := h.handleCommand(r.Context(), cmd)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func (h *SlackHandler) handleCommand(ctx context.Context, cmd *slackcmd.Command) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdPending:
		return h.handlePending(ctx)
	case slackcmd.CmdNext:
		return h.handleNext()
	case slackcmd.CmdHelp:
		return h.handleHelp()
	default:
		return h.createErrorResponse("Unknown command")
	}
}

func (h *SlackHandler) handlePending(ctx context.Context) *slack.Msg {
	requests, err := h.dm.Request().ListPending(ctx)
	if err != nil {
		h.log.WithError(err).Error("Failed to list pending requests")
		return h.createErrorResponse("Failed to list pending requests")
	}

	if len(requests) == 0 {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "No work from home requests are waiting for review.",
		}
	}

	var list strings.Builder
	list.WriteString("*Work from home requests waiting for review:*\n")
	for i, request := range requests {
		fmt.Fprintf(&list, "%d. <@%s> on %s (asked %s)\n",
			i+1, request.RequesterID, request.Day, request.CreatedAt.Format("Mon 02 Jan 15:04"))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         list.String(),
	}
}

func (h *SlackHandler) handleNext() *slack.Msg {
	next := h.schedule.NextRun()

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("The next booking prompt will be posted on %s.", next.Format("Monday 02 Jan 2006 at 15:04 MST")),
	}
}

func (h *SlackHandler) handleHelp() *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         slackcmd.GetHelpText(),
	}
}

func (h *SlackHandler) createErrorResponse(message string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("❌ %s", message),
	}
}

func (h *SlackHandler) respondWithError(w http.ResponseWriter, message string) {
	response := h.createErrorResponse(message)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

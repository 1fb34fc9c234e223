package slackgw

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

type acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// SocketListener receives events over a Socket Mode websocket, so the bot
// needs no public HTTP endpoint.
type SocketListener struct {
	client     *socketmode.Client
	acker      acker
	dispatcher Dispatcher
	log        *logrus.Entry
}

// NewSocketListener expects api to be built with slack.OptionAppLevelToken.
func NewSocketListener(api *slack.Client, dispatcher Dispatcher, log *logrus.Entry) *SocketListener {
	client := socketmode.New(api)
	return &SocketListener{
		client:     client,
		acker:      client,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Run blocks until ctx is cancelled or the connection fails for good.
func (l *SocketListener) Run(ctx context.Context) error {
	go l.consume(ctx, l.client.Events)
	return l.client.RunContext(ctx)
}

func (l *SocketListener) consume(ctx context.Context, events <-chan socketmode.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			l.handle(evt)
		}
	}
}

func (l *SocketListener) handle(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		l.log.Info("Connecting to Slack with Socket Mode")
	case socketmode.EventTypeConnected:
		l.log.Info("Connected to Slack with Socket Mode")
	case socketmode.EventTypeConnectionError:
		l.log.WithField("data", evt.Data).Warn("Socket Mode connection failed, retrying")
	case socketmode.EventTypeInvalidAuth:
		l.log.Error("Socket Mode rejected the app token")
	case socketmode.EventTypeEventsAPI:
		// unacked envelopes are redelivered, even ones we cannot use
		if evt.Request != nil {
			l.acker.Ack(*evt.Request)
		}
		eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			l.log.WithField("data", evt.Data).Warn("Ignoring unexpected Events API payload")
			return
		}
		l.dispatcher.Dispatch(eventsAPIEvent)
	default:
		l.log.WithField("type", evt.Type).Debug("Ignoring Socket Mode event")
	}
}

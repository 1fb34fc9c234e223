package slackgw

import (
	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
	"github.com/slack-go/slack/slackevents"
)

// ReactionFromEvent converts a reaction_added payload. It reports false for
// reactions on anything other than a message, such as files.
func ReactionFromEvent(ev *slackevents.ReactionAddedEvent) (entity.ReactionEvent, bool) {
	if ev == nil || ev.Item.Type != "message" {
		return entity.ReactionEvent{}, false
	}

	return entity.ReactionEvent{
		ChannelID:  ev.Item.Channel,
		MessageTS:  ev.Item.Timestamp,
		Reaction:   ev.Reaction,
		UserID:     ev.User,
		ItemUserID: ev.ItemUser,
		EventTS:    ev.EventTimestamp,
	}, true
}

// Dispatcher receives Events API callbacks from any inbound transport.
type Dispatcher interface {
	Dispatch(event slackevents.EventsAPIEvent)
}

package entity

// ReactionEvent is a reaction added to a message, as delivered by Slack.
type ReactionEvent struct {
	ChannelID  string
	MessageTS  string
	Reaction   string
	UserID     string // who reacted
	ItemUserID string // author of the reacted message
	EventTS    string
}

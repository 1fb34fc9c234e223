package service

import (
	"fmt"
	"strings"

	"github.com/diegoclair/slack-wfh-bot/internal/domain"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
)

// DayForReaction maps a selector reaction to the day it books.
func DayForReaction(reaction string) (string, bool) {
	for i, r := range domain.SelectorReactions {
		if r == reaction {
			return domain.WeekdayNames[domain.SelectableDays[i]], true
		}
	}
	return "", false
}

// ReactionForDay is the inverse of DayForReaction.
func ReactionForDay(day string) (string, bool) {
	for i, d := range domain.SelectableDays {
		if domain.WeekdayNames[d] == day {
			return domain.SelectorReactions[i], true
		}
	}
	return "", false
}

// WeeklyPrompt builds the recurring booking message and the reactions to seed it with.
func WeeklyPrompt() (string, []string) {
	var b strings.Builder
	b.WriteString("<!everyone>\nPlease book your work from home days:\n\n")
	for i, day := range domain.SelectableDays {
		fmt.Fprintf(&b, "%s: :%s:\n", domain.WeekdayNames[day], domain.SelectorReactions[i])
	}
	b.WriteString("\nPlease select a maximum of 2 days; exceeding this limit may result in your request being declined.")

	return b.String(), append([]string(nil), domain.SelectorReactions...)
}

// ReviewRequest builds the message reviewers confirm or decline.
func ReviewRequest(requesterID, day string) (string, []string) {
	text := fmt.Sprintf("%s has requested to work from home on %s.\n:%s: Confirm\n:%s: Decline",
		mention(requesterID), day, domain.ReactionConfirm, domain.ReactionDecline)

	return text, append([]string(nil), domain.ReviewReactions...)
}

// Outcome builds the final notice for a resolved request.
func Outcome(requesterID, day string, status entity.RequestStatus, reviewerID string) string {
	if status == entity.RequestStatusDeclined {
		return fmt.Sprintf("%s, your work from home request for %s has been declined.\nPlease speak with %s if you have any questions.",
			mention(requesterID), day, mention(reviewerID))
	}

	return fmt.Sprintf("%s, your work from home request for %s has been confirmed.\nPlease remember to add your WFH days to base camp.",
		mention(requesterID), day)
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

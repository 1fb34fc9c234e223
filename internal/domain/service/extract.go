package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotReviewRequest is returned when a message does not carry a work from home request.
var ErrNotReviewRequest = errors.New("message is not a review request")

// Token positions in the ReviewRequest text.
const (
	requesterToken = 0
	dayToken       = 8
)

// ExtractRequest recovers the requester and day from the text of a review request message.
// It only reads messages built by ReviewRequest.
func ExtractRequest(text string) (requesterID, day string, err error) {
	tokens := strings.Fields(text)
	if len(tokens) <= dayToken {
		return "", "", fmt.Errorf("%w: expected at least %d words, got %d", ErrNotReviewRequest, dayToken+1, len(tokens))
	}

	requesterID, ok := parseMention(tokens[requesterToken])
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not a user mention", ErrNotReviewRequest, tokens[requesterToken])
	}

	day = strings.TrimRight(tokens[dayToken], ".")
	if _, ok := ReactionForDay(day); !ok {
		return "", "", fmt.Errorf("%w: %q is not a selectable day", ErrNotReviewRequest, day)
	}

	return requesterID, day, nil
}

// parseMention reads <@U123> and <@U123|name>.
func parseMention(token string) (string, bool) {
	if !strings.HasPrefix(token, "<@") || !strings.HasSuffix(token, ">") {
		return "", false
	}

	id := strings.TrimSuffix(strings.TrimPrefix(token, "<@"), ">")
	id, _, _ = strings.Cut(id, "|")
	if id == "" {
		return "", false
	}

	return id, true
}

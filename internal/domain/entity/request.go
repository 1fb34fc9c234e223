package entity

import "time"

// RequestStatus is the review state of a work from home request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusConfirmed RequestStatus = "confirmed"
	RequestStatusDeclined  RequestStatus = "declined"
)

// Request is a work from home request, keyed by the review message that carries it.
type Request struct {
	ID          int64
	ChannelID   string // review channel holding the message
	MessageTS   string
	RequesterID string
	Day         string
	Status      RequestStatus
	ReviewerID  string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

func (r *Request) IsPending() bool {
	return r.Status == RequestStatusPending
}

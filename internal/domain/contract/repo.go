package contract

//go:generate mockgen -source=repo.go -destination=../../../mocks/mock_repo.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
)

// ErrRequestExists is returned by Create when the message already carries a request.
var ErrRequestExists = errors.New("request already recorded for this message")

// DataManager aggregates all repository interfaces
type DataManager interface {
	Request() RequestRepo
}

// RequestRepo defines the contract for the work from home request repository
type RequestRepo interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByMessage(ctx context.Context, channelID, messageTS string) (*entity.Request, error)
	// Resolve moves a pending request to status. It reports false when the
	// request was no longer pending, in which case nothing is written.
	Resolve(ctx context.Context, id int64, status entity.RequestStatus, reviewerID string, at time.Time) (bool, error)
	// Reopen moves a request resolved as from back to pending. It reports false
	// when the request was not in status from.
	Reopen(ctx context.Context, id int64, from entity.RequestStatus) (bool, error)
	ListPending(ctx context.Context) ([]*entity.Request, error)
}

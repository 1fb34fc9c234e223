package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/domain/contract"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
	"github.com/mattn/go-sqlite3"
)

type requestRepo struct {
	db dbConn
}

func newRequestRepo(db dbConn) contract.RequestRepo {
	return &requestRepo{db: db}
}

const requestColumns = `id, channel_id, message_ts, requester_id, day, status, reviewer_id, created_at, resolved_at`

func (r *requestRepo) Create(ctx context.Context, request *entity.Request) error {
	query := `
		INSERT INTO wfh_requests (channel_id, message_ts, requester_id, day, status, reviewer_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if request.Status == "" {
		request.Status = entity.RequestStatusPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		request.ChannelID,
		request.MessageTS,
		request.RequesterID,
		request.Day,
		request.Status,
		request.ReviewerID,
		request.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create request: %w", contract.ErrRequestExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	request.ID = id
	return nil
}

func (r *requestRepo) GetByMessage(ctx context.Context, channelID, messageTS string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM wfh_requests WHERE channel_id = ? AND message_ts = ?`

	request, err := scanRequest(r.db.QueryRowContext(ctx, query, channelID, messageTS))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return request, nil
}

func (r *requestRepo) Resolve(ctx context.Context, id int64, status entity.RequestStatus, reviewerID string, at time.Time) (bool, error) {
	query := `
		UPDATE wfh_requests SET
			status = ?,
			reviewer_id = ?,
			resolved_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, reviewerID, at, id, entity.RequestStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to resolve request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

func (r *requestRepo) Reopen(ctx context.Context, id int64, from entity.RequestStatus) (bool, error) {
	query := `
		UPDATE wfh_requests SET
			status = ?,
			reviewer_id = '',
			resolved_at = NULL
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query, entity.RequestStatusPending, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to reopen request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

func (r *requestRepo) ListPending(ctx context.Context) ([]*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM wfh_requests WHERE status = ? ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, entity.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*entity.Request, error) {
	request := &entity.Request{}
	var resolvedAt sql.NullTime

	err := row.Scan(
		&request.ID,
		&request.ChannelID,
		&request.MessageTS,
		&request.RequesterID,
		&request.Day,
		&request.Status,
		&request.ReviewerID,
		&request.CreatedAt,
		&resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	if resolvedAt.Valid {
		request.ResolvedAt = &resolvedAt.Time
	}

	return request, nil
}

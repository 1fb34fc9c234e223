package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/domain/contract"
	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest() *entity.Request {
	return &entity.Request{
		ChannelID:   "C0REVIEW",
		MessageTS:   "1700000000.000100",
		RequesterID: "U0ALICE",
		Day:         "Wednesday",
		CreatedAt:   time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestRequestRepo_Create(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newRequestRepo(db.conn)
	ctx := context.Background()

	request := newTestRequest()
	err := repo.Create(ctx, request)
	require.NoError(t, err, "Failed to create request")

	assert.NotZero(t, request.ID, "Expected request ID to be set after creation")
	assert.Equal(t, entity.RequestStatusPending, request.Status)

	// same message cannot carry two requests
	duplicate := newTestRequest()
	err = repo.Create(ctx, duplicate)
	require.ErrorIs(t, err, contract.ErrRequestExists)
}

func TestRequestRepo_GetByMessage(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newRequestRepo(db.conn)
	ctx := context.Background()

	original := newTestRequest()
	require.NoError(t, repo.Create(ctx, original))

	found, err := repo.GetByMessage(ctx, original.ChannelID, original.MessageTS)
	require.NoError(t, err)
	require.NotNil(t, found, "Expected to find request")

	assert.Equal(t, original.ID, found.ID)
	assert.Equal(t, "U0ALICE", found.RequesterID)
	assert.Equal(t, "Wednesday", found.Day)
	assert.Equal(t, entity.RequestStatusPending, found.Status)
	assert.True(t, original.CreatedAt.Equal(found.CreatedAt))
	assert.Nil(t, found.ResolvedAt)

	// Test not found
	notFound, err := repo.GetByMessage(ctx, original.ChannelID, "1.000")
	require.NoError(t, err, "Unexpected error when request not found")
	assert.Nil(t, notFound)
}

func TestRequestRepo_Resolve(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newRequestRepo(db.conn)
	ctx := context.Background()

	request := newTestRequest()
	require.NoError(t, repo.Create(ctx, request))

	resolvedAt := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	ok, err := repo.Resolve(ctx, request.ID, entity.RequestStatusDeclined, "U0CAROL", resolvedAt)
	require.NoError(t, err)
	assert.True(t, ok, "first transition out of pending should win")

	ok, err = repo.Resolve(ctx, request.ID, entity.RequestStatusConfirmed, "U0BOB", resolvedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "resolved request must not transition again")

	found, err := repo.GetByMessage(ctx, request.ChannelID, request.MessageTS)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.RequestStatusDeclined, found.Status)
	assert.Equal(t, "U0CAROL", found.ReviewerID)
	require.NotNil(t, found.ResolvedAt)
	assert.True(t, resolvedAt.Equal(*found.ResolvedAt))
}

func TestRequestRepo_Resolve_Concurrent(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newRequestRepo(db.conn)
	ctx := context.Background()

	request := newTestRequest()
	require.NoError(t, repo.Create(ctx, request))

	const reviewers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Resolve(ctx, request.ID, entity.RequestStatusConfirmed, "U0REVIEWER", time.Now())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestRequestRepo_ListPending(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newRequestRepo(db.conn)
	ctx := context.Background()

	first := newTestRequest()
	second := newTestRequest()
	second.MessageTS = "1700000000.000200"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	_, err := repo.Resolve(ctx, first.ID, entity.RequestStatusConfirmed, "U0BOB", time.Now())
	require.NoError(t, err)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestRequestRepo_Reopen(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newRequestRepo(db.conn)
	ctx := context.Background()

	request := newTestRequest()
	require.NoError(t, repo.Create(ctx, request))

	ok, err := repo.Reopen(ctx, request.ID, entity.RequestStatusConfirmed)
	require.NoError(t, err)
	assert.False(t, ok, "a pending request is not reopened")

	resolvedAt := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	ok, err = repo.Resolve(ctx, request.ID, entity.RequestStatusConfirmed, "U0CAROL", resolvedAt)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Reopen(ctx, request.ID, entity.RequestStatusDeclined)
	require.NoError(t, err)
	assert.False(t, ok, "status must match the one being undone")

	ok, err = repo.Reopen(ctx, request.ID, entity.RequestStatusConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.GetByMessage(ctx, request.ChannelID, request.MessageTS)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusPending, found.Status)
	assert.Empty(t, found.ReviewerID)
	assert.Nil(t, found.ResolvedAt)

	// a reopened request can be resolved again
	ok, err = repo.Resolve(ctx, request.ID, entity.RequestStatusDeclined, "U0DAVE", resolvedAt)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewInstance(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	dm := NewInstance(db)
	ctx := context.Background()

	require.NoError(t, dm.Request().Create(ctx, newTestRequest()))

	pending, err := dm.Request().ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

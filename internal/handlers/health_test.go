package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/domain/entity"
	"github.com/diegoclair/slack-wfh-bot/internal/handlers"
	"github.com/diegoclair/slack-wfh-bot/internal/handlers/test"
	"github.com/diegoclair/slack-wfh-bot/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type healthBody struct {
	Status           string    `json:"status"`
	NextWeeklyPrompt time.Time `json:"next_weekly_prompt"`
	PendingRequests  int       `json:"pending_requests"`
}

func TestSlackHandler_HandleHealth(t *testing.T) {
	next := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		buildMocks func(m test.ServiceMocks)
		wantCode   int
		wantBody   healthBody
	}{
		{
			name: "Should report schedule and pending count",
			buildMocks: func(m test.ServiceMocks) {
				m.Schedule.Next = next
				m.RequestRepoMock.EXPECT().ListPending(gomock.Any()).Return([]*entity.Request{{ID: 1}, {ID: 2}}, nil).Times(1)
			},
			wantCode: http.StatusOK,
			wantBody: healthBody{Status: "ok", NextWeeklyPrompt: next, PendingRequests: 2},
		},
		{
			name: "Should report degraded when storage fails",
			buildMocks: func(m test.ServiceMocks) {
				m.Schedule.Next = next
				m.RequestRepoMock.EXPECT().ListPending(gomock.Any()).Return(nil, errors.New("database is closed")).Times(1)
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: healthBody{Status: "degraded", NextWeeklyPrompt: next},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, handler, ctrl := test.GetHandlerTest(t)
			defer ctrl.Finish()

			tt.buildMocks(m)

			recorder := test.CreateTestRecorder()
			handler.HandleHealth(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantCode, recorder.Code)

			var body healthBody
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody.Status, body.Status)
			assert.Equal(t, tt.wantBody.PendingRequests, body.PendingRequests)
			assert.True(t, tt.wantBody.NextWeeklyPrompt.Equal(body.NextWeeklyPrompt))
		})
	}
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dm := mocks.NewMockDataManager(ctrl)
	requestRepo := mocks.NewMockRequestRepo(ctrl)
	dm.EXPECT().Request().Return(requestRepo).AnyTimes()
	requestRepo.EXPECT().ListPending(gomock.Any()).Return(nil, nil).AnyTimes()

	log := logrus.New()
	log.SetOutput(io.Discard)

	t.Run("Should leave out signed routes without a signing secret", func(t *testing.T) {
		handler := handlers.New(mocks.NewMockWorkflowService(ctrl), dm, &test.StubSchedule{}, "", logrus.NewEntry(log))
		server := httptest.NewServer(handlers.NewRouter(handler))
		defer server.Close()

		resp, err := http.Post(server.URL+"/slack/events", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, err = http.Get(server.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Should serve every route with a signing secret", func(t *testing.T) {
		handler := handlers.New(mocks.NewMockWorkflowService(ctrl), dm, &test.StubSchedule{}, test.SigningSecret, logrus.NewEntry(log))
		server := httptest.NewServer(handlers.NewRouter(handler))
		defer server.Close()

		// unsigned, so rejected by the handler rather than the mux
		resp, err := http.Post(server.URL+"/slack/events", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, err = http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "go_goroutines")
	})
}

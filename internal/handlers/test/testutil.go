package test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/diegoclair/slack-wfh-bot/internal/handlers"
	"github.com/diegoclair/slack-wfh-bot/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const SigningSecret = "test-signing-secret"

type ServiceMocks struct {
	WorkflowServiceMock *mocks.MockWorkflowService
	DataManagerMock     *mocks.MockDataManager
	RequestRepoMock     *mocks.MockRequestRepo
	Schedule            *StubSchedule
}

// StubSchedule reports a fixed next run.
type StubSchedule struct {
	Next time.Time
}

func (s *StubSchedule) NextRun() time.Time {
	return s.Next
}

func GetHandlerTest(t *testing.T) (m ServiceMocks, handler *handlers.SlackHandler, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)
	m = ServiceMocks{
		WorkflowServiceMock: mocks.NewMockWorkflowService(ctrl),
		DataManagerMock:     mocks.NewMockDataManager(ctrl),
		RequestRepoMock:     mocks.NewMockRequestRepo(ctrl),
		Schedule:            &StubSchedule{},
	}
	m.DataManagerMock.EXPECT().Request().Return(m.RequestRepoMock).AnyTimes()

	log := logrus.New()
	log.SetOutput(io.Discard)

	handler = handlers.New(m.WorkflowServiceMock, m.DataManagerMock, m.Schedule, SigningSecret, logrus.NewEntry(log))

	return
}

// CreateEventRequest creates a properly signed Events API request carrying payload as JSON.
func CreateEventRequest(t *testing.T, payload any, signingSecret string) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(string(body)))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	sign(req, signingSecret, string(body))

	return req
}

// ReactionAddedPayload is the Events API envelope of a reaction_added event on a message.
func ReactionAddedPayload(channelID, ts, reaction, userID, itemUserID string) map[string]any {
	return map[string]any{
		"token":    "test-token",
		"team_id":  "T0TEAM",
		"type":     "event_callback",
		"event_id": "Ev0TEST",
		"event": map[string]any{
			"type":      "reaction_added",
			"user":      userID,
			"reaction":  reaction,
			"item_user": itemUserID,
			"item": map[string]any{
				"type":    "message",
				"channel": channelID,
				"ts":      ts,
			},
			"event_ts": "1700000100.000100",
		},
	}
}

// CreateSlackRequest creates a properly signed Slack slash command request
func CreateSlackRequest(t *testing.T, command, text, channelID, userID, signingSecret string) *http.Request {
	t.Helper()

	// Create form data matching Slack's slash command format
	form := url.Values{
		"token":        {"test-token"},
		"team_id":      {"T0TEAM"},
		"team_domain":  {"test-team"},
		"channel_id":   {channelID},
		"channel_name": {"test-channel"},
		"user_id":      {userID},
		"user_name":    {"test-user"},
		"command":      {command},
		"text":         {text},
		"response_url": {"https://hooks.slack.com/commands/test"},
		"trigger_id":   {"test-trigger-id"},
	}

	body := form.Encode()

	req, err := http.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	sign(req, signingSecret, body)

	return req
}

func sign(req *http.Request, signingSecret, body string) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", generateSlackSignature(signingSecret, timestamp, body))
}

func generateSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	signature := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("v0=%s", signature)
}

func CreateTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

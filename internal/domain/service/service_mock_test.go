package service

import (
	"io"
	"testing"

	"github.com/diegoclair/slack-wfh-bot/mocks"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type allMocks struct {
	mockDataManager *mocks.MockDataManager
	mockRequestRepo *mocks.MockRequestRepo
	mockSlackClient *mocks.MockSlackClient
}

func newServiceTestMock(t *testing.T) (m allMocks, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)

	dm := mocks.NewMockDataManager(ctrl)

	requestRepo := mocks.NewMockRequestRepo(ctrl)
	dm.EXPECT().Request().Return(requestRepo).AnyTimes()

	m = allMocks{
		mockDataManager: dm,
		mockRequestRepo: requestRepo,
		mockSlackClient: mocks.NewMockSlackClient(ctrl),
	}

	return
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// msgText renders the text a PostMessage call would send.
func msgText(t *testing.T, options []slack.MsgOption) string {
	t.Helper()

	_, values, err := slack.UnsafeApplyMsgOptions("xoxb-test", "C0TEST", "https://slack.com/api/", options...)
	require.NoError(t, err)

	return values.Get("text")
}

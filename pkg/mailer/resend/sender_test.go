package resend

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

type mockEmails struct {
	mock.Mock
}

func (m *mockEmails) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*resend.SendEmailResponse)
	return resp, args.Error(1)
}

func newTestSender(api *mockEmails, keys *[]string) *Sender {
	s := New()
	s.newClient = func(apiKey string) emailsAPI {
		*keys = append(*keys, apiKey)
		return api
	}
	return s
}

func testConfig() mailer.SenderConfig {
	return mailer.SenderConfig{
		Host:          DefaultHost,
		Port:          DefaultPort,
		SenderAddress: "uc@wm.edu",
		SenderName:    "Union Central",
		Credential:    "re_test_key",
	}
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	api := &mockEmails{}
	var keys []string
	s := newTestSender(api, &keys)

	api.On("SendWithContext", mock.Anything, mock.MatchedBy(func(req *resend.SendEmailRequest) bool {
		return req.From == "Union Central <uc@wm.edu>" &&
			len(req.To) == 1 && req.To[0] == "carlo@wm.edu" &&
			req.Subject == "Your semester" &&
			req.Html == "<p>Hi</p>" &&
			req.Text == "Hi"
	})).Return(&resend.SendEmailResponse{Id: "msg_1"}, nil).Twice()

	email := &mailer.Email{
		To:      []string{"carlo@wm.edu"},
		Subject: "Your semester",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
	}

	require.NoError(t, s.Send(context.Background(), email, testConfig()))
	require.NoError(t, s.Send(context.Background(), email, testConfig()))

	api.AssertExpectations(t)
	require.Equal(t, []string{"re_test_key"}, keys, "client is reused per api key")
}

func TestSender_Send_Failure(t *testing.T) {
	t.Parallel()

	api := &mockEmails{}
	var keys []string
	s := newTestSender(api, &keys)

	apiErr := errors.New("rate limited")
	api.On("SendWithContext", mock.Anything, mock.Anything).Return(nil, apiErr)

	err := s.Send(context.Background(), &mailer.Email{To: []string{"carlo@wm.edu"}}, testConfig())

	require.ErrorIs(t, err, apiErr)
	require.ErrorIs(t, err, mailer.ErrSendFailed)
}

func TestSender_Send_MissingKey(t *testing.T) {
	t.Parallel()

	api := &mockEmails{}
	var keys []string
	s := newTestSender(api, &keys)

	cfg := testConfig()
	cfg.Credential = ""

	err := s.Send(context.Background(), &mailer.Email{To: []string{"carlo@wm.edu"}}, cfg)

	require.ErrorIs(t, err, mailer.ErrIncompleteConfig)
	require.NotErrorIs(t, err, mailer.ErrSendFailed)
	api.AssertNotCalled(t, "SendWithContext", mock.Anything, mock.Anything)
	require.Empty(t, keys)
}

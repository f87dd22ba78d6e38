package smtp

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	cfg := mailer.SenderConfig{SenderAddress: "uc@wm.edu", SenderName: "Union Central"}
	now := time.Date(2024, time.December, 1, 10, 0, 0, 0, time.UTC)

	t.Run("html only", func(t *testing.T) {
		t.Parallel()

		raw, err := buildMessage(&mailer.Email{
			To:      []string{"carlo@wm.edu"},
			Subject: "Hi",
			HTML:    "<p>Hello</p>",
		}, cfg, now)
		require.NoError(t, err)

		msg := string(raw)
		assert.Contains(t, msg, "From: Union Central <uc@wm.edu>\r\n")
		assert.Contains(t, msg, "To: carlo@wm.edu\r\n")
		assert.Contains(t, msg, "Date: Sun, 01 Dec 2024 10:00:00 +0000\r\n")
		assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")
		assert.Contains(t, msg, "@wm.edu>\r\n")
		assert.NotContains(t, msg, "multipart")
		assert.True(t, strings.HasSuffix(msg, "<p>Hello</p>"))
	})

	t.Run("text only follows the email content type", func(t *testing.T) {
		t.Parallel()

		email := &mailer.Email{To: []string{"carlo@wm.edu"}, Subject: "Hi", Text: "Hello"}
		require.Equal(t, mailer.ContentText, email.ContentType())

		raw, err := buildMessage(email, cfg, now)
		require.NoError(t, err)

		msg := string(raw)
		assert.Contains(t, msg, "Content-Type: "+mailer.ContentText.WithCharset()+"\r\n")
		assert.NotContains(t, msg, "text/html")
		assert.True(t, strings.HasSuffix(msg, "Hello"))
	})

	t.Run("multipart when both bodies set", func(t *testing.T) {
		t.Parallel()

		raw, err := buildMessage(&mailer.Email{
			To:      []string{"carlo@wm.edu"},
			Subject: "Hi",
			HTML:    "<p>Hello</p>",
			Text:    "Hello",
		}, cfg, now)
		require.NoError(t, err)

		msg := string(raw)
		assert.Contains(t, msg, "Content-Type: multipart/alternative; boundary=")
		textAt := strings.Index(msg, "text/plain")
		htmlAt := strings.Index(msg, "text/html")
		require.Positive(t, textAt)
		require.Positive(t, htmlAt)
		assert.Less(t, textAt, htmlAt, "html part goes last")
	})

	t.Run("non-ascii subject is encoded", func(t *testing.T) {
		t.Parallel()

		raw, err := buildMessage(&mailer.Email{
			To:      []string{"carlo@wm.edu"},
			Subject: "Résumé",
			Text:    "x",
		}, cfg, now)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Subject: =?utf-8?q?R=C3=A9sum=C3=A9?=\r\n")
	})

	t.Run("header injection is stripped", func(t *testing.T) {
		t.Parallel()

		raw, err := buildMessage(&mailer.Email{
			To:      []string{"carlo@wm.edu"},
			Subject: "Hi",
			Text:    "x",
			Headers: map[string]string{"x-campaign": "wrapped\r\nBcc: evil@example.com"},
		}, cfg, now)
		require.NoError(t, err)

		msg := string(raw)
		assert.Contains(t, msg, "X-Campaign: wrappedBcc: evil@example.com\r\n")
		assert.NotContains(t, msg, "\r\nBcc:")
	})
}

func TestMessageID(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasSuffix(messageID("uc@wm.edu"), "@wm.edu>"))
	assert.True(t, strings.HasSuffix(messageID("broken"), "@localhost>"))
	assert.NotEqual(t, messageID("uc@wm.edu"), messageID("uc@wm.edu"))
}

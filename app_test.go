package courier_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier"
	"github.com/dmitrymomot/courier/pkg/batch"
	"github.com/dmitrymomot/courier/pkg/config"
	"github.com/dmitrymomot/courier/pkg/dispatch"
	"github.com/dmitrymomot/courier/pkg/mailer"
	"github.com/dmitrymomot/courier/pkg/mailer/resend"
	"github.com/dmitrymomot/courier/pkg/mailer/smtp"
	"github.com/dmitrymomot/courier/pkg/sanitizer"
)

// captureSender records delivered emails.
type captureSender struct {
	mu   sync.Mutex
	sent []*mailer.Email
	err  error
}

func (s *captureSender) Send(_ context.Context, e *mailer.Email, _ mailer.SenderConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, e)
	return nil
}

func (s *captureSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func templates() fstest.MapFS {
	return fstest.MapFS{
		"email_template.md": &fstest.MapFile{Data: []byte(
			"---\ntitle: Wrapped\n---\nHi {{.name}}, you rented {{.total_rentals}} times.\n",
		)},
		"layouts/base.html": &fstest.MapFile{Data: []byte("<html><body>{{.Content}}</body></html>")},
	}
}

func senderConfig() mailer.SenderConfig {
	return mailer.SenderConfig{
		Host:          "smtp.gmail.com",
		Port:          587,
		SenderAddress: "uc@wm.edu",
		SenderName:    "Union Central",
		Credential:    "app-password",
	}
}

func noPause() courier.Option {
	return courier.WithPacer(batch.PacerFunc(func(ctx context.Context, _ time.Duration) error {
		return ctx.Err()
	}))
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := courier.New(courier.WithTemplates(templates(), mailer.RendererConfig{}))
	require.ErrorIs(t, err, courier.ErrNoSender)

	_, err = courier.New(courier.WithSender(&captureSender{}, senderConfig()))
	require.ErrorIs(t, err, courier.ErrNoTemplates)

	_, err = courier.New(
		courier.WithSender(&captureSender{}, senderConfig()),
		courier.WithTemplates(templates(), mailer.RendererConfig{}),
		courier.WithPacing(batch.PacingPolicy{BatchSize: 0}),
	)
	require.ErrorIs(t, err, batch.ErrInvalidPolicy)
}

func TestApp_Send(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	var observed []dispatch.Outcome

	app, err := courier.New(
		courier.WithSender(sender, senderConfig()),
		courier.WithTemplates(templates(), mailer.RendererConfig{}),
		courier.WithSubject("Your semester"),
		courier.WithObserver(dispatch.ObserverFunc(func(_ context.Context, o dispatch.Outcome) {
			observed = append(observed, o)
		})),
	)
	require.NoError(t, err)

	out := app.Send(context.Background(), dispatch.Record{
		"email":         "carlo@wm.edu",
		"name":          " Carlo ",
		"total_rentals": 8,
	})
	require.True(t, out.OK(), out.Err)

	require.Equal(t, 1, sender.count())
	email := sender.sent[0]
	assert.Equal(t, "Your semester", email.Subject)
	assert.Equal(t, "Union Central <uc@wm.edu>", email.From)
	assert.Equal(t, []string{"carlo@wm.edu"}, email.To)
	assert.Contains(t, email.HTML, "Hi Carlo, you rented 8 times.")

	require.Len(t, observed, 1, "each outcome is observed once")
}

func TestApp_SendWithoutRecipient(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	app, err := courier.New(
		courier.WithSender(sender, senderConfig()),
		courier.WithTemplates(templates(), mailer.RendererConfig{}),
	)
	require.NoError(t, err)

	out := app.Send(context.Background(), dispatch.Record{"name": "Carlo"})
	assert.Equal(t, dispatch.ReasonInvalidRecipient, out.Reason)
	assert.Zero(t, sender.count())
}

func TestApp_SendBatch(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	app, err := courier.New(
		courier.WithSender(sender, senderConfig()),
		courier.WithTemplates(templates(), mailer.RendererConfig{}),
		courier.WithPacing(batch.PacingPolicy{BatchSize: 2}),
		noPause(),
	)
	require.NoError(t, err)

	res, err := app.SendBatch(context.Background(), []dispatch.Record{
		{"email": "a@wm.edu", "name": "A", "total_rentals": 1},
		{"email": "", "name": "B", "total_rentals": 2},
		{"email": "c@wm.edu", "name": "C", "total_rentals": 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, sender.count())
}

func TestApp_FailFast(t *testing.T) {
	t.Parallel()

	cfg := senderConfig()
	cfg.Credential = ""
	sender := &captureSender{}

	app, err := courier.New(
		courier.WithSender(sender, cfg),
		courier.WithTemplates(templates(), mailer.RendererConfig{}),
		courier.WithFailFast(),
		noPause(),
	)
	require.NoError(t, err)

	res, err := app.SendBatch(context.Background(), []dispatch.Record{
		{"email": "a@wm.edu", "name": "A", "total_rentals": 1},
		{"email": "b@wm.edu", "name": "B", "total_rentals": 2},
	})
	require.ErrorIs(t, err, batch.ErrPreflightFailed)
	require.ErrorIs(t, err, mailer.ErrIncompleteConfig)
	assert.Equal(t, 2, res.Failed)
	assert.Zero(t, sender.count())
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	t.Run("runs hooks after the batch", func(t *testing.T) {
		t.Parallel()

		var hookCalled bool
		app, err := courier.New(
			courier.WithSender(&captureSender{}, senderConfig()),
			courier.WithTemplates(templates(), mailer.RendererConfig{}),
			courier.WithShutdownHook(func(context.Context) error {
				hookCalled = true
				return nil
			}),
			noPause(),
		)
		require.NoError(t, err)

		res, err := app.Run([]dispatch.Record{{"email": "a@wm.edu", "name": "A", "total_rentals": 1}})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Successful)
		assert.True(t, hookCalled)
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		hookErr := errors.New("flush failed")
		sender := &captureSender{}
		app, err := courier.New(
			courier.WithContext(ctx),
			courier.WithSender(sender, senderConfig()),
			courier.WithTemplates(templates(), mailer.RendererConfig{}),
			courier.WithShutdownHook(func(context.Context) error { return hookErr }),
			noPause(),
		)
		require.NoError(t, err)

		res, err := app.Run([]dispatch.Record{{"email": "a@wm.edu", "name": "A", "total_rentals": 1}})
		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, err, hookErr)
		assert.True(t, res.Canceled)
		assert.Zero(t, sender.count())
	})
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "layouts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrapped.md"), []byte("Hi {{.name}}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layouts", "plain.html"), []byte("<div>{{.Content}}</div>"), 0o600))

	cfg := &config.Config{
		Sender:         senderConfig(),
		Transport:      config.TransportSMTP,
		Template:       config.TemplateConfig{Dir: dir, Name: "wrapped.md", Layout: "plain.html", Subject: "Configured"},
		Pacing:         batch.PacingPolicy{BatchSize: 10},
		RecipientField: "mail",
		MaxValueLength: 5,
		HTML:           sanitizer.HTMLStrip,
	}

	sender := &captureSender{}
	app, err := courier.New(
		courier.WithConfig(cfg),
		courier.WithSender(sender, cfg.Sender),
		noPause(),
	)
	require.NoError(t, err)

	res, err := app.SendBatch(context.Background(), []dispatch.Record{
		{"mail": "carlo@wm.edu", "name": "<b>Carlo</b> Mehegan"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Successful, res.Failures())

	email := sender.sent[0]
	assert.Equal(t, "Configured", email.Subject)
	assert.True(t, strings.HasPrefix(email.HTML, "<div>"))
	assert.Contains(t, email.HTML, "<p>Hi Carlo</p>")
	assert.NotContains(t, email.HTML, "Mehegan", "values are truncated to MaxValueLength")
	assert.NotContains(t, email.HTML, "<b>")
}

func TestWithConfig_SafeHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "layouts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.md"), []byte("Hi {{.name}}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layouts", "base.html"), []byte("{{.Content}}"), 0o600))

	cfg := &config.Config{
		Sender:         senderConfig(),
		Transport:      config.TransportSMTP,
		Template:       config.TemplateConfig{Dir: dir, Name: "note.md", Layout: "base.html"},
		Pacing:         batch.PacingPolicy{BatchSize: 10},
		RecipientField: "email",
		HTML:           sanitizer.HTMLSafe,
	}

	sender := &captureSender{}
	app, err := courier.New(
		courier.WithConfig(cfg),
		courier.WithSender(sender, cfg.Sender),
		noPause(),
	)
	require.NoError(t, err)

	out := app.Send(context.Background(), dispatch.Record{
		"email": "carlo@wm.edu",
		"name":  `<strong>Carlo</strong><script>alert(1)</script>`,
	})
	require.True(t, out.OK(), out.Err)

	html := sender.sent[0].HTML
	assert.Contains(t, html, "<p>Hi <strong>Carlo</strong></p>")
	assert.NotContains(t, html, "<script>")
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	s, err := courier.NewSender("smtp")
	require.NoError(t, err)
	assert.IsType(t, &smtp.Sender{}, s)

	s, err = courier.NewSender("resend")
	require.NoError(t, err)
	assert.IsType(t, &resend.Sender{}, s)

	_, err = courier.NewSender("fax")
	require.ErrorIs(t, err, courier.ErrNoSender)
}

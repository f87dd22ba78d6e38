// Package mailer provides the message model, template rendering and the
// transport contract used by the dispatcher.
//
// # Architecture
//
// The package consists of three main components:
//
//   - Sender: interface that transports implement (see the smtp and resend subpackages)
//   - Renderer: converts markdown templates with YAML frontmatter to HTML
//   - Compose: builds a single-recipient Email from a rendered body
//
// # Templates
//
// Templates are markdown files with optional YAML frontmatter, executed with
// text/template before markdown conversion. Missing variables are errors:
//
//	---
//	Subject: Your semester at Union Central
//	---
//
//	# Hi {{.name}}
//
//	You rented a table {{.total_rentals}} times.
//
//	{{range .top_games}}- {{.name}} ({{.total_minutes}} min)
//	{{end}}
//
//	[!button|See more](https://example.com/wrapped)
//	[!button:secondary|Unsubscribe](mailto:union@wm.edu)
//
// Buttons render as inline-styled links. Only http(s) and mailto targets
// become links; any other target leaves just the label text.
//
// The rendered markdown is wrapped in a layout (html/template) that receives
// the body as {{.Content}} and the frontmatter as {{.Metadata}}.
//
// # Custom Providers
//
// Implement the Sender interface to add support for other transports:
//
//	type MySender struct{}
//
//	func (s *MySender) Send(ctx context.Context, email *mailer.Email, cfg mailer.SenderConfig) error {
//		// connect, authenticate with cfg, deliver
//		return nil
//	}
//
// # Errors
//
//   - ErrIncompleteConfig: SenderConfig is missing a required field
//   - ErrNoRecipient, ErrInvalidRecipient, ErrNoSender, ErrNoSubject, ErrNoContent: Compose input errors
//   - ErrTemplateNotFound, ErrLayoutNotFound: template files missing
//   - ErrRenderFailed: template execution or markdown conversion failed
//   - ErrInvalidFrontmatter: invalid YAML frontmatter
//   - ErrSendFailed: transport failure; both bundled senders wrap their errors with it
package mailer

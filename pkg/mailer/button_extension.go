package mailer

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ButtonVariant selects the look of a call-to-action button.
type ButtonVariant string

// Button variants. A template picks one with [!button:secondary|Label](URL);
// plain [!button|Label](URL) is primary.
const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
)

// Styles are inlined: most mail clients drop <style> blocks.
var buttonStyles = map[ButtonVariant]string{
	ButtonPrimary: "display:inline-block;padding:12px 24px;border-radius:6px;" +
		"background-color:#115740;color:#ffffff;text-decoration:none;font-weight:600;",
	ButtonSecondary: "display:inline-block;padding:10px 22px;border-radius:6px;" +
		"border:2px solid #115740;color:#115740;text-decoration:none;font-weight:600;",
}

// KindButton is the node kind for ButtonNode.
var KindButton = ast.NewNodeKind("Button")

// ButtonNode is a call-to-action link in the AST.
type ButtonNode struct {
	ast.BaseInline
	Label   string
	URL     string
	Variant ButtonVariant
}

func (n *ButtonNode) Kind() ast.NodeKind { return KindButton }

func (n *ButtonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Label":   n.Label,
		"URL":     n.URL,
		"Variant": string(n.Variant),
	}, nil)
}

// Safe reports whether the link target can be rendered as a clickable button.
// Only absolute http(s) and mailto targets qualify.
func (n *ButtonNode) Safe() bool {
	u, err := url.Parse(n.URL)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto":
		return u.Opaque != ""
	default:
		return false
	}
}

var buttonMarker = []byte("[!button")

type buttonParser struct{}

func (buttonParser) Trigger() []byte { return []byte{'['} }

// Parse reads [!button|Label](URL) or [!button:variant|Label](URL). Anything
// else is left to the regular link parser.
func (buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, buttonMarker) {
		return nil
	}
	rest := line[len(buttonMarker):]

	variant := ButtonPrimary
	if len(rest) > 0 && rest[0] == ':' {
		pipe := bytes.IndexByte(rest, '|')
		if pipe < 0 {
			return nil
		}
		variant = ButtonVariant(bytes.TrimSpace(rest[1:pipe]))
		if _, ok := buttonStyles[variant]; !ok {
			return nil
		}
		rest = rest[pipe:]
	}
	if len(rest) == 0 || rest[0] != '|' {
		return nil
	}
	rest = rest[1:]

	labelEnd := bytes.IndexByte(rest, ']')
	if labelEnd < 0 || labelEnd+1 >= len(rest) || rest[labelEnd+1] != '(' {
		return nil
	}
	target := rest[labelEnd+2:]
	targetEnd := bytes.IndexByte(target, ')')
	if targetEnd < 0 {
		return nil
	}

	consumed := len(line) - len(target) + targetEnd + 1
	block.Advance(consumed)

	return &ButtonNode{
		Label:   string(bytes.TrimSpace(rest[:labelEnd])),
		URL:     string(bytes.TrimSpace(target[:targetEnd])),
		Variant: variant,
	}
}

type buttonRenderer struct{}

func (buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, renderButton)
}

// renderButton writes the styled anchor. An unsafe target drops the link and
// keeps the label as text, so a bad record value can never produce a
// javascript: button.
func renderButton(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ButtonNode)
	label := util.EscapeHTML([]byte(n.Label))

	if !n.Safe() {
		_, _ = w.Write(label)
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(n.URL), true)))
	_, _ = w.WriteString(`" class="btn btn-` + string(n.Variant) + `" target="_blank" style="`)
	_, _ = w.WriteString(buttonStyles[n.Variant])
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(label)
	_, _ = w.WriteString(`</a>`)
	return ast.WalkContinue, nil
}

type buttonExtension struct{}

func (buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(buttonParser{}, 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(buttonRenderer{}, 50),
	))
}

// NewButtonExtension returns the goldmark extension that renders campaign
// call-to-action buttons.
func NewButtonExtension() goldmark.Extender {
	return buttonExtension{}
}

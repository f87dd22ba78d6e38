package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// RendererConfig configures template and layout lookup.
type RendererConfig struct {
	TemplateDir string // Default: "."
	LayoutDir   string // Default: "layouts"
	Layout      string // Default: "base.html"

	// AllowHTML passes raw HTML in the markdown through to the output.
	// Off by default, in which case goldmark omits it. Only enable it when
	// record values are sanitized first.
	AllowHTML bool
}

// RenderResult is one personalized body.
type RenderResult struct {
	Metadata map[string]any // frontmatter of the template
	HTML     string         // markdown converted and wrapped in the layout
	Text     string         // the executed markdown, used as the text/plain part
}

// Renderer turns markdown templates with YAML frontmatter into message bodies.
//
// Template bodies are executed with missingkey=error, so a variable absent from
// the record fails the render instead of printing "<no value>". Parsed
// templates and layouts are kept for the life of the Renderer; it is safe for
// concurrent use.
type Renderer struct {
	fs     fs.FS
	md     goldmark.Markdown
	cfg    RendererConfig
	bodies parsedCache[*bodyTemplate]
	frames parsedCache[*template.Template]
}

type bodyTemplate struct {
	metadata map[string]any
	tmpl     *texttemplate.Template
}

// NewRenderer creates a renderer with the default layout lookup.
func NewRenderer(fsys fs.FS) *Renderer {
	return NewRendererWithConfig(fsys, RendererConfig{})
}

// NewRendererWithConfig creates a renderer reading from fsys.
func NewRendererWithConfig(fsys fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}
	if cfg.Layout == "" {
		cfg.Layout = "base.html"
	}

	mdOpts := []goldmark.Option{goldmark.WithExtensions(NewButtonExtension())}
	if cfg.AllowHTML {
		mdOpts = append(mdOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}

	return &Renderer{
		fs:  fsys,
		md:  goldmark.New(mdOpts...),
		cfg: cfg,
	}
}

// Render executes templateName with data and wraps it in the configured layout.
func (r *Renderer) Render(templateName string, data any) (*RenderResult, error) {
	return r.RenderWithLayout(r.cfg.Layout, templateName, data)
}

// RenderWithLayout is Render with an explicit layout.
func (r *Renderer) RenderWithLayout(layout, templateName string, data any) (*RenderResult, error) {
	body, err := r.bodies.get(templateName, r.parseBody)
	if err != nil {
		return nil, err
	}
	frame, err := r.frames.get(layout, r.parseLayout)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := body.tmpl.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, templateName, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: %s: markdown: %v", ErrRenderFailed, templateName, err)
	}

	var page bytes.Buffer
	err = frame.Execute(&page, map[string]any{
		"Content":  template.HTML(content.String()),
		"Metadata": body.metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: body.metadata,
		HTML:     page.String(),
		Text:     markdown.String(),
	}, nil
}

func (r *Renderer) parseBody(name string) (*bodyTemplate, error) {
	content, err := fs.ReadFile(r.fs, path.Join(r.cfg.TemplateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}

	tmpl, err := texttemplate.New(name).Option("missingkey=error").Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
	return &bodyTemplate{metadata: parsed.Metadata, tmpl: tmpl}, nil
}

func (r *Renderer) parseLayout(name string) (*template.Template, error) {
	content, err := fs.ReadFile(r.fs, path.Join(r.cfg.LayoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, name, err)
	}
	return tmpl, nil
}

// parsedCache keeps successfully parsed templates by name. Failures are not
// cached, so a fixed file is picked up on the next render.
type parsedCache[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func (c *parsedCache[T]) get(name string, parse func(string) (T, error)) (T, error) {
	c.mu.RLock()
	v, ok := c.items[name]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[name]; ok {
		return v, nil
	}

	v, err := parse(name)
	if err != nil {
		return v, err
	}
	if c.items == nil {
		c.items = make(map[string]T)
	}
	c.items[name] = v
	return v, nil
}

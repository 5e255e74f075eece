// Package render turns posts into HTML pages using the embedded templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"spacetraveling/internal/post"
)

//go:embed web/templates web/static
var rawContent embed.FS

var webContent fs.FS

func init() {
	var err error
	webContent, err = fs.Sub(rawContent, "web")
	if err != nil {
		panic(fmt.Sprintf("failed to create virtual filesystem for web content: %v", err))
	}
}

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(webContent, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page template names.
const (
	PageIndex    = "index.html"
	PagePost     = "post.html"
	PageNotFound = "404.html"
	PageError    = "error.html"
)

type Renderer struct {
	siteTitle string
	templates map[string]*template.Template
}

func New(siteTitle string) (*Renderer, error) {
	templates, err := LoadTemplates(webContent, funcMap())
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return &Renderer{siteTitle: siteTitle, templates: templates}, nil
}

// Render executes the named page into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Bytes renders the named page into a buffer.
func (r *Renderer) Bytes(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) SiteTitle() string { return r.siteTitle }

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return post.FormatDate(*t)
		},
		"isoDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		},
	}
}

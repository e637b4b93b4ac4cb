package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
)

// Placeholder is shown until the first successful countdown render.
const Placeholder = "--"

//go:embed templates
var templateFS embed.FS

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"interval":    FormatInterval,
		"placeholder": func() string { return Placeholder },
	}
}

// Renderer executes the embedded layouts, partials and pages.
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// BoardPageData feeds pages/board.html.
type BoardPageData struct {
	Date     string
	Displays []DisplayView
}

// DisplayPageData feeds pages/display.html.
type DisplayPageData struct {
	Date    string
	Display DisplayView
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}
	return newRenderer(sub)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	base := template.New("").Funcs(FuncMap())

	if _, err := base.ParseFS(fsys, "layouts/*.html"); err != nil {
		return nil, fmt.Errorf("failed to parse layout templates: %w", err)
	}
	if _, err := base.ParseFS(fsys, "partials/*.html"); err != nil {
		return nil, fmt.Errorf("failed to parse partial templates: %w", err)
	}

	pageFiles, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone templates for page %s: %w", file, err)
		}
		if _, err := clone.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("failed to parse page template %s: %w", file, err)
		}
		pages[path.Base(file)] = clone
	}

	partials, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone partial templates: %w", err)
	}

	return &Renderer{
		pages:    pages,
		partials: partials,
	}, nil
}

// RenderPage executes a page template such as "board.html".
func (r *Renderer) RenderPage(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("page template not found: %s", name)
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

// RenderPartial executes a partial such as "display_card".
func (r *Renderer) RenderPartial(w io.Writer, name string, data any) error {
	return r.partials.ExecuteTemplate(w, name, data)
}

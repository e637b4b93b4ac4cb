package handler

import "io"

// TemplateRenderer defines template rendering used by handlers.
type TemplateRenderer interface {
	RenderPage(w io.Writer, name string, data any) error
	RenderPartial(w io.Writer, name string, data any) error
}

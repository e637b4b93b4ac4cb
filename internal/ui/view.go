package ui

import (
	"time"

	"github.com/drywaters/muadzin/internal/model"
)

// DisplayView decorates a display with UI-only fields.
type DisplayView struct {
	model.Display
	Clock           string
	Target          string
	RefreshInterval time.Duration
	PollInterval    time.Duration
}

// ViewOptions carries page-wide settings used to build views.
type ViewOptions struct {
	Location        *time.Location
	RefreshInterval time.Duration
	PollInterval    time.Duration
}

// NewDisplayView builds the view for one display.
func NewDisplayView(d model.Display, opts ViewOptions) DisplayView {
	v := DisplayView{
		Display:         d,
		RefreshInterval: opts.RefreshInterval,
		PollInterval:    opts.PollInterval,
	}
	if d.Next != nil {
		v.Clock = FormatClock(d.Next.At, opts.Location)
		v.Target = FormatTarget(d.Next.At)
	}
	return v
}

// NewDisplayViews builds views for a list of displays.
func NewDisplayViews(displays []model.Display, opts ViewOptions) []DisplayView {
	views := make([]DisplayView, 0, len(displays))
	for _, d := range displays {
		views = append(views, NewDisplayView(d, opts))
	}
	return views
}

// HasTarget reports whether the display has a next event.
func (v DisplayView) HasTarget() bool {
	return v.Target != ""
}

// Label returns the event label, or a generic one.
func (v DisplayView) Label() string {
	if v.Next != nil && v.Next.Label != "" {
		return v.Next.Label
	}
	return "Next prayer"
}

// Package countdown renders the time remaining until an externally supplied instant
// into a display element, refreshing on a fixed interval.
package countdown

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the refresh period of an active display.
const DefaultInterval = time.Minute

var (
	// ErrActive is returned when activating a display that is already active.
	ErrActive = errors.New("countdown: display already active")
	// ErrDeactivated is returned when activating a display after it was deactivated.
	ErrDeactivated = errors.New("countdown: display deactivated")
)

// Element is the node whose text shows the countdown.
type Element interface {
	// Attribute returns the current value of the named attribute.
	Attribute(name string) (string, bool)

	// SetText replaces the element's text content.
	SetText(text string)
}

type state int

const (
	stateInactive state = iota
	stateActive
	stateDeactivated
)

// Options configures a Display.
type Options struct {
	Interval  time.Duration
	Attribute string
	Clock     Clock
	Location  *time.Location
	Logger    *slog.Logger
}

// Display binds one Element to a recurring render.
type Display struct {
	mu       sync.Mutex
	state    state
	el       Element
	timer    Timer
	next     time.Time
	interval time.Duration
	attr     string
	clock    Clock
	loc      *time.Location
	logger   *slog.Logger
	lastText string
}

// New creates an inactive Display.
func New(opts Options) *Display {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Attribute == "" {
		opts.Attribute = TargetAttribute
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Display{
		interval: opts.Interval,
		attr:     opts.Attribute,
		clock:    opts.Clock,
		loc:      opts.Location,
		logger:   opts.Logger.With("component", "countdown"),
	}
}

// Activate binds el, renders once and starts the refresh timer.
func (d *Display) Activate(el Element) error {
	if el == nil {
		return fmt.Errorf("countdown: activate: nil element")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case stateActive:
		return ErrActive
	case stateDeactivated:
		return ErrDeactivated
	}

	d.el = el
	d.state = stateActive
	d.logger.Debug("countdown activated", "interval", d.interval)

	// Ticks are anchored to activation so render time does not shift the cadence.
	d.next = d.clock.Now()
	d.renderLocked()
	d.scheduleLocked()
	return nil
}

// OnExternalUpdate renders immediately after the element's attributes changed.
// The refresh timer is left as is.
func (d *Display) OnExternalUpdate() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != stateActive {
		return
	}

	d.logger.Debug("countdown updated")
	d.renderLocked()
}

// Deactivate stops the timer and releases the element. It may be called any number
// of times; once it returns no further render touches the element.
func (d *Display) Deactivate() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.state == stateActive {
		d.logger.Debug("countdown deactivated")
	}
	d.el = nil
	d.state = stateDeactivated
}

// Active reports whether the display is bound to an element.
func (d *Display) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == stateActive
}

// Text returns the last text written to the element.
func (d *Display) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastText
}

func (d *Display) tick() {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Deactivate may win the lock after the timer already fired.
	if d.state != stateActive {
		return
	}

	d.renderLocked()
	d.scheduleLocked()
}

// scheduleLocked arms the timer for the next slot after the previous one. When the
// host fell behind by a whole interval the missed slots are dropped, not replayed.
func (d *Display) scheduleLocked() {
	now := d.clock.Now()
	d.next = d.next.Add(d.interval)
	if !d.next.After(now) {
		d.next = now.Add(d.interval)
	}
	d.timer = d.clock.AfterFunc(d.next.Sub(now), d.tick)
}

func (d *Display) renderLocked() {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("countdown render failed", "error", fmt.Errorf("panic: %v", r))
		}
	}()

	text, err := RenderOnce(d.el, d.attr, d.clock.Now(), d.loc)
	switch {
	case errors.Is(err, ErrMissingTarget):
		d.logger.Debug("countdown target not set")
	case errors.Is(err, ErrMalformedTarget):
		d.logger.Error("invalid countdown target", "error", err)
	case err != nil:
		d.logger.Error("countdown render failed", "error", err)
	default:
		d.lastText = text
	}
}

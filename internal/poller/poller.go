// Package poller keeps a countdown element's target attribute in step with the
// server's view of the display.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/drywaters/muadzin/internal/countdown"
)

// Target is the element whose target attribute the poller maintains.
type Target interface {
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
}

// Poller fetches display state from the API.
type Poller struct {
	client  *http.Client
	baseURL string
	attr    string
}

// New creates a Poller for the API at baseURL (e.g. "http://display.local:4500").
func New(baseURL string, client *http.Client) *Poller {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Poller{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		attr:    countdown.TargetAttribute,
	}
}

type displayState struct {
	NextEventAt string `json:"next_event_at"`
}

// Fetch returns the display's next event timestamp, or "" when none is set.
func (p *Poller) Fetch(ctx context.Context, displayID string) (string, error) {
	endpoint := p.baseURL + "/api/displays/" + url.PathEscape(displayID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch display: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status fetching display: %d", resp.StatusCode)
	}

	var state displayState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return "", fmt.Errorf("failed to decode display: %w", err)
	}
	return state.NextEventAt, nil
}

// Sync fetches the display and rewrites the target attribute when it differs.
// It reports whether the attribute changed.
func (p *Poller) Sync(ctx context.Context, displayID string, t Target) (bool, error) {
	next, err := p.Fetch(ctx, displayID)
	if err != nil {
		return false, err
	}

	current, ok := t.Attribute(p.attr)
	switch {
	case next == "" && !ok:
		return false, nil
	case next == "":
		t.RemoveAttribute(p.attr)
		return true, nil
	case ok && current == next:
		return false, nil
	default:
		t.SetAttribute(p.attr, next)
		return true, nil
	}
}

// Run syncs every interval until ctx is done or alive reports false.
// Fetch errors are logged and retried on the next interval.
func (p *Poller) Run(ctx context.Context, displayID string, t Target, interval time.Duration, alive func() bool) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if alive != nil && !alive() {
				return
			}
			changed, err := p.Sync(ctx, displayID, t)
			if err != nil {
				slog.Warn("failed to sync countdown target", "display", displayID, "error", err)
				continue
			}
			if changed {
				slog.Debug("countdown target changed", "display", displayID)
			}
		}
	}
}

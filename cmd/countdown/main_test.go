package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/drywaters/muadzin/internal/countdown"
)

func TestRootOnce(t *testing.T) {
	target := time.Now().Add(2*time.Hour + 5*time.Minute + 30*time.Second).UTC().Format(time.RFC3339)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--target", target, "--label", "Asr in", "--once"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := stdout.String(); !strings.Contains(got, "Asr in 2h 5m") {
		t.Fatalf("output = %q, want it to contain %q", got, "Asr in 2h 5m")
	}
}

func TestRootOnceErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "missing target", args: []string{"--once"}, want: countdown.ErrMissingTarget},
		{name: "malformed target", args: []string{"--once", "--target", "after lunch"}, want: countdown.ErrMalformedTarget},
		{name: "missing target continuous", args: nil, want: countdown.ErrMissingTarget},
		{name: "malformed target continuous", args: []string{"--target", "soon"}, want: countdown.ErrMalformedTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := newRootCmd(&stdout, &stderr)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if stdout.Len() != 0 {
				t.Fatalf("expected no countdown output, got %q", stdout.String())
			}
		})
	}
}

func TestRootInvalidTimezone(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--once", "--target", "2025-03-01 15:42", "--timezone", "Nowhere/Special"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}

func TestTerminalLine(t *testing.T) {
	var buf bytes.Buffer
	line := newTerminalLine(&buf, "2025-03-01T15:42:00Z", "Maghrib")

	if v, ok := line.Attribute(countdown.TargetAttribute); !ok || v != "2025-03-01T15:42:00Z" {
		t.Fatalf("Attribute = %q, %v", v, ok)
	}
	if _, ok := line.Attribute("data-other"); ok {
		t.Fatalf("expected unknown attribute to be absent")
	}

	line.SetText("12m")
	line.SetText("11m")

	if got := line.Text(); got != "11m" {
		t.Fatalf("Text = %q, want 11m", got)
	}
	if got, want := buf.String(), "\r\033[KMaghrib 12m\r\033[KMaghrib 11m"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	empty := newTerminalLine(&buf, "", "")
	if _, ok := empty.Attribute(countdown.TargetAttribute); ok {
		t.Fatalf("expected empty target to be absent")
	}
}

func TestRunUntilCancelled(t *testing.T) {
	var buf bytes.Buffer
	target := time.Now().Add(45 * time.Minute).UTC().Format(time.RFC3339)
	line := newTerminalLine(&buf, target, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, line, countdown.Options{Interval: time.Hour, Location: time.UTC})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for line.Text() == "" {
		if time.Now().After(deadline) {
			t.Fatalf("expected an initial render")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after cancel")
	}

	if got := line.Text(); got != "44m" && got != "45m" {
		t.Fatalf("Text = %q, want 44m or 45m", got)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/drywaters/muadzin/internal/countdown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	target   string
	label    string
	timezone string
	interval time.Duration
	once     bool
	verbose  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:           "countdown",
		Short:         "Show the time remaining until the next prayer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			loc := time.Local
			if opts.timezone != "" {
				l, err := time.LoadLocation(opts.timezone)
				if err != nil {
					return fmt.Errorf("invalid --timezone: %w", err)
				}
				loc = l
			}

			line := newTerminalLine(stdout, opts.target, opts.label)
			if opts.once {
				if _, err := countdown.RenderOnce(line, countdown.TargetAttribute, time.Now(), loc); err != nil {
					return err
				}
				line.Newline()
				return nil
			}

			// A terminal has no external renderer, so a bad target never recovers.
			if opts.target == "" {
				return countdown.ErrMissingTarget
			}
			if _, err := countdown.ParseTarget(opts.target, loc); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, line, countdown.Options{
				Interval: opts.interval,
				Location: loc,
				Logger:   logger,
			})
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVar(&opts.target, "target", "", "next prayer time (RFC 3339 or naive local time)")
	cmd.Flags().StringVar(&opts.label, "label", "", "text shown before the countdown")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "IANA zone for naive timestamps (default local)")
	cmd.Flags().DurationVar(&opts.interval, "interval", countdown.DefaultInterval, "refresh interval")
	cmd.Flags().BoolVar(&opts.once, "once", false, "render once and exit")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func run(ctx context.Context, line *terminalLine, opts countdown.Options) error {
	display := countdown.New(opts)
	if err := display.Activate(line); err != nil {
		return err
	}
	defer display.Deactivate()

	<-ctx.Done()
	line.Newline()
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// terminalLine redraws a single terminal line in place.
type terminalLine struct {
	mu     sync.Mutex
	w      io.Writer
	target string
	label  string
	text   string
}

func newTerminalLine(w io.Writer, target, label string) *terminalLine {
	return &terminalLine{w: w, target: target, label: label}
}

func (l *terminalLine) Attribute(name string) (string, bool) {
	if name != countdown.TargetAttribute || l.target == "" {
		return "", false
	}
	return l.target, true
}

func (l *terminalLine) SetText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text

	prefix := ""
	if l.label != "" {
		prefix = l.label + " "
	}
	fmt.Fprintf(l.w, "\r\033[K%s%s", prefix, text)
}

func (l *terminalLine) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func (l *terminalLine) Newline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w)
}

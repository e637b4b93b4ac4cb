//go:build js && wasm

// Command countdown-wasm binds every countdown on a muadzin page and keeps its
// target in sync with the server.
//
// Build it into STATIC_DIR together with the Go wasm_exec.js loader:
//
//	scripts/buildwasm.sh
//
// or `go generate ./cmd/muadzin`. Pages load /static/wasm_exec.js and
// /static/countdown.wasm; without them countdowns keep their server rendered value.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall/js"
	"time"

	"github.com/drywaters/muadzin/internal/countdown"
	"github.com/drywaters/muadzin/internal/countdown/dom"
	"github.com/drywaters/muadzin/internal/poller"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	document := js.Global().Get("document")
	origin := js.Global().Get("location").Get("origin").String()
	p := poller.New(origin, nil)

	ctx := context.Background()
	registry := dom.NewRegistry(document.Get("body"), countdown.Options{Logger: logger}, func(b *dom.Binding) {
		el := b.Element()
		id, ok := el.Attribute("data-display-id")
		if !ok || id == "" {
			return
		}

		interval := 30 * time.Second
		if raw, ok := el.Attribute("data-poll-interval"); ok {
			if d, err := time.ParseDuration(raw); err == nil && d > 0 {
				interval = d
			}
		}

		alive := func() bool {
			return el.Value().Get("isConnected").Bool()
		}
		go p.Run(ctx, id, el, interval, alive)
	})
	registry.Start()

	logger.Info("countdowns bound", "count", registry.Len())

	select {}
}

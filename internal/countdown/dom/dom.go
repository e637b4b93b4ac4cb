//go:build js && wasm

// Package dom binds countdown displays to browser DOM nodes.
package dom

import (
	"log/slog"
	"sync"
	"syscall/js"
	"time"

	"github.com/drywaters/muadzin/internal/countdown"
)

// Selector matches nodes hosting a countdown.
const Selector = "[data-countdown]"

// Element adapts a DOM node to countdown.Element.
type Element struct {
	v js.Value
}

// NewElement wraps a DOM node.
func NewElement(v js.Value) *Element {
	return &Element{v: v}
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

// SetText replaces the node's text content.
func (e *Element) SetText(text string) {
	e.v.Set("textContent", text)
}

// SetAttribute sets an attribute on the node.
func (e *Element) SetAttribute(name, value string) {
	e.v.Call("setAttribute", name, value)
}

// RemoveAttribute removes an attribute from the node.
func (e *Element) RemoveAttribute(name string) {
	e.v.Call("removeAttribute", name)
}

// Value returns the wrapped node.
func (e *Element) Value() js.Value {
	return e.v
}

// Binding ties one display to one node and observes its target attribute.
type Binding struct {
	el       *Element
	display  *countdown.Display
	observer js.Value
	callback js.Func
	once     sync.Once
}

// Bind activates a display on node and calls OnExternalUpdate whenever the target
// attribute changes. A data-refresh-interval attribute overrides opts.Interval.
func Bind(node js.Value, opts countdown.Options) (*Binding, error) {
	el := NewElement(node)
	if raw, ok := el.Attribute("data-refresh-interval"); ok {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			opts.Interval = d
		}
	}
	if opts.Attribute == "" {
		opts.Attribute = countdown.TargetAttribute
	}

	b := &Binding{
		el:      el,
		display: countdown.New(opts),
	}
	if err := b.display.Activate(el); err != nil {
		return nil, err
	}

	// Callbacks must not block the event loop.
	b.callback = js.FuncOf(func(this js.Value, args []js.Value) any {
		go b.display.OnExternalUpdate()
		return nil
	})
	b.observer = js.Global().Get("MutationObserver").New(b.callback)
	b.observer.Call("observe", node, map[string]any{
		"attributes":      true,
		"attributeFilter": []any{opts.Attribute},
	})

	return b, nil
}

// Element returns the bound element.
func (b *Binding) Element() *Element {
	return b.el
}

// Unbind stops observing the node and deactivates the display.
func (b *Binding) Unbind() {
	b.once.Do(func() {
		b.observer.Call("disconnect")
		b.callback.Release()
	})
	b.display.Deactivate()
}

// Registry keeps one binding per countdown node under a root and follows nodes
// being added to or removed from the document.
type Registry struct {
	mu       sync.Mutex
	root     js.Value
	opts     countdown.Options
	logger   *slog.Logger
	bindings []*Binding
	observer js.Value
	callback js.Func
	onBind   func(*Binding)
}

// NewRegistry creates a registry for countdowns under root. onBind, when set, is
// called for every new binding.
func NewRegistry(root js.Value, opts countdown.Options, onBind func(*Binding)) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{root: root, opts: opts, logger: logger, onBind: onBind}
}

// Start binds existing nodes and watches the subtree for changes.
func (r *Registry) Start() {
	r.Scan()

	r.callback = js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 && !NeedsRescan(mutations(args[0])) {
			return nil
		}
		go r.Scan()
		return nil
	})
	r.observer = js.Global().Get("MutationObserver").New(r.callback)
	r.observer.Call("observe", r.root, map[string]any{
		"childList": true,
		"subtree":   true,
	})
}

// Scan unbinds detached nodes and binds new ones.
func (r *Registry) Scan() {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.bindings[:0]
	for _, b := range r.bindings {
		if b.el.Value().Get("isConnected").Bool() {
			kept = append(kept, b)
			continue
		}
		b.Unbind()
		r.logger.Debug("countdown node removed")
	}
	r.bindings = kept

	nodes := r.root.Call("querySelectorAll", Selector)
	for i := 0; i < nodes.Length(); i++ {
		node := nodes.Index(i)
		if r.boundLocked(node) {
			continue
		}
		b, err := Bind(node, r.opts)
		if err != nil {
			r.logger.Error("failed to bind countdown", "error", err)
			continue
		}
		r.bindings = append(r.bindings, b)
		if r.onBind != nil {
			r.onBind(b)
		}
	}
}

// Len returns the number of live bindings.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}

// Stop unbinds every node and stops watching the subtree.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.callback.Truthy() {
		r.observer.Call("disconnect")
		r.callback.Release()
	}
	for _, b := range r.bindings {
		b.Unbind()
	}
	r.bindings = nil
}

// mutations converts a JS MutationRecord list.
func mutations(records js.Value) []Mutation {
	out := make([]Mutation, 0, records.Length())
	for i := 0; i < records.Length(); i++ {
		rec := records.Index(i)
		target := rec.Get("target")
		in := false
		if target.Get("nodeType").Int() == 1 {
			in = !target.Call("closest", Selector).IsNull()
		}
		out = append(out, Mutation{Type: rec.Get("type").String(), InCountdown: in})
	}
	return out
}

func (r *Registry) boundLocked(node js.Value) bool {
	for _, b := range r.bindings {
		if b.el.Value().Equal(node) {
			return true
		}
	}
	return false
}

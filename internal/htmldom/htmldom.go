// Package htmldom runs countdown renders against parsed HTML so pages carry a
// current value before the browser binding starts.
package htmldom

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/drywaters/muadzin/internal/countdown"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkerAttribute flags elements that host a countdown.
const MarkerAttribute = "data-countdown"

// Element adapts an html.Node to countdown.Element.
type Element struct {
	node *html.Node
}

// NewElement wraps n.
func NewElement(n *html.Node) *Element {
	return &Element{node: n}
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Text returns the concatenated text of the element's direct text children.
func (e *Element) Text() string {
	var s string
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			s += c.Data
		}
	}
	return s
}

// FindCountdowns returns every element carrying MarkerAttribute, in document order.
func FindCountdowns(root *html.Node) []*Element {
	var out []*Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == MarkerAttribute {
					out = append(out, NewElement(n))
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// Prerender parses the document from r, renders every countdown once as of now and
// writes the result to w. Countdowns without a usable target keep their content.
func Prerender(r io.Reader, w io.Writer, now time.Time, loc *time.Location) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}

	renderCountdowns(doc, now, loc)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// PrerenderFragment is Prerender for a body fragment such as a single partial.
func PrerenderFragment(r io.Reader, w io.Writer, now time.Time, loc *time.Location) error {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return fmt.Errorf("failed to parse fragment: %w", err)
	}

	for _, n := range nodes {
		renderCountdowns(n, now, loc)
	}
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("failed to render fragment: %w", err)
		}
	}
	return nil
}

func renderCountdowns(root *html.Node, now time.Time, loc *time.Location) {
	for _, el := range FindCountdowns(root) {
		if _, err := countdown.RenderOnce(el, countdown.TargetAttribute, now, loc); err != nil {
			if errors.Is(err, countdown.ErrMalformedTarget) {
				slog.Warn("skipping countdown prerender", "error", err)
			}
		}
	}
}

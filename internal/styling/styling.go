// Package styling holds the animation catalog used by the display pages.
package styling

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed animations.yaml
var defaultAnimations []byte

// Keyframe is one step of an animation.
type Keyframe struct {
	At    string
	Style string
}

// Animation describes a named CSS animation.
type Animation struct {
	Name       string
	Duration   time.Duration
	Easing     string
	Iterations string
	Keyframes  []Keyframe
}

// Shorthand returns the value of the CSS animation property,
// e.g. "pulse-banner 2s ease-in-out infinite".
func (a Animation) Shorthand() string {
	return fmt.Sprintf("%s %s %s %s", a.Name, cssSeconds(a.Duration), a.Easing, a.Iterations)
}

// ClassName returns the utility class applying the animation.
func (a Animation) ClassName() string {
	return "animate-" + a.Name
}

// Catalog is an ordered set of animations.
type Catalog struct {
	animations []Animation
}

type yamlKeyframe struct {
	At    string `yaml:"at"`
	Style string `yaml:"style"`
}

type yamlAnimation struct {
	Duration   string         `yaml:"duration"`
	Easing     string         `yaml:"easing"`
	Iterations string         `yaml:"iterations"`
	Keyframes  []yamlKeyframe `yaml:"keyframes"`
}

type yamlCatalog struct {
	Animations map[string]yamlAnimation `yaml:"animations"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Load(defaultAnimations)
	if err != nil {
		panic(fmt.Sprintf("styling: invalid embedded catalog: %v", err))
	}
	return c
}

// Load parses a YAML animation catalog.
func Load(data []byte) (*Catalog, error) {
	var raw yamlCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse animations yaml: %w", err)
	}
	if len(raw.Animations) == 0 {
		return nil, fmt.Errorf("no animations defined")
	}

	names := make([]string, 0, len(raw.Animations))
	for name := range raw.Animations {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &Catalog{animations: make([]Animation, 0, len(names))}
	for _, name := range names {
		a, err := buildAnimation(name, raw.Animations[name])
		if err != nil {
			return nil, err
		}
		c.animations = append(c.animations, a)
	}
	return c, nil
}

func buildAnimation(name string, raw yamlAnimation) (Animation, error) {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t{};") {
		return Animation{}, fmt.Errorf("invalid animation name %q", name)
	}

	d, err := time.ParseDuration(raw.Duration)
	if err != nil {
		return Animation{}, fmt.Errorf("animation %s: invalid duration: %w", name, err)
	}
	if d <= 0 {
		return Animation{}, fmt.Errorf("animation %s: duration must be positive", name)
	}

	easing := strings.TrimSpace(raw.Easing)
	if easing == "" {
		return Animation{}, fmt.Errorf("animation %s: easing is required", name)
	}

	iterations := strings.TrimSpace(raw.Iterations)
	if iterations == "" {
		iterations = "1"
	}
	if iterations != "infinite" {
		if n, err := strconv.ParseFloat(iterations, 64); err != nil || n <= 0 {
			return Animation{}, fmt.Errorf("animation %s: invalid iterations %q", name, raw.Iterations)
		}
	}

	if len(raw.Keyframes) == 0 {
		return Animation{}, fmt.Errorf("animation %s: keyframes are required", name)
	}
	frames := make([]Keyframe, 0, len(raw.Keyframes))
	for _, kf := range raw.Keyframes {
		if strings.TrimSpace(kf.At) == "" {
			return Animation{}, fmt.Errorf("animation %s: keyframe offset is required", name)
		}
		frames = append(frames, Keyframe{At: strings.TrimSpace(kf.At), Style: strings.TrimSpace(kf.Style)})
	}

	return Animation{
		Name:       name,
		Duration:   d,
		Easing:     easing,
		Iterations: iterations,
		Keyframes:  frames,
	}, nil
}

// Animations returns the catalog entries sorted by name.
func (c *Catalog) Animations() []Animation {
	out := make([]Animation, len(c.animations))
	copy(out, c.animations)
	return out
}

// Lookup returns the animation with the given name.
func (c *Catalog) Lookup(name string) (Animation, bool) {
	for _, a := range c.animations {
		if a.Name == name {
			return a, true
		}
	}
	return Animation{}, false
}

// CSS renders keyframes and utility classes for every animation.
func (c *Catalog) CSS() string {
	var b strings.Builder
	for i, a := range c.animations {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "@keyframes %s {\n", a.Name)
		for _, kf := range a.Keyframes {
			fmt.Fprintf(&b, "  %s { %s }\n", kf.At, kf.Style)
		}
		b.WriteString("}\n")
		fmt.Fprintf(&b, ".%s {\n  animation: %s;\n}\n", a.ClassName(), a.Shorthand())
	}
	return b.String()
}

func cssSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

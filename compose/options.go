package compose

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/milk9111/tmxrender/render"
	"github.com/milk9111/tmxrender/tmx"
)

// Policy decides what happens when a single tile cannot be drawn because its
// GID, atlas geometry or image is bad.
type Policy int

const (
	// PolicyAbort stops the render and returns the error.
	PolicyAbort Policy = iota
	// PolicySkip logs the error and leaves the tile out.
	PolicySkip
	// PolicyPlaceholder logs the error and fills the tile area with a colour.
	PolicyPlaceholder
)

func (p Policy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicySkip:
		return "skip"
	case PolicyPlaceholder:
		return "placeholder"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses the name of a policy. The empty string is PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return PolicyAbort, nil
	case "skip":
		return PolicySkip, nil
	case "placeholder":
		return PolicyPlaceholder, nil
	}
	return PolicyAbort, fmt.Errorf("compose: unknown error policy %q", s)
}

// LayerFilter decides whether a visible layer is composed.
type LayerFilter interface {
	Include(index int, l tmx.Layer) (bool, error)
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Compositor) { c.logger = l }
}

// WithPolicy sets the per-tile error policy.
func WithPolicy(p Policy) Option {
	return func(c *Compositor) { c.policy = p }
}

// WithPlaceholder sets the colour used by PolicyPlaceholder.
func WithPlaceholder(col color.Color) Option {
	return func(c *Compositor) { c.placeholder = col }
}

// WithBackground fills the canvas before any layer is drawn. It takes
// precedence over the map's own background colour.
func WithBackground(col color.Color) Option {
	return func(c *Compositor) { c.background = col }
}

// WithFilter excludes the layers for which f returns false.
func WithFilter(f LayerFilter) Option {
	return func(c *Compositor) { c.filter = f }
}

// WithLayerHook registers fn to be called once each layer is done, whether it
// was painted or left out. It is not called for a layer that failed.
func WithLayerHook(fn func(index, total int, l tmx.Layer)) Option {
	return func(c *Compositor) { c.hook = fn }
}

// WithCache shares an image cache between compositors or renders.
func WithCache(cache *render.Cache) Option {
	return func(c *Compositor) { c.cache = cache }
}

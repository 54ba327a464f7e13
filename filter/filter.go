// Package filter selects which map layers get composed.
//
// An Expr is a tengo expression evaluated once per visible layer with these
// variables defined:
//
//	name     layer name
//	kind     "tile" or "object"
//	index    position of the layer in paint order
//	visible  always true for layers reaching the filter
//
// The tengo text, math and fmt modules are importable, so expressions such as
// `import("text").has_prefix(name, "bg_")` work. Modules reaching outside the
// process, such as os, are not.
package filter

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tmxrender/tmx"
)

const resultVar = "__include"

var modules = []string{"text", "math", "fmt"}

// Expr is a compiled layer filter expression.
type Expr struct {
	src      string
	compiled *tengo.Compiled
}

// Compile parses expr. An empty expression yields a nil *Expr, which callers
// should treat as "no filter".
func Compile(expr string) (*Expr, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	script := tengo.NewScript([]byte(resultVar + " := (" + expr + ")"))
	_ = script.Add("name", "")
	_ = script.Add("kind", "")
	_ = script.Add("index", 0)
	_ = script.Add("visible", true)

	script.SetImports(stdlib.GetModuleMap(modules...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("filter: compile %q: %w", expr, err)
	}
	return &Expr{src: expr, compiled: compiled}, nil
}

// String returns the source of the expression.
func (e *Expr) String() string {
	return e.src
}

// Include evaluates the expression for layer l at position index.
func (e *Expr) Include(index int, l tmx.Layer) (bool, error) {
	vars := map[string]any{
		"name":    l.LayerName(),
		"kind":    kindOf(l),
		"index":   index,
		"visible": l.IsVisible(),
	}
	for k, v := range vars {
		if err := e.compiled.Set(k, v); err != nil {
			return false, fmt.Errorf("filter: set %s: %w", k, err)
		}
	}

	if err := e.compiled.Run(); err != nil {
		return false, fmt.Errorf("filter: run %q on layer %q: %w", e.src, l.LayerName(), err)
	}

	v := e.compiled.Get(resultVar)
	b, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter: %q returned %s, want bool", e.src, v.ValueType())
	}
	return b, nil
}

func kindOf(l tmx.Layer) string {
	kind := ""
	_ = tmx.MatchLayer(l,
		func(*tmx.TileLayer) error {
			kind = "tile"
			return nil
		},
		func(*tmx.ObjectLayer) error {
			kind = "object"
			return nil
		},
	)
	return kind
}

// Hide excludes layers by exact name.
type Hide map[string]bool

// NewHide returns a Hide filter for names, or nil when names is empty.
func NewHide(names ...string) Hide {
	if len(names) == 0 {
		return nil
	}
	h := make(Hide, len(names))
	for _, n := range names {
		h[n] = true
	}
	return h
}

func (h Hide) Include(_ int, l tmx.Layer) (bool, error) {
	return !h[l.LayerName()], nil
}

// Layer is the filter contract shared with the compositor.
type Layer interface {
	Include(index int, l tmx.Layer) (bool, error)
}

// All includes a layer only when every non-nil filter does. It returns nil
// when no filter remains.
func All(filters ...Layer) Layer {
	var fs chain
	for _, f := range filters {
		if isNil(f) {
			continue
		}
		fs = append(fs, f)
	}
	switch len(fs) {
	case 0:
		return nil
	case 1:
		return fs[0]
	}
	return fs
}

func isNil(f Layer) bool {
	switch v := f.(type) {
	case nil:
		return true
	case *Expr:
		return v == nil
	case Hide:
		return v == nil
	}
	return false
}

type chain []Layer

func (c chain) Include(index int, l tmx.Layer) (bool, error) {
	for _, f := range c {
		ok, err := f.Include(index, l)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

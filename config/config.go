// Package config loads render settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/tmxrender/compose"
	"github.com/milk9111/tmxrender/filter"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// DefaultDebounce is the watch debounce used when the file sets none.
const DefaultDebounce = 100 * time.Millisecond

type Config struct {
	Output      string      `yaml:"output"`
	Background  Color       `yaml:"background"`
	OnError     string      `yaml:"on_error"`
	Placeholder Color       `yaml:"placeholder"`
	LayerFilter string      `yaml:"layer_filter"`
	HideLayers  []string    `yaml:"hide_layers"`
	Watch       WatchConfig `yaml:"watch"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Output:      "map.png",
		OnError:     compose.PolicyAbort.String(),
		Placeholder: Color{colornames.Magenta},
		Watch:       WatchConfig{Debounce: DefaultDebounce},
	}
}

// Load reads the file at path over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML settings over the defaults and validates them.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be checked while decoding.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output must not be empty")
	}
	if _, err := compose.ParsePolicy(c.OnError); err != nil {
		return fmt.Errorf("on_error: %w", err)
	}
	if _, err := filter.Compile(c.LayerFilter); err != nil {
		return fmt.Errorf("layer_filter: %w", err)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}
	return nil
}

// Options translates the settings into compositor options.
func (c *Config) Options() ([]compose.Option, error) {
	policy, err := compose.ParsePolicy(c.OnError)
	if err != nil {
		return nil, fmt.Errorf("config: on_error: %w", err)
	}
	expr, err := filter.Compile(c.LayerFilter)
	if err != nil {
		return nil, fmt.Errorf("config: layer_filter: %w", err)
	}

	opts := []compose.Option{compose.WithPolicy(policy)}
	if c.Placeholder.Color != nil {
		opts = append(opts, compose.WithPlaceholder(c.Placeholder.Color))
	}
	if c.Background.Color != nil {
		opts = append(opts, compose.WithBackground(c.Background.Color))
	}

	var fs []filter.Layer
	if expr != nil {
		fs = append(fs, expr)
	}
	if hide := filter.NewHide(c.HideLayers...); hide != nil {
		fs = append(fs, hide)
	}
	if f := filter.All(fs...); f != nil {
		opts = append(opts, compose.WithFilter(f))
	}
	return opts, nil
}

// Color is a colour written as #RRGGBB, #RRGGBBAA or an SVG colour name.
type Color struct {
	color.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	col, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = col
	return nil
}

// ParseColor parses a hex colour or a name from golang.org/x/image/colornames.
// The empty string and "none" yield a nil colour.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none":
		return nil, nil
	case "transparent":
		return color.Transparent, nil
	}

	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[s]
		if !ok {
			return nil, fmt.Errorf("unknown color name %q", s)
		}
		return c, nil
	}

	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("invalid color format: %s", s)
	}

	var ch [4]uint8
	ch[3] = 0xff
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color format: %s", s)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

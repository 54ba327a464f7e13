package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/tmxrender/compose"
	"github.com/milk9111/tmxrender/config"
	"github.com/milk9111/tmxrender/render"
	"github.com/milk9111/tmxrender/tmx"
)

// settings are the flags shared by every command that composes a map. Flags
// left empty keep the value from the config file.
type settings struct {
	configPath string
	output     string
	onError    string
	filter     string
	hide       string
	background string
}

func (s *settings) register(f *flag.FlagSet, withOutput bool) {
	f.StringVar(&s.configPath, "config", "", "YAML config file")
	if withOutput {
		f.StringVar(&s.output, "o", "", "Output PNG path (default map.png)")
	}
	f.StringVar(&s.onError, "on-error", "", "Per-tile error policy (abort, skip, placeholder)")
	f.StringVar(&s.filter, "filter", "", "tengo expression selecting layers, e.g. 'kind == \"tile\"'")
	f.StringVar(&s.hide, "hide", "", "Comma-separated layer names to leave out")
	f.StringVar(&s.background, "bg", "", "Background colour (#RRGGBB[AA] or a colour name)")
}

// load reads the config file, if any, and applies the flag overrides.
func (s *settings) load() (*config.Config, error) {
	cfg := config.Default()
	if s.configPath != "" {
		var err error
		if cfg, err = config.Load(s.configPath); err != nil {
			return nil, err
		}
	}

	if s.output != "" {
		cfg.Output = s.output
	}
	if s.onError != "" {
		cfg.OnError = s.onError
	}
	if s.filter != "" {
		cfg.LayerFilter = s.filter
	}
	if s.hide != "" {
		for _, name := range strings.Split(s.hide, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.HideLayers = append(cfg.HideLayers, name)
			}
		}
	}
	if s.background != "" {
		c, err := config.ParseColor(s.background)
		if err != nil {
			return nil, fmt.Errorf("-bg: %w", err)
		}
		cfg.Background = config.Color{Color: c}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// mapArg returns the single map path of a command line.
func mapArg(f *flag.FlagSet) (string, bool) {
	if f.NArg() != 1 {
		log.Printf("expected exactly one map file, got %d arguments", f.NArg())
		return "", false
	}
	return f.Arg(0), true
}

// unsupported reports whether err is an input this tool declines to render.
// Such maps are reported and skipped rather than treated as failures.
func unsupported(err error) bool {
	return errors.Is(err, compose.ErrUnsupportedOrientation) || errors.Is(err, tmx.ErrUnsupported)
}

// composeFile loads the map at path and composes it with cfg.
func composeFile(path string, cfg *config.Config, cache *render.Cache, extra ...compose.Option) (*tmx.Map, *image.RGBA, compose.Stats, error) {
	m, err := tmx.LoadFile(path)
	if err != nil {
		return nil, nil, compose.Stats{}, err
	}

	opts, err := cfg.Options()
	if err != nil {
		return m, nil, compose.Stats{}, err
	}
	opts = append(opts, compose.WithCache(cache))
	opts = append(opts, extra...)

	c := compose.New(nil, opts...)
	img, err := c.Compose(m)
	return m, img, c.Stats(), err
}

func writeOutput(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return render.WritePNG(path, img)
}

func logStats(output string, img *image.RGBA, st compose.Stats) {
	size := img.Bounds().Size()
	log.Printf("Wrote %s (%dx%d): %d layers, %d tiles, %d skipped, %d placeholders.",
		output, size.X, size.Y, st.Layers, st.Tiles, st.SkippedTiles, st.Placeholders)
}

package config_test

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/tmxrender/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output: out/level1.png
background: "#10203080"
on_error: placeholder
placeholder: lime
layer_filter: 'name != "collision"'
hide_layers: [debug, notes]
watch:
  debounce: 250ms
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	want := &config.Config{
		Output:      "out/level1.png",
		Background:  config.Color{Color: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x80}},
		OnError:     "placeholder",
		Placeholder: config.Color{Color: colornames.Lime},
		LayerFilter: `name != "collision"`,
		HideLayers:  []string{"debug", "notes"},
		Watch:       config.WatchConfig{Debounce: 250 * time.Millisecond},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	opts, err := cfg.Options()
	require.NoError(t, err)
	if got, want := len(opts), 4; got != want {
		t.Errorf("len(Options) = %d, want = %d", got, want)
	}
}

func TestParseDefaults(t *testing.T) {
	for _, data := range []string{"", "output: map.png\n"} {
		cfg, err := config.Parse([]byte(data))
		require.NoError(t, err)
		if diff := cmp.Diff(config.Default(), cfg); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", data, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown_key", data: "outptu: x.png\n"},
		{name: "bad_policy", data: "on_error: retry\n"},
		{name: "bad_color", data: "background: '#12345'\n"},
		{name: "unknown_color_name", data: "placeholder: notacolor\n"},
		{name: "color_list", data: "background: [1, 2]\n"},
		{name: "bad_filter", data: "layer_filter: 'name =='\n"},
		{name: "empty_output", data: "output: ''\n"},
		{name: "negative_debounce", data: "watch:\n  debounce: -1s\n"},
		{name: "bad_debounce", data: "watch:\n  debounce: soon\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := config.Parse([]byte(tc.data)); err == nil {
				t.Errorf("Parse(%q) expected error", tc.data)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
	}{
		{in: "", want: nil},
		{in: "none", want: nil},
		{in: "transparent", want: color.Transparent},
		{in: "#ff8000", want: color.NRGBA{R: 0xff, G: 0x80, A: 0xff}},
		{in: "#FF800040", want: color.NRGBA{R: 0xff, G: 0x80, A: 0x40}},
		{in: "Magenta", want: colornames.Magenta},
		{in: " skyblue ", want: colornames.Skyblue},
	}
	for _, tc := range tests {
		got, err := config.ParseColor(tc.in)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want = %v", tc.in, got, tc.want)
		}
	}

	for _, in := range []string{"#12", "#gggggg", "ultraviolet"} {
		if _, err := config.ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) expected error", in)
		}
	}
}

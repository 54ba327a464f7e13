package filter_test

import (
	"testing"

	"github.com/milk9111/tmxrender/filter"
	"github.com/milk9111/tmxrender/tmx"
	"github.com/stretchr/testify/require"
)

func layers() []tmx.Layer {
	return []tmx.Layer{
		&tmx.TileLayer{Name: "bg_sky", Visible: true},
		&tmx.TileLayer{Name: "ground", Visible: true},
		&tmx.ObjectLayer{Name: "things", Visible: true},
		&tmx.TileLayer{Name: "debug", Visible: true},
	}
}

func included(t *testing.T, f filter.Layer) []string {
	t.Helper()
	var names []string
	for i, l := range layers() {
		ok, err := f.Include(i, l)
		require.NoError(t, err)
		if ok {
			names = append(names, l.LayerName())
		}
	}
	return names
}

func TestExpr(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{name: "by_name", expr: `name != "debug"`, want: []string{"bg_sky", "ground", "things"}},
		{name: "by_kind", expr: `kind == "object"`, want: []string{"things"}},
		{name: "by_index", expr: `index < 2`, want: []string{"bg_sky", "ground"}},
		{name: "visible", expr: `visible`, want: []string{"bg_sky", "ground", "things", "debug"}},
		{name: "stdlib", expr: `import("text").has_prefix(name, "bg_")`, want: []string{"bg_sky"}},
		{name: "fmt", expr: `import("fmt").sprintf("%d", index) == "1"`, want: []string{"ground"}},
		{name: "combined", expr: `kind == "tile" && name != "debug"`, want: []string{"bg_sky", "ground"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := filter.Compile(tc.expr)
			require.NoError(t, err)
			require.Equal(t, tc.want, included(t, e))
		})
	}
}

func TestCompileEmpty(t *testing.T) {
	e, err := filter.Compile("  ")
	require.NoError(t, err)
	if e != nil {
		t.Errorf("Compile(blank) = %v, want nil", e)
	}
}

func TestCompileError(t *testing.T) {
	if _, err := filter.Compile(`name ==`); err == nil {
		t.Errorf("Compile expected error")
	}
}

func TestCompileRestrictsImports(t *testing.T) {
	for _, mod := range []string{"os", "rand", "times"} {
		expr := `import("` + mod + `") != undefined`
		if _, err := filter.Compile(expr); err == nil {
			t.Errorf("Compile(%s) expected error, module %q should not be importable", expr, mod)
		}
	}
}

func TestExprNonBool(t *testing.T) {
	e, err := filter.Compile(`index + 1`)
	require.NoError(t, err)

	if _, err := e.Include(0, layers()[0]); err == nil {
		t.Errorf("Include expected error for a non-bool result")
	}
}

func TestHide(t *testing.T) {
	require.Equal(t, []string{"bg_sky", "things"}, included(t, filter.NewHide("ground", "debug")))

	if h := filter.NewHide(); h != nil {
		t.Errorf("NewHide() = %v, want nil", h)
	}
}

func TestAll(t *testing.T) {
	e, err := filter.Compile(`kind == "tile"`)
	require.NoError(t, err)

	f := filter.All(e, filter.NewHide("debug"))
	require.Equal(t, []string{"bg_sky", "ground"}, included(t, f))

	var none *filter.Expr
	if got := filter.All(none, filter.NewHide()); got != nil {
		t.Errorf("All(nil filters) = %v, want nil", got)
	}
	if got := filter.All(none, e); got != filter.Layer(e) {
		t.Errorf("All(nil, e) = %v, want e", got)
	}
}

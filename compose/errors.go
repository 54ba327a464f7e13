package compose

import (
	"errors"
	"fmt"
	"image"

	"github.com/milk9111/tmxrender/atlas"
	"github.com/milk9111/tmxrender/render"
	"github.com/milk9111/tmxrender/tmx"
)

var (
	ErrUnsupportedOrientation = errors.New("compose: can render only orthogonal maps")
	ErrMalformedMap           = errors.New("compose: malformed map")
)

// LayerError attributes a failure to a layer and to the cell or object that
// caused it.
type LayerError struct {
	Layer string
	Index int
	// Object is set when the failure comes from an object layer; Pos is then
	// the object position in pixels, otherwise the grid cell.
	Object   bool
	ObjectID int
	Pos      image.Point
	GID      tmx.GID
	Err      error
}

func (e *LayerError) Error() string {
	where := fmt.Sprintf("cell (%d, %d)", e.Pos.X, e.Pos.Y)
	if e.Object {
		where = fmt.Sprintf("object %d at (%d, %d)", e.ObjectID, e.Pos.X, e.Pos.Y)
	}
	return fmt.Sprintf("compose: layer %q (#%d), %s, gid %d: %v", e.Layer, e.Index, where, e.GID, e.Err)
}

func (e *LayerError) Unwrap() error { return e.Err }

// recoverable reports whether err concerns a single tile and may be handled
// by the error policy.
func recoverable(err error) bool {
	var (
		lookup   *atlas.LookupError
		geometry *atlas.GeometryError
		resource *render.ResourceError
	)
	return errors.As(err, &lookup) || errors.As(err, &geometry) || errors.As(err, &resource)
}

package tmx

import "fmt"

// Layer is either a *TileLayer or an *ObjectLayer.
type Layer interface {
	LayerName() string
	IsVisible() bool
	isLayer()
}

// TileLayer is a dense row-major grid of cells.
type TileLayer struct {
	Name    string
	Visible bool
	Width   int
	Height  int
	Cells   []GID
}

func (l *TileLayer) LayerName() string { return l.Name }
func (l *TileLayer) IsVisible() bool   { return l.Visible }
func (*TileLayer) isLayer()            {}

// ObjectLayer is a collection of freely positioned objects.
type ObjectLayer struct {
	Name    string
	Visible bool
	Objects []Object
}

func (l *ObjectLayer) LayerName() string { return l.Name }
func (l *ObjectLayer) IsVisible() bool   { return l.Visible }
func (*ObjectLayer) isLayer()            {}

// MatchLayer calls the handler matching the concrete type of l. Every caller
// names a handler per layer kind, so a new kind cannot be silently ignored.
func MatchLayer(l Layer, tiles func(*TileLayer) error, objects func(*ObjectLayer) error) error {
	switch v := l.(type) {
	case *TileLayer:
		return tiles(v)
	case *ObjectLayer:
		return objects(v)
	}
	return fmt.Errorf("tmx: unknown layer type %T", l)
}

// Object is either a *TileObject or a *ShapeObject.
type Object interface {
	ObjectName() string
	IsVisible() bool
	isObject()
}

// TileObject draws a tile at an arbitrary pixel position. X and Y mark the
// bottom-left corner of the tile.
type TileObject struct {
	ID      int
	Name    string
	Class   string
	GID     GID
	X, Y    float64
	Visible bool
}

func (o *TileObject) ObjectName() string { return o.Name }
func (o *TileObject) IsVisible() bool    { return o.Visible }
func (*TileObject) isObject()            {}

// ShapeKind is the geometry of a ShapeObject.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapePoint     ShapeKind = "point"
	ShapePolygon   ShapeKind = "polygon"
	ShapePolyline  ShapeKind = "polyline"
	ShapeText      ShapeKind = "text"
)

// ShapeObject is any object that does not reference a tile.
type ShapeObject struct {
	ID            int
	Name          string
	Class         string
	Kind          ShapeKind
	X, Y          float64
	Width, Height float64
	Visible       bool
}

func (o *ShapeObject) ObjectName() string { return o.Name }
func (o *ShapeObject) IsVisible() bool    { return o.Visible }
func (*ShapeObject) isObject()            {}

// MatchObject calls the handler matching the concrete type of o.
func MatchObject(o Object, tile func(*TileObject) error, shape func(*ShapeObject) error) error {
	switch v := o.(type) {
	case *TileObject:
		return tile(v)
	case *ShapeObject:
		return shape(v)
	}
	return fmt.Errorf("tmx: unknown object type %T", o)
}

// Package tmx holds the in-memory model of a tile map and a decoder for the
// TMX/TSX formats produced by the Tiled editor.
package tmx

import "image/color"

// Orientation is the projection of a map.
type Orientation string

const (
	Orthogonal Orientation = "orthogonal"
	Isometric  Orientation = "isometric"
	Staggered  Orientation = "staggered"
	Hexagonal  Orientation = "hexagonal"
)

// Map is a decoded tile map. Tilesets are kept in GID priority order and
// layers in paint order (first layer is drawn first, at the bottom).
type Map struct {
	Orientation Orientation
	// Width and Height are the size of the map in tiles.
	Width  int
	Height int
	// TileWidth and TileHeight are the size of one grid cell in pixels.
	TileWidth  int
	TileHeight int
	Infinite   bool

	// BackgroundColor is nil when the map declares none.
	BackgroundColor color.Color

	Tilesets []*Tileset
	Layers   []Layer
}

// PixelSize returns the size of the rendered map in pixels.
func (m *Map) PixelSize() (int, int) {
	return m.Width * m.TileWidth, m.Height * m.TileHeight
}

// Layer returns the first layer with the given name.
func (m *Map) Layer(name string) (Layer, bool) {
	for _, l := range m.Layers {
		if l.LayerName() == name {
			return l, true
		}
	}
	return nil, false
}

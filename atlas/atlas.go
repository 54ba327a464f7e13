// Package atlas resolves global tile identifiers to tilesets and to the pixel
// source of a tile: a rectangle of a packed atlas image or a standalone image.
//
// Everything here is pure arithmetic over the map model; image sizes come
// from the caller.
package atlas

import (
	"image"

	"github.com/milk9111/tmxrender/tmx"
)

// ResolveTileset returns the tileset owning gid: the one with the greatest
// FirstGID not exceeding it. Flag bits of gid are ignored.
func ResolveTileset(m *tmx.Map, gid tmx.GID) (*tmx.Tileset, error) {
	id := gid.ID()
	if id == 0 {
		return nil, &LookupError{GID: gid, Err: ErrNoTileset}
	}

	var owner *tmx.Tileset
	for _, ts := range m.Tilesets {
		if ts.FirstGID > id {
			continue
		}
		if owner == nil || ts.FirstGID > owner.FirstGID {
			owner = ts
		}
	}
	if owner == nil {
		return nil, &LookupError{GID: gid, Err: ErrNoTileset}
	}
	return owner, nil
}

// LocalIndex returns the index of gid inside ts, which must be the tileset
// returned by ResolveTileset for the same gid. Indexes past the declared tile
// count of a single-image tileset are rejected.
func LocalIndex(ts *tmx.Tileset, gid tmx.GID) (uint32, error) {
	index := uint32(gid.ID() - ts.FirstGID)
	// Collection ids may be sparse; TileImage checks them.
	if !ts.IsCollection() && ts.TileCount > 0 && index >= uint32(ts.TileCount) {
		return 0, &LookupError{Tileset: ts.Name, GID: gid, Index: index, Err: ErrIndexOutOfRange}
	}
	return index, nil
}

// AtlasSize returns the atlas size declared by the tileset image, or loaded
// when the map did not declare one.
func AtlasSize(ts *tmx.Tileset, loaded image.Point) image.Point {
	if ts.Image.HasSize() {
		return image.Pt(ts.Image.Width, ts.Image.Height)
	}
	return loaded
}

// Grid returns how many whole tiles fit in each row and column of an atlas
// of the given size once the margin is removed and spacing is shared between
// neighbours.
func Grid(ts *tmx.Tileset, size image.Point) (cols, rows int) {
	cols = fit(size.X, ts.Margin, ts.Spacing, ts.TileWidth)
	rows = fit(size.Y, ts.Margin, ts.Spacing, ts.TileHeight)
	return cols, rows
}

func fit(extent, margin, spacing, tile int) int {
	if tile+spacing <= 0 {
		return 0
	}
	n := (extent - 2*margin + spacing) / (tile + spacing)
	if n < 0 {
		return 0
	}
	return n
}

// TileRect returns the rectangle of tile index inside a single-image
// tileset whose atlas has the given size.
func TileRect(ts *tmx.Tileset, index uint32, size image.Point) (image.Rectangle, error) {
	cols, rows := Grid(ts, size)
	if cols == 0 || rows == 0 {
		return image.Rectangle{}, &GeometryError{Tileset: ts.Name, Index: index, Size: size, Cols: cols, Rows: rows}
	}

	col := int(index) % cols
	row := int(index) / cols
	if row >= rows {
		return image.Rectangle{}, &GeometryError{Tileset: ts.Name, Index: index, Size: size, Cols: cols, Rows: rows}
	}

	dx := ts.Margin + col*ts.Spacing + ts.OffsetX
	dy := ts.Margin + row*ts.Spacing + ts.OffsetY
	if (col+1)*ts.TileWidth+dx > size.X || (row+1)*ts.TileHeight+dy > size.Y {
		return image.Rectangle{}, &GeometryError{Tileset: ts.Name, Index: index, Size: size, Cols: cols, Rows: rows}
	}

	x := col*ts.TileWidth + dx
	y := row*ts.TileHeight + dy
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight), nil
}

// SourceImage returns the atlas image of a single-image tileset.
func SourceImage(ts *tmx.Tileset) (*tmx.Image, error) {
	if ts.Image == nil || ts.Image.Source == "" {
		return nil, &ContractError{Tileset: ts.Name, What: "tileset has no atlas image"}
	}
	return ts.Image, nil
}

// TileImage returns the standalone image of tile index in an
// image-collection tileset.
func TileImage(ts *tmx.Tileset, index uint32) (*tmx.Image, error) {
	t, ok := ts.Tile(index)
	if !ok {
		return nil, &LookupError{Tileset: ts.Name, GID: ts.FirstGID + tmx.GID(index), Index: index, Err: ErrNoTile}
	}
	if t.Image == nil || t.Image.Source == "" {
		return nil, &ContractError{Tileset: ts.Name, What: "tile has no image", Index: index}
	}
	return t.Image, nil
}

package tmx

// Image references an image file. Width and Height are the size declared by
// the map and are zero when the map leaves them out.
type Image struct {
	Source string
	Width  int
	Height int
}

// HasSize reports whether the map declared the image dimensions.
func (i *Image) HasSize() bool {
	return i != nil && i.Width > 0 && i.Height > 0
}

// Tile is an entry of an image-collection tileset.
type Tile struct {
	ID    uint32
	Image *Image
}

// Tileset is a group of same-sized tiles claiming the contiguous GID range
// starting at FirstGID. A tileset either packs its tiles into a single atlas
// Image or holds one standalone image per Tile.
type Tileset struct {
	Name string
	// Source is the path of the external .tsx file, empty for embedded tilesets.
	Source   string
	FirstGID GID

	TileWidth  int
	TileHeight int
	Margin     int
	Spacing    int
	TileCount  int
	Columns    int

	// OffsetX and OffsetY locate the tileset inside a larger shared image.
	OffsetX int
	OffsetY int

	Image *Image
	Tiles []*Tile
}

// IsCollection reports whether the tileset is made of standalone tile images.
// A tileset with neither an atlas image nor tiles is not a collection.
func (ts *Tileset) IsCollection() bool {
	return ts.Image == nil && len(ts.Tiles) > 0
}

// Tile returns the collection entry with the given local id.
func (ts *Tileset) Tile(id uint32) (*Tile, bool) {
	for _, t := range ts.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// LastGID returns the last GID claimed by the tileset, or FirstGID-1 when
// the tile count is unknown.
func (ts *Tileset) LastGID() GID {
	n := ts.TileCount
	if ts.IsCollection() && n == 0 {
		for _, t := range ts.Tiles {
			if int(t.ID)+1 > n {
				n = int(t.ID) + 1
			}
		}
	}
	return ts.FirstGID + GID(n) - 1
}

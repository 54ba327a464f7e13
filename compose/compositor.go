// Package compose flattens the layers of an orthogonal tile map into one
// raster image.
//
// Layers are painted in declaration order. Tile layer cells are placed with
// their top-left corner on the grid; tile objects are placed with their
// bottom-left corner on the object position.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/milk9111/tmxrender/atlas"
	"github.com/milk9111/tmxrender/render"
	"github.com/milk9111/tmxrender/tmx"
	"golang.org/x/image/colornames"
)

// Stats counts what the last render did.
type Stats struct {
	Layers        int
	SkippedLayers int
	Tiles         int
	SkippedTiles  int
	Placeholders  int
}

// Compositor renders maps. It is not safe for concurrent use; use one
// Compositor per goroutine and share a render.Cache through WithCache if
// needed.
type Compositor struct {
	cache       *render.Cache
	logger      *log.Logger
	policy      Policy
	placeholder color.Color
	background  color.Color
	filter      LayerFilter
	hook        func(index, total int, l tmx.Layer)

	stats Stats
}

type alignment int

const (
	alignTopLeft alignment = iota
	alignBottomLeft
)

// New returns a Compositor loading images through loader. loader may be nil
// when a cache is supplied with WithCache.
func New(loader render.Loader, opts ...Option) *Compositor {
	c := &Compositor{
		logger:      log.Default(),
		placeholder: colornames.Magenta,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = render.NewCache(loader)
	}
	return c
}

// Stats returns the counters of the last Compose or ComposeOnto call.
func (c *Compositor) Stats() Stats {
	return c.stats
}

// Compose renders m onto a new canvas of m.Width*m.TileWidth by
// m.Height*m.TileHeight pixels.
func (c *Compositor) Compose(m *tmx.Map) (*image.RGBA, error) {
	if err := c.validate(m); err != nil {
		return nil, err
	}

	w, h := m.PixelSize()
	surface := render.NewRGBASurface(w, h)
	if err := c.paint(m, surface); err != nil {
		return nil, err
	}
	return surface.Image, nil
}

// ComposeOnto renders m onto s.
func (c *Compositor) ComposeOnto(m *tmx.Map, s render.Surface) error {
	if err := c.validate(m); err != nil {
		return err
	}
	return c.paint(m, s)
}

// Check reports whether m can be composed at all: it must be orthogonal and
// have a non-empty grid.
func Check(m *tmx.Map) error {
	if m.Orientation != tmx.Orthogonal {
		return fmt.Errorf("%w: %q", ErrUnsupportedOrientation, m.Orientation)
	}
	if m.Width <= 0 || m.Height <= 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return fmt.Errorf("%w: %dx%d tiles of %dx%d pixels", ErrMalformedMap, m.Width, m.Height, m.TileWidth, m.TileHeight)
	}
	return nil
}

func (c *Compositor) validate(m *tmx.Map) error {
	c.stats = Stats{}

	err := Check(m)
	if errors.Is(err, ErrUnsupportedOrientation) {
		c.logger.Printf("Can render only orthogonal maps, got %q.", m.Orientation)
	}
	return err
}

func (c *Compositor) paint(m *tmx.Map, s render.Surface) error {
	if bg := c.backgroundFor(m); bg != nil {
		s.Fill(s.Bounds(), bg)
	}

	for i, l := range m.Layers {
		if err := c.paintLayer(m, i, l, s); err != nil {
			return err
		}
		if c.hook != nil {
			c.hook(i, len(m.Layers), l)
		}
	}
	return nil
}

func (c *Compositor) paintLayer(m *tmx.Map, i int, l tmx.Layer, s render.Surface) error {
	ok, err := c.include(i, l)
	if err != nil {
		return &LayerError{Layer: l.LayerName(), Index: i, Err: err}
	}
	if !ok {
		c.stats.SkippedLayers++
		return nil
	}
	c.stats.Layers++

	return tmx.MatchLayer(l,
		func(tl *tmx.TileLayer) error { return c.paintTileLayer(m, i, tl, s) },
		func(ol *tmx.ObjectLayer) error { return c.paintObjectLayer(m, i, ol, s) },
	)
}

func (c *Compositor) backgroundFor(m *tmx.Map) color.Color {
	if c.background != nil {
		return c.background
	}
	return m.BackgroundColor
}

func (c *Compositor) include(i int, l tmx.Layer) (bool, error) {
	if !l.IsVisible() {
		return false, nil
	}
	if c.filter == nil {
		return true, nil
	}
	return c.filter.Include(i, l)
}

func (c *Compositor) paintTileLayer(m *tmx.Map, index int, l *tmx.TileLayer, s render.Surface) error {
	c.logger.Printf("Rendering tile layer %q.", l.Name)

	for k, gid := range l.Cells {
		if gid.Empty() {
			continue
		}

		col := k % m.Width
		row := k / m.Width
		if row >= m.Height {
			return &LayerError{
				Layer: l.Name,
				Index: index,
				Pos:   image.Pt(col, row),
				GID:   gid,
				Err:   fmt.Errorf("%w: %d cells for a %dx%d map", ErrMalformedMap, len(l.Cells), m.Width, m.Height),
			}
		}

		origin := image.Pt(col*m.TileWidth, row*m.TileHeight)
		if err := c.paintGID(m, gid, origin, alignTopLeft, s); err != nil {
			lerr := &LayerError{Layer: l.Name, Index: index, Pos: image.Pt(col, row), GID: gid, Err: err}
			area := image.Rect(origin.X, origin.Y, origin.X+m.TileWidth, origin.Y+m.TileHeight)
			if err := c.handle(lerr, area, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compositor) paintObjectLayer(m *tmx.Map, index int, l *tmx.ObjectLayer, s render.Surface) error {
	c.logger.Printf("Rendering object layer %q.", l.Name)

	for _, o := range l.Objects {
		err := tmx.MatchObject(o,
			func(obj *tmx.TileObject) error { return c.paintTileObject(m, index, l, obj, s) },
			func(*tmx.ShapeObject) error { return nil },
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Compositor) paintTileObject(m *tmx.Map, index int, l *tmx.ObjectLayer, obj *tmx.TileObject, s render.Surface) error {
	if !obj.Visible {
		return nil
	}

	origin := image.Pt(int(math.Floor(obj.X)), int(math.Floor(obj.Y)))
	lerr := &LayerError{
		Layer:    l.Name,
		Index:    index,
		Object:   true,
		ObjectID: obj.ID,
		Pos:      origin,
		GID:      obj.GID,
	}

	if obj.GID.Empty() {
		lerr.Err = fmt.Errorf("%w: tile object has no gid", atlas.ErrContractViolation)
		return lerr
	}

	if err := c.paintGID(m, obj.GID, origin, alignBottomLeft, s); err != nil {
		lerr.Err = err
		area := image.Rect(origin.X, origin.Y-m.TileHeight, origin.X+m.TileWidth, origin.Y)
		return c.handle(lerr, area, s)
	}
	return nil
}

// handle applies the error policy to a failed tile. It returns the error when
// the render must stop.
func (c *Compositor) handle(err *LayerError, area image.Rectangle, s render.Surface) error {
	if c.policy == PolicyAbort || !recoverable(err.Err) {
		return err
	}

	switch c.policy {
	case PolicySkip:
		c.logger.Printf("%v (skipped)", err)
		c.stats.SkippedTiles++
	case PolicyPlaceholder:
		c.logger.Printf("%v (placeholder drawn)", err)
		s.Fill(area, c.placeholder)
		c.stats.Placeholders++
	}
	return nil
}

func (c *Compositor) paintGID(m *tmx.Map, gid tmx.GID, origin image.Point, align alignment, s render.Surface) error {
	src, sr, err := c.source(m, gid)
	if err != nil {
		return err
	}

	dst := origin
	if align == alignBottomLeft {
		dst.Y -= sr.Dy()
	}
	s.DrawImage(dst, src, sr)
	c.stats.Tiles++
	return nil
}

// source resolves gid to the image holding the tile and the rectangle of the
// tile inside it.
func (c *Compositor) source(m *tmx.Map, gid tmx.GID) (image.Image, image.Rectangle, error) {
	ts, err := atlas.ResolveTileset(m, gid)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	index, err := atlas.LocalIndex(ts, gid)
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	if ts.IsCollection() {
		ref, err := atlas.TileImage(ts, index)
		if err != nil {
			return nil, image.Rectangle{}, err
		}
		img, err := c.cache.Get(ref.Source)
		if err != nil {
			return nil, image.Rectangle{}, err
		}
		return img, img.Bounds(), nil
	}

	ref, err := atlas.SourceImage(ts)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	img, err := c.cache.Get(ref.Source)
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	b := img.Bounds()
	r, err := atlas.TileRect(ts, index, atlas.AtlasSize(ts, b.Size()))
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return img, r.Add(b.Min), nil
}

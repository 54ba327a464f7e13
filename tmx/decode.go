package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrMalformed   = errors.New("tmx: malformed map data")
	ErrUnsupported = errors.New("tmx: unsupported map feature")
)

type xmlMap struct {
	Orientation     string         `xml:"orientation,attr"`
	Width           int            `xml:"width,attr"`
	Height          int            `xml:"height,attr"`
	TileWidth       int            `xml:"tilewidth,attr"`
	TileHeight      int            `xml:"tileheight,attr"`
	Infinite        int            `xml:"infinite,attr"`
	BackgroundColor string         `xml:"backgroundcolor,attr"`
	Tilesets        []xmlTileset   `xml:"tileset"`
	Layers          []xmlLayerNode `xml:",any"`
}

type xmlTileset struct {
	FirstGID   uint32    `xml:"firstgid,attr"`
	Source     string    `xml:"source,attr"`
	Name       string    `xml:"name,attr"`
	TileWidth  int       `xml:"tilewidth,attr"`
	TileHeight int       `xml:"tileheight,attr"`
	Spacing    int       `xml:"spacing,attr"`
	Margin     int       `xml:"margin,attr"`
	TileCount  int       `xml:"tilecount,attr"`
	Columns    int       `xml:"columns,attr"`
	Image      *xmlImage `xml:"image"`
	Tiles      []xmlTile `xml:"tile"`
}

type xmlImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type xmlTile struct {
	ID    uint32    `xml:"id,attr"`
	Image *xmlImage `xml:"image"`
}

// xmlLayerNode keeps layers, object groups and groups in document order.
type xmlLayerNode struct {
	Tiles   *xmlTileLayer
	Objects *xmlObjectGroup
	Group   *xmlGroup
}

func (n *xmlLayerNode) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	switch start.Name.Local {
	case "layer":
		n.Tiles = new(xmlTileLayer)
		return d.DecodeElement(n.Tiles, &start)
	case "objectgroup":
		n.Objects = new(xmlObjectGroup)
		return d.DecodeElement(n.Objects, &start)
	case "group":
		n.Group = new(xmlGroup)
		return d.DecodeElement(n.Group, &start)
	}
	return d.Skip()
}

type xmlGroup struct {
	Name    string         `xml:"name,attr"`
	Visible string         `xml:"visible,attr"`
	Layers  []xmlLayerNode `xml:",any"`
}

type xmlTileLayer struct {
	Name    string  `xml:"name,attr"`
	Width   int     `xml:"width,attr"`
	Height  int     `xml:"height,attr"`
	Visible string  `xml:"visible,attr"`
	Data    xmlData `xml:"data"`
}

type xmlData struct {
	Encoding    string        `xml:"encoding,attr"`
	Compression string        `xml:"compression,attr"`
	Content     string        `xml:",chardata"`
	Tiles       []xmlDataTile `xml:"tile"`
	Chunks      []struct{}    `xml:"chunk"`
}

type xmlDataTile struct {
	GID uint32 `xml:"gid,attr"`
}

type xmlObjectGroup struct {
	Name    string      `xml:"name,attr"`
	Visible string      `xml:"visible,attr"`
	Objects []xmlObject `xml:"object"`
}

type xmlObject struct {
	ID       int       `xml:"id,attr"`
	Name     string    `xml:"name,attr"`
	Type     string    `xml:"type,attr"`
	Class    string    `xml:"class,attr"`
	GID      string    `xml:"gid,attr"`
	X        float64   `xml:"x,attr"`
	Y        float64   `xml:"y,attr"`
	Width    float64   `xml:"width,attr"`
	Height   float64   `xml:"height,attr"`
	Visible  string    `xml:"visible,attr"`
	Ellipse  *struct{} `xml:"ellipse"`
	Point    *struct{} `xml:"point"`
	Polygon  *struct{} `xml:"polygon"`
	Polyline *struct{} `xml:"polyline"`
	Text     *struct{} `xml:"text"`
}

// LoadFile loads a map in TMX format from a file. Relative tileset and image
// paths are resolved against the directory of the file.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tmx: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode reads a map in TMX format from r. dir is used to resolve external
// tilesets and image sources; the current directory is used if empty.
func Decode(r io.Reader, dir string) (*Map, error) {
	var raw xmlMap
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tmx: decode map: %w", err)
	}

	if raw.Infinite != 0 {
		return nil, fmt.Errorf("%w: infinite maps", ErrUnsupported)
	}

	m := &Map{
		Orientation: Orientation(raw.Orientation),
		Width:       raw.Width,
		Height:      raw.Height,
		TileWidth:   raw.TileWidth,
		TileHeight:  raw.TileHeight,
	}
	if m.Orientation == "" {
		m.Orientation = Orthogonal
	}

	if raw.BackgroundColor != "" {
		c, err := ParseColor(raw.BackgroundColor)
		if err != nil {
			return nil, err
		}
		m.BackgroundColor = c
	}

	for i := range raw.Tilesets {
		ts, err := buildTileset(&raw.Tilesets[i], dir)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, ts)
	}

	layers, err := flattenLayers(raw.Layers, true)
	if err != nil {
		return nil, err
	}
	m.Layers = layers

	return m, nil
}

// LoadTileset loads an external tileset in TSX format.
func LoadTileset(path string, firstGID GID) (*Tileset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tmx: open tileset %s: %w", path, err)
	}
	defer f.Close()

	var raw xmlTileset
	if err := xml.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tmx: decode tileset %s: %w", path, err)
	}
	raw.FirstGID = uint32(firstGID)
	raw.Source = ""

	ts, err := buildTileset(&raw, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	ts.Source = path
	return ts, nil
}

func buildTileset(raw *xmlTileset, dir string) (*Tileset, error) {
	if raw.FirstGID == 0 {
		return nil, fmt.Errorf("%w: tileset %q has no firstgid", ErrMalformed, raw.Name)
	}
	if raw.Source != "" {
		return LoadTileset(resolvePath(dir, raw.Source), GID(raw.FirstGID))
	}

	ts := &Tileset{
		Name:       raw.Name,
		FirstGID:   GID(raw.FirstGID),
		TileWidth:  raw.TileWidth,
		TileHeight: raw.TileHeight,
		Margin:     raw.Margin,
		Spacing:    raw.Spacing,
		TileCount:  raw.TileCount,
		Columns:    raw.Columns,
	}
	if raw.Image != nil {
		ts.Image = buildImage(raw.Image, dir)
	}
	for _, t := range raw.Tiles {
		if t.Image == nil {
			continue
		}
		ts.Tiles = append(ts.Tiles, &Tile{ID: t.ID, Image: buildImage(t.Image, dir)})
	}
	return ts, nil
}

func buildImage(raw *xmlImage, dir string) *Image {
	return &Image{
		Source: resolvePath(dir, raw.Source),
		Width:  raw.Width,
		Height: raw.Height,
	}
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

func flattenLayers(nodes []xmlLayerNode, parentVisible bool) ([]Layer, error) {
	var out []Layer
	for _, n := range nodes {
		switch {
		case n.Tiles != nil:
			l, err := buildTileLayer(n.Tiles)
			if err != nil {
				return nil, err
			}
			l.Visible = l.Visible && parentVisible
			out = append(out, l)
		case n.Objects != nil:
			l, err := buildObjectLayer(n.Objects)
			if err != nil {
				return nil, err
			}
			l.Visible = l.Visible && parentVisible
			out = append(out, l)
		case n.Group != nil:
			children, err := flattenLayers(n.Group.Layers, parentVisible && isVisible(n.Group.Visible))
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", n.Group.Name, err)
			}
			out = append(out, children...)
		}
	}
	return out, nil
}

func buildTileLayer(raw *xmlTileLayer) (*TileLayer, error) {
	if len(raw.Data.Chunks) > 0 {
		return nil, fmt.Errorf("%w: layer %q uses chunks", ErrUnsupported, raw.Name)
	}
	n := raw.Width * raw.Height
	cells, err := decodeData(&raw.Data, n)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", raw.Name, err)
	}
	return &TileLayer{
		Name:    raw.Name,
		Visible: isVisible(raw.Visible),
		Width:   raw.Width,
		Height:  raw.Height,
		Cells:   cells,
	}, nil
}

func buildObjectLayer(raw *xmlObjectGroup) (*ObjectLayer, error) {
	l := &ObjectLayer{
		Name:    raw.Name,
		Visible: isVisible(raw.Visible),
		Objects: make([]Object, 0, len(raw.Objects)),
	}
	for _, o := range raw.Objects {
		class := o.Class
		if class == "" {
			class = o.Type
		}
		if o.GID != "" {
			gid, err := strconv.ParseUint(strings.TrimSpace(o.GID), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: object %d in %q: gid %q", ErrMalformed, o.ID, raw.Name, o.GID)
			}
			l.Objects = append(l.Objects, &TileObject{
				ID:      o.ID,
				Name:    o.Name,
				Class:   class,
				GID:     GID(gid),
				X:       o.X,
				Y:       o.Y,
				Visible: isVisible(o.Visible),
			})
			continue
		}
		l.Objects = append(l.Objects, &ShapeObject{
			ID:      o.ID,
			Name:    o.Name,
			Class:   class,
			Kind:    shapeKind(&o),
			X:       o.X,
			Y:       o.Y,
			Width:   o.Width,
			Height:  o.Height,
			Visible: isVisible(o.Visible),
		})
	}
	return l, nil
}

func shapeKind(o *xmlObject) ShapeKind {
	switch {
	case o.Ellipse != nil:
		return ShapeEllipse
	case o.Point != nil:
		return ShapePoint
	case o.Polygon != nil:
		return ShapePolygon
	case o.Polyline != nil:
		return ShapePolyline
	case o.Text != nil:
		return ShapeText
	}
	return ShapeRectangle
}

func isVisible(attr string) bool {
	return strings.TrimSpace(attr) != "0"
}

// ParseColor parses a Tiled colour in the form #RRGGBB or #AARRGGBB. The
// leading '#' is optional.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: colour %q", ErrMalformed, s)
	}
	switch len(hex) {
	case 6:
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	case 8:
		return color.NRGBA{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: colour %q", ErrMalformed, s)
}

package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Surface is a canvas that tiles are drawn onto.
type Surface interface {
	Bounds() image.Rectangle
	// DrawImage draws the sr part of src with its top-left corner at dst,
	// blending with alpha-over and no scaling.
	DrawImage(dst image.Point, src image.Image, sr image.Rectangle)
	// Fill replaces the pixels of r with c.
	Fill(r image.Rectangle, c color.Color)
}

// RGBASurface draws into an in-memory *image.RGBA.
type RGBASurface struct {
	Image *image.RGBA
}

// NewRGBASurface allocates a transparent w x h surface.
func NewRGBASurface(w, h int) *RGBASurface {
	return &RGBASurface{Image: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (s *RGBASurface) Bounds() image.Rectangle {
	return s.Image.Bounds()
}

func (s *RGBASurface) DrawImage(dst image.Point, src image.Image, sr image.Rectangle) {
	r := image.Rectangle{Min: dst, Max: dst.Add(sr.Size())}
	draw.Draw(s.Image, r, src, sr.Min, draw.Over)
}

func (s *RGBASurface) Fill(r image.Rectangle, c color.Color) {
	draw.Draw(s.Image, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// Package screen shows composed maps in an ebiten window.
package screen

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface draws onto an *ebiten.Image. Source images are uploaded once and
// reused for every tile cut from them.
type Surface struct {
	Target *ebiten.Image

	uploaded map[image.Image]*ebiten.Image
}

// NewSurface allocates a w x h ebiten image to draw onto.
func NewSurface(w, h int) *Surface {
	return &Surface{Target: ebiten.NewImage(w, h)}
}

func (s *Surface) Bounds() image.Rectangle {
	return s.Target.Bounds()
}

func (s *Surface) DrawImage(dst image.Point, src image.Image, sr image.Rectangle) {
	img := s.upload(src)
	if _, ok := src.(*ebiten.Image); !ok {
		// Uploaded copies always start at the origin.
		sr = sr.Sub(src.Bounds().Min)
	}
	sub, ok := img.SubImage(sr).(*ebiten.Image)
	if !ok {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(dst.X), float64(dst.Y))
	s.Target.DrawImage(sub, op)
}

func (s *Surface) Fill(r image.Rectangle, c color.Color) {
	sub, ok := s.Target.SubImage(r).(*ebiten.Image)
	if !ok {
		return
	}
	sub.Fill(c)
}

func (s *Surface) upload(src image.Image) *ebiten.Image {
	if img, ok := src.(*ebiten.Image); ok {
		return img
	}
	if s.uploaded == nil {
		s.uploaded = make(map[image.Image]*ebiten.Image)
	}
	if img, ok := s.uploaded[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	s.uploaded[src] = img
	return img
}

package screen

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tmxrender/compose"
	"github.com/milk9111/tmxrender/tmx"
)

// Game composes a map on its first frame and then only redraws the result.
// Escape or Q closes the window.
type Game struct {
	m          *tmx.Map
	compositor *compose.Compositor
	surface    *Surface
	logger     *log.Logger
}

func NewGame(m *tmx.Map, c *compose.Compositor) *Game {
	return &Game{m: m, compositor: c, logger: log.Default()}
}

// Run opens a window scaled by scale and blocks until it is closed.
func Run(g *Game, title string, scale float64) error {
	w, h := g.m.PixelSize()
	ebiten.SetWindowSize(int(float64(w)*scale), int(float64(h)*scale))
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if g.surface != nil {
		return nil
	}

	w, h := g.m.PixelSize()
	s := NewSurface(w, h)
	if err := g.compositor.ComposeOnto(g.m, s); err != nil {
		return err
	}
	st := g.compositor.Stats()
	g.logger.Printf("Composed %d layers, %d tiles.", st.Layers, st.Tiles)
	g.surface = s
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.surface == nil {
		return
	}
	screen.DrawImage(g.surface.Target, nil)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.m.PixelSize()
}

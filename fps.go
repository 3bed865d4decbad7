package repeater

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// DebugOverlay is a plugin that prints FPS, TPS and the node count in the
// top-left corner of the window. The text is refreshed every ~0.5 seconds.
type DebugOverlay struct {
	img     *ebiten.Image
	text    string
	elapsed float64
	engine  *Engine
}

// NewDebugOverlay returns the overlay plugin.
func NewDebugOverlay() *DebugOverlay {
	return &DebugOverlay{}
}

// Load implements Plugin.
func (d *DebugOverlay) Load(e *Engine) error {
	d.engine = e
	return nil
}

// Init implements Plugin.
func (d *DebugOverlay) Init(*Engine) error { return nil }

// Text returns the most recent overlay text.
func (d *DebugOverlay) Text() string {
	return d.text
}

// Update implements Updater.
func (d *DebugOverlay) Update(e *Engine, dt float64) {
	d.elapsed += dt
	if d.text != "" && d.elapsed < 0.5 {
		return
	}
	d.elapsed = 0
	d.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nNodes: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), countNodes(e.Root()))
}

// Draw implements Drawer.
func (d *DebugOverlay) Draw(_ *Engine, screen *ebiten.Image) {
	if d.img == nil {
		// 120x48 fits three lines of the debug font.
		d.img = ebiten.NewImage(120, 48)
	}
	d.img.Clear()
	d.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(d.img, d.text)
	screen.DrawImage(d.img, nil)
}

// Package viz renders simulation frames in the terminal. The engine sees
// only the Visualizer interface; headless runs use Nop, the live TUI
// drives the engine through a bubbletea program.
package viz

import (
	"math"

	"github.com/lesves/galaxy/internal/engine"
)

// Nop is the headless sink: frames are dropped and the run never asks to
// stop from the visualization side.
type Nop struct{}

func (Nop) Show(time float64, e *engine.Engine, tree *engine.Tree) {}
func (Nop) PollClose() bool                                        { return false }

// Frame projects bodies (and optionally the tree's leaf boxes) onto a
// braille canvas. Projection uses the x/y axes of the engine's root box;
// the z axis is ignored for 3D runs.
type Frame struct {
	canvas   *Canvas
	showTree bool
}

func NewFrame(width, height int, showTree bool) *Frame {
	return &Frame{
		canvas:   NewCanvas(width, height),
		showTree: showTree,
	}
}

// Draw renders one frame and returns the canvas text.
func (f *Frame) Draw(e *engine.Engine, tree *engine.Tree) string {
	f.canvas.Clear()

	if f.showTree {
		f.drawNode(e, tree.Root())
	}
	for i := range e.Bodies {
		x, y, ok := f.project(e, e.Bodies[i].Pos[0], e.Bodies[i].Pos[1])
		if ok {
			f.canvas.Set(x, y)
		}
	}
	return f.canvas.String()
}

func (f *Frame) drawNode(e *engine.Engine, n *engine.Node) {
	if n.IsLeaf() {
		if n.Accum.Count == 0 {
			return
		}
		box := n.BBox()
		x1, y1, _ := f.project(e, box.Center[0]-box.Extent[0], box.Center[1]-box.Extent[1])
		x2, y2, _ := f.project(e, box.Center[0]+box.Extent[0], box.Center[1]+box.Extent[1])
		f.canvas.Rect(x1, y1, x2, y2)
		return
	}
	for _, child := range n.Children() {
		f.drawNode(e, child)
	}
}

// project maps world x/y inside the root box to sub-pixel coordinates.
func (f *Frame) project(e *engine.Engine, wx, wy float64) (int, int, bool) {
	ex := e.BBox.Extent[0]
	ey := e.BBox.Extent[1]
	cx := e.BBox.Center[0]
	cy := e.BBox.Center[1]

	nx := (wx - cx + ex) / (2 * ex)
	ny := (wy - cy + ey) / (2 * ey)
	px := int(math.Round(nx * float64(f.canvas.Width*2-1)))
	py := int(math.Round((1 - ny) * float64(f.canvas.Height*4-1)))

	ok := nx >= 0 && nx <= 1 && ny >= 0 && ny <= 1
	return px, py, ok
}

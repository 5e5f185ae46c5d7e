// Package tui renders a plain-ANSI top-down view of the cloth for headless
// runs that want to watch progress without a full-screen program.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

const (
	width       = 70
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// shades maps height, low to high.
var shades = []rune(".:-=+*#%@")

// LiveRenderer draws each frame as a height map seen from above: the X-Z
// plane is binned into character cells and each cell shows the highest
// vertex in it. Frames arriving faster than frameRate are dropped.
type LiveRenderer struct {
	name      string
	extent    float64
	frameRate int
	out       io.Writer
	now       func() time.Time
	lastFrame time.Time
	canvas    [][]rune
	top       [][]float64
	drawn     int
}

// NewLiveRenderer views the square [-extent, extent] of the X-Z plane.
func NewLiveRenderer(name string, extent float64, frameRate int, out io.Writer) *LiveRenderer {
	canvas := make([][]rune, height)
	top := make([][]float64, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		top[i] = make([]float64, width)
	}
	return &LiveRenderer{
		name:      name,
		extent:    extent,
		frameRate: frameRate,
		out:       out,
		now:       time.Now,
		canvas:    canvas,
		top:       top,
	}
}

// Drawn returns the number of frames actually written.
func (r *LiveRenderer) Drawn() int { return r.drawn }

func (r *LiveRenderer) Render(f dynamo.Frame) error {
	if r.frameRate > 0 {
		now := r.now()
		if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return nil
		}
		r.lastFrame = now
	}

	r.clear()
	lo, hi := heightRange(f.Vertices)
	for _, p := range f.Vertices {
		col, row, ok := r.cell(p.X, p.Z)
		if !ok || p.Y < r.top[row][col] {
			continue
		}
		r.top[row][col] = p.Y
		r.canvas[row][col] = shades[shadeIndex(p.Y, lo, hi)]
	}
	if col, row, ok := r.cell(f.Obstacle.X, f.Obstacle.Z); ok && f.ObstacleRadius > 0 {
		r.canvas[row][col] = 'O'
	}

	r.drawn++
	return r.render(f, lo, hi)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
			r.top[y][x] = math.Inf(-1)
		}
	}
}

// cell maps a point of the X-Z plane to a canvas cell; +Z points down.
func (r *LiveRenderer) cell(x, z float64) (int, int, bool) {
	col := int(math.Floor((x + r.extent) / (2 * r.extent) * width))
	row := int(math.Floor((z + r.extent) / (2 * r.extent) * height))
	return col, row, col >= 0 && col < width && row >= 0 && row < height
}

func heightRange(vs []r3.Vec) (float64, float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi := vs[0].Y, vs[0].Y
	for _, p := range vs {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	return lo, hi
}

func shadeIndex(y, lo, hi float64) int {
	if hi-lo < 1e-9 {
		return 0
	}
	i := int((y - lo) / (hi - lo) * float64(len(shades)-1))
	return max(0, min(i, len(shades)-1))
}

func (r *LiveRenderer) render(f dynamo.Frame, lo, hi float64) error {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  frame %d  t=%.2fs\n", r.name, f.Step, f.Time)
	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")

	for _, row := range r.canvas {
		b.WriteString("  |")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}

	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")
	fmt.Fprintf(&b, "  y in [%.3f, %.3f]  obstacle (%.2f, %.2f, %.2f)\n", lo, hi, f.Obstacle.X, f.Obstacle.Y, f.Obstacle.Z)

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

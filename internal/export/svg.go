// Package export writes cloth frames and recorded series as SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/clothsim/internal/viz"
)

const (
	background = "#0a0a0a"
	svgHeader  = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[2]d" viewBox="0 0 %[1]d %[2]d">
<rect width="100%%" height="100%%" fill="%[3]s"/>
`
)

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w := int(float64(canvas.PixelWidth()) * scale)
	h := int(float64(canvas.PixelHeight()) * scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, w, h, background)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.PixelHeight(); y++ {
		for x := 0; x < canvas.PixelWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WireframeToSVG projects a wireframe through cam onto a width x height image
// and draws it as vector lines. Edges behind the camera are skipped.
func WireframeToSVG(wf *viz.Wireframe, cam *viz.Camera, width, height int, stroke string) string {
	if wf == nil || cam == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, background)
	fmt.Fprintf(&sb, "<g fill=\"none\" stroke=\"%s\" stroke-width=\"1\">\n", stroke)

	for _, e := range wf.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, width, height)
		x2, y2, d2, v2 := cam.Project(e.End, width, height)
		if d1 <= cam.Near || d2 <= cam.Near || !(v1 || v2) {
			continue
		}
		fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", x1, y1, x2, y2)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", stroke)
	for _, p := range wf.Points {
		if x, y, _, ok := cam.Project(p, width, height); ok {
			fmt.Fprintf(&sb, "<circle cx=\"%d\" cy=\"%d\" r=\"1.5\"/>\n", x, y)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws points as one polyline scaled to fill the image with
// a 10% margin.
func TrajectoryToSVG(points []struct{ X, Y float64 }, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, background)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots ys against xs with TrajectoryToSVG.
func SeriesToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	points := make([]struct{ X, Y float64 }, n)
	for i := 0; i < n; i++ {
		points[i].X, points[i].Y = xs[i], ys[i]
	}
	return TrajectoryToSVG(points, width, height, strokeColor)
}

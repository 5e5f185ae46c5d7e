package analysis

import (
	"strings"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	Vertex int
	Points []struct{ X, Y float64 }
}

// GeneratePhasePortrait records height against vertical velocity for one
// vertex of a run. Velocity is the finite difference of consecutive samples.
func GeneratePhasePortrait(result *dynamo.Result, vertex int) *PhasePortrait2D {
	if result == nil || len(result.Snapshots) < 2 || vertex < 0 || vertex >= len(result.Snapshots[0]) {
		return nil
	}

	portrait := &PhasePortrait2D{
		Vertex: vertex,
		Points: make([]struct{ X, Y float64 }, 0, len(result.Snapshots)-1),
	}

	for i := 1; i < len(result.Snapshots); i++ {
		dt := result.Times[i] - result.Times[i-1]
		if dt <= 0 {
			continue
		}
		y := result.Snapshots[i][vertex].Y
		vy := (y - result.Snapshots[i-1][vertex].Y) / dt

		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: y, Y: vy})
	}

	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes, where they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Camera is a perspective look-at camera. FovY is the vertical field of view
// in degrees.
type Camera struct {
	Position, Target, Up r3.Vec
	FovY, Near           float64
}

// NewCamera returns the scene camera: at (4, 1, 1) looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position: r3.Vec{X: 4, Y: 1, Z: 1},
		Up:       r3.Vec{Y: 1},
		FovY:     24,
		Near:     0.01,
	}
}

// basis returns the camera's right, up and forward unit vectors.
func (c *Camera) basis() (right, up, forward r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Position))
	right = r3.Unit(r3.Cross(forward, c.Up))
	up = r3.Cross(right, forward)
	return right, up, forward
}

// Project maps a world point to sub-pixel coordinates on a sw x sh surface.
// It returns the depth along the view axis and whether the point is in front
// of the near plane and on screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	right, up, forward := c.basis()
	d := r3.Sub(p, c.Position)
	z := r3.Dot(d, forward)
	if z <= c.Near {
		return 0, 0, z, false
	}

	scale := float64(sh) / 2 / math.Tan(c.FovY*math.Pi/360)
	sx := int(math.Round(float64(sw)/2 + r3.Dot(d, right)/z*scale))
	sy := int(math.Round(float64(sh)/2 - r3.Dot(d, up)/z*scale))
	return sx, sy, z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End r3.Vec
}

type Wireframe struct {
	Edges  []Edge
	Points []r3.Vec
}

func NewWireframe() *Wireframe           { return &Wireframe{} }
func (w *Wireframe) AddEdge(s, e r3.Vec) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p r3.Vec)   { w.Points = append(w.Points, p) }
func (w *Wireframe) Clear()              { w.Edges, w.Points = w.Edges[:0], w.Points[:0] }
func (w *Wireframe) Len() int            { return len(w.Edges) + len(w.Points) }

// MeshEdges returns the unique vertex pairs of a triangle index list, in
// first-seen order.
func MeshEdges(indices []int) [][2]int {
	seen := make(map[[2]int]bool, len(indices))
	edges := make([][2]int, 0, len(indices)/2)
	for t := 0; t+2 < len(indices); t += 3 {
		tri := [3]int{indices[t], indices[t+1], indices[t+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if !seen[key] {
				seen[key] = true
				edges = append(edges, key)
			}
		}
	}
	return edges
}

// ClothWireframe fills w with the cloth mesh edges of f and a ring marking
// the obstacle. edges must come from MeshEdges(f.Indices).
func ClothWireframe(w *Wireframe, f dynamo.Frame, edges [][2]int) {
	w.Clear()
	for _, e := range edges {
		w.AddEdge(f.Vertices[e[0]], f.Vertices[e[1]])
	}
	if f.ObstacleRadius > 0 {
		const segments = 16
		for i := 0; i < segments; i++ {
			s, c := math.Sincos(2 * math.Pi * float64(i) / segments)
			w.AddPoint(r3.Add(f.Obstacle, r3.Vec{X: f.ObstacleRadius * c, Y: f.ObstacleRadius * s}))
			w.AddPoint(r3.Add(f.Obstacle, r3.Vec{Y: f.ObstacleRadius * s, Z: f.ObstacleRadius * c}))
		}
	}
}

// Render3D draws the wireframe to the canvas. Edges with an end behind the
// camera are skipped.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelWidth(), c.PixelHeight()
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if d1 <= cam.Near || d2 <= cam.Near || !(v1 || v2) {
			continue
		}
		c.DrawLine(x1, y1, x2, y2)
	}
	for _, p := range w.Points {
		if x, y, _, ok := cam.Project(p, cw, ch); ok {
			c.Set(x, y)
		}
	}
}

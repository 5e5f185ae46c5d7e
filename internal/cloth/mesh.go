package cloth

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// VertexBuffer holds the positions of a plane mesh with (nx+1)*(ny+1)
// vertices in row-major order. It is never authoritative; Sync rebuilds it
// from the grid.
type VertexBuffer struct {
	Positions   []r3.Vec
	NeedsUpdate bool

	nx, ny  int
	indices []int
}

func NewVertexBuffer(nx, ny int) *VertexBuffer {
	return &VertexBuffer{
		Positions: make([]r3.Vec, (nx+1)*(ny+1)),
		nx:        nx,
		ny:        ny,
		indices:   planeIndices(nx, ny),
	}
}

func (vb *VertexBuffer) Nx() int { return vb.nx }
func (vb *VertexBuffer) Ny() int { return vb.ny }

// Index returns the buffer slot for mesh coordinate (i, j).
func (vb *VertexBuffer) Index(i, j int) int { return j*(vb.nx+1) + i }

// Clear marks the buffer as uploaded.
func (vb *VertexBuffer) Clear() { vb.NeedsUpdate = false }

// Triangles returns the triangle index list of the plane, two per cell.
// The slice is shared and must not be modified.
func (vb *VertexBuffer) Triangles() []int { return vb.indices }

// Snapshot copies the current positions.
func (vb *VertexBuffer) Snapshot() []r3.Vec {
	out := make([]r3.Vec, len(vb.Positions))
	copy(out, vb.Positions)
	return out
}

// Sync copies particle positions from g into vb and marks it dirty.
//
// Mesh row j takes grid row ny-j: the plane's first row is the grid's far
// (j = ny) edge. The flip must be kept as is; renderers and stored runs
// depend on this ordering.
func Sync(g *Grid, vb *VertexBuffer) {
	nx, ny := g.Nx(), g.Ny()
	for i := 0; i <= nx; i++ {
		for j := 0; j <= ny; j++ {
			vb.Positions[j*(nx+1)+i] = g.At(i, ny-j).Position
		}
	}
	vb.NeedsUpdate = true
}

// CheckDims returns dynamo.ErrDimensionMismatch when vb was not sized for g.
func CheckDims(g *Grid, vb *VertexBuffer) error {
	if g.Nx() != vb.nx || g.Ny() != vb.ny {
		return fmt.Errorf("grid %dx%d, buffer %dx%d: %w", g.Nx(), g.Ny(), vb.nx, vb.ny, dynamo.ErrDimensionMismatch)
	}
	return nil
}

func planeIndices(nx, ny int) []int {
	idx := make([]int, 0, nx*ny*6)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a := j*(nx+1) + i
			b := (j+1)*(nx+1) + i
			c := (j+1)*(nx+1) + i + 1
			d := j*(nx+1) + i + 1
			idx = append(idx, a, b, d, b, c, d)
		}
	}
	return idx
}

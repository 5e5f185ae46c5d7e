package cloth

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Coord identifies a particle by its grid position.
type Coord struct {
	I, J int
}

// Grid is a square sheet of point masses. Particle (i, j) is stored at
// index i*(ny+1)+j, matching the column-major layout the mesh sync reads.
type Grid struct {
	nx, ny int
	size   float64
	dist   float64
	bodies []*dynamo.Body
}

// NewGrid lays out (nx+1)*(ny+1) particles of the given mass on a sheet of
// width size, centred on the origin in the XZ plane. Each particle starts with
// a velocity of -0.1*(ny-j) along Z so the far edge sweeps towards the near
// one. nx and ny must be positive.
func NewGrid(nx, ny int, size, mass float64) *Grid {
	g := &Grid{
		nx:     nx,
		ny:     ny,
		size:   size,
		dist:   size / float64(nx),
		bodies: make([]*dynamo.Body, (nx+1)*(ny+1)),
	}

	for i := 0; i <= nx; i++ {
		for j := 0; j <= ny; j++ {
			pos := r3.Vec{
				X: (float64(i) - float64(nx)*0.5) * g.dist,
				Y: 0,
				Z: (float64(j) - float64(ny)*0.5) * g.dist,
			}
			vel := r3.Vec{Z: -0.1 * float64(ny-j)}
			g.bodies[g.index(i, j)] = dynamo.NewBody(pos, vel, mass)
		}
	}

	return g
}

func (g *Grid) index(i, j int) int { return i*(g.ny+1) + j }

func (g *Grid) Nx() int       { return g.nx }
func (g *Grid) Ny() int       { return g.ny }
func (g *Grid) Size() float64 { return g.size }
func (g *Grid) Dist() float64 { return g.dist }
func (g *Grid) Len() int      { return len(g.bodies) }

// At returns particle (i, j), 0 <= i <= Nx, 0 <= j <= Ny.
func (g *Grid) At(i, j int) *dynamo.Body { return g.bodies[g.index(i, j)] }

// Bodies returns the particles in grid order. The slice is shared.
func (g *Grid) Bodies() []*dynamo.Body { return g.bodies }

// Attach registers every particle with w.
func (g *Grid) Attach(w dynamo.World) {
	for _, b := range g.bodies {
		w.AddBody(b)
	}
}

// MeanHeight is the average Y of all particles.
func (g *Grid) MeanHeight() float64 {
	sum := 0.0
	for _, b := range g.bodies {
		sum += b.Position.Y
	}
	return sum / float64(len(g.bodies))
}

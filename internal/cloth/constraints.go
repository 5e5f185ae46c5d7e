package cloth

import "github.com/san-kum/clothsim/internal/dynamo"

// Constraint links two grid-adjacent particles at a fixed rest length.
type Constraint struct {
	A, B       Coord
	RestLength float64
}

// BuildConstraints returns the structural network of g: for every particle,
// an edge to its +i neighbour and one to its +j neighbour. There are no shear
// or bend links, so the count is nx*(ny+1) + ny*(nx+1).
func BuildConstraints(g *Grid) []Constraint {
	nx, ny := g.Nx(), g.Ny()
	cs := make([]Constraint, 0, nx*(ny+1)+ny*(nx+1))

	for i := 0; i <= nx; i++ {
		for j := 0; j <= ny; j++ {
			if i < nx {
				cs = append(cs, Constraint{A: Coord{i, j}, B: Coord{i + 1, j}, RestLength: g.Dist()})
			}
			if j < ny {
				cs = append(cs, Constraint{A: Coord{i, j}, B: Coord{i, j + 1}, RestLength: g.Dist()})
			}
		}
	}

	return cs
}

// Adjacent reports whether the endpoints differ by one in exactly one axis.
func (c Constraint) Adjacent() bool {
	di, dj := abs(c.A.I-c.B.I), abs(c.A.J-c.B.J)
	return di+dj == 1
}

// Distance resolves the endpoints against g.
func (c Constraint) Distance(g *Grid) *dynamo.DistanceConstraint {
	return &dynamo.DistanceConstraint{
		A:        g.At(c.A.I, c.A.J),
		B:        g.At(c.B.I, c.B.J),
		Distance: c.RestLength,
	}
}

// AttachConstraints registers cs with w and returns the world-side links.
func AttachConstraints(w dynamo.World, g *Grid, cs []Constraint) []*dynamo.DistanceConstraint {
	out := make([]*dynamo.DistanceConstraint, len(cs))
	for k, c := range cs {
		out[k] = c.Distance(g)
		w.AddConstraint(out[k])
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package cloth

import "testing"

func TestBuildConstraints_Count(t *testing.T) {
	tests := []struct{ nx, ny int }{
		{1, 1}, {2, 3}, {15, 15}, {5, 1}, {1, 6},
	}

	for _, tt := range tests {
		g := NewGrid(tt.nx, tt.ny, 1, 1)
		cs := BuildConstraints(g)
		want := tt.nx*(tt.ny+1) + tt.ny*(tt.nx+1)
		if len(cs) != want {
			t.Errorf("%dx%d: expected %d constraints, got %d", tt.nx, tt.ny, want, len(cs))
		}
	}
}

func TestBuildConstraints_Topology(t *testing.T) {
	g := NewGrid(4, 3, 2, 1)
	cs := BuildConstraints(g)

	seen := make(map[[2]Coord]bool)
	for _, c := range cs {
		if !c.Adjacent() {
			t.Errorf("constraint %v-%v is not grid-adjacent", c.A, c.B)
		}
		if c.RestLength != g.Dist() {
			t.Errorf("constraint %v-%v rest length %v, want %v", c.A, c.B, c.RestLength, g.Dist())
		}
		key := [2]Coord{c.A, c.B}
		if seen[key] {
			t.Errorf("duplicate constraint %v-%v", c.A, c.B)
		}
		seen[key] = true
	}

	for i := 0; i <= 4; i++ {
		for j := 0; j <= 3; j++ {
			if i < 4 && !seen[[2]Coord{{i, j}, {i + 1, j}}] {
				t.Errorf("missing edge (%d,%d)-(%d,%d)", i, j, i+1, j)
			}
			if j < 3 && !seen[[2]Coord{{i, j}, {i, j + 1}}] {
				t.Errorf("missing edge (%d,%d)-(%d,%d)", i, j, i, j+1)
			}
		}
	}
}

func TestBuildConstraints_Order(t *testing.T) {
	g := NewGrid(1, 1, 1, 1)
	cs := BuildConstraints(g)

	want := []Constraint{
		{A: Coord{0, 0}, B: Coord{1, 0}},
		{A: Coord{0, 0}, B: Coord{0, 1}},
		{A: Coord{0, 1}, B: Coord{1, 1}},
		{A: Coord{1, 0}, B: Coord{1, 1}},
	}
	for k := range want {
		if cs[k].A != want[k].A || cs[k].B != want[k].B {
			t.Errorf("constraint %d: got %v-%v, want %v-%v", k, cs[k].A, cs[k].B, want[k].A, want[k].B)
		}
	}
}

func TestConstraint_Adjacent(t *testing.T) {
	tests := []struct {
		c    Constraint
		want bool
	}{
		{Constraint{A: Coord{0, 0}, B: Coord{1, 0}}, true},
		{Constraint{A: Coord{2, 3}, B: Coord{2, 2}}, true},
		{Constraint{A: Coord{0, 0}, B: Coord{1, 1}}, false},
		{Constraint{A: Coord{0, 0}, B: Coord{2, 0}}, false},
		{Constraint{A: Coord{1, 1}, B: Coord{1, 1}}, false},
	}

	for _, tt := range tests {
		if got := tt.c.Adjacent(); got != tt.want {
			t.Errorf("Adjacent(%v-%v) = %v, want %v", tt.c.A, tt.c.B, got, tt.want)
		}
	}
}

func TestAttachConstraints(t *testing.T) {
	g := NewGrid(2, 2, 1, 1)
	cs := BuildConstraints(g)
	w := &recordingWorld{}

	links := AttachConstraints(w, g, cs)

	if len(w.constraints) != len(cs) {
		t.Fatalf("expected %d constraints attached, got %d", len(cs), len(w.constraints))
	}
	first := links[0]
	if first.A != g.At(0, 0) || first.B != g.At(1, 0) {
		t.Error("first link does not join (0,0)-(1,0)")
	}
	if first.Distance != g.Dist() {
		t.Errorf("link distance %v, want %v", first.Distance, g.Dist())
	}
}

package cloth

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func TestSync_RowFlip(t *testing.T) {
	g := NewGrid(1, 1, 1, 1)
	vb := NewVertexBuffer(1, 1)

	Sync(g, vb)

	want := []r3.Vec{
		g.At(0, 1).Position,
		g.At(1, 1).Position,
		g.At(0, 0).Position,
		g.At(1, 0).Position,
	}
	for k, p := range want {
		if vb.Positions[k] != p {
			t.Errorf("index %d: got %v, want %v", k, vb.Positions[k], p)
		}
	}
}

func TestSync_Mapping(t *testing.T) {
	nx, ny := 4, 3
	g := NewGrid(nx, ny, 1, 1)
	for k, b := range g.Bodies() {
		b.Position = r3.Vec{X: float64(k), Y: float64(k * 2), Z: float64(k * 3)}
	}
	vb := NewVertexBuffer(nx, ny)

	Sync(g, vb)

	for i := 0; i <= nx; i++ {
		for j := 0; j <= ny; j++ {
			if got, want := vb.Positions[vb.Index(i, j)], g.At(i, ny-j).Position; got != want {
				t.Errorf("mesh (%d,%d): got %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestSync_Idempotent(t *testing.T) {
	g := NewGrid(5, 5, 1, 1)
	vb := NewVertexBuffer(5, 5)

	Sync(g, vb)
	first := vb.Snapshot()
	Sync(g, vb)

	for k := range first {
		if first[k] != vb.Positions[k] {
			t.Fatalf("index %d changed between syncs: %v -> %v", k, first[k], vb.Positions[k])
		}
	}
}

func TestSync_MarksDirty(t *testing.T) {
	g := NewGrid(2, 2, 1, 1)
	vb := NewVertexBuffer(2, 2)

	if vb.NeedsUpdate {
		t.Fatal("new buffer should not be dirty")
	}
	Sync(g, vb)
	if !vb.NeedsUpdate {
		t.Error("Sync did not mark buffer dirty")
	}
	vb.Clear()
	if vb.NeedsUpdate {
		t.Error("Clear did not reset dirty flag")
	}
}

func TestSync_NoAllocation(t *testing.T) {
	g := NewGrid(15, 15, 1, 1)
	vb := NewVertexBuffer(15, 15)

	allocs := testing.AllocsPerRun(100, func() { Sync(g, vb) })
	if allocs != 0 {
		t.Errorf("Sync allocated %v times per run", allocs)
	}
}

func TestVertexBuffer_Triangles(t *testing.T) {
	vb := NewVertexBuffer(3, 2)
	tris := vb.Triangles()

	if len(tris) != 3*2*6 {
		t.Fatalf("expected %d indices, got %d", 3*2*6, len(tris))
	}
	for _, idx := range tris {
		if idx < 0 || idx >= len(vb.Positions) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestCheckDims(t *testing.T) {
	g := NewGrid(3, 3, 1, 1)

	if err := CheckDims(g, NewVertexBuffer(3, 3)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := CheckDims(g, NewVertexBuffer(3, 4))
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func BenchmarkSync(b *testing.B) {
	g := NewGrid(15, 15, 1, 1)
	vb := NewVertexBuffer(15, 15)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sync(g, vb)
	}
}

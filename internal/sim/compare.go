package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// MaxDeviation is the largest per-coordinate difference between the recorded
// snapshots of two runs.
func MaxDeviation(a, b *dynamo.Result) (float64, error) {
	if len(a.Snapshots) != len(b.Snapshots) {
		return 0, fmt.Errorf("%d vs %d snapshots: %w", len(a.Snapshots), len(b.Snapshots), dynamo.ErrDimensionMismatch)
	}

	worst := 0.0
	for k := range a.Snapshots {
		sa, sb := a.Snapshots[k], b.Snapshots[k]
		if len(sa) != len(sb) {
			return 0, fmt.Errorf("snapshot %d: %d vs %d vertices: %w", k, len(sa), len(sb), dynamo.ErrDimensionMismatch)
		}
		for v := range sa {
			d := sa[v]
			e := sb[v]
			worst = math.Max(worst, math.Abs(d.X-e.X))
			worst = math.Max(worst, math.Abs(d.Y-e.Y))
			worst = math.Max(worst, math.Abs(d.Z-e.Z))
		}
	}

	return worst, nil
}

// Equal reports whether two runs agree within tol. A tol of 0 demands
// bit-identical vertex buffers.
func Equal(a, b *dynamo.Result, tol float64) bool {
	d, err := MaxDeviation(a, b)
	return err == nil && d <= tol
}

package analysis

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Separation returns, per sample, the RMS vertex distance between two runs of
// the same grid. It returns nil when the runs cannot be compared.
func Separation(a, b *dynamo.Result) []float64 {
	if len(a.Snapshots) != len(b.Snapshots) {
		return nil
	}

	sep := make([]float64, len(a.Snapshots))
	for i := range a.Snapshots {
		sa, sb := a.Snapshots[i], b.Snapshots[i]
		if len(sa) != len(sb) || len(sa) == 0 {
			return nil
		}
		sum := 0.0
		for j := range sa {
			sum += r3.Norm2(r3.Sub(sa[j], sb[j]))
		}
		sep[i] = math.Sqrt(sum / float64(len(sa)))
	}
	return sep
}

// SeparationGrowth estimates the mean exponential growth rate, per second,
// of the separation between a reference run and one perturbed by d0:
// the average of ln(d(t)/d0)/t over samples with t > 0.
func SeparationGrowth(a, b *dynamo.Result, d0 float64) float64 {
	sep := Separation(a, b)
	if sep == nil || d0 <= 0 {
		return 0
	}

	sumRate := 0.0
	count := 0
	for i, d := range sep {
		t := a.Times[i]
		if t <= 0 || d <= 0 {
			continue
		}
		sumRate += math.Log(d/d0) / t
		count++
	}

	if count == 0 {
		return 0
	}
	return sumRate / float64(count)
}

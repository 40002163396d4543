package dataset

import (
	"math"
	"sort"
)

// Quantile returns the value at the given fraction of the sorted sample
// using linear interpolation between order statistics. The input must be
// sorted ascending.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// CutPoints computes the q-1 interior quantile boundaries that partition a
// distribution into q equal-frequency buckets. The boundaries are derived
// once from the entire batch and reused for every row assignment.
func CutPoints(values []float64, q int) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	cuts := make([]float64, q-1)
	for i := 1; i < q; i++ {
		cuts[i-1] = Quantile(sorted, float64(i)/float64(q))
	}
	return cuts
}

// bucketIndex assigns a value to a bucket given ascending interior cut
// points. Buckets are half-open on the high side: a value exactly on a
// boundary falls into the lower-index bucket.
func bucketIndex(cuts []float64, v float64) int {
	for i, c := range cuts {
		if v <= c {
			return i
		}
	}
	return len(cuts)
}

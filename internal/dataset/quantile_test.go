package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"zero", 0, 1},
		{"one", 1, 5},
		{"median", 0.5, 3},
		{"first quartile", 0.25, 2},
		{"interpolated", 0.1, 1.4},
		{"below zero clamps", -0.5, 1},
		{"above one clamps", 1.5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(sorted, tt.q), 1e-9)
		})
	}
}

func TestQuantile_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
}

func TestCutPoints(t *testing.T) {
	values := []float64{4, 2, 1, 3} // unsorted on purpose

	quartiles := CutPoints(values, 4)
	assert.InDeltaSlice(t, []float64{1.75, 2.5, 3.25}, quartiles, 1e-9)

	terciles := CutPoints(values, 3)
	assert.Len(t, terciles, 2)
}

func TestBucketIndex_BoundaryFallsLower(t *testing.T) {
	cuts := []float64{2.0, 3.0, 3.5}

	tests := []struct {
		name string
		v    float64
		want int
	}{
		{"below first cut", 1.0, 0},
		{"exactly on first cut", 2.0, 0},
		{"between cuts", 2.5, 1},
		{"exactly on last cut", 3.5, 2},
		{"above last cut", 4.0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bucketIndex(cuts, tt.v))
		})
	}
}

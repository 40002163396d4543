package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_WholeSnapshot(t *testing.T) {
	snap := testSnapshot(t)

	stats := Summarize(snap, Filter{})
	assert.Equal(t, 5, stats.Count)
	require.NotNil(t, stats.AverageGPA)
	require.NotNil(t, stats.AverageAttendance)

	// Averages run over post-imputation values: gpa fill 3.25, attendance
	// fill 0.85.
	assert.InDelta(t, (3.5+2.5+3.25+4.0+3.0)/5, *stats.AverageGPA, 1e-9)
	assert.InDelta(t, (0.9+0.8+0.7+0.85+0.95)/5, *stats.AverageAttendance, 1e-9)

	// Grade levels 9, 10, 11, 12.
	assert.Equal(t, 4, stats.GradeLevels)
}

func TestSummarize_Filtered(t *testing.T) {
	snap := testSnapshot(t)

	stats := Summarize(snap, Filter{Search: "smith"})
	assert.Equal(t, 2, stats.Count)
	require.NotNil(t, stats.AverageGPA)
	assert.InDelta(t, (2.5+3.25)/2, *stats.AverageGPA, 1e-9)
	assert.Equal(t, 2, stats.GradeLevels)
}

func TestSummarize_EmptyMatchSetNilMeans(t *testing.T) {
	snap := testSnapshot(t)

	stats := Summarize(snap, Filter{Search: "nobody"})
	assert.Equal(t, 0, stats.Count)
	assert.Nil(t, stats.AverageGPA)
	assert.Nil(t, stats.AverageAttendance)
	assert.Equal(t, 0, stats.GradeLevels)
}

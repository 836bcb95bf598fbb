package viewport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestExtent(t *testing.T) {
	tests := []struct {
		name   string
		xs, ys []float64
		want   View
		ok     bool
	}{
		{
			name: "two rows",
			xs:   []float64{1, 3},
			ys:   []float64{2, 4},
			want: View{X: Range{1, 3}, Y: Range{2, 4}},
			ok:   true,
		},
		{
			name: "nan pairs skipped",
			xs:   []float64{math.NaN(), 5, -1, 2},
			ys:   []float64{100, 1, 7, math.NaN()},
			want: View{X: Range{-1, 5}, Y: Range{1, 7}},
			ok:   true,
		},
		{
			name: "single point widened",
			xs:   []float64{2},
			ys:   []float64{3},
			want: View{X: Range{1.5, 2.5}, Y: Range{2.5, 3.5}},
			ok:   true,
		},
		{
			name: "nothing plottable",
			xs:   []float64{math.NaN()},
			ys:   []float64{1},
			ok:   false,
		},
		{
			name: "empty",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extent(tt.xs, tt.ys)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFitPadsExtent(t *testing.T) {
	view, ok := Fit([]float64{0, 10}, []float64{-5, 5}, 0.05)
	require.True(t, ok)

	assert.InDelta(t, -0.5, view.X.Min, tolerance)
	assert.InDelta(t, 10.5, view.X.Max, tolerance)
	assert.InDelta(t, -5.5, view.Y.Min, tolerance)
	assert.InDelta(t, 5.5, view.Y.Max, tolerance)
}

func TestZoomKeepsCenterFixed(t *testing.T) {
	view := View{X: Range{0, 10}, Y: Range{-4, 4}}
	center := Point{X: 3, Y: 1}

	in := view.Zoom(center, ZoomIn.Scale(DefaultZoomFactor))

	assert.InDelta(t, 3-3/1.2, in.X.Min, tolerance)
	assert.InDelta(t, 3+7/1.2, in.X.Max, tolerance)
	assert.InDelta(t, 1-5/1.2, in.Y.Min, tolerance)
	assert.InDelta(t, 1+3/1.2, in.Y.Max, tolerance)

	out := view.Zoom(center, ZoomOut.Scale(DefaultZoomFactor))
	assert.InDelta(t, 3-3*1.2, out.X.Min, tolerance)
	assert.InDelta(t, 3+7*1.2, out.X.Max, tolerance)

	restored := in.Zoom(center, ZoomOut.Scale(DefaultZoomFactor))
	assert.InDelta(t, view.X.Min, restored.X.Min, tolerance)
	assert.InDelta(t, view.X.Max, restored.X.Max, tolerance)
	assert.InDelta(t, view.Y.Min, restored.Y.Min, tolerance)
	assert.InDelta(t, view.Y.Max, restored.Y.Max, tolerance)
}

func TestDirectionScale(t *testing.T) {
	assert.InDelta(t, 1/1.2, ZoomIn.Scale(1.2), tolerance)
	assert.InDelta(t, 1.2, ZoomOut.Scale(1.2), tolerance)
	assert.InDelta(t, 1/1.5, ZoomIn.Scale(1.5), tolerance)
	assert.InDelta(t, DefaultZoomFactor, ZoomOut.Scale(0.5), tolerance, "factors at or below 1 fall back to the default")
}

func TestDirectionFromScroll(t *testing.T) {
	d, ok := DirectionFromScroll(3)
	assert.True(t, ok)
	assert.Equal(t, ZoomIn, d)

	d, ok = DirectionFromScroll(-1)
	assert.True(t, ok)
	assert.Equal(t, ZoomOut, d)

	_, ok = DirectionFromScroll(0)
	assert.False(t, ok)
}

func TestRangeValid(t *testing.T) {
	assert.True(t, Range{0, 1}.Valid())
	assert.False(t, Range{1, 1}.Valid())
	assert.False(t, Range{2, 1}.Valid())
	assert.False(t, Range{math.NaN(), 1}.Valid())
	assert.False(t, Range{0, math.Inf(1)}.Valid())
}

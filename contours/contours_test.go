package contours

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
	"github.com/arl/omap/mapobj"
)

// coneModel builds a regular cone of radius 10 and height 5 from
// concentric rings of ground points.
func coneModel(t *testing.T) *dtm.Model {
	t.Helper()
	pts := []geometry.Point3D{{X: 0, Y: 0, Z: 5}}
	for r := 1; r <= 10; r++ {
		n := 6 * r
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts = append(pts, geometry.Point3D{
				X: float64(r) * math.Cos(a),
				Y: float64(r) * math.Sin(a),
				Z: 5 * (1 - float64(r)/10),
			})
		}
	}
	m, err := dtm.New(pts, 0.5)
	require.NoError(t, err)
	return m
}

func shoelace(line orb.LineString) float64 {
	var sum float64
	for i := range line {
		p0 := line[i]
		p1 := line[(i+1)%len(line)]
		sum += p0[0]*p1[1] - p1[0]*p0[1]
	}
	return sum / 2
}

// Tracing a level on a cone yields exactly one closed ring close to the
// analytic circle.
func TestTraceLevelCone(t *testing.T) {
	m := coneModel(t)

	// 1.2 m is strictly between two ring elevations, so no triangle is
	// flat at the level.
	const level = 1.2
	radius := (1 - level/5) * 10

	cs, err := traceLevel(m, level)
	require.NoError(t, err)
	require.Len(t, cs, 1)

	c := cs[0]
	assert.True(t, c.closed)
	assert.GreaterOrEqual(t, len(c.line), 8)
	assert.LessOrEqual(t, len(c.line), 32)

	area := math.Abs(shoelace(c.line))
	assert.InDelta(t, math.Pi*radius*radius, area, 0.1*math.Pi*radius*radius,
		"ring area within 10%% of the analytic circle")

	for _, p := range c.line {
		assert.InDelta(t, radius, math.Hypot(p[0], p[1]), 0.75,
			"ring vertices stay near the circle")
	}
}

// An open contour on a tilted plane runs from hull to hull.
func TestTraceLevelOpen(t *testing.T) {
	var pts []geometry.Point3D
	for j := 0; j <= 10; j++ {
		for i := 0; i <= 10; i++ {
			x, y := float64(i)*2, float64(j)*2
			pts = append(pts, geometry.Point3D{X: x, Y: y, Z: x * 0.5})
		}
	}
	m, err := dtm.New(pts, 1)
	require.NoError(t, err)

	cs, err := traceLevel(m, 5.5)
	require.NoError(t, err)
	require.Len(t, cs, 1)

	c := cs[0]
	assert.False(t, c.closed)
	for _, p := range c.line {
		assert.InDelta(t, 11.0, p[0], 1.0, "the 5.5 m level runs along x = 11")
	}
	first, last := c.line[0], c.line[len(c.line)-1]
	assert.Greater(t, math.Abs(last[1]-first[1]), 8.0,
		"the open contour spans the interior")
}

func TestTraceLevelNothingOutsideRange(t *testing.T) {
	m := coneModel(t)
	cs, err := traceLevel(m, 17)
	require.NoError(t, err)
	assert.Empty(t, cs)
}

func TestScorePenalties(t *testing.T) {
	m := coneModel(t)

	long := Contour{
		line:           orb.LineString{{0, 0}, {50, 0}, {100, 0}},
		originalLength: 100,
	}
	assert.InDelta(t, 100.0, long.score(m), 1e-9)

	wiggly := Contour{
		line:           orb.LineString{{0, 0}, {10, 0}},
		originalLength: 100, // simplified to 10% of its length
	}
	assert.InDelta(t, 10.0-penaltyEasilySimplified, wiggly.score(m), 1e-9)

	shortClosed := Contour{
		line:           orb.LineString{{0, 0}, {5, 0}, {5, 5}, {0, 5}},
		originalLength: 15.1,
		closed:         true,
	}
	assert.InDelta(t, 15.0-penaltyShortClosed, shortClosed.score(m), 1e-9)
}

func TestGenerateCone(t *testing.T) {
	m := coneModel(t)

	ch := make(chan mapobj.Object, 64)
	n, err := Generate(m, Params{
		MinZ:         0,
		MaxZ:         5,
		ZResolution:  0.5,
		Equidistance: 5,
		OffsetStep:   0.5,
	}, ch, nil)
	require.NoError(t, err)
	assert.Greater(t, n, 0, "the winning offset emits at least one contour")
	close(ch)

	for o := range ch {
		assert.Equal(t, mapobj.KindLine, o.Kind)
		assert.Equal(t, int32(mapobj.SymbolContour), o.Symbol)
		assert.GreaterOrEqual(t, len(o.Segments), 2)
		assert.Equal(t, mapobj.OpMove, o.Segments[0].Op)
	}
}

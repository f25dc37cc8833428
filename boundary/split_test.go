package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
)

// syntheticMesh builds a model carrying only what Split consumes: points,
// per-half-edge start vertices and an opposite table. opposites maps
// half-edge pairs, everything else is EMPTY.
func syntheticMesh(points []geometry.Point3D, starts map[dtm.Halfedge]int, opposites map[dtm.Halfedge]dtm.Halfedge) *dtm.Model {
	size := 0
	for h := range starts {
		if int(h) >= size {
			size = int(h) + 1
		}
	}
	m := &dtm.Model{
		Points:    points,
		Vertices:  make([]int, size),
		Halfedges: make([]dtm.Halfedge, size),
	}
	for i := range m.Halfedges {
		m.Halfedges[i] = dtm.EMPTY
	}
	for h, v := range starts {
		m.Vertices[h] = v
	}
	for a, b := range opposites {
		m.Halfedges[a] = b
		m.Halfedges[b] = a
	}
	return m
}

// hexagon vertices, clockwise in east/north coordinates.
var hexPoints = []geometry.Point3D{
	{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 1, Y: 3}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 1, Y: -1},
}

func TestSignedArea2(t *testing.T) {
	m := syntheticMesh(hexPoints,
		map[dtm.Halfedge]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 5: 5},
		nil)
	cw := Loop{0, 1, 2, 3, 4, 5}
	assert.InDelta(t, -12.0, cw.SignedArea2(m), 1e-12)

	ccw := Loop{5, 4, 3, 2, 1, 0}
	assert.InDelta(t, 12.0, ccw.SignedArea2(m), 1e-12)
}

func TestSplitNoBridge(t *testing.T) {
	m := syntheticMesh(hexPoints,
		map[dtm.Halfedge]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 5: 5},
		nil)
	outer, islands, err := Split(m, Loop{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, Loop{0, 1, 2, 3, 4, 5}, outer)
	assert.Empty(t, islands)
}

func TestSplitSingleEdgeAppendix(t *testing.T) {
	// Hexagon ring with a there-and-back dangle (g, opp g) spliced in
	// after e1.
	pts := append(append([]geometry.Point3D{}, hexPoints...), geometry.Point3D{X: 5, Y: 5})
	m := syntheticMesh(pts,
		map[dtm.Halfedge]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 2, 9: 6},
		map[dtm.Halfedge]dtm.Halfedge{6: 9})

	outer, islands, err := Split(m, Loop{0, 1, 6, 9, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Empty(t, islands)
	assert.Equal(t, Loop{2, 3, 4, 5, 0, 1}, outer,
		"continuation restarts just past the bridge with the dangle removed")
}

func TestSplitTwoDoubleEdgeAppendices(t *testing.T) {
	// The S4 shape: [.., a, b, opp(b), opp(a), .., c, d, opp(d), opp(c), ..]
	// must reduce to the bare ring with no islands.
	pts := append(append([]geometry.Point3D{}, hexPoints...),
		geometry.Point3D{X: -2, Y: 3}, geometry.Point3D{X: -3, Y: 4},
		geometry.Point3D{X: 3, Y: 4}, geometry.Point3D{X: 4, Y: 5})
	m := syntheticMesh(pts,
		map[dtm.Halfedge]int{
			0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 5: 5,
			6: 2, 7: 6, 10: 7, 11: 6, // a, b, opp(b), opp(a)
			12: 4, 13: 8, 16: 9, 17: 8, // c, d, opp(d), opp(c)
		},
		map[dtm.Halfedge]dtm.Halfedge{6: 11, 7: 10, 12: 17, 13: 16})

	walk := Loop{0, 1, 6, 7, 10, 11, 2, 3, 12, 13, 16, 17, 4, 5}
	outer, islands, err := Split(m, walk)
	require.NoError(t, err)
	assert.Empty(t, islands)
	assert.ElementsMatch(t, Loop{0, 1, 2, 3, 4, 5}, outer)
	assert.Negative(t, outer.SignedArea2(m))
}

func TestSplitIsland(t *testing.T) {
	// Clockwise outer square, counter-clockwise triangular island,
	// connected through the bridge pair (x, opp x).
	pts := []geometry.Point3D{
		{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, // square
		{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 5, Y: 6}, // island
	}
	m := syntheticMesh(pts,
		map[dtm.Halfedge]int{
			0: 0, 1: 1, 2: 2, 3: 3, // s0..s3
			12: 2, 15: 4, // x, opp(x)
			18: 4, 19: 5, 20: 6, // island ring
		},
		map[dtm.Halfedge]dtm.Halfedge{12: 15})

	walk := Loop{0, 1, 12, 18, 19, 20, 15, 2, 3}
	outer, islands, err := Split(m, walk)
	require.NoError(t, err)
	require.Len(t, islands, 1)

	assert.Equal(t, Loop{2, 3, 0, 1}, outer)
	assert.Equal(t, Loop{18, 19, 20}, islands[0])

	// Invariant 4: outer winds clockwise, islands counter-clockwise.
	assert.Negative(t, outer.SignedArea2(m))
	assert.Positive(t, islands[0].SignedArea2(m))
}

func TestSplitPreservesEdgeMultiset(t *testing.T) {
	// Outer plus islands must hold exactly the non-appendix half-edges
	// of the original walk.
	pts := []geometry.Point3D{
		{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0},
		{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 5, Y: 6},
	}
	m := syntheticMesh(pts,
		map[dtm.Halfedge]int{
			0: 0, 1: 1, 2: 2, 3: 3,
			12: 2, 15: 4,
			18: 4, 19: 5, 20: 6,
		},
		map[dtm.Halfedge]dtm.Halfedge{12: 15})

	walk := Loop{0, 1, 12, 18, 19, 20, 15, 2, 3}
	outer, islands, err := Split(m, walk)
	require.NoError(t, err)

	got := append(Loop{}, outer...)
	for _, isl := range islands {
		got = append(got, isl...)
	}
	assert.ElementsMatch(t, Loop{0, 1, 2, 3, 18, 19, 20}, got)
}

func TestInteriorRuns(t *testing.T) {
	m := squareMesh()
	walk := Loop{0, 4, 5, 2}

	t.Run("all interior", func(t *testing.T) {
		runs := walk.InteriorRuns(m)
		require.Len(t, runs, 1)
		assert.Len(t, runs[0], 5, "closed ring repeats its first vertex")
		assert.Equal(t, runs[0][0], runs[0][4])
	})

	t.Run("one exterior triangle", func(t *testing.T) {
		m.Exterior[1] = true
		defer func() { m.Exterior[1] = false }()

		runs := walk.InteriorRuns(m)
		require.Len(t, runs, 1)
		// Only T0's edges (b->a, a->d) survive, as the open run b, a, d.
		assert.Equal(t, []geometry.Point2D{
			{East: 1, North: 0}, {East: 0, North: 0}, {East: 0, North: 1},
		}, runs[0])
	})
}

func TestSplitRejectsTwoOuterLoops(t *testing.T) {
	// Two disjoint clockwise squares joined by a bridge: after the split
	// both terminal loops wind the same way, which no valid growth can
	// produce.
	pts := []geometry.Point3D{
		{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0},
		{X: 20, Y: 0}, {X: 20, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 0},
	}
	m := syntheticMesh(pts,
		map[dtm.Halfedge]int{
			0: 0, 1: 1, 2: 2, 3: 3,
			12: 2, 15: 4,
			18: 4, 19: 5, 20: 6, 21: 7,
		},
		map[dtm.Halfedge]dtm.Halfedge{12: 15})

	// The "island" here is a second clockwise square.
	walk := Loop{0, 1, 12, 18, 19, 20, 21, 15, 2, 3}
	_, _, err := Split(m, walk)
	require.Error(t, err)
}

package marshes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
	"github.com/arl/omap/mapobj"
)

const rainDepth = 0.01

// slopedGrid builds a gently sloped 10x10 grid, 1 m spacing.
func slopedGrid(t *testing.T) *dtm.Model {
	t.Helper()
	var pts []geometry.Point3D
	for j := 0; j < 10; j++ {
		for i := 0; i < 10; i++ {
			pts = append(pts, geometry.Point3D{
				X: float64(i), Y: float64(j), Z: 0.01 * float64(i),
			})
		}
	}
	m, err := dtm.New(pts, 1)
	require.NoError(t, err)
	return m
}

func centroid(d *dtm.Model, t int) geometry.Point3D {
	p0, p1, p2 := d.TrianglePoints(t)
	return geometry.Point3D{
		X: (p0.X + p1.X + p2.X) / 3,
		Y: (p0.Y + p1.Y + p2.Y) / 3,
	}
}

// wetPatch marks every triangle whose centroid falls into [2,6]^2 with
// the given absorbed depth.
func wetPatch(d *dtm.Model, depth float64) []float64 {
	absorbed := make([]float64, d.NumTriangles)
	for t := 0; t < d.NumTriangles; t++ {
		c := centroid(d, t)
		if c.X > 2 && c.X < 6 && c.Y > 2 && c.Y < 6 {
			absorbed[t] = depth
		}
	}
	return absorbed
}

func TestVariantFor(t *testing.T) {
	tests := []struct {
		absorbed float64
		want     Variant
	}{
		{2.5 * rainDepth, Diffuse},
		{4.9 * rainDepth, Diffuse},
		{5 * rainDepth, Normal},
		{9 * rainDepth, Normal},
		{11 * rainDepth, Impassable},
	}
	for _, tt := range tests {
		if got := variantFor(tt.absorbed, rainDepth); got != tt.want {
			t.Errorf("variantFor(%v) = %v, want %v", tt.absorbed, got, tt.want)
		}
	}
}

func TestDetectSingleMarsh(t *testing.T) {
	m := slopedGrid(t)
	absorbed := wetPatch(m, 6*rainDepth)

	ch := make(chan mapobj.Object, 16)
	n, err := Detect(m, absorbed, rainDepth, ch, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	close(ch)

	var objs []mapobj.Object
	for o := range ch {
		objs = append(objs, o)
	}
	require.Len(t, objs, 1)
	area := objs[0]
	assert.Equal(t, mapobj.KindArea, area.Kind)
	assert.Equal(t, int32(mapobj.SymbolMarsh), area.Symbol,
		"6x rain depth starts a normal marsh")

	// Marshes never touch the terrain label.
	for tri := 0; tri < m.NumTriangles; tri++ {
		assert.Equal(t, dtm.Unclassified, m.Terrain[tri])
	}
}

func TestRegionEnvelope(t *testing.T) {
	m := slopedGrid(t)
	absorbed := make([]float64, m.NumTriangles)

	wet, ok := m.TriangleContainingPoint(geometry.Point3D{X: 4.1, Y: 4.2}, 0)
	require.True(t, ok)
	dry, ok := m.TriangleContainingPoint(geometry.Point3D{X: 4.6, Y: 4.3}, 0)
	require.True(t, ok)
	absorbed[wet] = 6 * rainDepth

	lo, hi := Normal.Band(rainDepth)
	r := &region{
		d: m, index: 1, claims: make([]int, m.NumTriangles),
		absorbed: absorbed, lo: lo, hi: hi,
		minWetZ: 1e300, maxWetZ: -1e300,
	}

	// Before any wet triangle is pushed the envelope is empty: a dry
	// triangle is refused.
	assert.True(t, r.ShouldRecurse(dtm.Halfedge(wet*3)))
	assert.False(t, r.ShouldRecurse(dtm.Halfedge(dry*3)))

	// Push a wet frontier triangle; the envelope now covers its span and
	// admits dry triangles strictly inside it.
	r.Push(dtm.Halfedge(wet * 3))
	assert.Equal(t, m.ZLimits[wet].Min, r.minWetZ)
	assert.Equal(t, m.ZLimits[wet].Max, r.maxWetZ)

	r.minWetZ, r.maxWetZ = 0, 1 // widen as further wet pushes would
	assert.True(t, r.ShouldRecurse(dtm.Halfedge(dry*3)),
		"dry triangle inside the wet envelope is admitted")

	r.claims[dry] = 1
	assert.False(t, r.ShouldRecurse(dtm.Halfedge(dry*3)), "claimed triangles are refused")
}

func TestDetectIgnoresDryGround(t *testing.T) {
	m := slopedGrid(t)
	absorbed := make([]float64, m.NumTriangles)
	for i := range absorbed {
		absorbed[i] = 1.5 * rainDepth // below the diffuse band
	}
	ch := make(chan mapobj.Object, 4)
	n, err := Detect(m, absorbed, rainDepth, ch, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

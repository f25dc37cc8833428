package dtm

import "github.com/arl/omap/geometry"

// nextTowardPoint returns the neighbouring triangle to move to in order
// to approach p, or t itself when p is inside t. The second return value
// is false when the walk leaves the convex hull.
func (m *Model) nextTowardPoint(p geometry.Point3D, t int) (int, bool) {
	for edge := 0; edge < 3; edge++ {
		p0 := m.Points[m.Vertices[t*3+edge]]
		p1 := m.Points[m.Vertices[t*3+(edge+1)%3]]
		if p.LeftOf(p0, p1) {
			o := m.Halfedges[t*3+edge]
			if o == EMPTY {
				return 0, false
			}
			return o.Triangle(), true
		}
	}
	return t, true
}

// TriangleContainingPoint locates the triangle whose 2D footprint
// contains p by walking the mesh from the previous result. The walk is
// monotone in distance to p, so spatially coherent query sequences
// resolve in amortized constant time. Returns false when p lies outside
// the hull.
func (m *Model) TriangleContainingPoint(p geometry.Point3D, previous int) (int, bool) {
	t := previous
	for {
		next, ok := m.nextTowardPoint(p, t)
		if !ok {
			return 0, false
		}
		if next == t {
			return t, true
		}
		t = next
	}
}

// ElevationAt interpolates the ground elevation at the 2D position of p,
// walking from the hint triangle. Returns false outside the hull. For a
// vertical triangle plane the vertex average is returned.
func (m *Model) ElevationAt(p geometry.Point3D, hint int) (float64, bool) {
	t, ok := m.TriangleContainingPoint(p, hint)
	if !ok {
		return 0, false
	}
	p0, p1, p2 := m.TrianglePoints(t)
	n := m.Normals[t]
	if n.Z == 0 {
		return (p0.Z + p1.Z + p2.Z) / 3, true
	}
	// Solve n.(p - p0) = 0 for p.z.
	return p0.Z - (n.X*(p.X-p0.X)+n.Y*(p.Y-p0.Y))/n.Z, true
}

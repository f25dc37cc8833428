// Package dtm implements the digital terrain model: a planar Delaunay
// triangulation of the LiDAR ground returns with half-edge connectivity
// and precomputed per-triangle attributes (normal, area, z range,
// exterior flag, terrain label).
//
// The model is read-only after construction with two sanctioned
// exceptions: the terrain label array, written by the lake and cliff
// classifiers, and in-place z-flattening of lake triangles. After a z
// mutation callers must invoke RecalculateDerived so normals and z ranges
// match the vertex data again.
package dtm

import (
	"errors"
	"fmt"

	"github.com/fogleman/delaunay"

	"github.com/arl/omap/geometry"
)

// ErrNoTriangulation is returned when the ground point set does not admit
// a triangulation (fewer than three non-collinear points).
var ErrNoTriangulation = errors.New("dtm: ground points do not span a triangulation")

// ZRange is the vertical extent of a triangle.
type ZRange struct {
	Min, Max float64
}

// Spans reports whether z lies within the range, borders included.
func (r ZRange) Spans(z float64) bool {
	return z >= r.Min && z <= r.Max
}

// Model is the digital terrain model.
//
// Vertices holds three point indices per triangle; Halfedges is the
// opposite table, EMPTY on the convex hull. Both arrays follow the
// delaunator layout: half-edge h belongs to triangle h/3.
type Model struct {
	Points    []geometry.Point3D
	Vertices  []int
	Halfedges []Halfedge

	NumTriangles int

	Normals  []geometry.Point3D
	Areas    []float64
	Exterior []bool
	ZLimits  []ZRange
	Terrain  []Terrain
}

// New triangulates the ground points and computes the per-triangle
// attributes. Triangles having a vertex within margin meters of the 2D
// bounding box of the point set, or lying on the convex hull, are flagged
// exterior.
func New(points []geometry.Point3D, margin float64) (*Model, error) {
	if len(points) < 3 {
		return nil, ErrNoTriangulation
	}
	dpts := make([]delaunay.Point, len(points))
	for i, p := range points {
		dpts[i] = delaunay.Point{X: p.X, Y: p.Y}
	}

	tri, err := delaunay.Triangulate(dpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTriangulation, err)
	}
	if len(tri.Triangles) == 0 {
		return nil, ErrNoTriangulation
	}

	numTriangles := len(tri.Triangles) / 3

	m := &Model{
		Points:       points,
		Vertices:     tri.Triangles,
		Halfedges:    make([]Halfedge, len(tri.Halfedges)),
		NumTriangles: numTriangles,
		Areas:        make([]float64, numTriangles),
		Exterior:     make([]bool, numTriangles),
		Terrain:      make([]Terrain, numTriangles),
	}
	for i, o := range tri.Halfedges {
		m.Halfedges[i] = Halfedge(o)
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	minX += margin
	maxX -= margin
	minY += margin
	maxY -= margin

	for t := 0; t < numTriangles; t++ {
		p0, p1, p2 := m.TrianglePoints(t)

		m.Areas[t] = abs((p0.X*(p1.Y-p2.Y) +
			p1.X*(p2.Y-p0.Y) +
			p2.X*(p0.Y-p1.Y)) * 0.5)

		m.Exterior[t] = p0.X < minX || p1.X < minX || p2.X < minX ||
			p0.X > maxX || p1.X > maxX || p2.X > maxX ||
			p0.Y < minY || p1.Y < minY || p2.Y < minY ||
			p0.Y > maxY || p1.Y > maxY || p2.Y > maxY ||
			m.Halfedges[t*3] == EMPTY ||
			m.Halfedges[t*3+1] == EMPTY ||
			m.Halfedges[t*3+2] == EMPTY
	}

	m.RecalculateDerived()
	return m, nil
}

// RecalculateDerived recomputes normals and z limits from the current
// vertex positions. Must be called after any z mutation.
func (m *Model) RecalculateDerived() {
	if m.Normals == nil {
		m.Normals = make([]geometry.Point3D, m.NumTriangles)
		m.ZLimits = make([]ZRange, m.NumTriangles)
	}
	for t := 0; t < m.NumTriangles; t++ {
		p0, p1, p2 := m.TrianglePoints(t)

		v := p1.Sub(p0)
		u := p2.Sub(p0)
		n := u.Cross(v).Normalized()
		if n.Z < 0 {
			// Terrain normals point up, whatever the triangle winding.
			n = n.Scale(-1)
		}
		m.Normals[t] = n

		m.ZLimits[t] = ZRange{
			Min: min(p0.Z, p1.Z, p2.Z),
			Max: max(p0.Z, p1.Z, p2.Z),
		}
	}
}

// Opposite returns the half-edge traversing the same undirected edge in
// the neighbouring triangle, or EMPTY on the convex hull.
func (m *Model) Opposite(h Halfedge) Halfedge {
	return m.Halfedges[h]
}

// TrianglePoints returns the three corner points of triangle t.
func (m *Model) TrianglePoints(t int) (p0, p1, p2 geometry.Point3D) {
	return m.Points[m.Vertices[t*3]],
		m.Points[m.Vertices[t*3+1]],
		m.Points[m.Vertices[t*3+2]]
}

// HalfedgeStart returns the point the half-edge starts from.
func (m *Model) HalfedgeStart(h Halfedge) geometry.Point3D {
	return m.Points[m.Vertices[h]]
}

// EdgeLength returns the 2D length of the half-edge.
func (m *Model) EdgeLength(h Halfedge) float64 {
	return m.HalfedgeStart(h).Dist2D(m.HalfedgeStart(h.Next()))
}

// Incenter returns the point whose 2D projection is the incenter of the
// 2D footprint of triangle t, with z interpolated by the same barycentric
// weights (each corner weighted by the length of its opposite edge).
func (m *Model) Incenter(t int) geometry.Point3D {
	p0, p1, p2 := m.TrianglePoints(t)
	a := p1.Dist2D(p2) // opposite p0
	b := p2.Dist2D(p0) // opposite p1
	c := p0.Dist2D(p1) // opposite p2
	s := a + b + c
	return geometry.Point3D{
		X: (a*p0.X + b*p1.X + c*p2.X) / s,
		Y: (a*p0.Y + b*p1.Y + c*p2.Y) / s,
		Z: (a*p0.Z + b*p1.Z + c*p2.Z) / s,
	}
}

// Clone returns a deep copy of the model, for consumers that must not
// observe later terrain or vertex mutations.
func (m *Model) Clone() *Model {
	c := &Model{
		Points:       append([]geometry.Point3D(nil), m.Points...),
		Vertices:     append([]int(nil), m.Vertices...),
		Halfedges:    append([]Halfedge(nil), m.Halfedges...),
		NumTriangles: m.NumTriangles,
		Normals:      append([]geometry.Point3D(nil), m.Normals...),
		Areas:        append([]float64(nil), m.Areas...),
		Exterior:     append([]bool(nil), m.Exterior...),
		ZLimits:      append([]ZRange(nil), m.ZLimits...),
		Terrain:      append([]Terrain(nil), m.Terrain...),
	}
	return c
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

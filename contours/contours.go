// Package contours extracts iso-elevation lines from the terrain model.
// For every candidate vertical offset a full set of contours is traced by
// walking the mesh between intersected edges; the sets are scored and
// only the best one is emitted, which avoids offsets that run along
// horizontal lake edges and branch.
package contours

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"

	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
)

// simplifyTolerance is the Visvalingam area threshold applied to every
// traced polyline.
const simplifyTolerance = 5.0

// Contour is one traced iso-line at a fixed elevation.
type Contour struct {
	line           orb.LineString // simplified
	triangles      []int          // visited, for scoring
	closed         bool
	originalLength float64
	baseElevation  float64
}

// crossing is an intersection of the tracing plane with a triangle edge.
type crossing struct {
	h dtm.Halfedge
	p geometry.Point3D
}

// crossingsOf collects the intersections of triangle t with the plane
// z = level. Flat edges (both endpoints at the same elevation) never
// intersect; an endpoint exactly at the level is the crossing itself.
func crossingsOf(d *dtm.Model, t int, level float64) []crossing {
	var cs []crossing
	for h := dtm.Halfedge(t * 3); h < dtm.Halfedge(t*3+3); h++ {
		a := d.Points[d.Vertices[h]]
		b := d.Points[d.Vertices[h.Next()]]
		switch {
		case a.Z == level:
			cs = append(cs, crossing{h, a})
		case a.Z == b.Z:
			// flat edge
		default:
			f := (level - a.Z) / (b.Z - a.Z)
			if f > 0 && f < 1 {
				cs = append(cs, crossing{h, geometry.Point3D{
					X: a.X + f*(b.X-a.X),
					Y: a.Y + f*(b.Y-a.Y),
					Z: level,
				}})
			}
		}
	}
	return cs
}

// traceLevel walks every contour at elevation level and returns the
// simplified polylines.
func traceLevel(d *dtm.Model, level float64) ([]Contour, error) {
	// Admissible triangles: interior, spanning the level, not flat at
	// it, with exactly two edge crossings.
	var order []int
	remaining := make(map[int]bool)
	for t := 0; t < d.NumTriangles; t++ {
		zl := d.ZLimits[t]
		if !zl.Spans(level) || d.Exterior[t] || zl.Min == zl.Max {
			continue
		}
		if len(crossingsOf(d, t, level)) != 2 {
			continue
		}
		order = append(order, t)
		remaining[t] = true
	}

	var contours []Contour
	for _, start := range order {
		if !remaining[start] {
			continue
		}
		c, err := walkFrom(d, level, start, remaining)
		if err != nil {
			return nil, err
		}
		if c != nil {
			contours = append(contours, *c)
		}
	}
	return contours, nil
}

// walkFrom traces the single contour passing through the start triangle,
// consuming the triangles it visits from the remaining set.
func walkFrom(d *dtm.Model, level float64, start int, remaining map[int]bool) (*Contour, error) {
	var (
		points    []orb.Point
		triangles []int

		halfedge   = dtm.EMPTY
		triangle   = start
		endReached = false
	)

	for {
		cs := crossingsOf(d, triangle, level)
		switch len(cs) {
		case 1:
			// The contour passes through a vertex: rotate around it.
			halfedge = d.Opposite(cs[0].h).Next()

		case 2:
			if !remaining[triangle] {
				// Met a triangle already consumed by another walk: a
				// branch along a flat edge. End this walk here.
				return finishWalk(points, triangles, level, endReached)
			}
			delete(remaining, triangle)

			exit := cs[0]
			if exit.h == halfedge {
				exit = cs[1]
			}
			points = append(points, orb.Point{exit.p.X, exit.p.Y})
			triangles = append(triangles, triangle)
			halfedge = d.Opposite(exit.h)

		case 3:
			return nil, fmt.Errorf("contours: level %v intersects a completely flat triangle %d", level, triangle)

		default:
			return nil, fmt.Errorf("contours: %d crossings in triangle %d at level %v", len(cs), triangle, level)
		}

		if halfedge == dtm.EMPTY || d.Exterior[halfedge.Triangle()] {
			if endReached {
				break
			}
			// First open end: reverse and continue from the start
			// triangle's other crossing.
			reverse(points)
			reverseInts(triangles)
			halfedge = crossingsOf(d, start, level)[0].h
			remaining[start] = true
			endReached = true
		}

		triangle = halfedge.Triangle()
		if triangle == start && !endReached {
			break // closed loop
		}
	}

	return finishWalk(points, triangles, level, endReached)
}

func finishWalk(points []orb.Point, triangles []int, level float64, endReached bool) (*Contour, error) {
	if len(points) < 2 {
		return nil, nil
	}
	original := orb.LineString(points)
	length := planar.Length(original)
	if length <= 0 {
		return nil, nil
	}
	line := simplify.VisvalingamThreshold(simplifyTolerance).Simplify(original.Clone()).(orb.LineString)
	return &Contour{
		line:           line,
		triangles:      triangles,
		closed:         !endReached,
		originalLength: length,
		baseElevation:  level,
	}, nil
}

func reverse(pts []orb.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

func reverseInts(v []int) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

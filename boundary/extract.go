package boundary

import (
	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
)

// Vertices returns the ring's corner positions, one per half-edge, as
// east/north pairs.
func (l Loop) Vertices(d *dtm.Model) []geometry.Point2D {
	pts := make([]geometry.Point2D, len(l))
	for i, h := range l {
		p := d.HalfedgeStart(h)
		pts[i] = geometry.Point2D{East: p.X, North: p.Y}
	}
	return pts
}

// InteriorRuns splits the ring into maximal runs of half-edges whose
// triangle is not exterior and returns one open polyline per run. When
// the whole ring is interior a single closed polyline (first vertex
// repeated at the end) is returned.
func (l Loop) InteriorRuns(d *dtm.Model) [][]geometry.Point2D {
	n := len(l)
	if n == 0 {
		return nil
	}

	drawable := func(h dtm.Halfedge) bool {
		return !d.Exterior[h.Triangle()]
	}

	// Rotate to a seam so that no run wraps around.
	start := -1
	for i, h := range l {
		if !drawable(h) {
			start = i
			break
		}
	}
	if start == -1 {
		pts := l.Vertices(d)
		return [][]geometry.Point2D{append(pts, pts[0])}
	}

	var runs [][]geometry.Point2D
	var run []geometry.Point2D
	for i := 1; i <= n; i++ {
		h := l[(start+i)%n]
		if !drawable(h) {
			if len(run) > 1 {
				runs = append(runs, run)
			}
			run = nil
			continue
		}
		p := d.HalfedgeStart(h)
		run = append(run, geometry.Point2D{East: p.X, North: p.Y})
		end := d.HalfedgeStart(h.Next())
		if next := l[(start+i+1)%n]; i == n || !drawable(next) {
			// Close the run with the far endpoint of its last edge.
			run = append(run, geometry.Point2D{East: end.X, North: end.Y})
		}
	}
	if len(run) > 1 {
		runs = append(runs, run)
	}
	return runs
}

// Package cliffs detects cliff faces: connected regions of steep, short
// triangles. A region is accepted when its boundary is tall enough and
// the least-squares plane through its triangle incenters is close enough
// to vertical; it is then emitted as a simplified polyline following the
// cliff base direction.
package cliffs

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"

	"github.com/arl/omap/boundary"
	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
	"github.com/arl/omap/internal/tag"
	"github.com/arl/omap/mapobj"
)

const (
	maxEdge            = 10.0 // m, seeds and growth
	seedMaxNormalZ     = 0.5
	growMaxNormalZ     = 0.8
	minZRange          = 0.45 // m
	minHeight          = 1.2  // m, over the outer ring
	impassableHeight   = 1.5  // m
	minAngleToVertical = 70.0 // degrees
	simplifyTolerance  = 10.0
	minLength          = 4.0 // m, after simplification
)

type region struct {
	d         *dtm.Model
	index     int
	claims    []int
	halfedges boundary.Loop
}

func (r *region) DTM() *dtm.Model     { return r.d }
func (r *region) Claim(t int)         { r.claims[t] = r.index }
func (r *region) Push(h dtm.Halfedge) { r.halfedges = append(r.halfedges, h) }

func (r *region) ShouldRecurse(h dtm.Halfedge) bool {
	t := h.Triangle()
	return r.claims[t] == 0 &&
		r.d.Terrain[t] == dtm.Unclassified &&
		!r.d.Exterior[t] &&
		r.d.Normals[t].Z < growMaxNormalZ &&
		r.d.ZLimits[t].Max-r.d.ZLimits[t].Min > minZRange &&
		r.d.EdgeLength(h) < maxEdge
}

// isSeed reports whether triangle t can start a cliff growth.
func isSeed(d *dtm.Model, t int) bool {
	if d.Exterior[t] || d.Terrain[t] != dtm.Unclassified {
		return false
	}
	if d.Normals[t].Z >= seedMaxNormalZ {
		return false
	}
	if d.ZLimits[t].Max-d.ZLimits[t].Min <= minZRange {
		return false
	}
	p0, p1, p2 := d.TrianglePoints(t)
	return p0.Dist2D(p1) < maxEdge && p1.Dist2D(p2) < maxEdge && p2.Dist2D(p0) < maxEdge
}

// Detect finds the cliffs of the model, emits their polylines to out and
// labels accepted regions dtm.Cliff. Returns the number of cliffs
// emitted.
func Detect(d *dtm.Model, out chan<- mapobj.Object, log *tag.Logger) (int, error) {
	claims := make([]int, d.NumTriangles)
	index := 1
	cliffs := 0

	for seed := 0; seed < d.NumTriangles; seed++ {
		if claims[seed] != 0 || !isSeed(d, seed) {
			continue
		}

		cliff := &region{d: d, index: index, claims: claims}
		boundary.Grow(cliff, seed)
		index++

		if len(cliff.halfedges) <= 3 {
			continue
		}
		outer, _, err := boundary.Split(d, cliff.halfedges)
		if err != nil {
			return cliffs, fmt.Errorf("cliffs: %w", err)
		}

		minZ, maxZ := d.HalfedgeStart(outer[0]).Z, d.HalfedgeStart(outer[0]).Z
		for _, h := range outer[1:] {
			z := d.HalfedgeStart(h).Z
			minZ, maxZ = min(minZ, z), max(maxZ, z)
		}
		height := maxZ - minZ
		if height <= minHeight {
			continue
		}

		var incenters []geometry.Point3D
		for t, c := range claims {
			if c == cliff.index {
				incenters = append(incenters, d.Incenter(t))
			}
		}

		line, ok := baseLine(incenters)
		if !ok {
			continue // degenerate region, skipped
		}
		if planar.Length(line) <= minLength {
			continue
		}

		symbol := int32(mapobj.SymbolCliff)
		if height > impassableHeight {
			symbol = mapobj.SymbolImpassableCliff
		}
		ring := make([]geometry.Point2D, len(line))
		for i, p := range line {
			ring[i] = geometry.Point2D{East: p[0], North: p[1]}
		}
		mapobj.PostRings([][]geometry.Point2D{ring},
			[]mapobj.GraphSymbol{mapobj.Stroke(symbol, false)}, out)
		cliffs++

		for t, c := range claims {
			if c == cliff.index {
				d.Terrain[t] = dtm.Cliff
			}
		}
	}

	log.Printf("Found %d cliffs.", cliffs)
	return cliffs, nil
}

// baseLine fits a plane to the incenters, rejects faces that are not
// steep enough, orders the incenters along the horizontal direction of
// the plane and returns the simplified polyline. ok is false when the
// region is numerically degenerate or too flat.
func baseLine(incenters []geometry.Point3D) (orb.LineString, bool) {
	plane, err := geometry.PlaneFromPoints(incenters)
	if err != nil {
		return nil, false
	}
	if plane.AngleToVertical() < minAngleToVertical {
		return nil, false
	}
	dir, ok := plane.HorizontalDirection()
	if !ok {
		return nil, false
	}

	sorted := append([]geometry.Point3D(nil), incenters...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X*dir.X+sorted[i].Y*dir.Y < sorted[j].X*dir.X+sorted[j].Y*dir.Y
	})

	line := make(orb.LineString, len(sorted))
	for i, p := range sorted {
		line[i] = orb.Point{p.X, p.Y}
	}
	line = simplify.VisvalingamThreshold(simplifyTolerance).Simplify(line).(orb.LineString)
	return line, true
}

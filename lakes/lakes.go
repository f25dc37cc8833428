// Package lakes classifies water-covered triangles of the terrain model.
// Lakes are grown from triangles containing LiDAR water returns, emitted
// as filled polygons with stroked shorelines, and their triangles are
// flattened to a common surface level so later passes see a consistent
// water table.
package lakes

import (
	"fmt"
	"math"
	"sort"

	"github.com/arl/omap/boundary"
	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
	"github.com/arl/omap/internal/tag"
	"github.com/arl/omap/mapobj"
)

const (
	// A triangle is lake-flat when the z component of its normal is at
	// least this close to vertical.
	zNormalRequirement = 0.9993

	// Edges longer than this bridge gaps in the water returns, as long
	// as the triangle is not exterior.
	longEdgeBypass = 5.0

	// Boundaries with fewer half-edges than this cannot form a polygon
	// and are discarded.
	minBoundaryEdges = 3
)

// region is one lake growth. The claim array is shared between all lakes
// of a run so a triangle is never grown twice.
type region struct {
	d             *dtm.Model
	index         int
	claims        []int
	hasWaterPoint []bool
	halfedges     boundary.Loop
}

func (r *region) DTM() *dtm.Model     { return r.d }
func (r *region) Claim(t int)         { r.claims[t] = r.index }
func (r *region) Push(h dtm.Halfedge) { r.halfedges = append(r.halfedges, h) }

func (r *region) ShouldRecurse(h dtm.Halfedge) bool {
	t := h.Triangle()
	return r.claims[t] == 0 &&
		r.d.Terrain[t] == dtm.Unclassified &&
		(r.d.Normals[t].Z >= zNormalRequirement ||
			(r.d.EdgeLength(h) > longEdgeBypass && !r.d.Exterior[t]) ||
			r.hasWaterPoint[t])
}

// Find grows a lake from every water point whose triangle is flat enough,
// emits the lake polygons and shorelines to out, flattens the lake
// triangles to the rounded median surface level and labels them
// dtm.Lake. zRes is the elevation quantum of the source data the median
// is rounded to.
//
// Returns the number of lakes emitted.
func Find(d *dtm.Model, waterPoints []geometry.Point3D, zRes float64, out chan<- mapobj.Object, log *tag.Logger) (int, error) {
	log.Printf("Creating lakes from %d water points.", len(waterPoints))

	// Locate the triangle under each water point. Consecutive returns are
	// spatially close, so the previous hit is the walk hint.
	wpTriangle := make([]int, len(waterPoints))
	hasWaterPoint := make([]bool, d.NumTriangles)
	hint := 0
	for i, p := range waterPoints {
		t, ok := d.TriangleContainingPoint(p, hint)
		if !ok {
			wpTriangle[i] = -1
			continue
		}
		wpTriangle[i] = t
		hasWaterPoint[t] = true
		hint = t
	}

	claims := make([]int, d.NumTriangles)
	lakeIndex := 1
	lakes := 0
	flattened := false

	for _, t := range wpTriangle {
		if t < 0 || claims[t] != 0 || d.Normals[t].Z < zNormalRequirement {
			continue
		}

		lake := &region{d: d, index: lakeIndex, claims: claims, hasWaterPoint: hasWaterPoint}
		boundary.Grow(lake, t)

		if len(lake.halfedges) >= minBoundaryEdges {
			outer, islands, err := boundary.Split(d, lake.halfedges)
			if err != nil {
				return lakes, fmt.Errorf("lakes: %w", err)
			}

			rings := [][]geometry.Point2D{outer.Vertices(d)}
			for _, isl := range islands {
				rings = append(rings, isl.Vertices(d))
			}
			mapobj.PostRings(rings, []mapobj.GraphSymbol{mapobj.Fill(mapobj.SymbolLake)}, out)

			var shore [][]geometry.Point2D
			shore = append(shore, outer.InteriorRuns(d)...)
			for _, isl := range islands {
				shore = append(shore, isl.InteriorRuns(d)...)
			}
			mapobj.PostRings(shore, []mapobj.GraphSymbol{mapobj.Stroke(mapobj.SymbolLakeBorder, false)}, out)

			lakes++
		}

		flattenLake(d, claims, lakeIndex, zRes)
		flattened = true
		lakeIndex++
	}

	if flattened {
		// Vertex z values changed; normals and z ranges must follow.
		d.RecalculateDerived()
	}

	log.Printf("Found %d lakes.", lakes)
	return lakes, nil
}

// flattenLake overwrites the vertex elevations of every triangle claimed
// by lake index with the median of the triangle mean elevations, rounded
// to the source z resolution, and labels the triangles dtm.Lake.
func flattenLake(d *dtm.Model, claims []int, index int, zRes float64) {
	var triangles []int
	var averageZ []float64
	for t, c := range claims {
		if c != index {
			continue
		}
		triangles = append(triangles, t)
		p0, p1, p2 := d.TrianglePoints(t)
		averageZ = append(averageZ, (p0.Z+p1.Z+p2.Z)/3)
	}
	if len(triangles) == 0 {
		return
	}

	sort.Float64s(averageZ)
	median := averageZ[0]
	if len(averageZ) > 2 {
		median = averageZ[len(averageZ)/2]
	}
	if zRes > 0 {
		median = math.Round(median/zRes) * zRes
	}

	for _, t := range triangles {
		d.Points[d.Vertices[t*3]].Z = median
		d.Points[d.Vertices[t*3+1]].Z = median
		d.Points[d.Vertices[t*3+2]].Z = median
		d.Terrain[t] = dtm.Lake
	}
}

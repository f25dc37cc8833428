// Package marshes classifies wet ground from the absorbed-depth field
// produced by the hydrology simulation. Three marsh variants are grown by
// absorbed-depth band; regions may additionally swallow triangles whose
// elevation span lies within the envelope of the wet triangles already
// collected, so a marsh is not cut apart by single dry triangles at its
// own level.
package marshes

import (
	"fmt"
	"math"

	"github.com/arl/omap/boundary"
	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
	"github.com/arl/omap/internal/tag"
	"github.com/arl/omap/mapobj"
)

// minSeedArea is the smallest triangle area that may start a growth.
const minSeedArea = 0.5 // m²

// Variant is one of the three marsh types. The absorbed-depth bands
// overlap on purpose: a growth started in a wetter band may extend into
// the dryer end of its range.
type Variant uint8

const (
	Diffuse Variant = iota
	Normal
	Impassable
)

// Band returns the absorbed-depth range of the variant, in multiples of
// the rain depth.
func (v Variant) Band(rainDepth float64) (lo, hi float64) {
	switch v {
	case Diffuse:
		return 2 * rainDepth, 5 * rainDepth
	case Normal:
		return 4 * rainDepth, 10 * rainDepth
	default:
		return 7 * rainDepth, math.MaxFloat64
	}
}

// Symbol returns the map symbol of the variant.
func (v Variant) Symbol() int32 {
	switch v {
	case Diffuse:
		return mapobj.SymbolDiffuseMarsh
	case Normal:
		return mapobj.SymbolMarsh
	default:
		return mapobj.SymbolImpassableMarsh
	}
}

// variantFor picks the marsh type a seed with the given absorbed depth
// starts.
func variantFor(absorbed, rainDepth float64) Variant {
	switch {
	case absorbed < 5*rainDepth:
		return Diffuse
	case absorbed < 10*rainDepth:
		return Normal
	default:
		return Impassable
	}
}

type region struct {
	d         *dtm.Model
	index     int
	claims    []int
	absorbed  []float64
	lo, hi    float64
	minWetZ   float64
	maxWetZ   float64
	halfedges boundary.Loop
}

func (r *region) DTM() *dtm.Model { return r.d }
func (r *region) Claim(t int)     { r.claims[t] = r.index }

func (r *region) wet(t int) bool {
	return r.absorbed[t] >= r.lo && r.absorbed[t] <= r.hi
}

// Push records the frontier half-edge and lets wet frontier triangles
// extend the elevation envelope of the marsh.
func (r *region) Push(h dtm.Halfedge) {
	t := h.Triangle()
	if r.wet(t) {
		z := r.d.ZLimits[t]
		r.minWetZ = math.Min(r.minWetZ, z.Min)
		r.maxWetZ = math.Max(r.maxWetZ, z.Max)
	}
	r.halfedges = append(r.halfedges, h)
}

func (r *region) ShouldRecurse(h dtm.Halfedge) bool {
	t := h.Triangle()
	if r.claims[t] != 0 || r.d.Terrain[t] != dtm.Unclassified || r.d.Exterior[t] {
		return false
	}
	if r.wet(t) {
		return true
	}
	z := r.d.ZLimits[t]
	return z.Min > r.minWetZ && z.Min < r.maxWetZ &&
		z.Max > r.minWetZ && z.Max < r.maxWetZ
}

// Detect grows marshes from every triangle whose absorbed depth reaches
// the diffuse band and emits one filled polygon per accepted region.
// Marshes only emit; they never write the terrain label. Returns the
// number of marshes emitted.
func Detect(d *dtm.Model, absorbedDepth []float64, rainDepth float64, out chan<- mapobj.Object, log *tag.Logger) (int, error) {
	claims := make([]int, d.NumTriangles)
	index := 1
	marshes := 0

	for seed := 0; seed < d.NumTriangles; seed++ {
		if claims[seed] != 0 ||
			absorbedDepth[seed] < 2*rainDepth ||
			d.Exterior[seed] ||
			d.Terrain[seed] != dtm.Unclassified ||
			d.Areas[seed] < minSeedArea {
			continue
		}

		variant := variantFor(absorbedDepth[seed], rainDepth)
		lo, hi := variant.Band(rainDepth)
		marsh := &region{
			d:        d,
			index:    index,
			claims:   claims,
			absorbed: absorbedDepth,
			lo:       lo, hi: hi,
			minWetZ: math.MaxFloat64,
			maxWetZ: -math.MaxFloat64,
		}
		boundary.Grow(marsh, seed)
		index++

		if len(marsh.halfedges) <= 3 {
			continue
		}
		outer, islands, err := boundary.Split(d, marsh.halfedges)
		if err != nil {
			return marshes, fmt.Errorf("marshes: %w", err)
		}

		rings := [][]geometry.Point2D{outer.Vertices(d)}
		for _, isl := range islands {
			rings = append(rings, isl.Vertices(d))
		}
		mapobj.PostRings(rings, []mapobj.GraphSymbol{mapobj.Fill(variant.Symbol())}, out)
		marshes++
	}

	log.Printf("%d marshes added.", marshes)
	return marshes, nil
}

package contours

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/sync/errgroup"

	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
	"github.com/arl/omap/internal/tag"
	"github.com/arl/omap/mapobj"
)

const (
	penaltyAdjacentToLake   = 200.0
	bonusOnCliff            = 50.0
	penaltyEasilySimplified = 100.0
	easilySimplifiedLimit   = 0.2
	penaltyShortClosed      = 20.0
	desiredClosedLength     = 30.0 // m
	maxPlainPoints          = 10   // larger contours are Bézier-fitted
	bezierFitTolerance      = 5.0
)

// score rates the contour: longer is better, hugging lake edges or
// collapsing under simplification is penalized, following cliffs is
// rewarded.
func (c *Contour) score(d *dtm.Model) float64 {
	length := planar.Length(c.line)
	score := length

	if length/c.originalLength < easilySimplifiedLimit {
		score -= penaltyEasilySimplified
	}
	for _, t := range c.triangles {
		for i := 0; i < 3; i++ {
			o := d.Opposite(dtm.Halfedge(t*3 + i))
			if o != dtm.EMPTY && d.Terrain[o.Triangle()] == dtm.Lake {
				score -= penaltyAdjacentToLake
			}
		}
		if d.Terrain[t] == dtm.Cliff {
			score += bonusOnCliff
		}
	}
	if c.closed && length < desiredClosedLength {
		score -= penaltyShortClosed
	}
	return score
}

// Params configures a contour generation run.
type Params struct {
	MinZ, MaxZ   float64
	ZResolution  float64 // elevation quantum of the source data
	Equidistance float64 // vertical distance between contours
	OffsetStep   float64 // candidate offset spacing
}

// candidate is one scored offset with its full contour set.
type candidate struct {
	offset   float64
	score    float64
	contours []Contour
}

// traceOffset traces all levels of one candidate offset and sums their
// scores.
func traceOffset(d *dtm.Model, p Params, offset float64) (candidate, error) {
	c := candidate{offset: offset}
	for z := p.MinZ + offset; z < p.MaxZ; z += p.Equidistance {
		cs, err := traceLevel(d, z)
		if err != nil {
			return c, err
		}
		c.contours = append(c.contours, cs...)
	}
	for i := range c.contours {
		c.score += c.contours[i].score(d)
	}
	return c, nil
}

// Generate traces contour sets for every candidate offset in parallel,
// keeps the best-scoring set and emits it to out. The model must be a
// private clone: tracing runs concurrently and must not observe terrain
// mutations. Returns the number of contours emitted.
func Generate(d *dtm.Model, p Params, out chan<- mapobj.Object, log *tag.Logger) (int, error) {
	var offsets []float64
	for off := p.ZResolution * 0.5; off < p.Equidistance-p.OffsetStep*0.5; off += p.OffsetStep {
		offsets = append(offsets, off)
	}
	if len(offsets) == 0 {
		offsets = []float64{p.ZResolution * 0.5}
	}

	candidates := make([]candidate, len(offsets))
	var g errgroup.Group
	for i, off := range offsets {
		i, off := i, off
		g.Go(func() error {
			var err error
			candidates[i], err = traceOffset(d, p, off)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, c := range candidates {
		total += len(c.contours)
	}
	log.Printf("Created %d contours at %g m intervals.", total, p.OffsetStep)

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	best := candidates[0]
	log.Printf("Choosing offset %g with %d contours.", best.offset, len(best.contours))

	emitted := 0
	for i := range best.contours {
		if o, ok := best.contours[i].object(); ok {
			out <- o
			emitted++
		}
	}
	log.Printf("%d contours added.", emitted)
	return emitted, nil
}

// object converts the contour to its map object: a plain polyline for
// small contours, a Bézier fit for larger ones. Contours with fewer than
// four simplified points are dropped.
func (c *Contour) object() (mapobj.Object, bool) {
	n := len(c.line)
	switch {
	case n < 4:
		return mapobj.Object{}, false

	case n <= maxPlainPoints:
		o := mapobj.Object{Kind: mapobj.KindLine, Symbol: mapobj.SymbolContour}
		for i, p := range c.line {
			op := mapobj.OpLine
			if i == 0 {
				op = mapobj.OpMove
			}
			o.Segments = append(o.Segments, mapobj.Segment{Op: op, P: toPoint2D(p)})
		}
		return o, true

	default:
		curves := fitCurve(c.line, bezierFitTolerance)
		if len(curves) == 0 {
			return mapobj.Object{}, false
		}
		o := mapobj.Object{Kind: mapobj.KindLine, Symbol: mapobj.SymbolContour}
		o.Segments = append(o.Segments, mapobj.Segment{Op: mapobj.OpMove, P: toPoint2D(curves[0].p0)})
		for _, b := range curves {
			o.Segments = append(o.Segments, mapobj.Segment{
				Op: mapobj.OpBezier,
				C1: toPoint2D(b.c1),
				C2: toPoint2D(b.c2),
				P:  toPoint2D(b.p3),
			})
		}
		return o, true
	}
}

func toPoint2D(p orb.Point) geometry.Point2D {
	return geometry.Point2D{East: p[0], North: p[1]}
}

// Package hydro runs the rain redistribution simulation: a fixed depth of
// water is dropped on every triangle and iteratively flows downhill along
// the in-plane projection of gravity, a fraction being absorbed each
// round. The resulting absorbed-depth field seeds the marsh classifier.
package hydro

import (
	"math"

	"github.com/arl/omap/dtm"
	"github.com/arl/omap/geometry"
	"github.com/arl/omap/internal/tag"
)

// maxIterations caps the redistribution loop; terrains without enough
// absorption drain across the hull long before this.
const maxIterations = 100000

// distribution is the per-triangle routing computed once up front:
// outflow fraction per half-edge and the absorbed fraction per round.
type distribution struct {
	ratios [3]float64
	absorb float64
}

// planDistribution derives the routing for triangle t.
//
// Gravity is projected onto the triangle plane; the in-plane direction g
// points toward the downhill vertex, and the line through that vertex
// along g cuts the opposite edge at parameter s. The non-absorbed flow
// leaves through the two edges adjacent to the downhill vertex,
// proportionally to the two sub-triangle areas the cut creates; s
// outside [0,1] routes everything through one of them.
func planDistribution(d *dtm.Model, t int, absorptionFactor float64) distribution {
	p0, p1, p2 := d.TrianglePoints(t)
	if p0.Z == p1.Z && p1.Z == p2.Z {
		// Horizontal: nothing flows, water only soaks in.
		return distribution{absorb: absorptionFactor}
	}

	n := d.Normals[t]
	k := absorptionFactor * n.Z

	// g = gravity minus its out-of-plane component, normalized.
	g := geometry.Point3D{X: n.Z * n.X, Y: n.Z * n.Y, Z: n.Z*n.Z - 1}
	if g.Length() < 1e-12 {
		return distribution{absorb: absorptionFactor}
	}
	g = g.Normalized()

	p := [3]geometry.Point3D{p0, p1, p2}
	in := d.Incenter(t)
	down, downDot := 0, math.Inf(-1)
	for i := range p {
		if dot := g.Dot(p[i].Sub(in).Normalized()); dot > downDot {
			down, downDot = i, dot
		}
	}

	v := p[down]
	a := p[(down+1)%3]
	b := p[(down+2)%3]

	// 2D intersection of the line through v along g with the line a-b.
	ex, ey := b.X-a.X, b.Y-a.Y
	den := ex*g.Y - ey*g.X
	s := 0.5
	if math.Abs(den) > 1e-12 {
		s = ((v.X-a.X)*g.Y - (v.Y-a.Y)*g.X) / den
		s = math.Min(1, math.Max(0, s))
	}

	var dist distribution
	dist.absorb = k
	dist.ratios[down] = (1 - k) * s             // edge v -> a
	dist.ratios[(down+2)%3] = (1 - k) * (1 - s) // edge b -> v
	return dist
}

// Rain drops rainDepth meters of water on every non-lake triangle and
// redistributes it until less than stopVolume cubic meters remain in
// motion. It returns the absorbed depth per triangle in meters.
func Rain(d *dtm.Model, rainDepth, absorptionFactor, stopVolume float64, log *tag.Logger) []float64 {
	log.Printf("Applying %.0f mm of rain to entire map.", rainDepth*1000)

	water := make([]float64, d.NumTriangles)
	absorbed := make([]float64, d.NumTriangles)
	dists := make([]distribution, d.NumTriangles)
	for t := 0; t < d.NumTriangles; t++ {
		if d.Terrain[t] == dtm.Lake {
			continue // lakes stay dry
		}
		water[t] = d.Areas[t] * rainDepth
		dists[t] = planDistribution(d, t, absorptionFactor)
	}

	flow := make([]float64, d.NumTriangles)
	iterations := 0
	for remaining(water) > stopVolume && iterations < maxIterations {
		for i := range flow {
			flow[i] = 0
		}
		for t := 0; t < d.NumTriangles; t++ {
			if d.Terrain[t] == dtm.Lake {
				continue
			}
			w := water[t]
			if w == 0 {
				continue
			}
			for i := 0; i < 3; i++ {
				out := dists[t].ratios[i] * w
				if out == 0 {
					continue
				}
				flow[t] -= out
				o := d.Opposite(dtm.Halfedge(t*3 + i))
				// Flow into a lake, or off the hull, vanishes.
				if o != dtm.EMPTY && d.Terrain[o.Triangle()] != dtm.Lake {
					flow[o.Triangle()] += out
				}
			}
			soak := dists[t].absorb * w
			absorbed[t] += soak
			flow[t] -= soak
		}
		for t := range water {
			water[t] += flow[t]
		}
		iterations++
	}
	log.Printf("The water has dissipated after %d iterations.", iterations)

	depth := make([]float64, d.NumTriangles)
	for t := range depth {
		if d.Areas[t] > 0 {
			depth[t] = absorbed[t] / d.Areas[t]
		}
	}
	return depth
}

func remaining(water []float64) float64 {
	var sum float64
	for _, w := range water {
		sum += w
	}
	return sum
}

package contours

import (
	"math"

	"github.com/paulmach/orb"
)

// bezier is one cubic segment of a fitted curve.
type bezier struct {
	p0, c1, c2, p3 orb.Point
}

// fitCurve fits a sequence of cubic Bézier segments to the polyline,
// splitting recursively until the maximum deviation is below maxError
// (in meters). Philip J. Schneider's least-squares algorithm.
func fitCurve(pts orb.LineString, maxError float64) []bezier {
	d := dedup(pts)
	if len(d) < 2 {
		return nil
	}
	tHat1 := normalize(sub(d[1], d[0]))
	tHat2 := normalize(sub(d[len(d)-2], d[len(d)-1]))
	return fitCubic(d, tHat1, tHat2, maxError*maxError)
}

// fitCubic fits one segment to pts and splits at the worst point when the
// squared error errSq cannot be met.
func fitCubic(pts []orb.Point, tHat1, tHat2 orb.Point, errSq float64) []bezier {
	if len(pts) == 2 {
		third := dist(pts[0], pts[1]) / 3
		return []bezier{{
			p0: pts[0],
			c1: add(pts[0], scale(tHat1, third)),
			c2: add(pts[1], scale(tHat2, third)),
			p3: pts[1],
		}}
	}

	u := chordLengthParametrize(pts)
	bez := generateBezier(pts, u, tHat1, tHat2)
	maxErr, split := computeMaxError(pts, bez, u)
	if maxErr < errSq {
		return []bezier{bez}
	}

	// If the error is not hopeless, a few reparametrization rounds may
	// rescue the single-segment fit.
	if maxErr < errSq*errSq {
		for i := 0; i < 4; i++ {
			u = reparametrize(pts, bez, u)
			bez = generateBezier(pts, u, tHat1, tHat2)
			maxErr, split = computeMaxError(pts, bez, u)
			if maxErr < errSq {
				return []bezier{bez}
			}
		}
	}

	center := normalize(sub(pts[split-1], pts[split+1]))
	left := fitCubic(pts[:split+1], tHat1, center, errSq)
	right := fitCubic(pts[split:], neg(center), tHat2, errSq)
	return append(left, right...)
}

// generateBezier solves the least-squares system for the two inner
// control points, the end points and tangent directions being fixed.
func generateBezier(pts []orb.Point, u []float64, tHat1, tHat2 orb.Point) bezier {
	first, last := pts[0], pts[len(pts)-1]

	var c00, c01, c11 float64
	var x0, x1 float64
	for i, t := range u {
		a0 := scale(tHat1, b1(t))
		a1 := scale(tHat2, b2(t))
		c00 += dot(a0, a0)
		c01 += dot(a0, a1)
		c11 += dot(a1, a1)

		tmp := sub(pts[i], add(
			scale(first, b0(t)+b1(t)),
			scale(last, b2(t)+b3(t))))
		x0 += dot(a0, tmp)
		x1 += dot(a1, tmp)
	}

	detC0C1 := c00*c11 - c01*c01
	detC0X := c00*x1 - c01*x0
	detXC1 := x0*c11 - x1*c01

	alphaL, alphaR := 0.0, 0.0
	if detC0C1 != 0 {
		alphaL = detXC1 / detC0C1
		alphaR = detC0X / detC0C1
	}

	// Wu/Barsky heuristic when the system is degenerate or the alphas
	// point backwards.
	segLength := dist(first, last)
	epsilon := 1e-6 * segLength
	if alphaL < epsilon || alphaR < epsilon {
		d := segLength / 3
		alphaL, alphaR = d, d
	}

	return bezier{
		p0: first,
		c1: add(first, scale(tHat1, alphaL)),
		c2: add(last, scale(tHat2, alphaR)),
		p3: last,
	}
}

// computeMaxError returns the maximum squared deviation between the
// points and the curve, and the index of the worst point.
func computeMaxError(pts []orb.Point, bez bezier, u []float64) (float64, int) {
	maxErr := 0.0
	split := len(pts) / 2
	for i := 1; i < len(pts)-1; i++ {
		p := bezierAt(bez, u[i])
		d := sub(p, pts[i])
		if e := dot(d, d); e > maxErr {
			maxErr = e
			split = i
		}
	}
	return maxErr, split
}

// reparametrize runs one Newton-Raphson step per point to improve the
// parameter values.
func reparametrize(pts []orb.Point, bez bezier, u []float64) []float64 {
	out := make([]float64, len(u))
	for i := range u {
		out[i] = newtonRaphson(bez, pts[i], u[i])
	}
	return out
}

func newtonRaphson(bez bezier, p orb.Point, u float64) float64 {
	q := bezierAt(bez, u)

	// First and second derivative control nets.
	var q1 [3]orb.Point
	q1[0] = scale(sub(bez.c1, bez.p0), 3)
	q1[1] = scale(sub(bez.c2, bez.c1), 3)
	q1[2] = scale(sub(bez.p3, bez.c2), 3)
	var q2 [2]orb.Point
	q2[0] = scale(sub(q1[1], q1[0]), 2)
	q2[1] = scale(sub(q1[2], q1[1]), 2)

	q1u := quadAt(q1, u)
	q2u := orb.Point{
		q2[0][0] + (q2[1][0]-q2[0][0])*u,
		q2[0][1] + (q2[1][1]-q2[0][1])*u,
	}

	num := dot(sub(q, p), q1u)
	den := dot(q1u, q1u) + dot(sub(q, p), q2u)
	if den == 0 {
		return u
	}
	return u - num/den
}

func bezierAt(b bezier, t float64) orb.Point {
	return add(
		add(scale(b.p0, b0(t)), scale(b.c1, b1(t))),
		add(scale(b.c2, b2(t)), scale(b.p3, b3(t))))
}

func quadAt(q [3]orb.Point, t float64) orb.Point {
	u := 1 - t
	return orb.Point{
		u*u*q[0][0] + 2*u*t*q[1][0] + t*t*q[2][0],
		u*u*q[0][1] + 2*u*t*q[1][1] + t*t*q[2][1],
	}
}

func chordLengthParametrize(pts []orb.Point) []float64 {
	u := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		u[i] = u[i-1] + dist(pts[i], pts[i-1])
	}
	total := u[len(u)-1]
	if total > 0 {
		for i := range u {
			u[i] /= total
		}
	}
	return u
}

func dedup(pts orb.LineString) []orb.Point {
	out := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return out
}

// Bernstein basis.
func b0(t float64) float64 { u := 1 - t; return u * u * u }
func b1(t float64) float64 { u := 1 - t; return 3 * t * u * u }
func b2(t float64) float64 { u := 1 - t; return 3 * t * t * u }
func b3(t float64) float64 { return t * t * t }

func add(a, b orb.Point) orb.Point           { return orb.Point{a[0] + b[0], a[1] + b[1]} }
func sub(a, b orb.Point) orb.Point           { return orb.Point{a[0] - b[0], a[1] - b[1]} }
func neg(a orb.Point) orb.Point              { return orb.Point{-a[0], -a[1]} }
func scale(a orb.Point, s float64) orb.Point { return orb.Point{a[0] * s, a[1] * s} }
func dot(a, b orb.Point) float64             { return a[0]*b[0] + a[1]*b[1] }

func dist(a, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

func normalize(a orb.Point) orb.Point {
	l := math.Hypot(a[0], a[1])
	if l == 0 {
		return a
	}
	return orb.Point{a[0] / l, a[1] / l}
}

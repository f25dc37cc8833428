package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegeneratePlane is returned when a point set does not span a plane.
var ErrDegeneratePlane = errors.New("geometry: points do not span a plane")

// Plane is a plane in 3D space, given by a point on the plane and a unit
// normal.
type Plane struct {
	Point  Point3D
	Normal Point3D
}

// PlaneFromPoints fits a plane to pts by least squares: the plane through
// the centroid whose normal is the eigenvector of the covariance matrix
// with the smallest eigenvalue. At least 3 points are required.
func PlaneFromPoints(pts []Point3D) (Plane, error) {
	n := len(pts)
	if n < 3 {
		return Plane{}, ErrDegeneratePlane
	}

	var sum Point3D
	for _, p := range pts {
		sum = sum.Add(p)
	}
	centroid := sum.Scale(1 / float64(n))

	var xx, xy, xz, yy, yz, zz float64
	for _, p := range pts {
		r := p.Sub(centroid)
		xx += r.X * r.X
		xy += r.X * r.Y
		xz += r.X * r.Z
		yy += r.Y * r.Y
		yz += r.Y * r.Z
		zz += r.Z * r.Z
	}

	cov := mat.NewSymDense(3, []float64{
		xx, xy, xz,
		xy, yy, yz,
		xz, yz, zz,
	})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return Plane{}, ErrDegeneratePlane
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come out in ascending order, so column 0 is the
	// direction of least variance.
	normal := Point3D{
		X: vecs.At(0, 0),
		Y: vecs.At(1, 0),
		Z: vecs.At(2, 0),
	}
	if normal.Length() == 0 || math.IsNaN(normal.Length()) {
		return Plane{}, ErrDegeneratePlane
	}
	return Plane{Point: centroid, Normal: normal.Normalized()}, nil
}

// AngleToVertical returns the arccosine of the absolute normal z
// component, in degrees. A vertical plane yields 90, a horizontal one 0.
func (pl Plane) AngleToVertical() float64 {
	return math.Acos(math.Abs(pl.Normal.Z)) * 180 / math.Pi
}

// HorizontalDirection returns the unit direction of the horizontal line
// embedded in the plane, i.e. of its intersection with any plane of
// constant z. Returns false for a horizontal plane, where that direction
// is undefined.
func (pl Plane) HorizontalDirection() (Point3D, bool) {
	d := pl.Normal.Cross(Point3D{Z: 1})
	if d.Length() < 1e-12 {
		return Point3D{}, false
	}
	return d.Normalized(), true
}

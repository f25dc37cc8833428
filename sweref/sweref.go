// Package sweref converts between the SWEREF99 TM planar projection
// (east/north meters) and WGS84 geodetic coordinates. The forward
// transform uses the Gauss-Krüger series published by Lantmäteriet, the
// inverse the classic transverse-Mercator footpoint-latitude expansion.
package sweref

import "math"

// Projection parameters for SWEREF99 TM (UTM zone 33 parameters on the
// GRS80 ellipsoid).
const (
	scale           = 0.9996
	centralMeridian = 15.0 // degrees east
	falseEasting    = 500000.0
	falseNorthing   = 0.0

	smA = 6378137.0     // semi-major axis
	smB = 6356752.314   // semi-minor axis
	fl  = 1.0 / 298.257222101
)

// Sweref is a planar map position, meters east and north.
type Sweref struct {
	East, North float64
}

// Wgs84 is a geodetic position in degrees.
type Wgs84 struct {
	Latitude, Longitude float64
}

// FromWgs84 projects a geodetic position to SWEREF99 TM.
func FromWgs84(pos Wgs84) Sweref {
	lat := pos.Latitude * math.Pi / 180
	lon := pos.Longitude * math.Pi / 180

	e2 := fl * (2 - fl)
	n := fl / (2 - fl)
	at := smA / (n + 1) * (n*n/4 + n*n*n*n/64 + 1)

	A := e2
	B := 1.0 / 6 * (e2*e2*5 - e2*e2*e2)
	C := 1.0 / 120 * (104*e2*e2*e2 - 45*e2*e2*e2*e2)
	D := 1.0 / 1260 * (1237 * e2 * e2 * e2 * e2)

	b1 := 0.5*n - 2.0/3*n*n + 5.0/16*n*n*n + 41.0/180*n*n*n*n
	b2 := 13.0/48*n*n - 3.0/5*n*n*n + 557.0/1440*n*n*n*n
	b3 := 61.0/240*n*n*n - 103.0/140*n*n*n*n
	b4 := 49561.0 / 161280 * n * n * n * n

	d := lon - centralMeridian*math.Pi/180

	s := math.Sin(lat)
	lat1 := lat - s*math.Cos(lat)*(A+B*s*s+C*s*s*s*s+D*s*s*s*s*s*s)
	es := math.Atan(math.Tan(lat1) / math.Cos(d))
	ns := math.Atanh(math.Cos(lat1) * math.Sin(d))

	return Sweref{
		North: scale*at*(es+
			b1*math.Sin(es*2)*math.Cosh(ns*2)+
			b2*math.Sin(es*4)*math.Cosh(ns*4)+
			b3*math.Sin(es*6)*math.Cosh(ns*6)+
			b4*math.Sin(es*8)*math.Cosh(ns*8)) + falseNorthing,
		East: scale*at*(ns+
			b1*math.Cos(es*2)*math.Sinh(ns*2)+
			b2*math.Cos(es*4)*math.Sinh(ns*4)+
			b3*math.Cos(es*6)*math.Sinh(ns*6)+
			b4*math.Cos(es*8)*math.Sinh(ns*8)) + falseEasting,
	}
}

// ToWgs84 inverse-projects a planar position to geodetic coordinates.
func ToWgs84(pos Sweref) Wgs84 {
	x := (pos.East - falseEasting) / scale
	y := (pos.North - falseNorthing) / scale

	phif := footpointLatitude(y)

	ep2 := (smA*smA - smB*smB) / (smB * smB)
	cf := math.Cos(phif)
	nuf2 := ep2 * cf * cf

	nf := smA * smA / (smB * math.Sqrt(1+nuf2))
	nfpow := nf

	tf := math.Tan(phif)
	tf2 := tf * tf
	tf4 := tf2 * tf2

	x1frac := 1 / (nfpow * cf)
	nfpow *= nf
	x2frac := tf / (2 * nfpow)
	nfpow *= nf
	x3frac := 1 / (6 * nfpow * cf)
	nfpow *= nf
	x4frac := tf / (24 * nfpow)
	nfpow *= nf
	x5frac := 1 / (120 * nfpow * cf)
	nfpow *= nf
	x6frac := tf / (720 * nfpow)
	nfpow *= nf
	x7frac := 1 / (5040 * nfpow * cf)
	nfpow *= nf
	x8frac := tf / (40320 * nfpow)

	x2poly := -1 - nuf2
	x3poly := -1 - 2*tf2 - nuf2
	x4poly := 5 + 3*tf2 + 6*nuf2 - 6*tf2*nuf2 - 3*nuf2*nuf2 - 9*tf2*nuf2*nuf2
	x5poly := 5 + 28*tf2 + 24*tf4 + 6*nuf2 + 8*tf2*nuf2
	x6poly := -61 - 90*tf2 - 45*tf4 - 107*nuf2 + 162*tf2*nuf2
	x7poly := -61 - 662*tf2 - 1320*tf4 - 720*tf4*tf2
	x8poly := 1385 + 3633*tf2 + 4095*tf4 + 1575*tf4*tf2

	lat := phif + x2frac*x2poly*x*x +
		x4frac*x4poly*math.Pow(x, 4) +
		x6frac*x6poly*math.Pow(x, 6) +
		x8frac*x8poly*math.Pow(x, 8)

	lon := centralMeridian*math.Pi/180 + x1frac*x +
		x3frac*x3poly*math.Pow(x, 3) +
		x5frac*x5poly*math.Pow(x, 5) +
		x7frac*x7poly*math.Pow(x, 7)

	return Wgs84{
		Latitude:  lat * 180 / math.Pi,
		Longitude: lon * 180 / math.Pi,
	}
}

// footpointLatitude returns the latitude whose meridional arc from the
// equator equals y.
func footpointLatitude(y float64) float64 {
	n := (smA - smB) / (smA + smB)

	alpha := (smA + smB) / 2 * (1 + n*n/4 + n*n*n*n/64)
	yy := y / alpha

	beta := 3*n/2 - 27*n*n*n/32 + 269*math.Pow(n, 5)/512
	gamma := 21*n*n/16 - 55*n*n*n*n/32
	delta := 151*n*n*n/96 - 417*math.Pow(n, 5)/128
	epsilon := 1097 * n * n * n * n / 512

	return yy + beta*math.Sin(2*yy) + gamma*math.Sin(4*yy) +
		delta*math.Sin(6*yy) + epsilon*math.Sin(8*yy)
}

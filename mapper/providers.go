package mapper

import (
	"github.com/arl/omap/mapobj"
	"github.com/arl/omap/sweref"
)

// FeatureProvider contributes preexisting map features (roads, buildings,
// survey data) to the object stream. It runs concurrently with terrain
// model construction.
type FeatureProvider interface {
	Provide(out chan<- mapobj.Object) error
}

// NopFeatures is a FeatureProvider adding nothing.
type NopFeatures struct{}

func (NopFeatures) Provide(chan<- mapobj.Object) error { return nil }

// DeclinationProvider returns the magnetic declination in degrees at a
// geodetic position and elevation (kilometers above sea level).
type DeclinationProvider interface {
	Declination(pos sweref.Wgs84, elevationKm float64) (float64, error)
}

// ConstantDeclination is a DeclinationProvider returning a fixed value,
// keeping runs deterministic and offline.
type ConstantDeclination float64

func (c ConstantDeclination) Declination(sweref.Wgs84, float64) (float64, error) {
	return float64(c), nil
}

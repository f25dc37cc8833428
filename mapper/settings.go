package mapper

// Settings are the tunable constants of a map generation run. They are
// read from a YAML settings file when one is provided on the command
// line; NewSettings holds the values the maps are normally produced
// with.
type Settings struct {
	// ExteriorMargin is the width of the border band of the point set
	// within which triangles are flagged exterior, in meters.
	ExteriorMargin float64 `yaml:"exteriorMargin"`

	// RainDepth is the water column dropped on every triangle by the
	// hydrology simulation, in meters.
	RainDepth float64 `yaml:"rainDepth"`

	// AbsorptionFactor is the per-iteration absorbed fraction on a flat
	// triangle; steeper triangles absorb proportionally less.
	AbsorptionFactor float64 `yaml:"absorptionFactor"`

	// HydroStopVolume stops the rain iteration once less water than
	// this remains in motion, in cubic meters.
	HydroStopVolume float64 `yaml:"hydroStopVolume"`

	// Equidistance is the vertical distance between contours, meters.
	Equidistance float64 `yaml:"equidistance"`

	// ContourOffsetStep is the spacing of the candidate contour offsets
	// evaluated in parallel, meters.
	ContourOffsetStep float64 `yaml:"contourOffsetStep"`

	// MeridianSpacing is the horizontal distance between magnetic
	// meridian lines, meters.
	MeridianSpacing float64 `yaml:"meridianSpacing"`
}

// NewSettings returns the default run settings.
func NewSettings() Settings {
	return Settings{
		ExteriorMargin:    5.0,
		RainDepth:         0.010,
		AbsorptionFactor:  0.2,
		HydroStopVolume:   5.0,
		Equidistance:      5.0,
		ContourOffsetStep: 0.5,
		MeridianSpacing:   300.0,
	}
}

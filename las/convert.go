package las

import "github.com/arl/omap/geometry"

// PointConverter maps raw integer record coordinates to metric ground
// coordinates using the scale and offset of the file header the records
// were read from.
type PointConverter struct {
	xScale, yScale, zScale    float64
	xOffset, yOffset, zOffset float64
}

// NewPointConverter returns a converter for records read under h.
func NewPointConverter(h *Header) PointConverter {
	return PointConverter{
		xScale: h.XScale, yScale: h.YScale, zScale: h.ZScale,
		xOffset: h.XOffset, yOffset: h.YOffset, zOffset: h.ZOffset,
	}
}

// ToPoint3D converts a record to ground coordinates.
func (c PointConverter) ToPoint3D(r Record) geometry.Point3D {
	return geometry.Point3D{
		X: float64(r.X)*c.xScale + c.xOffset,
		Y: float64(r.Y)*c.yScale + c.yOffset,
		Z: float64(r.Z)*c.zScale + c.zOffset,
	}
}

// ZResolution returns the elevation quantum of the source data, i.e. the z
// scale factor of the file header.
func (c PointConverter) ZResolution() float64 {
	return c.zScale
}

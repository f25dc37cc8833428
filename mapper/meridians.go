package mapper

import (
	"math"

	"github.com/arl/omap/geometry"
	"github.com/arl/omap/internal/tag"
	"github.com/arl/omap/mapobj"
)

// addMeridians emits magnetic-north lines across the map at the
// configured spacing, rotated by the combined declination and meridian
// convergence.
func addMeridians(box geometry.Rectangle, spacing, rotationAngle float64, out chan<- mapobj.Object, log *tag.Logger) {
	log.Printf("Adding meridians at %.0f m spacing.", spacing)

	middle := box.Middle()
	c := math.Cos(rotationAngle * math.Pi / 180)
	s := math.Sin(rotationAngle * math.Pi / 180)
	rotate := func(p geometry.Point2D) geometry.Point2D {
		return geometry.Point2D{
			East:  c*(p.East-middle.East) + s*(p.North-middle.North) + middle.East,
			North: -s*(p.East-middle.East) + c*(p.North-middle.North) + middle.North,
		}
	}

	// Bounding box of the rotated corners, so the tilted lines still
	// cover the whole map.
	corners := []geometry.Point2D{
		box.Southwest,
		{East: box.Northeast.East, North: box.Southwest.North},
		box.Northeast,
		{East: box.Southwest.East, North: box.Northeast.North},
	}
	rot := geometry.Rectangle{Southwest: rotate(corners[0]), Northeast: rotate(corners[0])}
	for _, p := range corners[1:] {
		r := rotate(p)
		rot.Southwest.East = math.Min(rot.Southwest.East, r.East)
		rot.Southwest.North = math.Min(rot.Southwest.North, r.North)
		rot.Northeast.East = math.Max(rot.Northeast.East, r.East)
		rot.Northeast.North = math.Max(rot.Northeast.North, r.North)
	}

	var lines [][]geometry.Point2D
	for x := rot.Southwest.East; x < rot.Northeast.East; x += spacing {
		lines = append(lines, []geometry.Point2D{
			rotate(geometry.Point2D{East: x, North: rot.Southwest.North}),
			rotate(geometry.Point2D{East: x, North: rot.Northeast.North}),
		})
	}
	mapobj.PostRings(lines, []mapobj.GraphSymbol{mapobj.Stroke(mapobj.SymbolMeridian, false)}, out)
}

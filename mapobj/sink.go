package mapobj

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/arl/omap/geometry"
)

// Sink consumes a stream of map objects.
type Sink interface {
	Write(Object) error
	Close() error
}

// Drain receives objects from in until the terminator arrives, writing
// each to s, then closes s. Producers must send exactly one terminator.
func Drain(in <-chan Object, s Sink) error {
	for o := range in {
		if o.IsTerminator() {
			return s.Close()
		}
		if err := s.Write(o); err != nil {
			return fmt.Errorf("mapobj: sink write: %w", err)
		}
	}
	return fmt.Errorf("mapobj: object channel closed before terminator")
}

// GeoJSONSink serializes the object stream as a GeoJSON feature
// collection. Bézier segments are flattened to line strings.
type GeoJSONSink struct {
	w  io.Writer
	fc *geojson.FeatureCollection
}

// NewGeoJSONSink returns a sink writing to w on Close.
func NewGeoJSONSink(w io.Writer) *GeoJSONSink {
	return &GeoJSONSink{w: w, fc: geojson.NewFeatureCollection()}
}

// bezierSteps is the number of chords a Bézier segment is flattened to.
const bezierSteps = 8

func (s *GeoJSONSink) Write(o Object) error {
	var f *geojson.Feature
	switch o.Kind {
	case KindPoint:
		if len(o.Segments) == 0 {
			return fmt.Errorf("point object with no position")
		}
		f = geojson.NewFeature(toOrb(o.Segments[0].P))
		f.Properties["angle"] = o.Angle

	case KindLine:
		f = geojson.NewFeature(orb.LineString(flatten(o.Segments)))

	case KindArea, KindRectangle:
		var poly orb.Polygon
		for _, sub := range splitSubpaths(o.Segments) {
			ring := orb.Ring(flatten(sub))
			if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
				ring = append(ring, ring[0])
			}
			poly = append(poly, ring)
		}
		f = geojson.NewFeature(poly)

	default:
		return fmt.Errorf("unhandled object kind %d", o.Kind)
	}
	f.Properties["symbol"] = int(o.Symbol)
	s.fc.Append(f)
	return nil
}

// Close marshals the collection to the underlying writer.
func (s *GeoJSONSink) Close() error {
	buf, err := json.Marshal(s.fc)
	if err != nil {
		return err
	}
	_, err = s.w.Write(buf)
	return err
}

func toOrb(p geometry.Point2D) orb.Point {
	return orb.Point{p.East, p.North}
}

// splitSubpaths cuts the segment list at every Move after the first.
func splitSubpaths(segs []Segment) [][]Segment {
	var subs [][]Segment
	var cur []Segment
	for _, sg := range segs {
		if sg.Op == OpMove && len(cur) > 0 {
			subs = append(subs, cur)
			cur = nil
		}
		cur = append(cur, sg)
	}
	if len(cur) > 0 {
		subs = append(subs, cur)
	}
	return subs
}

// flatten converts segments to plain positions, sampling Bézier curves.
func flatten(segs []Segment) []orb.Point {
	var pts []orb.Point
	for _, sg := range segs {
		switch sg.Op {
		case OpMove, OpLine:
			pts = append(pts, toOrb(sg.P))
		case OpBezier:
			if len(pts) == 0 {
				pts = append(pts, toOrb(sg.C1))
			}
			p0 := pts[len(pts)-1]
			for i := 1; i <= bezierSteps; i++ {
				t := float64(i) / bezierSteps
				pts = append(pts, cubicAt(p0, toOrb(sg.C1), toOrb(sg.C2), toOrb(sg.P), t))
			}
		}
	}
	return pts
}

func cubicAt(p0, c1, c2, p1 orb.Point, t float64) orb.Point {
	u := 1 - t
	return orb.Point{
		u*u*u*p0[0] + 3*u*u*t*c1[0] + 3*u*t*t*c2[0] + t*t*t*p1[0],
		u*u*u*p0[1] + 3*u*u*t*c1[1] + 3*u*t*t*c2[1] + t*t*t*p1[1],
	}
}

package geometry

// Point2D is a 2D map coordinate pair, east/north in meters.
type Point2D struct {
	East, North float64
}

// Rectangle is an axis-aligned rectangle in map coordinates.
type Rectangle struct {
	Southwest, Northeast Point2D
}

// Middle returns the center of r.
func (r Rectangle) Middle() Point2D {
	return Point2D{
		East:  (r.Southwest.East + r.Northeast.East) * 0.5,
		North: (r.Southwest.North + r.Northeast.North) * 0.5,
	}
}

// Contains reports whether p lies inside r (borders included).
func (r Rectangle) Contains(p Point2D) bool {
	return p.East >= r.Southwest.East && p.East <= r.Northeast.East &&
		p.North >= r.Southwest.North && p.North <= r.Northeast.North
}

// Segments returns the four edges of r, counter-clockwise from the
// southern edge.
func (r Rectangle) Segments() [4]LineSegment {
	nw := Point2D{East: r.Southwest.East, North: r.Northeast.North}
	se := Point2D{East: r.Northeast.East, North: r.Southwest.North}
	return [4]LineSegment{
		{r.Southwest, se},
		{se, r.Northeast},
		{r.Northeast, nw},
		{nw, r.Southwest},
	}
}

// LineSegment is a directed 2D segment between two map coordinates.
type LineSegment struct {
	P0, P1 Point2D
}

// Intersection returns the intersection point of s and other, or false if
// the segments do not cross or are parallel.
func (s LineSegment) Intersection(other LineSegment) (Point2D, bool) {
	x1, y1 := s.P0.East, s.P0.North
	x2, y2 := s.P1.East, s.P1.North
	x3, y3 := other.P0.East, other.P0.North
	x4, y4 := other.P1.East, other.P1.North

	n := (x4-x3)*(y1-y2) - (x1-x2)*(y4-y3)
	if n == 0 {
		return Point2D{}, false
	}
	ta := ((y3-y4)*(x1-x3) + (x4-x3)*(y1-y3)) / n
	tb := ((y1-y2)*(x1-x3) + (x2-x1)*(y1-y3)) / n

	if ta < 0 || ta > 1 || tb < 0 || tb > 1 {
		return Point2D{}, false
	}
	return Point2D{
		East:  x1 + ta*(x2-x1),
		North: y1 + ta*(y2-y1),
	}, true
}

// Package mapobj defines the abstract map-object records produced by the
// classifiers and the sinks that consume them. An object is a point, line
// or area with an ISOM symbol number and a list of drawing segments;
// producers push objects into a channel and a single sink goroutine
// serializes them.
package mapobj

import "github.com/arl/omap/geometry"

// ISOM symbol numbers emitted by the core pipeline.
const (
	SymbolContour         = 101000
	SymbolImpassableCliff = 201000
	SymbolCliff           = 202000
	SymbolDiffuseMarsh    = 214000
	SymbolLakeBorder      = 301001
	SymbolLake            = 301002
	SymbolMarsh           = 406000
	SymbolImpassableMarsh = 408000
	SymbolMeridian        = 601000
)

// Kind is the drawing type of an object.
type Kind uint8

const (
	KindPoint Kind = iota + 1
	KindArea
	KindLine
	KindRectangle

	// kindTerminate marks the stream sentinel.
	kindTerminate
)

// SegmentOp selects how a segment extends the outline.
type SegmentOp uint8

const (
	OpMove SegmentOp = iota // start a new subpath (a hole, after the first)
	OpLine
	OpBezier
)

// Segment is one outline step. Bezier segments carry the two control
// points in C1 and C2 and the end point in P.
type Segment struct {
	Op     SegmentOp
	P      geometry.Point2D
	C1, C2 geometry.Point2D
}

// Object is one map-object record.
type Object struct {
	Kind     Kind
	Symbol   int32
	Angle    float64 // point objects only, degrees
	Corners  bool    // line objects: emit vertices as corner points
	Segments []Segment
}

// Terminator returns the sentinel record that ends the stream.
func Terminator() Object {
	return Object{Kind: kindTerminate}
}

// IsTerminator reports whether o is the stream sentinel.
func (o Object) IsTerminator() bool {
	return o.Kind == kindTerminate
}

package mapobj

import "github.com/arl/omap/geometry"

// GraphSymbol describes how a set of vertex rings should be rendered:
// filled as one area, or stroked ring by ring.
type GraphSymbol struct {
	Symbol  int32
	Fill    bool
	Corners bool // stroke only
}

// Fill renders rings as a single filled area with holes.
func Fill(symbol int32) GraphSymbol {
	return GraphSymbol{Symbol: symbol, Fill: true}
}

// Stroke renders each ring as its own line object.
func Stroke(symbol int32, corners bool) GraphSymbol {
	return GraphSymbol{Symbol: symbol, Corners: corners}
}

// PostRings converts the vertex rings to objects for every symbol and
// sends them to out. For a fill symbol all rings become one area object,
// rings after the first starting with a Move that opens a hole. For a
// stroke symbol each ring is posted as a separate line object.
func PostRings(rings [][]geometry.Point2D, symbols []GraphSymbol, out chan<- Object) {
	for _, sym := range symbols {
		if sym.Fill {
			area := Object{Kind: KindArea, Symbol: sym.Symbol}
			for _, ring := range rings {
				area.Segments = appendRing(area.Segments, ring)
			}
			if len(area.Segments) > 0 {
				out <- area
			}
			continue
		}
		for _, ring := range rings {
			if len(ring) == 0 {
				continue
			}
			line := Object{Kind: KindLine, Symbol: sym.Symbol, Corners: sym.Corners}
			line.Segments = appendRing(nil, ring)
			out <- line
		}
	}
}

func appendRing(segs []Segment, ring []geometry.Point2D) []Segment {
	for i, p := range ring {
		op := OpLine
		if i == 0 {
			op = OpMove
		}
		segs = append(segs, Segment{Op: op, P: p})
	}
	return segs
}

package boundary

import (
	"fmt"

	assert "github.com/arl/assertgo"

	"github.com/arl/omap/dtm"
)

// Loop is a cyclic sequence of half-edges enclosing a region.
type Loop []dtm.Halfedge

// SignedArea2 returns twice the shoelace area of the loop's vertex
// polygon, in half-edge order. Negative means clockwise in east/north
// coordinates.
func (l Loop) SignedArea2(d *dtm.Model) float64 {
	var sum float64
	for i, h := range l {
		p0 := d.HalfedgeStart(h)
		p1 := d.HalfedgeStart(l[(i+1)%len(l)])
		sum += p0.X*p1.Y - p1.X*p0.Y
	}
	return sum
}

// Split decomposes the closed boundary walk produced by Grow into the
// outer ring and its islands. Appendices — bridges traversed out and
// back, enclosing nothing — are removed.
//
// The returned error indicates a structural invariant violation (the
// terminal loops do not form exactly one outer ring with
// opposite-winding islands), which means the predicate admitted a
// non-manifold region.
func Split(d *dtm.Model, walk Loop) (outer Loop, islands []Loop, err error) {
	queue := []Loop{walk}
	var terminal []Loop

	for len(queue) > 0 {
		l := queue[0]
		queue = queue[1:]
		if len(l) == 0 {
			continue
		}

		i, j, ok := findBridge(d, l)
		if !ok {
			terminal = append(terminal, l)
			continue
		}

		n := len(l)
		k := j - i + 1
		b := bridgeLength(d, l, i, j)
		assert.True(b >= 1 && b <= k, "bridge length %d out of range, span %d", b, k)

		// The continuation excludes the whole span [i..j]; what the span
		// encloses beyond the two bridge arms, if anything, is an island.
		cont := make(Loop, 0, n-k)
		for m := 1; m <= n-k; m++ {
			cont = append(cont, l[(j+m)%n])
		}
		queue = append(queue, cont)

		if ell := k - 2*b; ell > 0 {
			island := make(Loop, ell)
			copy(island, l[i+b:i+b+ell])
			queue = append(queue, island)
		}
	}

	if len(terminal) == 0 {
		return nil, nil, fmt.Errorf("boundary: split produced no loops")
	}

	// The outer ring encloses every island, so it has the largest
	// unsigned area; every island must wind the other way.
	outerIdx, outerArea := 0, 0.0
	areas := make([]float64, len(terminal))
	for i, l := range terminal {
		areas[i] = l.SignedArea2(d)
		if abs(areas[i]) > abs(outerArea) {
			outerIdx, outerArea = i, areas[i]
		}
	}
	sameWinding := 0
	for i := range terminal {
		if areas[i]*outerArea > 0 {
			sameWinding++
		}
	}
	if sameWinding != 1 {
		return nil, nil, fmt.Errorf(
			"boundary: %d of %d loops share the outer winding, want exactly one outer ring",
			sameWinding, len(terminal))
	}
	for i, l := range terminal {
		if i != outerIdx {
			islands = append(islands, l)
		}
	}
	return terminal[outerIdx], islands, nil
}

// findBridge locates the first index pair (i, j), i < j, such that l[j]
// is the opposite of l[i].
func findBridge(d *dtm.Model, l Loop) (i, j int, ok bool) {
	for i = 0; i < len(l); i++ {
		o := d.Opposite(l[i])
		if o == dtm.EMPTY {
			continue
		}
		for j = i + 1; j < len(l); j++ {
			if l[j] == o {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// bridgeLength returns the number of leading positions for which the
// forward iteration from i matches the opposites of the backward
// iteration from j.
func bridgeLength(d *dtm.Model, l Loop, i, j int) int {
	k := j - i + 1
	b := 0
	for b < k && l[i+b] == d.Opposite(l[j-b]) {
		b++
	}
	return b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

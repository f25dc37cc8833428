// Package boundary implements the reusable flood-fill and
// boundary-extraction machinery shared by the lake, cliff and marsh
// classifiers. A classifier provides a Region — the capability set of a
// single growth — and receives the enclosing half-edge walk, which Split
// then decomposes into one outer ring plus any islands.
package boundary

import (
	"github.com/arl/omap/dtm"
)

// Region is the capability set driving one boundary growth.
//
// Claim marks a triangle as belonging to the region. ShouldRecurse
// decides, given the half-edge on the far side of the frontier, whether
// the growth extends into its triangle. Push receives every frontier
// half-edge that the growth did not cross, in depth-first order.
type Region interface {
	DTM() *dtm.Model
	Claim(t int)
	ShouldRecurse(h dtm.Halfedge) bool
	Push(h dtm.Halfedge)
}

// Grow flood-fills a maximal connected region from the seed triangle.
// The seed is claimed unconditionally; from there the growth crosses
// every half-edge whose opposite satisfies ShouldRecurse, claiming the
// triangles it enters. Every frontier half-edge that is not crossed is
// handed to Push.
//
// The traversal is depth-first with a fixed expansion order (next of the
// opposite before prev of the opposite), which the Split algorithm relies
// on: the pushed sequence is a closed walk of the region's topological
// boundary.
func Grow(r Region, seed int) {
	d := r.DTM()
	r.Claim(seed)

	// Explicit stack, replacing the natural recursion to keep the depth
	// bounded by the region size rather than the goroutine stack. LIFO
	// order reproduces the recursive expansion exactly.
	stack := make([]dtm.Halfedge, 0, 64)
	h0 := dtm.Halfedge(seed * 3)
	stack = append(stack, h0+2, h0+1, h0)

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		o := d.Opposite(h)
		if o != dtm.EMPTY && r.ShouldRecurse(o) {
			r.Claim(o.Triangle())
			stack = append(stack, o.Prev(), o.Next())
		} else {
			r.Push(h)
		}
	}
}

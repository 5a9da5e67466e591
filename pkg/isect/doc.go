// Package isect implements Möller's no-division triangle–triangle
// intersection test and an all-pairs test between two triangle soups.
//
// The predicate is a pure function of its six vertices and an optional
// epsilon. Touching configurations (a shared vertex, a shared edge, a
// vertex resting on a face) count as intersecting. Only a boolean is
// produced; the intersection geometry itself is never computed.
package isect

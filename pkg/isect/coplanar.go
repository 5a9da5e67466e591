package isect

import "math"

// coplanar decides intersection for two triangles lying in the same plane
// with normal n. Both triangles are projected onto the axis-aligned plane
// that loses the least area, then tested edge against edge and finally
// for containment.
func coplanar(n Point3, v, u Triangle) bool {
	i0, i1 := projectionAxes(n)

	for k := 0; k < 3; k++ {
		if edgeAgainstEdges(v[k], v[(k+1)%3], u, i0, i1) {
			return true
		}
	}

	// No edges cross: one triangle may still sit entirely inside the other.
	return pointInTriangle(v[0], u, i0, i1) || pointInTriangle(u[0], v, i0, i1)
}

// projectionAxes returns the two coordinate indices kept after dropping
// the axis along which n is largest.
func projectionAxes(n Point3) (i0, i1 int) {
	a := [3]float64{math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])}

	if a[0] > a[1] {
		if a[0] > a[2] {
			return 1, 2 // x is greatest
		}
		return 0, 1 // z is greatest
	}
	if a[2] > a[1] {
		return 0, 1 // z is greatest
	}
	return 0, 2 // y is greatest
}

// edgeAgainstEdges tests the edge v0→v1 against the three edges of u.
func edgeAgainstEdges(v0, v1 Point3, u Triangle, i0, i1 int) bool {
	ax := v1[i0] - v0[i0]
	ay := v1[i1] - v0[i1]

	return edgeEdge(ax, ay, v0, u[0], u[1], i0, i1) ||
		edgeEdge(ax, ay, v0, u[1], u[2], i0, i1) ||
		edgeEdge(ax, ay, v0, u[2], u[0], i0, i1)
}

// edgeEdge is Franklin Antonio's segment test ("Faster Line Segment
// Intersection", Graphics Gems III, pp. 199-202). The edge starting at v0
// has direction (ax, ay); the other edge runs from u0 to u1. Bounds are
// inclusive, so edges meeting at an endpoint intersect. Parallel edges
// (f == 0) never report a hit here.
func edgeEdge(ax, ay float64, v0, u0, u1 Point3, i0, i1 int) bool {
	bx := u0[i0] - u1[i0]
	by := u0[i1] - u1[i1]
	cx := v0[i0] - u0[i0]
	cy := v0[i1] - u0[i1]

	f := ay*bx - ax*by
	d := by*cx - bx*cy

	if (f > 0 && d >= 0 && d <= f) || (f < 0 && d <= 0 && d >= f) {
		e := ax*cy - ay*cx
		if f > 0 {
			return e >= 0 && e <= f
		}
		return e <= 0 && e >= f
	}
	return false
}

// pointInTriangle reports whether p lies strictly inside t after
// projection, using one half-plane test per edge.
func pointInTriangle(p Point3, t Triangle, i0, i1 int) bool {
	d0 := halfPlane(p, t[0], t[1], i0, i1)
	d1 := halfPlane(p, t[1], t[2], i0, i1)
	d2 := halfPlane(p, t[2], t[0], i0, i1)
	return d0*d1 > 0 && d0*d2 > 0
}

// halfPlane evaluates the line through a and b at p.
func halfPlane(p, a, b Point3, i0, i1 int) float64 {
	ca := b[i1] - a[i1]
	cb := -(b[i0] - a[i0])
	cc := -ca*a[i0] - cb*a[i1]
	return ca*p[i0] + cb*p[i1] + cc
}

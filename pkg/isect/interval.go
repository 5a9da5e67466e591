package isect

// interval is one triangle's stretch of the intersection line, kept in
// division-free form. The endpoints are
//
//	a + b/x0  and  a + c/x1
//
// and are only ever evaluated after scaling by x0·x1 (see overlaps).
type interval struct {
	a, b, c float64
	x0, x1  float64
}

// computeInterval classifies the vertex lying alone on its side of the
// other triangle's plane and builds the interval from it. p holds the
// vertices projected onto the intersection line, d their signed
// distances. It returns false when all distances are zero, which means
// the triangles are coplanar.
//
// The cases overlap when some distances are zero, so their order is part
// of the result and must not be rearranged.
func computeInterval(p [3]float64, d distances) (interval, bool) {
	switch {
	case d[0]*d[1] > 0:
		// v0 and v1 on the same side, v2 on the other side or on the plane.
		return isolate(p, d, 2, 0, 1), true
	case d[0]*d[2] > 0:
		return isolate(p, d, 1, 0, 2), true
	case d[1]*d[2] > 0 || d[0] != 0:
		return isolate(p, d, 0, 1, 2), true
	case d[1] != 0:
		return isolate(p, d, 1, 0, 2), true
	case d[2] != 0:
		return isolate(p, d, 2, 0, 1), true
	}
	return interval{}, false
}

// isolate builds the interval with vertex k as the lone vertex and i, j
// as the other two.
func isolate(p [3]float64, d distances, k, i, j int) interval {
	return interval{
		a:  p[k],
		b:  (p[i] - p[k]) * d[k],
		c:  (p[j] - p[k]) * d[k],
		x0: d[k] - d[i],
		x1: d[k] - d[j],
	}
}

// overlaps compares the intervals of both triangles. Instead of dividing
// by x0, x1, y0 and y1, both intervals are multiplied by the common factor
// x0·x1·y0·y1 so the endpoints become directly comparable. Equal endpoints
// count as overlapping.
func overlaps(v, u interval) bool {
	xx := v.x0 * v.x1
	yy := u.x0 * u.x1
	xxyy := xx * yy

	tmp := v.a * xxyy
	lo1, hi1 := sort2(tmp+v.b*v.x1*yy, tmp+v.c*v.x0*yy)

	tmp = u.a * xxyy
	lo2, hi2 := sort2(tmp+u.b*xx*u.x1, tmp+u.c*xx*u.x0)

	return !(hi1 < lo2 || hi2 < lo1)
}

func sort2(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

package isect

import "github.com/pkg/errors"

// TriangleIntersectsTriangle reports whether v and u share at least one
// point, including touching and coplanar overlap. Without WithEpsilon no
// snapping happens and signs are compared at exact zero.
func TriangleIntersectsTriangle(v, u Triangle, opts ...Option) bool {
	cfg := newConfig(0, opts)
	return intersects(v, u, cfg.epsilon)
}

// Intersects is TriangleIntersectsTriangle over raw coordinate slices.
// Each slice must hold at least three values; only the first three are
// read.
func Intersects(v0, v1, v2, u0, u1, u2 []float64, opts ...Option) (bool, error) {
	var pts [6]Point3
	for i, c := range [6][]float64{v0, v1, v2, u0, u1, u2} {
		if len(c) < 3 {
			return false, errors.Wrapf(ErrInvalidInput, "vertex %d has %d coordinates, want 3", i, len(c))
		}
		pts[i] = Point3{c[0], c[1], c[2]}
	}
	v := Triangle{pts[0], pts[1], pts[2]}
	u := Triangle{pts[3], pts[4], pts[5]}
	return TriangleIntersectsTriangle(v, u, opts...), nil
}

func intersects(v, u Triangle, eps float64) bool {
	// Reject if u lies strictly on one side of v's plane.
	pv := planeOf(v)
	du := pv.distances(u, eps)
	if du.separated() {
		return false
	}

	// Reject if v lies strictly on one side of u's plane.
	pu := planeOf(u)
	dv := pu.distances(v, eps)
	if dv.separated() {
		return false
	}

	// Both triangles cross the line where the planes meet. Project onto
	// the coordinate axis most aligned with that line.
	axis := largestAxis(pv.normal.Cross(pu.normal))
	vp := [3]float64{v[0][axis], v[1][axis], v[2][axis]}
	up := [3]float64{u[0][axis], u[1][axis], u[2][axis]}

	iv, ok := computeInterval(vp, dv)
	if !ok {
		return coplanar(pv.normal, v, u)
	}
	iu, ok := computeInterval(up, du)
	if !ok {
		return coplanar(pv.normal, v, u)
	}

	return overlaps(iv, iu)
}

package isect

// plane is n·p + offset = 0. The normal is the raw cross product of two
// edges and is never normalized; only the sign of a distance matters.
type plane struct {
	normal Point3
	offset float64
}

func planeOf(t Triangle) plane {
	e1 := t[1].Sub(t[0])
	e2 := t[2].Sub(t[0])
	n := e1.Cross(e2)
	return plane{normal: n, offset: -n.Dot(t[0])}
}

// distances holds one signed distance per vertex of a triangle, measured
// against the other triangle's plane.
type distances [3]float64

func (p plane) distances(t Triangle, eps float64) distances {
	var d distances
	for i, v := range t {
		d[i] = snap(p.normal.Dot(v)+p.offset, eps)
	}
	return d
}

// separated reports whether all three distances are nonzero and share a
// sign, in which case the plane separates the two triangles.
func (d distances) separated() bool {
	return d[0]*d[1] > 0 && d[0]*d[2] > 0
}

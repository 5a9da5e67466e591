package isect

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point3 is a point in 3-D space.
type Point3 = mgl64.Vec3

// Triangle is an ordered triple of vertices. The order decides the sign
// of the triangle's plane normal but never the intersection result.
type Triangle [3]Point3

// Tri is shorthand for Triangle{v0, v1, v2}.
func Tri(v0, v1, v2 Point3) Triangle {
	return Triangle{v0, v1, v2}
}

// snap returns 0 when |x| < eps. A zero or negative eps never snaps.
func snap(x, eps float64) float64 {
	if math.Abs(x) < eps {
		return 0
	}
	return x
}

// largestAxis returns the index of the component of d with the largest
// magnitude. Ties go to the lower index.
func largestAxis(d Point3) int {
	index := 0
	max := math.Abs(d[0])
	if b := math.Abs(d[1]); b > max {
		max = b
		index = 1
	}
	if c := math.Abs(d[2]); c > max {
		index = 2
	}
	return index
}

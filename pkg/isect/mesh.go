package isect

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// FloatsPerTriangle is the number of scalars one triangle occupies in a
// soup: three vertices of three coordinates, with no separator.
const FloatsPerTriangle = 9

// Scalar is the element type of a triangle soup.
type Scalar interface {
	~float32 | ~float64
}

// Pair identifies a triangle in the first soup and a triangle in the
// second soup by their storage index.
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// TriangleCount returns the number of triangles in soup, or
// ErrInvalidInput if its length is not a multiple of 9.
func TriangleCount[F Scalar](soup []F) (int, error) {
	if len(soup)%FloatsPerTriangle != 0 {
		return 0, errors.Wrapf(ErrInvalidInput,
			"soup length %d is not a multiple of %d", len(soup), FloatsPerTriangle)
	}
	return len(soup) / FloatsPerTriangle, nil
}

// TriangleAt decodes triangle i of soup. It panics if i is out of range.
func TriangleAt[F Scalar](soup []F, i int) Triangle {
	s := soup[i*FloatsPerTriangle : (i+1)*FloatsPerTriangle]
	return Triangle{
		{float64(s[0]), float64(s[1]), float64(s[2])},
		{float64(s[3]), float64(s[4]), float64(s[5])},
		{float64(s[6]), float64(s[7]), float64(s[8])},
	}
}

func decodeSoup[F Scalar](soup []F, which string) ([]Triangle, error) {
	n, err := TriangleCount(soup)
	if err != nil {
		return nil, errors.WithMessage(err, which+" mesh")
	}
	tris := make([]Triangle, n)
	for i := range tris {
		tris[i] = TriangleAt(soup, i)
	}
	return tris, nil
}

func decodeBoth[F Scalar](a, b []F) ([]Triangle, []Triangle, error) {
	ta, err := decodeSoup(a, "first")
	if err != nil {
		return nil, nil, err
	}
	tb, err := decodeSoup(b, "second")
	if err != nil {
		return nil, nil, err
	}
	return ta, tb, nil
}

// MeshIntersectsMesh reports whether any triangle of a intersects any
// triangle of b. The epsilon defaults to DefaultMeshEpsilon. Empty soups
// never intersect.
func MeshIntersectsMesh[F Scalar](a, b []F, opts ...Option) (bool, error) {
	_, found, err := FirstIntersectingPair(a, b, opts...)
	return found, err
}

// FirstIntersectingPair scans triangles of a in storage order and, for
// each, triangles of b in storage order, stopping at the first pair that
// intersects.
func FirstIntersectingPair[F Scalar](a, b []F, opts ...Option) (Pair, bool, error) {
	ta, tb, err := decodeBoth(a, b)
	if err != nil {
		return Pair{}, false, err
	}
	eps := newConfig(DefaultMeshEpsilon, opts).epsilon

	for i := range ta {
		for j := range tb {
			if intersects(ta[i], tb[j], eps) {
				return Pair{A: i, B: j}, true, nil
			}
		}
	}
	return Pair{}, false, nil
}

// IntersectingPairs returns every intersecting pair in the same order
// FirstIntersectingPair would visit them.
func IntersectingPairs[F Scalar](a, b []F, opts ...Option) ([]Pair, error) {
	ta, tb, err := decodeBoth(a, b)
	if err != nil {
		return nil, err
	}
	eps := newConfig(DefaultMeshEpsilon, opts).epsilon

	var pairs []Pair
	for i := range ta {
		for j := range tb {
			if intersects(ta[i], tb[j], eps) {
				pairs = append(pairs, Pair{A: i, B: j})
			}
		}
	}
	return pairs, nil
}

// MeshIntersectsMeshParallel answers the same question as
// MeshIntersectsMesh, spreading triangles of a over workers goroutines.
// Workers stop as soon as any of them finds an intersecting pair. A
// workers value below 1 means GOMAXPROCS.
func MeshIntersectsMeshParallel[F Scalar](a, b []F, workers int, opts ...Option) (bool, error) {
	ta, tb, err := decodeBoth(a, b)
	if err != nil {
		return false, err
	}
	if len(ta) == 0 || len(tb) == 0 {
		return false, nil
	}
	eps := newConfig(DefaultMeshEpsilon, opts).epsilon

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(ta) {
		workers = len(ta)
	}

	var (
		found atomic.Bool
		next  atomic.Int64
		wg    sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !found.Load() {
				i := int(next.Add(1) - 1)
				if i >= len(ta) {
					return
				}
				for j := range tb {
					if intersects(ta[i], tb[j], eps) {
						found.Store(true)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	return found.Load(), nil
}

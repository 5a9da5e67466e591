package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/trisect/pkg/isect"
	"github.com/chazu/trisect/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a point or direction.
type sexpVec3 struct {
	vec isect.Point3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpTriangle wraps a single triangle.
type sexpTriangle struct {
	tri isect.Triangle
}

func (t *sexpTriangle) SexpString(ps *zygo.PrintState) string {
	var parts []string
	for _, v := range t.tri {
		parts = append(parts, (&sexpVec3{vec: v}).SexpString(ps))
	}
	return "(tri " + strings.Join(parts, " ") + ")"
}
func (t *sexpTriangle) Type() *zygo.RegisteredType { return nil }

// sexpSoup wraps a flat triangle soup, 9 values per triangle.
type sexpSoup struct {
	data []float32
}

func (s *sexpSoup) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(soup %d triangles)", len(s.data)/isect.FloatsPerTriangle)
}
func (s *sexpSoup) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid.
type sexpSolid struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return "(" + s.desc + ")"
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toPositive extracts a number that must be greater than zero.
func toPositive(s zygo.Sexp) (float64, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("must be positive, got %g", f)
	}
	return f, nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a point from a sexpVec3.
func toVec3(s zygo.Sexp) (isect.Point3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return isect.Point3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toTriangle extracts a triangle from a sexpTriangle.
func toTriangle(s zygo.Sexp) (isect.Triangle, error) {
	if t, ok := s.(*sexpTriangle); ok {
		return t.tri, nil
	}
	return isect.Triangle{}, fmt.Errorf("expected triangle, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Soup helpers
// ---------------------------------------------------------------------------

func appendTriangle(soup []float32, t isect.Triangle) []float32 {
	for _, v := range t {
		soup = append(soup, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	return soup
}

// mapSoup applies f to every vertex of soup and returns a new soup.
func mapSoup(soup []float32, f func(isect.Point3) isect.Point3) []float32 {
	out := make([]float32, len(soup))
	for i := 0; i+2 < len(soup); i += 3 {
		p := f(isect.Point3{float64(soup[i]), float64(soup[i+1]), float64(soup[i+2])})
		out[i], out[i+1], out[i+2] = float32(p[0]), float32(p[1]), float32(p[2])
	}
	return out
}

func mapTriangle(t isect.Triangle, f func(isect.Point3) isect.Point3) isect.Triangle {
	return isect.Triangle{f(t[0]), f(t[1]), f(t[2])}
}

// rotation returns the matrix for Euler angles in degrees, applied X then
// Y then Z, matching the kernel's Rotate.
func rotation(deg isect.Point3) mgl64.Mat3 {
	return mgl64.Rotate3DZ(mgl64.DegToRad(deg[2])).
		Mul3(mgl64.Rotate3DY(mgl64.DegToRad(deg[1]))).
		Mul3(mgl64.Rotate3DX(mgl64.DegToRad(deg[0])))
}

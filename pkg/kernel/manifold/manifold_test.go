//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/trisect/pkg/isect"
	"github.com/chazu/trisect/pkg/kernel"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func assertBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, want %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, want %f", i, max[i], wantMax[i])
		}
	}
}

// --- Primitives ---

func TestBoxMinCorner(t *testing.T) {
	k := mustNew(t)
	assertBounds(t, k.Box(4, 6, 8), [3]float64{0, 0, 0}, [3]float64{4, 6, 8}, 1e-6)
}

func TestCylinder(t *testing.T) {
	k := mustNew(t)
	min, max := k.Cylinder(20, 5, 32).BoundingBox()
	if math.Abs(min[2]+10) > 0.01 || math.Abs(max[2]-10) > 0.01 {
		t.Errorf("Cylinder Z bounds = [%f, %f], want ~[-10, 10]", min[2], max[2])
	}
	for i := 0; i < 2; i++ {
		if min[i] > -4.5 || max[i] < 4.5 {
			t.Errorf("Cylinder axis %d bounds = [%f, %f], want about radius 5", i, min[i], max[i])
		}
	}
}

func TestSphere(t *testing.T) {
	k := mustNew(t)
	min, max := k.Sphere(10).BoundingBox()
	for i := 0; i < 3; i++ {
		if min[i] > -9 || min[i] < -10.01 {
			t.Errorf("Sphere min[%d] = %f, want ~-10", i, min[i])
		}
		if max[i] < 9 || max[i] > 10.01 {
			t.Errorf("Sphere max[%d] = %f, want ~10", i, max[i])
		}
	}
}

// --- Operations ---

func TestDifference(t *testing.T) {
	k := mustNew(t)
	hole := k.Translate(k.Cylinder(20, 3, 32), 5, 5, 5)
	result := k.Difference(k.Box(10, 10, 10), hole)
	assertBounds(t, result, [3]float64{0, 0, 0}, [3]float64{10, 10, 10}, 1e-6)
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	moved := k.Translate(k.Box(10, 10, 10), 100, 200, 300)
	assertBounds(t, moved, [3]float64{100, 200, 300}, [3]float64{110, 210, 310}, 1e-6)
}

func TestToMesh(t *testing.T) {
	k := mustNew(t)
	mesh, err := k.ToMesh(k.Box(10, 10, 10))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if mesh.TriangleCount() < 12 {
		t.Errorf("ToMesh() triangle count = %d, want >= 12", mesh.TriangleCount())
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("normals length = %d, vertices length = %d", len(mesh.Normals), len(mesh.Vertices))
	}
}

func TestMeshSoupsIntersect(t *testing.T) {
	k := mustNew(t)
	soupOf := func(s kernel.Solid) []float32 {
		t.Helper()
		m, err := k.ToMesh(s)
		if err != nil {
			t.Fatalf("ToMesh() error = %v", err)
		}
		soup, err := m.Soup()
		if err != nil {
			t.Fatalf("Soup() error = %v", err)
		}
		return soup
	}

	a := soupOf(k.Box(10, 10, 10))
	tests := []struct {
		name string
		dx   float64
		want bool
	}{
		{"overlapping", 5, true},
		{"apart", 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := soupOf(k.Translate(k.Box(10, 10, 10), tt.dx, 0, 0))
			got, err := isect.MeshIntersectsMesh(a, b)
			if err != nil {
				t.Fatalf("MeshIntersectsMesh() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MeshIntersectsMesh() = %v, want %v", got, tt.want)
			}
		})
	}
}

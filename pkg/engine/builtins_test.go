package engine

import (
	"math"
	"testing"

	"github.com/chazu/trisect/pkg/isect"
	"github.com/chazu/trisect/pkg/kernel/sdfx"
	"github.com/chazu/trisect/pkg/scene"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// mustEval evaluates source and fails the test on any error.
func mustEval(t *testing.T, eng *Engine, source string) *scene.Scene {
	t.Helper()
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	return s
}

// expectEvalError evaluates source and fails unless it yields eval errors.
func expectEvalError(t *testing.T, eng *Engine, source string) {
	t.Helper()
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Error("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error should have a non-empty message")
	}
	t.Logf("eval error: %v", evalErrs[0])
}

const unitTri = `(tri (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0))`

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(tri-isect a b :label "x")`,
			expect: `(tri_isect a b "__kw_label" "x")`,
		},
		{
			name:   "multiple keywords",
			input:  `(mesh-isect a b :epsilon 0.001 :workers 4)`,
			expect: `(mesh_isect a b "__kw_epsilon" 0.001 "__kw_workers" 4)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec3 0 -1 -0.5)`,
			expect: `(vec3 0 -1 -0.5)`,
		},
		{
			name:   "exponent preserved",
			input:  `1e-6`,
			expect: `1e-6`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "hyphen in string preserved",
			input:  `(defpart "left-wall" s)`,
			expect: `(defpart "left-wall" s)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// tri-isect
// ---------------------------------------------------------------------------

func TestTriIsect(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{
			name: "separated",
			source: `(tri-isect (tri (vec3 0 0 -1) (vec3 0 0 0) (vec3 0 1.751 0))
			                    (tri (vec3 -0.5 0.8755 0.5) (vec3 0.5 0.8755 1.5) (vec3 0.5 0.8755 0.5))
			                    :epsilon 0.000001 :label "q")`,
			want: false,
		},
		{
			name: "crossing",
			source: `(tri-isect (tri (vec3 0 0 -1) (vec3 0 0 0) (vec3 0 1.751 0))
			                    (tri (vec3 -0.5 0.8755 -0.5) (vec3 0.5 0.8755 0.5) (vec3 0.5 0.8755 -0.5))
			                    :epsilon 0.000001 :label "q")`,
			want: true,
		},
		{
			name:   "coincident",
			source: `(tri-isect ` + unitTri + ` ` + unitTri + ` :label "q")`,
			want:   true,
		},
		{
			name:   "translated apart",
			source: `(tri-isect ` + unitTri + ` (translate ` + unitTri + ` (vec3 0 0 5)) :label "q")`,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustEval(t, NewEngine(nil), tt.source)
			if len(s.Queries) != 1 {
				t.Fatalf("got %d queries, want 1", len(s.Queries))
			}
			q := s.Queries[0]
			if q.Kind != scene.QueryTriangle || q.Label != "q" {
				t.Errorf("query = %+v, want triangle query labelled q", q)
			}
			if q.Result != tt.want {
				t.Errorf("result = %v, want %v", q.Result, tt.want)
			}
		})
	}
}

func TestTriIsectReturnsBoolean(t *testing.T) {
	source := `
(def a ` + unitTri + `)
(cond (tri-isect a a) (defpart "hit" a) (defpart "miss" a))
(cond (tri-isect a (translate a (vec3 9 9 9))) (defpart "hit2" a) (defpart "miss2" a))
`
	s := mustEval(t, NewEngine(nil), source)
	for _, name := range []string{"hit", "miss2"} {
		if s.Lookup(name) == nil {
			t.Errorf("expected part %q", name)
		}
	}
	for _, name := range []string{"miss", "hit2"} {
		if s.Lookup(name) != nil {
			t.Errorf("unexpected part %q", name)
		}
	}
}

func TestTriIsectArity(t *testing.T) {
	expectEvalError(t, NewEngine(nil), `(tri-isect `+unitTri+`)`)
	expectEvalError(t, NewEngine(nil), `(tri-isect `+unitTri+` (vec3 1 2 3))`)
}

// ---------------------------------------------------------------------------
// soup and mesh-isect
// ---------------------------------------------------------------------------

const meshScript = `
(def floor (soup (translate ` + unitTri + ` (vec3 9 0 0)) ` + unitTri + `))
(def post (soup [0.2 0.2 -1  0.3 0.2 1  0.2 0.3 1]))
`

func TestMeshIsectFirstPair(t *testing.T) {
	s := mustEval(t, NewEngine(nil), meshScript+`(mesh-isect floor post :label "m")`)
	if len(s.Queries) != 1 {
		t.Fatalf("got %d queries, want 1", len(s.Queries))
	}
	q := s.Queries[0]
	if q.Kind != scene.QueryMesh || !q.Result {
		t.Fatalf("query = %+v, want intersecting mesh query", q)
	}
	if q.First == nil || *q.First != (isect.Pair{A: 1, B: 0}) {
		t.Errorf("First = %v, want {1 0}", q.First)
	}
}

func TestMeshIsectMiss(t *testing.T) {
	s := mustEval(t, NewEngine(nil), meshScript+`(mesh-isect floor (translate post (vec3 0 0 10)))`)
	q := s.Queries[0]
	if q.Result || q.First != nil {
		t.Errorf("query = %+v, want miss without pair", q)
	}
}

func TestMeshIsectParallel(t *testing.T) {
	s := mustEval(t, NewEngine(nil), meshScript+`(mesh-isect floor post :workers 2)`)
	q := s.Queries[0]
	if !q.Result {
		t.Error("expected parallel query to find the intersection")
	}
	if q.First != nil {
		t.Errorf("parallel query should not report a pair, got %v", q.First)
	}
}

func TestMeshIsectEmptySoup(t *testing.T) {
	s := mustEval(t, NewEngine(nil), meshScript+`(mesh-isect (soup) post)`)
	if s.Queries[0].Result {
		t.Error("empty soup should never intersect")
	}
}

func TestSoupInvalidLength(t *testing.T) {
	expectEvalError(t, NewEngine(nil), `(soup [0 0 0 1 0 0 0 1])`)
}

func TestDefaultsEpsilon(t *testing.T) {
	s := mustEval(t, NewEngine(nil), `(defaults :epsilon 0.01)`)
	if s.Defaults.Epsilon != 0.01 {
		t.Errorf("Defaults.Epsilon = %g, want 0.01", s.Defaults.Epsilon)
	}

	s = mustEval(t, NewEngine(nil), `(+ 1 2)`)
	if s.Defaults.Epsilon != isect.DefaultMeshEpsilon {
		t.Errorf("Defaults.Epsilon = %g, want %g", s.Defaults.Epsilon, isect.DefaultMeshEpsilon)
	}
}

// ---------------------------------------------------------------------------
// Parts
// ---------------------------------------------------------------------------

func TestDefpartSoupAndLookup(t *testing.T) {
	source := meshScript + `
(defpart "floor" floor)
(defpart "post" post)
(mesh-isect (part "floor") (part "post"))
`
	s := mustEval(t, NewEngine(nil), source)
	if s.PartCount() != 2 {
		t.Fatalf("PartCount() = %d, want 2", s.PartCount())
	}
	floor := s.Lookup("floor")
	if floor == nil || floor.Mesh == nil {
		t.Fatal("expected soup part floor")
	}
	if floor.Mesh.TriangleCount() != 2 {
		t.Errorf("floor triangles = %d, want 2", floor.Mesh.TriangleCount())
	}
	if !s.Queries[0].Result {
		t.Error("expected parts to intersect")
	}
}

func TestDefpartDuplicate(t *testing.T) {
	expectEvalError(t, NewEngine(nil), `
(defpart "a" `+unitTri+`)
(defpart "a" `+unitTri+`)`)
}

func TestPartLookupError(t *testing.T) {
	expectEvalError(t, NewEngine(nil), `(part "nonexistent")`)
}

func TestRotateTriangle(t *testing.T) {
	s := mustEval(t, NewEngine(nil), `(defpart "r" (rotate `+unitTri+` (vec3 0 0 90)))`)
	got := s.Lookup("r").Mesh.Vertices
	want := []float32{0, 0, 0, 0, 1, 0, -1, 0, 0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("vertices = %v, want %v", got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

func TestSolidsNeedKernel(t *testing.T) {
	expectEvalError(t, NewEngine(nil), `(box 1 1 1)`)
}

func TestSolidArgumentErrors(t *testing.T) {
	eng := NewEngine(sdfx.NewWithCells(8))
	for _, source := range []string{
		`(box 1 0 1)`,
		`(box 1 1)`,
		`(sphere -2)`,
		`(cylinder 10)`,
		`(union (box 1 1 1))`,
		`(union (box 1 1 1) ` + unitTri + `)`,
	} {
		t.Run(source, func(t *testing.T) {
			expectEvalError(t, eng, source)
		})
	}
}

func TestSolidParts(t *testing.T) {
	source := `
(defpart "a" (box 10 10 10))
(defpart "b" (translate (box (vec3 10 10 10)) (vec3 5 0 0)))
(defpart "c" (union (sphere 3) (translate (cylinder 10 1 :segments 16) (vec3 50 0 0))))
(mesh-isect (part "a") (part "b") :label "overlap")
`
	s := mustEval(t, NewEngine(sdfx.NewWithCells(8)), source)
	if s.PartCount() != 3 {
		t.Fatalf("PartCount() = %d, want 3", s.PartCount())
	}
	for _, p := range s.Parts() {
		if p.Solid == nil {
			t.Errorf("part %q should be a solid", p.Name)
		}
	}
	if !s.Queries[0].Result {
		t.Error("overlapping boxes should intersect")
	}
}

package scene

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/trisect/pkg/isect"
	"github.com/chazu/trisect/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var (
	unitSoup     = []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	piercingSoup = []float32{0.2, 0.2, -1, 0.3, 0.2, 1, 0.2, 0.3, 1}
	farSoup      = []float32{10, 0, 0, 11, 0, 0, 10, 1, 0}
)

func soupPart(t *testing.T, name string, soup []float32) *Part {
	t.Helper()
	m, err := kernel.FromSoup(name, soup)
	if err != nil {
		t.Fatalf("FromSoup(%q): %v", name, err)
	}
	return &Part{Name: name, Mesh: m}
}

// ---------------------------------------------------------------------------
// Scene
// ---------------------------------------------------------------------------

func TestNewDefaults(t *testing.T) {
	s := New()
	if s.Defaults.Epsilon != isect.DefaultMeshEpsilon {
		t.Errorf("Defaults.Epsilon = %g, want %g", s.Defaults.Epsilon, isect.DefaultMeshEpsilon)
	}
	if s.Queries == nil {
		t.Error("Queries should be non-nil")
	}
	if s.PartCount() != 0 {
		t.Errorf("PartCount() = %d, want 0", s.PartCount())
	}
}

func TestAddPartKeepsOrder(t *testing.T) {
	s := New()
	for _, name := range []string{"c", "a", "b"} {
		if err := s.AddPart(soupPart(t, name, unitSoup)); err != nil {
			t.Fatalf("AddPart(%q): %v", name, err)
		}
	}

	var names []string
	for _, p := range s.Parts() {
		names = append(names, p.Name)
	}
	if got := strings.Join(names, ","); got != "c,a,b" {
		t.Errorf("Parts() order = %s, want c,a,b", got)
	}
	if p := s.Lookup("a"); p == nil || p.Name != "a" {
		t.Errorf("Lookup(a) = %v", p)
	}
	if p := s.Lookup("missing"); p != nil {
		t.Errorf("Lookup(missing) = %v, want nil", p)
	}
}

func TestAddPartRejects(t *testing.T) {
	s := New()
	if err := s.AddPart(&Part{}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: err = %v, want ErrEmptyName", err)
	}
	if err := s.AddPart(soupPart(t, "a", unitSoup)); err != nil {
		t.Fatalf("AddPart: %v", err)
	}
	err := s.AddPart(soupPart(t, "a", farSoup))
	if !errors.Is(err, ErrDuplicatePart) {
		t.Errorf("duplicate: err = %v, want ErrDuplicatePart", err)
	}
	if s.PartCount() != 1 {
		t.Errorf("PartCount() = %d, want 1", s.PartCount())
	}
}

func TestPartsReturnsCopy(t *testing.T) {
	s := New()
	if err := s.AddPart(soupPart(t, "a", unitSoup)); err != nil {
		t.Fatal(err)
	}
	parts := s.Parts()
	parts[0] = nil
	if s.Parts()[0] == nil {
		t.Error("mutating Parts() result changed the scene")
	}
}

func TestPartKind(t *testing.T) {
	tests := []struct {
		part Part
		want string
	}{
		{Part{Name: "e"}, "empty"},
		{Part{Name: "m", Mesh: &kernel.Mesh{}}, "soup"},
	}
	for _, tt := range tests {
		if got := tt.part.Kind(); got != tt.want {
			t.Errorf("%s.Kind() = %q, want %q", tt.part.Name, got, tt.want)
		}
	}
}

func TestRecordAndJSON(t *testing.T) {
	s := New()
	s.Record(Query{Kind: QueryTriangle, Label: "t1", Result: true})
	s.Record(Query{Kind: QueryMesh, Result: false})

	if len(s.Queries) != 2 {
		t.Fatalf("len(Queries) = %d, want 2", len(s.Queries))
	}

	data, err := json.Marshal(s.Queries[0])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"kind":"triangle","label":"t1","result":true}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestQueryJSONRoundTrip(t *testing.T) {
	in := Query{Kind: QueryMesh, Label: "m", Result: true, First: &isect.Pair{A: 2, B: 5}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Query
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Kind != QueryMesh || out.First == nil || *out.First != *in.First {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
	if err := json.Unmarshal([]byte(`{"kind":"cube"}`), &out); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestQueryKindString(t *testing.T) {
	if QueryMesh.String() != "mesh" {
		t.Errorf("QueryMesh.String() = %q", QueryMesh.String())
	}
	if got := QueryKind(9).String(); got != "QueryKind(9)" {
		t.Errorf("QueryKind(9).String() = %q", got)
	}
}

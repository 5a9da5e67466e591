package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/trisect/pkg/isect"
	"github.com/chazu/trisect/pkg/kernel"
)

var (
	// ErrEmptyName is returned when a part is added without a name.
	ErrEmptyName = errors.New("part name is empty")
	// ErrDuplicatePart is returned when a part name is already taken.
	ErrDuplicatePart = errors.New("duplicate part name")
)

// Defaults contains scene-wide settings.
type Defaults struct {
	Epsilon float64 `json:"epsilon"` // snapping tolerance for mesh queries
}

// Part is a named piece of geometry. Exactly one of Solid and Mesh is set:
// solids come from the kernel, meshes from literal soups or files.
type Part struct {
	Name  string       `json:"name"`
	Solid kernel.Solid `json:"-"`
	Mesh  *kernel.Mesh `json:"-"`
}

// Kind reports how the part's geometry is held.
func (p *Part) Kind() string {
	switch {
	case p.Solid != nil && p.Mesh != nil:
		return "ambiguous"
	case p.Solid != nil:
		return "solid"
	case p.Mesh != nil:
		return "soup"
	default:
		return "empty"
	}
}

// QueryKind enumerates the intersection queries a script can ask.
type QueryKind int

const (
	QueryTriangle QueryKind = iota // triangle against triangle
	QueryMesh                      // soup against soup
)

func (k QueryKind) String() string {
	switch k {
	case QueryTriangle:
		return "triangle"
	case QueryMesh:
		return "mesh"
	default:
		return fmt.Sprintf("QueryKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k QueryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText.
func (k *QueryKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "triangle":
		*k = QueryTriangle
	case "mesh":
		*k = QueryMesh
	default:
		return fmt.Errorf("unknown query kind %q", b)
	}
	return nil
}

// Query records one intersection test and its answer.
type Query struct {
	Kind   QueryKind   `json:"kind"`
	Label  string      `json:"label,omitempty"`
	Result bool        `json:"result"`
	First  *isect.Pair `json:"first,omitempty"` // first hit of a mesh query
}

// Scene is produced fresh by each evaluation and is not safe for
// concurrent mutation.
type Scene struct {
	Defaults Defaults `json:"defaults"`
	Queries  []Query  `json:"queries"`

	parts []*Part
	index map[string]int
}

// New creates an empty Scene with default settings.
func New() *Scene {
	return &Scene{
		Defaults: Defaults{Epsilon: isect.DefaultMeshEpsilon},
		Queries:  []Query{},
		index:    make(map[string]int),
	}
}

// AddPart appends a part, keeping declaration order.
func (s *Scene) AddPart(p *Part) error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if _, ok := s.index[p.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePart, p.Name)
	}
	s.index[p.Name] = len(s.parts)
	s.parts = append(s.parts, p)
	return nil
}

// Lookup returns the part with the given name, or nil.
func (s *Scene) Lookup(name string) *Part {
	i, ok := s.index[name]
	if !ok {
		return nil
	}
	return s.parts[i]
}

// Parts returns the parts in declaration order.
func (s *Scene) Parts() []*Part {
	out := make([]*Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// PartCount returns the number of parts.
func (s *Scene) PartCount() int {
	return len(s.parts)
}

// Record appends a query result.
func (s *Scene) Record(q Query) {
	s.Queries = append(s.Queries, q)
}

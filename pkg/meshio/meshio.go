// Package meshio loads triangle meshes from files: glTF 2.0 scenes
// (.gltf, .glb) and JSON triangle soups (.json).
package meshio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/trisect/pkg/kernel"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var (
	// ErrUnsupportedFormat is returned for file extensions Load does not know.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	// ErrUnsupportedPrimitive is returned for glTF primitives that are not
	// plain triangle lists.
	ErrUnsupportedPrimitive = errors.New("unsupported primitive")
)

// SoupFile is the JSON layout of a triangle soup file.
type SoupFile struct {
	Name string    `json:"name,omitempty"`
	Soup []float32 `json:"soup"`
}

// Load reads the mesh at path, choosing the decoder by file extension.
// The mesh is named after the file unless the file names itself.
func Load(path string) (*kernel.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch ext {
	case ".gltf", ".glb":
		return LoadGLTF(path, name)
	case ".json":
		return LoadSoup(path, name)
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%s: extension %q", path, ext)
}

// LoadSoup reads a JSON soup file.
func LoadSoup(path, name string) (*kernel.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read soup")
	}
	var f SoupFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "decode soup %s", path)
	}
	if f.Name != "" {
		name = f.Name
	}
	m, err := kernel.FromSoup(name, f.Soup)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return m, nil
}

// LoadGLTF reads every triangle primitive of every mesh in a glTF document
// and merges them into one indexed mesh. Positions are taken in mesh-local
// coordinates; node transforms are not applied.
func LoadGLTF(path, name string) (*kernel.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	out := &kernel.Mesh{PartName: name}
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if err := appendPrimitive(doc, prim, out); err != nil {
				return nil, errors.WithMessagef(err, "%s: mesh %d primitive %d", path, mi, pi)
			}
		}
	}
	return out, nil
}

// appendPrimitive reads one primitive's positions and indices into out,
// rebasing indices past the vertices already present. Primitives without
// an index accessor are read as sequential triangles.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, out *kernel.Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return errors.Wrapf(ErrUnsupportedPrimitive, "mode %v", prim.Mode)
	}
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return errors.New("primitive has no POSITION attribute")
	}

	var positions [][3]float32
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], positions)
	if err != nil {
		return errors.Wrap(err, "read positions")
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], indices)
		if err != nil {
			return errors.Wrap(err, "read indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return errors.Errorf("index count %d is not a multiple of 3", len(indices))
	}

	base := uint32(out.VertexCount())
	for _, p := range positions {
		out.Vertices = append(out.Vertices, p[0], p[1], p[2])
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return errors.Errorf("index %d out of range (%d vertices)", idx, len(positions))
		}
		out.Indices = append(out.Indices, base+idx)
	}
	return nil
}

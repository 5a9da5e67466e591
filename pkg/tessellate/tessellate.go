// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per part, in declaration order.
package tessellate

import (
	"fmt"

	"github.com/chazu/trisect/pkg/kernel"
	"github.com/chazu/trisect/pkg/scene"
)

// Tessellate returns one mesh per part of s. Solid parts are meshed by k;
// soup parts pass through unchanged. Each mesh carries its part's name.
// The scene is never mutated.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	parts := s.Parts()
	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		m, err := tessellatePart(k, p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: part %s: %w", p.Name, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func tessellatePart(k kernel.Kernel, p *scene.Part) (*kernel.Mesh, error) {
	switch p.Kind() {
	case "solid":
		if k == nil {
			return nil, fmt.Errorf("no kernel to mesh solid")
		}
		m, err := k.ToMesh(p.Solid)
		if err != nil {
			return nil, fmt.Errorf("ToMesh failed: %w", err)
		}
		m.PartName = p.Name
		return m, nil

	case "soup":
		// Shallow copy so the scene's mesh keeps its own name.
		m := *p.Mesh
		m.PartName = p.Name
		return &m, nil

	default:
		return nil, fmt.Errorf("unsupported geometry %q", p.Kind())
	}
}

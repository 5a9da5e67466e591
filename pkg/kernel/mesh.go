package kernel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// floatsPerTriangle matches the soup layout: 3 vertices × 3 coordinates.
const floatsPerTriangle = 9

// Mesh is an indexed triangle mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Indices) == 0
}

// Soup expands the mesh into a triangle soup: 9 consecutive values per
// triangle, vertices repeated wherever triangles share them.
func (m *Mesh) Soup() ([]float32, error) {
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %q: index count %d is not a multiple of 3", m.PartName, len(m.Indices))
	}
	nv := uint32(m.VertexCount())
	soup := make([]float32, 0, len(m.Indices)*3)
	for i, idx := range m.Indices {
		if idx >= nv {
			return nil, fmt.Errorf("mesh %q: index %d at position %d out of range (%d vertices)",
				m.PartName, idx, i, nv)
		}
		soup = append(soup, m.Vertices[idx*3], m.Vertices[idx*3+1], m.Vertices[idx*3+2])
	}
	return soup, nil
}

// FromSoup builds an unindexed mesh from a triangle soup. Every triangle
// gets its own three vertices and a flat face normal.
func FromSoup(name string, soup []float32) (*Mesh, error) {
	if len(soup)%floatsPerTriangle != 0 {
		return nil, fmt.Errorf("soup %q: length %d is not a multiple of %d", name, len(soup), floatsPerTriangle)
	}
	numTri := len(soup) / floatsPerTriangle

	vertices := make([]float32, len(soup))
	copy(vertices, soup)
	indices := make([]uint32, numTri*3)
	for i := range indices {
		indices[i] = uint32(i)
	}

	return &Mesh{
		Vertices: vertices,
		Normals:  faceNormals(vertices),
		Indices:  indices,
		PartName: name,
	}, nil
}

// faceNormals returns one unit normal per vertex of an unindexed mesh,
// shared by the three vertices of each triangle. Degenerate triangles get
// a zero normal.
func faceNormals(vertices []float32) []float32 {
	normals := make([]float32, len(vertices))
	for t := 0; t+floatsPerTriangle <= len(vertices); t += floatsPerTriangle {
		v := vertices[t : t+floatsPerTriangle]
		nx, ny, nz := cross(v[0:3], v[3:6], v[6:9])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length <= 1e-12 {
			continue
		}
		for k := 0; k < 3; k++ {
			normals[t+k*3+0] = float32(nx / length)
			normals[t+k*3+1] = float32(ny / length)
			normals[t+k*3+2] = float32(nz / length)
		}
	}
	return normals
}

// VertexNormals computes per-vertex normals for an indexed mesh by summing
// the area-weighted normals of the faces around each vertex. Out-of-range
// indices are skipped; unreferenced vertices get a zero normal.
func VertexNormals(vertices []float32, indices []uint32) []float32 {
	nv := uint32(len(vertices) / 3)
	acc := make([]float64, nv*3)
	for t := 0; t+3 <= len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if i0 >= nv || i1 >= nv || i2 >= nv {
			continue
		}
		nx, ny, nz := cross(vertices[i0*3:i0*3+3], vertices[i1*3:i1*3+3], vertices[i2*3:i2*3+3])
		for _, idx := range [3]uint32{i0, i1, i2} {
			acc[idx*3] += nx
			acc[idx*3+1] += ny
			acc[idx*3+2] += nz
		}
	}

	normals := make([]float32, len(vertices))
	for i := uint32(0); i < nv; i++ {
		x, y, z := acc[i*3], acc[i*3+1], acc[i*3+2]
		length := math.Sqrt(x*x + y*y + z*z)
		if length <= 1e-12 {
			continue
		}
		normals[i*3] = float32(x / length)
		normals[i*3+1] = float32(y / length)
		normals[i*3+2] = float32(z / length)
	}
	return normals
}

// cross returns (b-a) × (c-a), whose length is twice the triangle area.
func cross(a, b, c []float32) (x, y, z float64) {
	va := mgl32.Vec3{a[0], a[1], a[2]}
	n := mgl32.Vec3{b[0], b[1], b[2]}.Sub(va).Cross(mgl32.Vec3{c[0], c[1], c[2]}.Sub(va))
	return float64(n[0]), float64(n[1]), float64(n[2])
}

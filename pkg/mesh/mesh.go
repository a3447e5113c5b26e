// Package mesh assembles refined icosphere shapes into scaled meshes ready
// for an external writer: vertices, surface triangles and boundary line
// elements.
package mesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// Mesh is a scaled sphere or hemisphere surface mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// triangles has 3 indices per surface element, lines has 2 indices per
// boundary line element.
type Mesh struct {
	Name      string    `json:"name" codec:"name"`
	Variant   string    `json:"variant" codec:"variant"`
	Radius    float64   `json:"radius" codec:"radius"`
	Vertices  []float64 `json:"vertices" codec:"vertices"`   // [x0,y0,z0, x1,y1,z1, ...]
	Triangles []uint32  `json:"triangles" codec:"triangles"` // [i0,i1,i2, ...]
	Lines     []uint32  `json:"lines" codec:"lines"`         // [i0,i1, ...] boundary edges
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of surface triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// LineCount returns the number of boundary line elements.
func (m *Mesh) LineCount() int {
	return len(m.Lines) / 2
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{X: m.Vertices[3*i], Y: m.Vertices[3*i+1], Z: m.Vertices[3*i+2]}
}

// Triangle returns the vertex indices of surface triangle i.
func (m *Mesh) Triangle(i int) [3]int {
	t := m.Triangles[3*i:]
	return [3]int{int(t[0]), int(t[1]), int(t[2])}
}

// Line returns the vertex indices of boundary line i.
func (m *Mesh) Line(i int) [2]int {
	return [2]int{int(m.Lines[2*i]), int(m.Lines[2*i+1])}
}

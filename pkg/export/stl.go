package export

import (
	"fmt"

	"github.com/chazu/icomesh/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// Triangles expands the indexed surface of m into sdfx triangles.
func Triangles(m *mesh.Mesh) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, m.TriangleCount())
	for i := range tris {
		idx := m.Triangle(i)
		tris[i] = &sdf.Triangle3{m.Vertex(idx[0]), m.Vertex(idx[1]), m.Vertex(idx[2])}
	}
	return tris
}

// SaveSTL writes the surface triangles of m as a binary STL file.
// Boundary lines have no STL representation and are dropped.
func SaveSTL(path string, m *mesh.Mesh) error {
	if m.TriangleCount() == 0 {
		return fmt.Errorf("export: stl: mesh %q has no triangles", m.Name)
	}
	if err := render.SaveSTL(path, Triangles(m)); err != nil {
		return fmt.Errorf("export: stl: %w", err)
	}
	return nil
}

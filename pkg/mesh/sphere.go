package mesh

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// CheckSphere verifies that every vertex of m lies on the sphere of radius
// m.Radius, to within tol relative to the radius. Distances are taken from
// an sdfx sphere SDF.
func CheckSphere(m *Mesh, tol float64) error {
	s, err := sdf.Sphere3D(m.Radius)
	if err != nil {
		return fmt.Errorf("mesh: sphere sdf: %w", err)
	}
	limit := tol * m.Radius
	for i := 0; i < m.VertexCount(); i++ {
		if d := s.Evaluate(m.Vertex(i)); math.Abs(d) > limit {
			return fmt.Errorf("mesh %q: vertex %d is %.3g from the sphere of radius %g", m.Name, i, d, m.Radius)
		}
	}
	return nil
}

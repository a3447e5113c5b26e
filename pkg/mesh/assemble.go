package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/icomesh/pkg/icosphere"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// BoundaryTolerance bounds |y_a|+|y_b| for an edge to lie on the cut plane.
const BoundaryTolerance = 1e-12

// ErrInvalidRadius is returned for a radius that is not a positive finite
// number.
var ErrInvalidRadius = errors.New("radius must be positive and finite")

// Options controls assembly.
type Options struct {
	Name   string
	Radius float64
}

// CheckRadius reports whether r can scale a mesh.
func CheckRadius(r float64) error {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, r)
	}
	return nil
}

// Assemble scales the unit-sphere shape s by opts.Radius and derives its
// surface triangles and boundary line elements. s is only read.
//
// Surface triangles are the ordinary faces followed by the semi-faces, each
// wound to face outward. Boundary lines are the ordinary-face edges lying on
// the cut plane (within BoundaryTolerance) and, for a hemisphere, the
// on-plane edge (nodes 0,1) of every semi-face, each listed once.
func Assemble(s *icosphere.Shape, opts Options) (*Mesh, error) {
	if err := CheckRadius(opts.Radius); err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}

	m := &Mesh{
		Name:      opts.Name,
		Variant:   s.Variant.String(),
		Radius:    opts.Radius,
		Vertices:  make([]float64, 0, 3*len(s.Vertices)),
		Triangles: make([]uint32, 0, 3*(len(s.Faces)+len(s.SemiFaces))),
	}

	for _, v := range s.Vertices {
		p := v.MulScalar(opts.Radius)
		m.Vertices = append(m.Vertices, p.X, p.Y, p.Z)
	}

	for _, f := range s.Faces {
		m.appendTriangle(orient(s.Vertices, f))
	}
	for _, f := range s.SemiFaces {
		m.appendTriangle(orient(s.Vertices, f))
	}

	for _, l := range boundaryLines(s) {
		m.Lines = append(m.Lines, uint32(l[0]), uint32(l[1]))
	}
	if m.Lines == nil {
		m.Lines = []uint32{}
	}

	return m, nil
}

func (m *Mesh) appendTriangle(f icosphere.Face) {
	m.Triangles = append(m.Triangles, uint32(f[0]), uint32(f[1]), uint32(f[2]))
}

// orient returns f wound counter-clockwise seen from outside the sphere.
// Semi-face slot order is fixed by the refinement scheme, not by winding,
// so half of them arrive inside out.
func orient(verts []v3.Vec, f icosphere.Face) icosphere.Face {
	a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Dot(a.Add(b).Add(c)) < 0 {
		return icosphere.Face{f[0], f[2], f[1]}
	}
	return f
}

// onPlane reports whether edge (i, j) lies on the cut plane.
func onPlane(verts []v3.Vec, i, j int) bool {
	return math.Abs(icosphere.CutCoord(verts[i]))+math.Abs(icosphere.CutCoord(verts[j])) < BoundaryTolerance
}

// boundaryLines lists the cut-plane edges of s in first-seen order.
func boundaryLines(s *icosphere.Shape) [][2]int {
	var lines [][2]int
	for _, f := range s.Faces {
		for _, e := range [3][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}} {
			if onPlane(s.Vertices, e[0], e[1]) {
				lines = append(lines, e)
			}
		}
	}
	if s.Variant == icosphere.Half {
		// Known by construction; no tolerance test needed.
		for _, f := range s.SemiFaces {
			lines = append(lines, [2]int{f[0], f[1]})
		}
	}
	return lo.UniqBy(lines, func(l [2]int) [2]int {
		if l[0] > l[1] {
			return [2]int{l[1], l[0]}
		}
		return l
	})
}

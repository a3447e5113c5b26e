// Package tessellate turns mesh requests into assembled sphere meshes:
// base polyhedron, refinement to the requested depth, validation and
// assembly at the requested radius. One mesh is produced per request.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/icomesh/pkg/icosphere"
	"github.com/chazu/icomesh/pkg/mesh"
)

// MaxSubdivisions bounds the refinement depth. Each level multiplies the
// face count by four; level 10 already holds about 21 million triangles.
const MaxSubdivisions = 10

// sphereTolerance is the relative distance from the sphere accepted by the
// final check.
const sphereTolerance = 1e-9

var (
	// ErrTooDeep is returned when a request exceeds MaxSubdivisions.
	ErrTooDeep = errors.New("subdivision depth exceeds limit")
	// ErrInvalidShape is returned when a shape breaks a mesh invariant.
	ErrInvalidShape = errors.New("invalid shape")
)

// Request describes one mesh to generate.
type Request struct {
	Name         string            `json:"name"`
	Variant      icosphere.Variant `json:"variant"`
	Radius       float64           `json:"radius"`
	Subdivisions int               `json:"subdivisions"`
	// Check validates the refined shape and the assembled mesh, not just
	// the base polyhedron. It costs more than the refinement itself.
	Check bool `json:"check"`
}

// ShapeError carries the validation failures of a shape.
type ShapeError struct {
	Stage  string
	Errors []icosphere.ValidationError
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s shape has %d invariant violation(s)", e.Stage, len(e.Errors))
	if len(e.Errors) > 0 {
		msg += ": " + e.Errors[0].Error()
	}
	return msg
}

func (e *ShapeError) Unwrap() error {
	return ErrInvalidShape
}

// Tessellate builds the mesh described by req. Inputs are checked before any
// geometry is built. A non-positive depth yields the base polyhedron.
func Tessellate(req Request) (*mesh.Mesh, error) {
	if err := mesh.CheckRadius(req.Radius); err != nil {
		return nil, fmt.Errorf("tessellate: request %q: %w", req.Name, err)
	}
	if req.Subdivisions > MaxSubdivisions {
		return nil, fmt.Errorf("tessellate: request %q: %w: %d > %d",
			req.Name, ErrTooDeep, req.Subdivisions, MaxSubdivisions)
	}

	base := icosphere.New(req.Variant)
	if errs := icosphere.Validate(base); len(errs) > 0 {
		return nil, fmt.Errorf("tessellate: request %q: %w", req.Name, &ShapeError{Stage: "base", Errors: errs})
	}

	shape := icosphere.Refine(base, req.Subdivisions)
	if req.Check {
		if errs := icosphere.Validate(shape); len(errs) > 0 {
			return nil, fmt.Errorf("tessellate: request %q: %w", req.Name, &ShapeError{Stage: "refined", Errors: errs})
		}
	}

	m, err := mesh.Assemble(shape, mesh.Options{Name: req.Name, Radius: req.Radius})
	if err != nil {
		return nil, fmt.Errorf("tessellate: request %q: %w", req.Name, err)
	}

	if req.Check {
		if err := checkCounts(m, icosphere.Counts(req.Variant, req.Subdivisions)); err != nil {
			return nil, fmt.Errorf("tessellate: request %q: %w", req.Name, err)
		}
		if err := mesh.CheckSphere(m, sphereTolerance); err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
	}

	return m, nil
}

// checkCounts compares an assembled mesh with the closed-form element counts.
// Semi-faces are emitted as ordinary triangles.
func checkCounts(m *mesh.Mesh, want icosphere.Sizes) error {
	if got := m.VertexCount(); got != want.Vertices {
		return fmt.Errorf("%w: %d vertices, want %d", ErrInvalidShape, got, want.Vertices)
	}
	if got := m.TriangleCount(); got != want.Faces+want.SemiFaces {
		return fmt.Errorf("%w: %d triangles, want %d", ErrInvalidShape, got, want.Faces+want.SemiFaces)
	}
	return nil
}

// TessellateAll runs every request in order and stops at the first failure.
func TessellateAll(reqs []Request) ([]*mesh.Mesh, error) {
	meshes := make([]*mesh.Mesh, 0, len(reqs))
	for i, req := range reqs {
		m, err := Tessellate(req)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

package icosphere

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
)

const (
	// UnitTolerance bounds how far a vertex may sit from the unit sphere.
	UnitTolerance = 1e-9
	// DuplicateTolerance is the distance below which two vertices are
	// considered the same point.
	DuplicateTolerance = 1e-9
	// PlaneTolerance bounds |y| for a vertex to count as on the cut plane.
	PlaneTolerance = 1e-12
)

// Validation codes.
const (
	CodeBadIndex       = "BAD_INDEX"
	CodeDegenerateFace = "DEGENERATE_FACE"
	CodeNotUnit        = "NOT_UNIT"
	CodeDuplicate      = "DUPLICATE_VERTEX"
	CodeEdgeSharing    = "EDGE_SHARING"
	CodeSemiConvention = "SEMI_CONVENTION"
)

// ValidationError describes one broken invariant of a Shape.
type ValidationError struct {
	Code    string
	Message string
	Vertex  int // -1 when not vertex-specific
	Face    int // -1 when not face-specific
	Semi    bool
}

func (e ValidationError) Error() string {
	context := ""
	switch {
	case e.Face >= 0 && e.Semi:
		context = fmt.Sprintf(" (semi-face: %d)", e.Face)
	case e.Face >= 0:
		context = fmt.Sprintf(" (face: %d)", e.Face)
	case e.Vertex >= 0:
		context = fmt.Sprintf(" (vertex: %d)", e.Vertex)
	}
	return fmt.Sprintf("%s: %s%s", e.Code, e.Message, context)
}

// OnPlane reports whether vertex i of s lies on the cut plane.
func (s *Shape) OnPlane(i int) bool {
	return math.Abs(CutCoord(s.Vertices[i])) <= PlaneTolerance
}

// Validate checks the structural and geometric invariants of s and returns
// every violation found. A nil result means the shape is a consistent
// triangulation of the unit sphere (or hemisphere).
func Validate(s *Shape) []ValidationError {
	// Index errors make the remaining checks meaningless.
	if errs := validateIndices(s); len(errs) > 0 {
		return errs
	}

	var errs []ValidationError
	errs = append(errs, validateUnitNorm(s)...)
	errs = append(errs, validateDuplicates(s)...)
	errs = append(errs, validateEdgeSharing(s)...)
	errs = append(errs, validateSemiConvention(s)...)
	return errs
}

func validateIndices(s *Shape) []ValidationError {
	var errs []ValidationError
	n := len(s.Vertices)
	check := func(fi int, f Face, semi bool) {
		for _, vi := range f {
			if vi < 0 || vi >= n {
				errs = append(errs, ValidationError{
					Code:    CodeBadIndex,
					Message: fmt.Sprintf("vertex index %d out of range [0,%d)", vi, n),
					Vertex:  -1,
					Face:    fi,
					Semi:    semi,
				})
				return
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			errs = append(errs, ValidationError{
				Code:    CodeDegenerateFace,
				Message: fmt.Sprintf("face %v repeats a vertex", f),
				Vertex:  -1,
				Face:    fi,
				Semi:    semi,
			})
		}
	}
	for fi, f := range s.Faces {
		check(fi, f, false)
	}
	for fi, f := range s.SemiFaces {
		check(fi, f, true)
	}
	return errs
}

func validateUnitNorm(s *Shape) []ValidationError {
	var errs []ValidationError
	for i, v := range s.Vertices {
		if d := math.Abs(v.Length() - 1); d > UnitTolerance {
			errs = append(errs, ValidationError{
				Code:    CodeNotUnit,
				Message: fmt.Sprintf("|v| deviates from 1 by %.3g", d),
				Vertex:  i,
				Face:    -1,
			})
		}
	}
	return errs
}

// indexedPoint is a vertex stored in the spatial index.
type indexedPoint struct {
	index int
	rect  rtreego.Rect
}

func (p *indexedPoint) Bounds() rtreego.Rect {
	return p.rect
}

// validateDuplicates reports vertices that coincide with an earlier one,
// which is how a missed midpoint cache hit shows up.
func validateDuplicates(s *Shape) []ValidationError {
	var errs []ValidationError
	tree := rtreego.NewTree(3, 25, 50)
	for i, v := range s.Vertices {
		pt := rtreego.Point{v.X, v.Y, v.Z}
		box := pt.ToRect(DuplicateTolerance)
		for _, hit := range tree.SearchIntersect(box) {
			other := hit.(*indexedPoint).index
			if s.Vertices[other].Sub(v).Length() <= DuplicateTolerance {
				errs = append(errs, ValidationError{
					Code:    CodeDuplicate,
					Message: fmt.Sprintf("vertex coincides with vertex %d", other),
					Vertex:  i,
					Face:    -1,
				})
				break
			}
		}
		tree.Insert(&indexedPoint{index: i, rect: box})
	}
	return errs
}

// edgeUse counts how many triangles reference each edge.
func edgeUse(s *Shape) (map[edgeKey]int, []edgeKey) {
	uses := make(map[edgeKey]int, 3*(len(s.Faces)+len(s.SemiFaces))/2)
	var order []edgeKey
	add := func(f Face) {
		for _, e := range [3]edgeKey{
			makeEdgeKey(f[0], f[1]),
			makeEdgeKey(f[1], f[2]),
			makeEdgeKey(f[2], f[0]),
		} {
			if uses[e] == 0 {
				order = append(order, e)
			}
			uses[e]++
		}
	}
	for _, f := range s.Faces {
		add(f)
	}
	for _, f := range s.SemiFaces {
		add(f)
	}
	return uses, order
}

// validateEdgeSharing checks the manifold property: a closed sphere has
// every edge in exactly two triangles; a hemisphere may also have edges in
// a single triangle, but only along the cut plane.
func validateEdgeSharing(s *Shape) []ValidationError {
	var errs []ValidationError
	uses, order := edgeUse(s)
	for _, e := range order {
		n := uses[e]
		if n == 2 {
			continue
		}
		if n == 1 && s.Variant == Half && s.OnPlane(e[0]) && s.OnPlane(e[1]) {
			continue
		}
		errs = append(errs, ValidationError{
			Code:    CodeEdgeSharing,
			Message: fmt.Sprintf("edge (%d,%d) is used by %d triangles", e[0], e[1], n),
			Vertex:  -1,
			Face:    -1,
		})
	}
	return errs
}

func validateSemiConvention(s *Shape) []ValidationError {
	var errs []ValidationError
	if s.Variant == Full && len(s.SemiFaces) > 0 {
		return []ValidationError{{
			Code:    CodeSemiConvention,
			Message: fmt.Sprintf("full sphere carries %d semi-faces", len(s.SemiFaces)),
			Vertex:  -1,
			Face:    -1,
		}}
	}
	for fi, f := range s.SemiFaces {
		if !s.OnPlane(f[0]) || !s.OnPlane(f[1]) || s.OnPlane(f[2]) {
			errs = append(errs, ValidationError{
				Code:    CodeSemiConvention,
				Message: fmt.Sprintf("semi-face %v: nodes 0 and 1 must lie on the cut plane, node 2 off it", f),
				Vertex:  -1,
				Face:    fi,
				Semi:    true,
			})
		}
	}
	return errs
}

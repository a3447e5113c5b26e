package icosphere

import (
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func hasCode(errs []ValidationError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateCatchesBrokenShapes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Shape)
		full   bool
		code   string
	}{
		{
			name:   "index out of range",
			mutate: func(s *Shape) { s.Faces[3] = Face{0, 1, 99} },
			full:   true,
			code:   CodeBadIndex,
		},
		{
			name:   "negative index",
			mutate: func(s *Shape) { s.SemiFaces[0] = Face{-1, 8, 2} },
			code:   CodeBadIndex,
		},
		{
			name:   "degenerate face",
			mutate: func(s *Shape) { s.Faces[0] = Face{0, 0, 5} },
			full:   true,
			code:   CodeDegenerateFace,
		},
		{
			name:   "vertex off the sphere",
			mutate: func(s *Shape) { s.Vertices[4] = s.Vertices[4].MulScalar(1.01) },
			full:   true,
			code:   CodeNotUnit,
		},
		{
			name: "duplicated vertex",
			mutate: func(s *Shape) {
				// Re-point face 0 at a copy of vertex 0, as a missed cache
				// hit would.
				s.Vertices = append(s.Vertices, s.Vertices[0])
				s.Faces[0][0] = len(s.Vertices) - 1
			},
			full: true,
			code: CodeDuplicate,
		},
		{
			name:   "missing face opens the sphere",
			mutate: func(s *Shape) { s.Faces = s.Faces[:len(s.Faces)-1] },
			full:   true,
			code:   CodeEdgeSharing,
		},
		{
			name:   "missing semi-face opens the hemisphere",
			mutate: func(s *Shape) { s.SemiFaces = s.SemiFaces[1:] },
			code:   CodeEdgeSharing,
		},
		{
			name:   "semi-face slots rotated",
			mutate: func(s *Shape) { f := s.SemiFaces[2]; s.SemiFaces[2] = Face{f[2], f[0], f[1]} },
			code:   CodeSemiConvention,
		},
		{
			name:   "full sphere with semi-faces",
			mutate: func(s *Shape) { s.SemiFaces = []Face{{8, 9, 1}} },
			full:   true,
			code:   CodeSemiConvention,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SemiIcosahedron()
			if tt.full {
				s = Icosahedron()
			}
			tt.mutate(s)
			errs := Validate(s)
			if !hasCode(errs, tt.code) {
				t.Errorf("Validate() = %v, want an error with code %s", errs, tt.code)
			}
		})
	}
}

func TestValidateIndexErrorsShortCircuit(t *testing.T) {
	s := Icosahedron()
	s.Faces[0] = Face{0, 1, 500}
	errs := Validate(s)
	if len(errs) != 1 || errs[0].Code != CodeBadIndex {
		t.Errorf("Validate() = %v, want exactly one %s", errs, CodeBadIndex)
	}
}

func TestValidateDuplicateNearCoincident(t *testing.T) {
	s := Icosahedron()
	v := s.Vertices[3]
	s.Vertices = append(s.Vertices, v.Add(v3.Vec{X: 1e-12}))
	errs := validateDuplicates(s)
	if len(errs) != 1 {
		t.Fatalf("validateDuplicates() = %v, want one error", errs)
	}
	if errs[0].Vertex != 12 || !strings.Contains(errs[0].Message, "vertex 3") {
		t.Errorf("got %v, want vertex 12 reported as a copy of vertex 3", errs[0])
	}
}

func TestValidationErrorString(t *testing.T) {
	tests := []struct {
		err  ValidationError
		want string
	}{
		{
			ValidationError{Code: CodeNotUnit, Message: "off", Vertex: 4, Face: -1},
			"NOT_UNIT: off (vertex: 4)",
		},
		{
			ValidationError{Code: CodeBadIndex, Message: "bad", Vertex: -1, Face: 2},
			"BAD_INDEX: bad (face: 2)",
		},
		{
			ValidationError{Code: CodeSemiConvention, Message: "slots", Vertex: -1, Face: 1, Semi: true},
			"SEMI_CONVENTION: slots (semi-face: 1)",
		},
		{
			ValidationError{Code: CodeEdgeSharing, Message: "open", Vertex: -1, Face: -1},
			"EDGE_SHARING: open",
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestEdgeUseCountsSharedEdges(t *testing.T) {
	uses, order := edgeUse(Icosahedron())
	if len(order) != 30 {
		t.Fatalf("icosahedron has %d edges, want 30", len(order))
	}
	for _, e := range order {
		if uses[e] != 2 {
			t.Errorf("edge %v used %d times, want 2", e, uses[e])
		}
	}
}

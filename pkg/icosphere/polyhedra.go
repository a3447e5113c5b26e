// Package icosphere builds icosahedral approximations of the unit sphere.
//
// A Shape starts as a base polyhedron (the full icosahedron, or its northern
// half cut along the plane y = 0) and is refined level by level. Every level
// splits each ordinary face into four and each semi-face into two semi-faces
// plus one ordinary face, pushing new vertices onto the unit sphere.
package icosphere

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Phi is the golden ratio.
var Phi = (1 + math.Sqrt(5)) / 2

// CutCoord returns the coordinate that is zero on the cut plane y = 0.
func CutCoord(v v3.Vec) float64 { return v.Y }

// Variant selects the base polyhedron.
type Variant int

const (
	Full Variant = iota // closed icosahedron
	Half                // northern hemisphere with a flat cut face
)

func (v Variant) String() string {
	switch v {
	case Full:
		return "full"
	case Half:
		return "half"
	default:
		return "unknown"
	}
}

// ParseVariant maps "full"/"half" (and the aliases "sphere"/"hemisphere")
// onto a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "full", "sphere":
		return Full, true
	case "half", "hemisphere", "semi":
		return Half, true
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if v != Full && v != Half {
		return nil, fmt.Errorf("icosphere: invalid variant %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(b []byte) error {
	parsed, ok := ParseVariant(string(b))
	if !ok {
		return fmt.Errorf("icosphere: unknown variant %q", b)
	}
	*v = parsed
	return nil
}

// Face is a triangle given by three vertex indices.
//
// For semi-faces the slots are fixed: nodes 0 and 1 lie on the cut plane,
// node 0 being opposite the cut-in-half edge; edge (1,2) is the cut-in-half
// edge, with node 2 off the plane.
type Face [3]int

// Shape is a triangulated polyhedron. Vertex indices are identities: the
// vertex slice only ever grows.
type Shape struct {
	Variant   Variant
	Vertices  []v3.Vec
	Faces     []Face
	SemiFaces []Face
}

// Clone returns a deep copy of s.
func (s *Shape) Clone() *Shape {
	return &Shape{
		Variant:   s.Variant,
		Vertices:  append([]v3.Vec(nil), s.Vertices...),
		Faces:     append([]Face(nil), s.Faces...),
		SemiFaces: append([]Face(nil), s.SemiFaces...),
	}
}

// New returns the base polyhedron for the given variant.
func New(v Variant) *Shape {
	if v == Half {
		return SemiIcosahedron()
	}
	return Icosahedron()
}

// divide scales v by 1/d with one rounding per component; v3.DivScalar
// multiplies by the reciprocal and rounds twice.
func divide(v v3.Vec, d float64) v3.Vec {
	return v3.Vec{X: v.X / d, Y: v.Y / d, Z: v.Z / d}
}

// The icosahedron's vertices are the corners of three golden rectangles,
// one in each coordinate plane.
func icosahedronCorners() []v3.Vec {
	t := Phi
	return []v3.Vec{
		{X: -1, Y: t, Z: 0},
		{X: 1, Y: t, Z: 0},
		{X: -1, Y: -t, Z: 0},
		{X: 1, Y: -t, Z: 0},

		{X: 0, Y: -1, Z: t},
		{X: 0, Y: 1, Z: t},
		{X: 0, Y: -1, Z: -t},
		{X: 0, Y: 1, Z: -t},

		{X: t, Y: 0, Z: -1},
		{X: t, Y: 0, Z: 1},
		{X: -t, Y: 0, Z: -1},
		{X: -t, Y: 0, Z: 1},
	}
}

var icosahedronFaces = []Face{
	{0, 11, 5},
	{0, 5, 1},
	{0, 1, 7},
	{0, 7, 10},
	{0, 10, 11},
	{1, 5, 9},
	{5, 11, 4},
	{11, 10, 2},
	{10, 7, 6},
	{7, 1, 8},
	{3, 9, 4},
	{3, 4, 2},
	{3, 2, 6},
	{3, 6, 8},
	{3, 8, 9},
	{4, 9, 5},
	{2, 4, 11},
	{6, 2, 10},
	{8, 6, 7},
	{9, 8, 1},
}

// Icosahedron returns the 12-vertex, 20-face icosahedron inscribed in the
// unit sphere. Faces wind counter-clockwise seen from outside.
func Icosahedron() *Shape {
	corners := icosahedronCorners()
	s := math.Sqrt(1 + Phi*Phi)
	verts := make([]v3.Vec, len(corners))
	for i, c := range corners {
		verts[i] = divide(c, s)
	}
	return &Shape{
		Variant:  Full,
		Vertices: verts,
		Faces:    append([]Face(nil), icosahedronFaces...),
	}
}

// semiFullFaces are the icosahedron faces lying entirely in y >= 0,
// renumbered onto the semi-icosahedron's vertices.
var semiFullFaces = []Face{
	{0, 7, 2},
	{0, 6, 7},
	{3, 6, 0},
	{3, 0, 1},
	{4, 3, 1},
	{4, 1, 5},
	{1, 2, 5},
	{1, 0, 2},
}

// semiCutFaces are the halves of the four faces crossing y = 0.
var semiCutFaces = []Face{
	{7, 8, 2},
	{6, 9, 3},
	{4, 9, 3},
	{5, 8, 2},
}

// SemiIcosahedron returns the northern half of the icosahedron, cut along
// y = 0. Of the three golden rectangles, the z = 0 and x = 0 ones keep only
// their upper corners; the y = 0 one is the cut plane and keeps all four.
// Two new vertices (0, 0, ±1) close the cut where the x = 0 rectangle's
// long edges cross the plane.
func SemiIcosahedron() *Shape {
	all := icosahedronCorners()
	s := math.Sqrt(1 + Phi*Phi)

	upper := []int{0, 1, 5, 7, 8, 9, 10, 11}
	verts := make([]v3.Vec, 0, 10)
	for _, i := range upper {
		verts = append(verts, divide(all[i], s))
	}
	// These sit at distance phi, not sqrt(1+phi^2).
	verts = append(verts,
		divide(v3.Vec{X: 0, Y: 0, Z: Phi}, Phi),
		divide(v3.Vec{X: 0, Y: 0, Z: -Phi}, Phi),
	)

	return &Shape{
		Variant:   Half,
		Vertices:  verts,
		Faces:     append([]Face(nil), semiFullFaces...),
		SemiFaces: append([]Face(nil), semiCutFaces...),
	}
}

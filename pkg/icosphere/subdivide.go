package icosphere

import v3 "github.com/deadsy/sdfx/vec/v3"

// Subdivide refines s by one level and returns the result; s is not
// modified.
//
// Each ordinary face (f0, f1, f2) with edge midpoints a = (f0,f1),
// b = (f1,f2), c = (f0,f2) becomes (c, b, f2) in its own slot, followed
// after all original faces by (a, b, c), (f0, a, c) and (a, f1, b). All four
// keep the parent's winding.
//
// Each semi-face (n0, n1, n2) splits only the edges leaving n0; the
// cut-in-half edge (n1, n2) is left whole so both semi-faces sharing it stay
// conforming. With i = mid(n0,n1) and k = mid(n0,n2) it becomes the
// semi-face (n0, i, k) in its own slot plus the appended semi-face
// (n1, i, k), and contributes the ordinary face (n1, n2, k).
func Subdivide(s *Shape) *Shape {
	nf, ns := len(s.Faces), len(s.SemiFaces)

	verts := make([]v3.Vec, len(s.Vertices), len(s.Vertices)+3*nf/2+2*ns)
	copy(verts, s.Vertices)
	cache := newMidpointCache(&verts, 3*nf/2+2*ns)

	faces := make([]Face, nf, 4*nf+ns)
	for fi, f := range s.Faces {
		a := cache.getOrCreate(f[0], f[1])
		b := cache.getOrCreate(f[1], f[2])
		c := cache.getOrCreate(f[0], f[2])

		faces = append(faces,
			Face{a, b, c},
			Face{f[0], a, c},
			Face{a, f[1], b},
		)
		faces[fi] = Face{c, b, f[2]}
	}

	semis := make([]Face, ns, 2*ns)
	for fi, f := range s.SemiFaces {
		i := cache.getOrCreate(f[0], f[1])
		k := cache.getOrCreate(f[0], f[2])

		faces = append(faces, Face{f[1], f[2], k})
		// (i, k) is the new cut-in-half edge, shared by both halves.
		semis[fi] = Face{f[0], i, k}
		semis = append(semis, Face{f[1], i, k})
	}

	return &Shape{
		Variant:   s.Variant,
		Vertices:  verts,
		Faces:     faces,
		SemiFaces: semis,
	}
}

// Refine applies Subdivide levels times. A non-positive level count returns
// an unrefined copy of s. Each level completes before the next starts.
func Refine(s *Shape, levels int) *Shape {
	out := s.Clone()
	for i := 0; i < levels; i++ {
		out = Subdivide(out)
	}
	return out
}

// Sizes holds the element counts of a refined shape.
type Sizes struct {
	Vertices  int
	Faces     int
	SemiFaces int
}

// MaxCountLevels is the deepest level Counts reports. The full sphere at
// level 30 already overflows a 64-bit int.
const MaxCountLevels = 24

// Counts returns the element counts of the base polyhedron for v after the
// given number of levels, without building it. Levels are clamped to
// [0, MaxCountLevels].
func Counts(v Variant, levels int) Sizes {
	levels = max(0, min(levels, MaxCountLevels))
	if v == Full {
		p := 1 << (2 * uint(levels))
		return Sizes{Vertices: 10*p + 2, Faces: 20 * p}
	}

	// Half: a triangulated disc with T triangles and B boundary edges has
	// (3T+B)/2 edges. Every edge is split except the S/2 cut-in-half edges,
	// and the boundary doubles with each level.
	sz := Sizes{Vertices: 10, Faces: 8, SemiFaces: 4}
	boundary := 6
	for i := 0; i < levels; i++ {
		edges := (3*(sz.Faces+sz.SemiFaces) + boundary) / 2
		sz = Sizes{
			Vertices:  sz.Vertices + edges - sz.SemiFaces/2,
			Faces:     4*sz.Faces + sz.SemiFaces,
			SemiFaces: 2 * sz.SemiFaces,
		}
		boundary *= 2
	}
	return sz
}

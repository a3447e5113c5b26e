package icosphere

import v3 "github.com/deadsy/sdfx/vec/v3"

// edgeKey is an unordered pair of vertex indices, stored as (min, max).
type edgeKey [2]int

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// midpointCache maps each edge split during one subdivision pass to the
// index of its midpoint vertex, so an edge shared by two faces is split
// once. A cache must not outlive its pass.
type midpointCache struct {
	verts *[]v3.Vec
	mids  map[edgeKey]int
}

func newMidpointCache(verts *[]v3.Vec, sizeHint int) *midpointCache {
	return &midpointCache{
		verts: verts,
		mids:  make(map[edgeKey]int, sizeHint),
	}
}

// getOrCreate returns the index of the midpoint of edge {a, b}, appending
// it to the vertex slice on first use. The new vertex is the chord midpoint
// pushed out onto the unit sphere.
func (c *midpointCache) getOrCreate(a, b int) int {
	key := makeEdgeKey(a, b)
	if m, ok := c.mids[key]; ok {
		return m
	}
	vs := *c.verts
	mid := vs[a].Add(vs[b]).Normalize()
	*c.verts = append(vs, mid)
	m := len(*c.verts) - 1
	c.mids[key] = m
	return m
}

package terrain

import "sync"

var topologies sync.Map // resolution -> []uint32

// Topology returns the shared index list for an n×n vertex grid: two
// triangles per quad, wound counter-clockwise when viewed from +Y. The slice
// is shared by every surface of that resolution and must not be modified.
func Topology(n int) []uint32 {
	if v, ok := topologies.Load(n); ok {
		return v.([]uint32)
	}
	indices := make([]uint32, 0, (n-1)*(n-1)*6)
	for j := 0; j < n-1; j++ {
		for i := 0; i < n-1; i++ {
			a := uint32(j*n + i)
			b := a + 1
			c := a + uint32(n)
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	v, _ := topologies.LoadOrStore(n, indices)
	return v.([]uint32)
}

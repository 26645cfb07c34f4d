package sim

import (
	"fmt"
	"math"
)

// DistanceMap is a lazily filled cache of grid distances indexed by location
// identity. Each (a, b) direction is computed and cached independently.
// Not thread-safe.
type DistanceMap struct {
	size      int
	distances [][]int // -1 means not yet computed
}

// NewDistanceMap creates a cache for locations with index in [0, size).
func NewDistanceMap(size int) *DistanceMap {
	if size < 0 {
		panic(fmt.Sprintf("NewDistanceMap: negative size %d", size))
	}
	distances := make([][]int, size)
	for i := range distances {
		row := make([]int, size)
		for j := range row {
			row[j] = -1
		}
		distances[i] = row
	}
	return &DistanceMap{size: size, distances: distances}
}

// Size returns the number of locations the map can address.
func (m *DistanceMap) Size() int {
	return m.size
}

// Distance returns ceil(sqrt(dr^2 + dc^2)) between a and b, computing it on
// first access. Panics if either location was created outside the map's range.
func (m *DistanceMap) Distance(a, b Location) int {
	if a.index < 0 || a.index >= m.size || b.index < 0 || b.index >= m.size {
		panic(fmt.Sprintf("DistanceMap.Distance: location index (%d, %d) outside map of size %d", a.index, b.index, m.size))
	}
	d := m.distances[a.index][b.index]
	if d == -1 {
		d = gridDistance(a.Row, a.Column, b.Row, b.Column)
		m.distances[a.index][b.index] = d
	}
	return d
}

func gridDistance(ra, ca, rb, cb int) int {
	dr := ra - rb
	dc := ca - cb
	return int(math.Ceil(math.Sqrt(float64(dr*dr + dc*dc))))
}

package roads2dem

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	defaultGridCellSize = 25.0
)

type gridCellKey struct {
	x int
	y int
}

type gridEntry struct {
	pt      orb.Point
	payload int
}

// SpatialGrid buckets 2D points into fixed-size cells for cheap radius queries.
// Cell size must be at least the largest radius ever queried to keep the scan
// bounded to the 3x3 neighborhood; larger radii fall back to a wider scan.
type SpatialGrid struct {
	cellSize float64
	cells    map[gridCellKey][]gridEntry
}

// NewSpatialGrid builds an empty grid. The effective cell size is the larger of
// the global default and the requested one, so querying with any radius up to
// the requested value never misses neighbors in the 3x3 scan.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize < defaultGridCellSize {
		cellSize = defaultGridCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[gridCellKey][]gridEntry),
	}
}

func (grid *SpatialGrid) keyFor(pt orb.Point) gridCellKey {
	return gridCellKey{
		x: int(math.Floor(pt[0] / grid.cellSize)),
		y: int(math.Floor(pt[1] / grid.cellSize)),
	}
}

// Insert stores payload under the cell containing pt
func (grid *SpatialGrid) Insert(pt orb.Point, payload int) {
	key := grid.keyFor(pt)
	grid.cells[key] = append(grid.cells[key], gridEntry{pt: pt, payload: payload})
}

// QueryRadius returns payloads of all points within radius of pt. Order of the
// returned payloads is not defined.
func (grid *SpatialGrid) QueryRadius(pt orb.Point, radius float64) []int {
	if radius < 0 {
		return nil
	}
	span := int(math.Ceil(radius / grid.cellSize))
	if span < 1 {
		span = 1
	}
	center := grid.keyFor(pt)
	result := []int{}
	for dy := -span; dy <= span; dy++ {
		for dx := -span; dx <= span; dx++ {
			key := gridCellKey{x: center.x + dx, y: center.y + dy}
			for _, entry := range grid.cells[key] {
				if findDistance(entry.pt, pt) <= radius {
					result = append(result, entry.payload)
				}
			}
		}
	}
	return result
}

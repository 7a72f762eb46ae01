package roads2dem

import (
	"go.uber.org/zap"
)

// smoothRoadRegion runs an iterative box blur restricted to road and shoulder
// pixels. Core pixels are re-pinned to their owner elevation after every
// iteration, so smoothing can never violate the core protection guarantee.
func smoothRoadRegion(hm *Heightmap, masks *RoadMasks, field *DistanceField, splines []*Spline, iterations int, logger *zap.Logger) {
	if iterations <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	reach := maxInfluenceRadius(splines)
	size := hm.Width * hm.Height
	affected := make([]bool, size)
	affectedCount := 0
	for i := 0; i < size; i++ {
		if field.Nearest[i] >= 0 && field.Dist[i] <= reach {
			affected[i] = true
			affectedCount++
		}
	}
	if affectedCount == 0 {
		return
	}
	logger.Debug("Smoothing road region", zap.Int("pixels", affectedCount), zap.Int("iterations", iterations))

	scratch := make([]float64, size)
	for iter := 0; iter < iterations; iter++ {
		copy(scratch, hm.Data())
		parallelRange(hm.Height, func(fromY, toY int) {
			for y := fromY; y < toY; y++ {
				for x := 0; x < hm.Width; x++ {
					idx := y*hm.Width + x
					if !affected[idx] || masks.Core[idx] {
						continue
					}
					sum := scratch[idx] * 2.0
					count := 2.0
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							if dx == 0 && dy == 0 {
								continue
							}
							nx, ny := x+dx, y+dy
							if !hm.InBounds(nx, ny) {
								continue
							}
							nIdx := ny*hm.Width + nx
							if !affected[nIdx] {
								continue
							}
							sum += scratch[nIdx]
							count += 1.0
						}
					}
					hm.Set(x, y, sum/count)
				}
			}
		})
		// Cores stay exact
		parallelRange(hm.Height, func(fromY, toY int) {
			for y := fromY; y < toY; y++ {
				for x := 0; x < hm.Width; x++ {
					idx := y*hm.Width + x
					if masks.Core[idx] {
						hm.Set(x, y, masks.Elevation[idx])
					}
				}
			}
		})
	}
}

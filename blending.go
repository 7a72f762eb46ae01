package roads2dem

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BlendCurve selects the shoulder falloff shape
type BlendCurve uint16

const (
	BLEND_LINEAR = BlendCurve(iota + 1)
	BLEND_COSINE
	BLEND_SMOOTHSTEP
	BLEND_SMOOTHERSTEP
)

func (iotaIdx BlendCurve) String() string {
	return [...]string{"linear", "cosine", "smoothstep", "smootherstep"}[iotaIdx-1]
}

var blendCurveByName = map[string]BlendCurve{
	"linear":       BLEND_LINEAR,
	"cosine":       BLEND_COSINE,
	"smoothstep":   BLEND_SMOOTHSTEP,
	"smootherstep": BLEND_SMOOTHERSTEP,
}

// applyBlendCurve transforms the raw shoulder fraction t in [0;1]
func applyBlendCurve(curve BlendCurve, t float64) float64 {
	switch curve {
	case BLEND_COSINE:
		return cosineStep(t)
	case BLEND_SMOOTHSTEP:
		return smoothStep(t)
	case BLEND_SMOOTHERSTEP:
		return smootherStep(t)
	default:
		return t
	}
}

// BlendStats counts pixel classifications during blending
type BlendStats struct {
	CorePixels     int64
	ShoulderPixels int64
	ModifiedPixels int64
}

// blendProcessor paints the final heightmap. Core pixels take their owner's
// target elevation unconditionally; shoulder pixels fade from the nearest
// road's elevation to the original terrain; everything else stays untouched.
type blendProcessor struct {
	splinesByID map[SplineID]*Spline
	curve       BlendCurve
	logger      *zap.Logger
}

func newBlendProcessor(splines []*Spline, curve BlendCurve, logger *zap.Logger) *blendProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	byID := make(map[SplineID]*Spline, len(splines))
	for _, spline := range splines {
		byID[spline.ID] = spline
	}
	return &blendProcessor{splinesByID: byID, curve: curve, logger: logger}
}

// run mutates hm in place. The masks and field must come from the same grid.
func (processor *blendProcessor) run(hm *Heightmap, masks *RoadMasks, field *DistanceField) (BlendStats, error) {
	if masks.Width != hm.Width || masks.Height != hm.Height {
		return BlendStats{}, errors.Errorf("Masks %dx%d do not match heightmap %dx%d", masks.Width, masks.Height, hm.Width, hm.Height)
	}
	if field.Width != hm.Width || field.Height != hm.Height {
		return BlendStats{}, errors.Errorf("Distance field %dx%d does not match heightmap %dx%d", field.Width, field.Height, hm.Width, hm.Height)
	}

	var corePixels, shoulderPixels, modifiedPixels int64
	parallelRange(hm.Height, func(fromY, toY int) {
		for y := fromY; y < toY; y++ {
			for x := 0; x < hm.Width; x++ {
				idx := y*hm.Width + x
				if masks.Core[idx] {
					// Protection guarantee: the owner's elevation, exactly
					hm.Set(x, y, masks.Elevation[idx])
					atomic.AddInt64(&corePixels, 1)
					atomic.AddInt64(&modifiedPixels, 1)
					continue
				}
				nearest := field.Nearest[idx]
				if nearest < 0 {
					continue
				}
				owner := masks.Owner[nearest]
				spline, ok := processor.splinesByID[owner]
				if !ok {
					continue
				}
				dist := field.Dist[idx]
				halfWidth := spline.HalfWidth()
				blendRange := spline.BlendRange
				if dist <= halfWidth {
					// Within core reach of the nearest road but its own pixel
					// was never claimed (e.g. filtered elevation): treat as shoulder start
					dist = halfWidth
				}
				if dist >= halfWidth+blendRange || blendRange <= 0 {
					continue
				}
				t := clamp((dist-halfWidth)/blendRange, 0.0, 1.0)
				shaped := applyBlendCurve(processor.curve, t)
				roadElevation := masks.Elevation[nearest]
				hm.Set(x, y, lerp(roadElevation, hm.At(x, y), shaped))
				atomic.AddInt64(&shoulderPixels, 1)
				atomic.AddInt64(&modifiedPixels, 1)
			}
		}
	})

	stats := BlendStats{
		CorePixels:     atomic.LoadInt64(&corePixels),
		ShoulderPixels: atomic.LoadInt64(&shoulderPixels),
		ModifiedPixels: atomic.LoadInt64(&modifiedPixels),
	}
	return stats, nil
}

// maxInfluenceRadius returns the farthest any spline reaches into the terrain
func maxInfluenceRadius(splines []*Spline) float64 {
	radius := 0.0
	for _, spline := range splines {
		reach := spline.HalfWidth() + spline.BlendRange
		if reach > radius {
			radius = reach
		}
	}
	return radius
}

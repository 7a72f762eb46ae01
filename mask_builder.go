package roads2dem

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

const (
	// Elevations below this are sentinel or uninitialized data, never terrain
	defaultElevationFloor = -1000.0
)

// RoadMasks are three aligned grids over the heightmap: the combined core mask,
// the owner of every core pixel and the target elevation valid only inside the core.
type RoadMasks struct {
	Width     int
	Height    int
	Core      []bool
	Owner     []SplineID
	Elevation []float64
}

// OwnerAt returns the owning spline of pixel (x,y), -1 outside every core
func (masks *RoadMasks) OwnerAt(x, y int) SplineID {
	return masks.Owner[y*masks.Width+x]
}

// maskBuilder rasterizes every spline's occupied width into the shared grids.
// Splines are processed in descending priority so higher-priority roads claim
// contested pixels; within a claimed pixel the first writer wins.
type maskBuilder struct {
	splines        []*Spline
	hm             *Heightmap
	elevationFloor float64
	logger         *zap.Logger
}

func newMaskBuilder(splines []*Spline, hm *Heightmap, elevationFloor float64, logger *zap.Logger) *maskBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &maskBuilder{splines: splines, hm: hm, elevationFloor: elevationFloor, logger: logger}
}

func (builder *maskBuilder) build() *RoadMasks {
	size := builder.hm.Width * builder.hm.Height
	masks := &RoadMasks{
		Width:     builder.hm.Width,
		Height:    builder.hm.Height,
		Core:      make([]bool, size),
		Owner:     make([]SplineID, size),
		Elevation: make([]float64, size),
	}
	for i := range masks.Owner {
		masks.Owner[i] = -1
	}

	ordered := make([]*Spline, len(builder.splines))
	copy(ordered, builder.splines)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, spline := range ordered {
		builder.rasterizeSpline(spline, masks)
	}
	return masks
}

// rasterizeSpline paints every centerline segment of the spline as a rectangle
// of the spline's full width
func (builder *maskBuilder) rasterizeSpline(spline *Spline, masks *RoadMasks) {
	halfWidth := spline.HalfWidth()
	filtered := 0
	for i := 0; i+1 < len(spline.CrossSections); i++ {
		csA := spline.CrossSections[i]
		csB := spline.CrossSections[i+1]
		if csA.CenterPoint == csB.CenterPoint {
			continue
		}
		filtered += builder.rasterizeSegment(spline, csA, csB, halfWidth, masks)
	}
	if filtered > 0 {
		builder.logger.Debug("Invalid target elevations filtered during rasterization",
			zap.Int("spline_id", int(spline.ID)),
			zap.Int("pixels", filtered))
	}
}

func (builder *maskBuilder) rasterizeSegment(spline *Spline, csA, csB *CrossSection, halfWidth float64, masks *RoadMasks) int {
	corners := [4][2]float64{
		csA.LeftEdgePoint(halfWidth),
		csA.RightEdgePoint(halfWidth),
		csB.LeftEdgePoint(halfWidth),
		csB.RightEdgePoint(halfWidth),
	}
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, corner := range corners {
		minX = math.Min(minX, corner[0])
		maxX = math.Max(maxX, corner[0])
		minY = math.Min(minY, corner[1])
		maxY = math.Max(maxY, corner[1])
	}
	mpp := builder.hm.MetersPerPixel
	fromX := int(math.Floor(minX / mpp))
	toX := int(math.Ceil(maxX / mpp))
	fromY := int(math.Floor(minY / mpp))
	toY := int(math.Ceil(maxY / mpp))

	filtered := 0
	for y := fromY; y <= toY; y++ {
		for x := fromX; x <= toX; x++ {
			if !builder.hm.InBounds(x, y) {
				continue
			}
			idx := y*masks.Width + x
			if masks.Owner[idx] != -1 {
				continue
			}
			pt := builder.hm.PixelToWorld(x, y)
			t, projected := projectOnSegment(pt, csA.CenterPoint, csB.CenterPoint)
			if findDistance(pt, projected) > halfWidth {
				continue
			}
			nearest := csA
			if t > 0.5 {
				nearest = csB
			}
			elevation := nearest.TargetElevation
			if math.IsNaN(elevation) || math.IsInf(elevation, 0) || elevation < builder.elevationFloor {
				filtered++
				continue
			}
			masks.Core[idx] = true
			masks.Owner[idx] = spline.ID
			masks.Elevation[idx] = elevation
		}
	}
	return filtered
}

package roads2dem

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultDetectionRadius = 5.0
)

// Harmonizer reconciles a set of road splines over a shared heightmap: detects
// junctions, resolves banking priorities, ramps elevations and paints the
// flattened, blended terrain. Stages always run in the same order; every
// intermediate product is returned in the Result.
type Harmonizer struct {
	splines             []*Spline
	heightmap           *Heightmap
	detectionRadius     float64
	blendCurve          BlendCurve
	elevationFloor      float64
	smoothingIterations int
	roundabouts         []roundaboutRing
	junctionFilter      func(*Junction) bool
	logger              *zap.Logger
}

func (h *Harmonizer) String() string {
	return fmt.Sprintf(`
Harmonizer parameters:
	splines: %d
	heightmap: %dx%d (%f m/px)
	detection_radius: %f
	blend_curve: '%s'
	elevation_floor: %f
	smoothing_iterations: %d
	roundabouts: %d
	`,
		len(h.splines),
		h.heightmap.Width,
		h.heightmap.Height,
		h.heightmap.MetersPerPixel,
		h.detectionRadius,
		h.blendCurve,
		h.elevationFloor,
		h.smoothingIterations,
		len(h.roundabouts),
	)
}

// NewHarmonizer builds a pipeline over given splines and terrain
func NewHarmonizer(splines []*Spline, heightmap *Heightmap, options ...func(*Harmonizer)) *Harmonizer {
	h := &Harmonizer{
		splines:         splines,
		heightmap:       heightmap,
		detectionRadius: defaultDetectionRadius,
		blendCurve:      BLEND_SMOOTHERSTEP,
		elevationFloor:  defaultElevationFloor,
		logger:          zap.NewNop(),
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// WithDetectionRadius overrides the global junction detection radius used for
// splines without their own
func WithDetectionRadius(radius float64) func(*Harmonizer) {
	return func(h *Harmonizer) {
		h.detectionRadius = radius
	}
}

// WithBlendCurve selects the shoulder falloff shape
func WithBlendCurve(curve BlendCurve) func(*Harmonizer) {
	return func(h *Harmonizer) {
		h.blendCurve = curve
	}
}

// WithElevationFloor overrides the sanity floor below which target elevations
// are treated as invalid
func WithElevationFloor(floor float64) func(*Harmonizer) {
	return func(h *Harmonizer) {
		h.elevationFloor = floor
	}
}

// WithSmoothing enables the cosmetic post-blend smoothing pass
func WithSmoothing(iterations int) func(*Harmonizer) {
	return func(h *Harmonizer) {
		h.smoothingIterations = iterations
	}
}

// WithRoundabout declares a ring spline so road endpoints near the ring connect
// through dedicated roundabout junctions
func WithRoundabout(splineID SplineID, center orb.Point, radius float64) func(*Harmonizer) {
	return func(h *Harmonizer) {
		h.roundabouts = append(h.roundabouts, roundaboutRing{splineID: splineID, center: center, radius: radius})
	}
}

// WithJunctionFilter excludes detected junctions from harmonization. The
// filter returns true for junctions to exclude; they stay in the output list
// with IsExcluded set.
func WithJunctionFilter(filter func(*Junction) bool) func(*Harmonizer) {
	return func(h *Harmonizer) {
		h.junctionFilter = filter
	}
}

// WithLogger attaches a structured logger to every stage
func WithLogger(logger *zap.Logger) func(*Harmonizer) {
	return func(h *Harmonizer) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Result carries the final heightmap and every intermediate product of a run
type Result struct {
	Junctions     []*Junction
	Heightmap     *Heightmap
	Masks         *RoadMasks
	DistanceField *DistanceField
	Stats         BlendStats
}

// DetectJunctions runs only the detection stage. Useful for reporting tooling;
// Run performs its own detection.
func (h *Harmonizer) DetectJunctions() []*Junction {
	detector := newJunctionDetector(h.splines, h.detectionRadius, h.roundabouts, h.logger)
	junctions := detector.detect()
	if h.junctionFilter != nil {
		for _, junction := range junctions {
			if h.junctionFilter(junction) {
				junction.IsExcluded = true
			}
		}
	}
	return junctions
}

// Run executes the full pipeline. The input heightmap stays unmodified; the
// returned Result holds the painted copy.
func (h *Harmonizer) Run() (*Result, error) {
	if h.heightmap == nil {
		return nil, errors.New("No heightmap provided")
	}

	st := time.Now()
	junctions := h.DetectJunctions()
	h.logger.Info("Junctions detected", zap.Int("count", len(junctions)), zap.Duration("elapsed", time.Since(st)))

	st = time.Now()
	newBankingCalculator(h.splines, junctions, h.logger).run()
	h.logger.Info("Banking resolved", zap.Duration("elapsed", time.Since(st)))

	st = time.Now()
	if err := newJunctionBankingAdapter(h.splines, junctions, h.logger).run(); err != nil {
		return nil, errors.Wrap(err, "Can't adapt junction elevations")
	}
	h.logger.Info("Junction elevations adapted", zap.Duration("elapsed", time.Since(st)))

	st = time.Now()
	masks := newMaskBuilder(h.splines, h.heightmap, h.elevationFloor, h.logger).build()
	h.logger.Info("Road masks built", zap.Duration("elapsed", time.Since(st)))

	st = time.Now()
	field, err := ComputeDistanceField(masks.Core, masks.Width, masks.Height, h.heightmap.MetersPerPixel)
	if err != nil {
		return nil, errors.Wrap(err, "Can't compute distance field")
	}
	h.logger.Info("Distance field computed", zap.Duration("elapsed", time.Since(st)))

	st = time.Now()
	painted := h.heightmap.Clone()
	stats, err := newBlendProcessor(h.splines, h.blendCurve, h.logger).run(painted, masks, field)
	if err != nil {
		return nil, errors.Wrap(err, "Can't blend heightmap")
	}
	h.logger.Info("Heightmap blended",
		zap.Int64("core_pixels", stats.CorePixels),
		zap.Int64("shoulder_pixels", stats.ShoulderPixels),
		zap.Duration("elapsed", time.Since(st)))

	if h.smoothingIterations > 0 {
		st = time.Now()
		smoothRoadRegion(painted, masks, field, h.splines, h.smoothingIterations, h.logger)
		h.logger.Info("Road region smoothed", zap.Duration("elapsed", time.Since(st)))
	}

	return &Result{
		Junctions:     junctions,
		Heightmap:     painted,
		Masks:         masks,
		DistanceField: field,
		Stats:         stats,
	}, nil
}

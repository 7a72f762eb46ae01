package roads2dem

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Contributor elevations closer than this already agree and are left alone
	elevationSpreadTolerance = 0.05
)

// junctionBankingAdapter mutates target elevations so lower-priority roads ramp
// onto dominant banked surfaces and equal-priority roads meet at a shared
// elevation. It only ever touches cross-sections carrying the matching behavior.
type junctionBankingAdapter struct {
	splines   []*Spline
	junctions []*Junction
	logger    *zap.Logger

	splinesByID map[SplineID]*Spline
}

func newJunctionBankingAdapter(splines []*Spline, junctions []*Junction, logger *zap.Logger) *junctionBankingAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	byID := make(map[SplineID]*Spline, len(splines))
	for _, spline := range splines {
		byID[spline.ID] = spline
	}
	return &junctionBankingAdapter{
		splines:     splines,
		junctions:   junctions,
		logger:      logger,
		splinesByID: byID,
	}
}

// run performs both adaptation passes and refreshes edge elevations
func (adapter *junctionBankingAdapter) run() error {
	if err := adapter.adaptToHigherPriority(); err != nil {
		return err
	}
	adapter.smoothEqualPriority()
	for _, spline := range adapter.splines {
		halfWidth := spline.HalfWidth()
		for _, cs := range spline.CrossSections {
			cs.updateEdgeElevations(halfWidth)
		}
	}
	return nil
}

// adaptToHigherPriority ramps every adapting spline onto the banked surface of
// its dominant road. The elevation offset is fully applied at the junction and
// fades to nothing at the transition boundary along a quintic curve, so neither
// elevation nor slope jumps where the roads meet.
func (adapter *junctionBankingAdapter) adaptToHigherPriority() error {
	for _, spline := range adapter.splines {
		adaptingByDominant := make(map[SplineID][]*CrossSection)
		for _, cs := range spline.CrossSections {
			if cs.JunctionBankingBehavior != BANKING_ADAPT_TO_HIGHER {
				continue
			}
			adaptingByDominant[cs.HigherPrioritySplineID] = append(adaptingByDominant[cs.HigherPrioritySplineID], cs)
		}
		for _, dominantID := range splineIDsOf(adaptingByDominant) {
			dominant, ok := adapter.splinesByID[dominantID]
			if !ok {
				return errors.Errorf("Dominant spline %d not found while adapting spline %d", dominantID, spline.ID)
			}
			if err := adapter.rampOntoDominant(spline, dominant, adaptingByDominant[dominantID]); err != nil {
				return err
			}
		}
	}
	return nil
}

func splineIDsOf(m map[SplineID][]*CrossSection) []SplineID {
	ids := make([]SplineID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

func (adapter *junctionBankingAdapter) rampOntoDominant(spline, dominant *Spline, adapting []*CrossSection) error {
	if len(adapting) == 0 || len(dominant.CrossSections) == 0 {
		return nil
	}
	// The adapting cross-section nearest to the dominant centerline is where
	// both surfaces must agree
	var meetCS *CrossSection
	var meetDominantCS *CrossSection
	meetDist := math.MaxFloat64
	for _, cs := range adapting {
		domCS, dist := dominant.ClosestCrossSection(cs.CenterPoint)
		if dist < meetDist {
			meetCS = cs
			meetDominantCS = domCS
			meetDist = dist
		}
	}
	if meetCS == nil || meetDominantCS == nil {
		return nil
	}

	lateral := lateralOffset(meetCS.CenterPoint, meetDominantCS.CenterPoint, meetDominantCS.NormalDirection)
	surfaceElevation := meetDominantCS.SurfaceElevationAt(lateral)
	offset := surfaceElevation - meetCS.TargetElevation
	if math.Abs(offset) < 1e-12 {
		return nil
	}
	adapter.logger.Debug("Ramping spline onto dominant surface",
		zap.Int("spline_id", int(spline.ID)),
		zap.Int("dominant_spline_id", int(dominant.ID)),
		zap.Float64("elevation_offset", offset))

	transition := transitionDistanceFor(spline)
	for _, cs := range adapting {
		t := clamp(cs.DistanceToNearestJunction/transition, 0.0, 1.0)
		weight := 1.0 - smootherStep(t)
		cs.TargetElevation += offset * weight
	}

	// Pin the meeting cross-section's edges to the dominant banked surface
	halfWidth := spline.HalfWidth()
	leftLateral := lateralOffset(meetCS.LeftEdgePoint(halfWidth), meetDominantCS.CenterPoint, meetDominantCS.NormalDirection)
	rightLateral := lateralOffset(meetCS.RightEdgePoint(halfWidth), meetDominantCS.CenterPoint, meetDominantCS.NormalDirection)
	meetCS.ConstrainedLeftEdgeElevation = NewOptionalElevation(meetDominantCS.SurfaceElevationAt(leftLateral))
	meetCS.ConstrainedRightEdgeElevation = NewOptionalElevation(meetDominantCS.SurfaceElevationAt(rightLateral))
	return nil
}

// smoothEqualPriority pulls all contributors of an equal-priority junction
// toward their shared average elevation at the junction, leaving elevations
// beyond the reduced transition distance unchanged
func (adapter *junctionBankingAdapter) smoothEqualPriority() {
	for _, junction := range adapter.junctions {
		if junction.IsExcluded || !junction.resolvedTie || len(junction.Contributors) < 2 {
			continue
		}
		sum := 0.0
		lowest := math.MaxFloat64
		highest := -math.MaxFloat64
		for _, contributor := range junction.Contributors {
			elevation := contributor.CrossSection.TargetElevation
			sum += elevation
			lowest = math.Min(lowest, elevation)
			highest = math.Max(highest, elevation)
		}
		if highest-lowest <= elevationSpreadTolerance {
			continue
		}
		average := sum / float64(len(junction.Contributors))
		transition := junction.tieTransition
		for _, contributor := range junction.Contributors {
			offset := average - contributor.CrossSection.TargetElevation
			if offset == 0 {
				continue
			}
			for _, cs := range contributor.Spline.crossSectionsWithin(junction.Position, transition) {
				if cs.JunctionBankingBehavior != BANKING_SUPPRESS {
					continue
				}
				dist := findDistance(cs.CenterPoint, junction.Position)
				weight := 1.0 - smootherStep(clamp(dist/transition, 0.0, 1.0))
				cs.TargetElevation += offset * weight
			}
		}
	}
}

package roads2dem

import (
	"math"

	"github.com/paulmach/orb"
)

// BankingBehavior describes how a cross-section resolves its superelevation
// around nearby junctions
type BankingBehavior uint16

const (
	// No junction influence, curvature-based banking applies as is
	BANKING_NORMAL = BankingBehavior(iota)
	// Unique highest priority road at a junction keeps its full banking
	BANKING_MAINTAIN
	// Lower priority road ramps its surface onto a dominant road
	BANKING_ADAPT_TO_HIGHER
	// Banking fades to flat: endpoints and equal-priority conflicts
	BANKING_SUPPRESS
)

func (iotaIdx BankingBehavior) String() string {
	return [...]string{"normal", "maintain_banking", "adapt_to_higher_priority", "suppress_banking"}[iotaIdx]
}

// OptionalElevation carries an elevation value which may be absent.
// Absence is a first-class state, not a sentinel float.
type OptionalElevation struct {
	value float64
	valid bool
}

// NewOptionalElevation returns a set elevation value
func NewOptionalElevation(value float64) OptionalElevation {
	return OptionalElevation{value: value, valid: true}
}

// Get returns the elevation value and whether it is set
func (opt OptionalElevation) Get() (float64, bool) {
	return opt.value, opt.valid
}

// IsSet reports whether the elevation value is present
func (opt OptionalElevation) IsSet() bool {
	return opt.valid
}

// CrossSection is a sample point along a spline's centerline. Geometry fields are
// produced by upstream extraction and never change; elevation and banking fields
// are mutated by the harmonization passes.
type CrossSection struct {
	SplineID            SplineID
	Index               int
	CenterPoint         orb.Point
	TangentDirection    orb.Point
	NormalDirection     orb.Point
	DistanceAlongSpline float64
	Curvature           float64

	TargetElevation    float64
	BankAngle          float64
	LeftEdgeElevation  float64
	RightEdgeElevation float64

	ConstrainedLeftEdgeElevation  OptionalElevation
	ConstrainedRightEdgeElevation OptionalElevation

	JunctionBankingBehavior   BankingBehavior
	JunctionBankingFactor     float64
	HigherPrioritySplineID    SplineID
	DistanceToNearestJunction float64
}

// NewCrossSection builds a cross-section with neutral banking and no junction influence
func NewCrossSection(splineID SplineID, index int, center, tangent orb.Point, distanceAlong, curvature, targetElevation float64) *CrossSection {
	unitTangent := normalizeVector(tangent)
	return &CrossSection{
		SplineID:                  splineID,
		Index:                     index,
		CenterPoint:               center,
		TangentDirection:          unitTangent,
		NormalDirection:           rotate90(unitTangent),
		DistanceAlongSpline:       distanceAlong,
		Curvature:                 curvature,
		TargetElevation:           targetElevation,
		BankAngle:                 0.0,
		JunctionBankingBehavior:   BANKING_NORMAL,
		JunctionBankingFactor:     1.0,
		HigherPrioritySplineID:    -1,
		DistanceToNearestJunction: math.MaxFloat64,
	}
}

// LeftEdgePoint returns the left road edge for given half width.
// Left lies opposite to the normal direction.
func (cs *CrossSection) LeftEdgePoint(halfWidth float64) orb.Point {
	return orb.Point{
		cs.CenterPoint[0] - cs.NormalDirection[0]*halfWidth,
		cs.CenterPoint[1] - cs.NormalDirection[1]*halfWidth,
	}
}

// RightEdgePoint returns the right road edge for given half width
func (cs *CrossSection) RightEdgePoint(halfWidth float64) orb.Point {
	return orb.Point{
		cs.CenterPoint[0] + cs.NormalDirection[0]*halfWidth,
		cs.CenterPoint[1] + cs.NormalDirection[1]*halfWidth,
	}
}

// SurfaceElevationAt returns the banked surface elevation at given signed lateral
// offset from the centerline. Positive bank angle raises the normal-direction side.
func (cs *CrossSection) SurfaceElevationAt(offset float64) float64 {
	return cs.TargetElevation + offset*math.Sin(cs.BankAngle)
}

// updateEdgeElevations recomputes both edge elevations from the current target
// elevation and bank angle. Constrained edges win over the computed values.
func (cs *CrossSection) updateEdgeElevations(halfWidth float64) {
	cs.LeftEdgeElevation = cs.SurfaceElevationAt(-halfWidth)
	cs.RightEdgeElevation = cs.SurfaceElevationAt(halfWidth)
	if v, ok := cs.ConstrainedLeftEdgeElevation.Get(); ok {
		cs.LeftEdgeElevation = v
	}
	if v, ok := cs.ConstrainedRightEdgeElevation.Get(); ok {
		cs.RightEdgeElevation = v
	}
}

package roads2dem

import (
	"sort"

	"github.com/paulmach/orb"
)

type SplineID int

// Spline is an identified road centerline with its ordered cross-sections and
// harmonization parameters. Geometry is immutable once constructed by upstream
// extraction; only elevation and banking annotations of the owned cross-sections
// change during harmonization.
type Spline struct {
	ID       SplineID
	Class    RoadClass
	Priority int

	DetectionRadius float64
	RoadWidth       float64
	MaxBankAngle    float64
	BankingStrength float64
	BlendRange      float64
	DesignSpeed     float64

	CrossSections []*CrossSection
}

// NewSpline builds a spline with per-class default parameters
func NewSpline(id SplineID, class RoadClass, crossSections []*CrossSection) *Spline {
	spline := &Spline{
		ID:              id,
		Class:           class,
		Priority:        priorityByRoadClass[class],
		DetectionRadius: detectionRadiusByRoadClass[class],
		RoadWidth:       widthByRoadClass[class],
		MaxBankAngle:    maxBankAngleByRoadClass[class],
		BankingStrength: 1.0,
		BlendRange:      blendRangeByRoadClass[class],
		DesignSpeed:     designSpeedByRoadClass[class],
		CrossSections:   crossSections,
	}
	for _, cs := range crossSections {
		cs.SplineID = id
	}
	return spline
}

// HalfWidth returns half of the occupied road width
func (spline *Spline) HalfWidth() float64 {
	return spline.RoadWidth / 2.0
}

// FirstCrossSection returns the cross-section at the spline start or nil for an empty spline
func (spline *Spline) FirstCrossSection() *CrossSection {
	if len(spline.CrossSections) == 0 {
		return nil
	}
	return spline.CrossSections[0]
}

// LastCrossSection returns the cross-section at the spline end or nil for an empty spline
func (spline *Spline) LastCrossSection() *CrossSection {
	if len(spline.CrossSections) == 0 {
		return nil
	}
	return spline.CrossSections[len(spline.CrossSections)-1]
}

// StartPoint returns the world position of the spline start
func (spline *Spline) StartPoint() orb.Point {
	if cs := spline.FirstCrossSection(); cs != nil {
		return cs.CenterPoint
	}
	return orb.Point{}
}

// EndPoint returns the world position of the spline end
func (spline *Spline) EndPoint() orb.Point {
	if cs := spline.LastCrossSection(); cs != nil {
		return cs.CenterPoint
	}
	return orb.Point{}
}

// ClosestCrossSection returns the cross-section nearest to given point and its
// distance. Returns nil for an empty spline.
func (spline *Spline) ClosestCrossSection(pt orb.Point) (*CrossSection, float64) {
	var closest *CrossSection
	closestDist := 0.0
	for _, cs := range spline.CrossSections {
		dist := findDistance(cs.CenterPoint, pt)
		if closest == nil || dist < closestDist {
			closest = cs
			closestDist = dist
		}
	}
	return closest, closestDist
}

// crossSectionsWithin returns all cross-sections whose centers lie within given
// radius of pt
func (spline *Spline) crossSectionsWithin(pt orb.Point, radius float64) []*CrossSection {
	result := []*CrossSection{}
	for _, cs := range spline.CrossSections {
		if findDistance(cs.CenterPoint, pt) <= radius {
			result = append(result, cs)
		}
	}
	return result
}

// splinesToSlice returns spline identifiers in ascending order for deterministic loops
func splinesToSlice(splines map[SplineID]*Spline) []SplineID {
	ids := make([]SplineID, 0, len(splines))
	for id := range splines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

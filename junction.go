package roads2dem

import (
	"github.com/paulmach/orb"
)

type JunctionID int

type JunctionType uint16

const (
	JUNCTION_ENDPOINT = JunctionType(iota + 1)
	JUNCTION_T
	JUNCTION_Y
	JUNCTION_CROSSROADS
	JUNCTION_COMPLEX
	JUNCTION_MID_SPLINE_CROSSING
	JUNCTION_ROUNDABOUT
)

func (iotaIdx JunctionType) String() string {
	return [...]string{"endpoint", "t_junction", "y_junction", "crossroads", "complex", "mid_spline_crossing", "roundabout"}[iotaIdx-1]
}

// RoundaboutDirection describes how a connecting road relates to a roundabout ring
type RoundaboutDirection uint16

const (
	ROUNDABOUT_NONE = RoundaboutDirection(iota)
	ROUNDABOUT_INBOUND
	ROUNDABOUT_OUTBOUND
	ROUNDABOUT_BIDIRECTIONAL
)

func (iotaIdx RoundaboutDirection) String() string {
	return [...]string{"none", "inbound", "outbound", "bidirectional"}[iotaIdx]
}

// JunctionContributor is the presence of one spline at a junction through a
// concrete cross-section
type JunctionContributor struct {
	Spline        *Spline
	CrossSection  *CrossSection
	IsSplineStart bool
	IsSplineEnd   bool
}

// IsEndpoint reports whether the spline terminates at this junction
func (contributor *JunctionContributor) IsEndpoint() bool {
	return contributor.IsSplineStart || contributor.IsSplineEnd
}

// IsContinuous reports whether the spline passes through without terminating here
func (contributor *JunctionContributor) IsContinuous() bool {
	return !contributor.IsEndpoint()
}

// Junction is a detected meeting point of one or more splines
type Junction struct {
	ID              JunctionID
	Type            JunctionType
	Position        orb.Point
	Contributors    []*JunctionContributor
	DetectionRadius float64
	IsExcluded      bool

	// Roundabout connections only
	RingSplineID    SplineID
	AngularPosition float64
	Direction       RoundaboutDirection

	// Set by the banking pass when the highest priority is shared
	resolvedTie   bool
	tieTransition float64
}

// distinctSplines returns identifiers of all participating splines in ascending order
func (junction *Junction) distinctSplines() []SplineID {
	seen := make(map[SplineID]*Spline, len(junction.Contributors))
	for _, contributor := range junction.Contributors {
		seen[contributor.Spline.ID] = contributor.Spline
	}
	return splinesToSlice(seen)
}

// participants returns distinct participating splines in ascending identifier order
func (junction *Junction) participants() []*Spline {
	seen := make(map[SplineID]*Spline, len(junction.Contributors))
	for _, contributor := range junction.Contributors {
		seen[contributor.Spline.ID] = contributor.Spline
	}
	splines := make([]*Spline, 0, len(seen))
	for _, id := range splinesToSlice(seen) {
		splines = append(splines, seen[id])
	}
	return splines
}

// hasContinuousContributor reports whether any spline passes through this junction
func (junction *Junction) hasContinuousContributor() bool {
	for _, contributor := range junction.Contributors {
		if contributor.IsContinuous() {
			return true
		}
	}
	return false
}

// continuousContributorFor returns the continuous contributor of given spline if present
func (junction *Junction) continuousContributorFor(splineID SplineID) *JunctionContributor {
	for _, contributor := range junction.Contributors {
		if contributor.Spline.ID == splineID && contributor.IsContinuous() {
			return contributor
		}
	}
	return nil
}

// contributorFor returns any contributor of given spline if present
func (junction *Junction) contributorFor(splineID SplineID) *JunctionContributor {
	for _, contributor := range junction.Contributors {
		if contributor.Spline.ID == splineID {
			return contributor
		}
	}
	return nil
}

// recomputePosition sets junction position to the centroid of contributor centers
func (junction *Junction) recomputePosition() {
	pts := make([]orb.Point, len(junction.Contributors))
	for i, contributor := range junction.Contributors {
		pts[i] = contributor.CrossSection.CenterPoint
	}
	junction.Position = findCentroid(pts)
}

// classify assigns the junction type from its contributor set. Crossing and
// roundabout junctions keep their type assigned at creation.
func (junction *Junction) classify() {
	if junction.Type == JUNCTION_MID_SPLINE_CROSSING || junction.Type == JUNCTION_ROUNDABOUT {
		return
	}
	distinct := junction.distinctSplines()
	if len(distinct) == 1 && len(junction.Contributors) == 1 {
		junction.Type = JUNCTION_ENDPOINT
		return
	}
	if junction.hasContinuousContributor() {
		junction.Type = JUNCTION_T
		return
	}
	switch {
	case len(distinct) == 2:
		junction.Type = JUNCTION_Y
	case len(distinct) == 3 || len(distinct) == 4:
		junction.Type = JUNCTION_CROSSROADS
	default:
		junction.Type = JUNCTION_COMPLEX
	}
}

package roads2dem

import (
	"math"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// roundaboutRing is a caller-declared circular ring spline. Ring extraction
// itself happens upstream; here the ring only anchors connection junctions.
type roundaboutRing struct {
	splineID SplineID
	center   orb.Point
	radius   float64
}

// connectRoundabouts binds every spline endpoint lying within the detection
// band of a declared ring to the ring's nearest cross-section through a
// dedicated roundabout junction. The angular position around the ring and the
// travel direction of the connection are recorded for downstream use.
func (detector *junctionDetector) connectRoundabouts() []*Junction {
	junctions := []*Junction{}
	for _, ring := range detector.roundabouts {
		var ringSpline *Spline
		for _, spline := range detector.splines {
			if spline.ID == ring.splineID {
				ringSpline = spline
				break
			}
		}
		if ringSpline == nil || len(ringSpline.CrossSections) == 0 {
			detector.logger.Debug("Declared roundabout ring spline not found, skipping", zap.Int("spline_id", int(ring.splineID)))
			continue
		}
		ringRadius := detector.effectiveRadius(ringSpline)
		for _, spline := range detector.splines {
			if spline.ID == ring.splineID || len(spline.CrossSections) == 0 {
				continue
			}
			band := math.Max(ringRadius, detector.effectiveRadius(spline))
			first := spline.FirstCrossSection()
			last := spline.LastCrossSection()
			if first == last {
				if junction := detector.ringConnection(ring, ringSpline, spline, first, true, true, band); junction != nil {
					junctions = append(junctions, junction)
				}
				continue
			}
			if junction := detector.ringConnection(ring, ringSpline, spline, first, true, false, band); junction != nil {
				junctions = append(junctions, junction)
			}
			if junction := detector.ringConnection(ring, ringSpline, spline, last, false, true, band); junction != nil {
				junctions = append(junctions, junction)
			}
		}
	}
	return junctions
}

// ringConnection builds a roundabout junction for one endpoint when it falls
// within the ring band, nil otherwise
func (detector *junctionDetector) ringConnection(ring roundaboutRing, ringSpline, spline *Spline, endpoint *CrossSection, isStart, isEnd bool, band float64) *Junction {
	distToCenter := findDistance(endpoint.CenterPoint, ring.center)
	if math.Abs(distToCenter-ring.radius) > band {
		return nil
	}
	ringCS, _ := ringSpline.ClosestCrossSection(endpoint.CenterPoint)
	direction := ROUNDABOUT_BIDIRECTIONAL
	if !(isStart && isEnd) {
		if isEnd {
			direction = ROUNDABOUT_INBOUND
		} else {
			direction = ROUNDABOUT_OUTBOUND
		}
	}
	ringContributor := &JunctionContributor{
		Spline:        ringSpline,
		CrossSection:  ringCS,
		IsSplineStart: ringCS.Index == 0,
		IsSplineEnd:   ringCS.Index == len(ringSpline.CrossSections)-1,
	}
	return &Junction{
		Type:            JUNCTION_ROUNDABOUT,
		DetectionRadius: band,
		RingSplineID:    ring.splineID,
		AngularPosition: math.Atan2(endpoint.CenterPoint[1]-ring.center[1], endpoint.CenterPoint[0]-ring.center[0]),
		Direction:       direction,
		Contributors: []*JunctionContributor{
			{Spline: spline, CrossSection: endpoint, IsSplineStart: isStart, IsSplineEnd: isEnd},
			ringContributor,
		},
	}
}

package roads2dem

import (
	"math"

	"go.uber.org/zap"
)

const (
	gravity = 9.81

	// Transition distances around junctions
	transitionWidthFactor    = 3.0
	transitionMinimum        = 20.0
	tieTransitionWidthFactor = 1.5
	tieTransitionMinimum     = 10.0
)

// naturalBankAngle returns the curvature-based superelevation for a cross-section:
// a design-speed law clamped to the class maximum. The sign raises the outer edge
// of the bend, and the normal direction points to the left of travel, so a left
// bend (positive curvature) tilts the normal side down.
func naturalBankAngle(spline *Spline, cs *CrossSection) float64 {
	if cs.Curvature == 0 || spline.BankingStrength == 0 {
		return 0.0
	}
	angle := math.Atan(spline.DesignSpeed*spline.DesignSpeed*math.Abs(cs.Curvature)/gravity) * spline.BankingStrength
	if angle > spline.MaxBankAngle {
		angle = spline.MaxBankAngle
	}
	if cs.Curvature > 0 {
		return -angle
	}
	return angle
}

// transitionDistanceFor returns how far from a junction its banking influence reaches
func transitionDistanceFor(spline *Spline) float64 {
	return math.Max(transitionWidthFactor*spline.RoadWidth, transitionMinimum)
}

// tieTransitionDistanceFor returns the reduced reach used for equal-priority
// conflicts, sized from the widest participating road so local ties do not
// bleed suppression across the wider network
func tieTransitionDistanceFor(participants []*Spline) float64 {
	widest := 0.0
	for _, spline := range participants {
		if spline.RoadWidth > widest {
			widest = spline.RoadWidth
		}
	}
	return math.Max(tieTransitionWidthFactor*widest, tieTransitionMinimum)
}

// splineInfluence is one junction's resolved effect on one spline
type splineInfluence struct {
	spline     *Spline
	behavior   BankingBehavior
	higher     SplineID
	transition float64
}

// bankingCalculator resolves priority conflicts at junctions into a banking
// behavior and blend factor per cross-section
type bankingCalculator struct {
	splines   []*Spline
	junctions []*Junction
	logger    *zap.Logger
}

func newBankingCalculator(splines []*Spline, junctions []*Junction, logger *zap.Logger) *bankingCalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bankingCalculator{splines: splines, junctions: junctions, logger: logger}
}

// run assigns natural banking everywhere, resolves every junction, then scales
// bank angles by the resulting blend factors
func (calculator *bankingCalculator) run() {
	for _, spline := range calculator.splines {
		for _, cs := range spline.CrossSections {
			cs.BankAngle = naturalBankAngle(spline, cs)
		}
	}
	for _, junction := range calculator.junctions {
		if junction.IsExcluded {
			continue
		}
		calculator.resolveJunction(junction)
	}
	calculator.applyFactors()
}

// resolveJunction picks behaviors for every participating spline and spreads
// them over cross-sections within the transition distance
func (calculator *bankingCalculator) resolveJunction(junction *Junction) {
	participants := junction.participants()
	if len(participants) == 0 {
		return
	}
	influences := []splineInfluence{}
	if len(participants) == 1 {
		influences = append(influences, splineInfluence{
			spline:     participants[0],
			behavior:   BANKING_SUPPRESS,
			higher:     -1,
			transition: transitionDistanceFor(participants[0]),
		})
	} else {
		topPriority := participants[0].Priority
		for _, spline := range participants[1:] {
			if spline.Priority > topPriority {
				topPriority = spline.Priority
			}
		}
		topGroup := []*Spline{}
		for _, spline := range participants {
			if spline.Priority == topPriority {
				topGroup = append(topGroup, spline)
			}
		}
		if len(topGroup) > 1 {
			// Equal-priority conflict: everything at this junction flattens out
			// within the reduced reach
			tieDistance := tieTransitionDistanceFor(participants)
			junction.resolvedTie = true
			junction.tieTransition = tieDistance
			for _, spline := range participants {
				influences = append(influences, splineInfluence{
					spline:     spline,
					behavior:   BANKING_SUPPRESS,
					higher:     -1,
					transition: tieDistance,
				})
			}
		} else {
			dominant := topGroup[0]
			influences = append(influences, splineInfluence{
				spline:     dominant,
				behavior:   BANKING_MAINTAIN,
				higher:     -1,
				transition: transitionDistanceFor(dominant),
			})
			for _, spline := range participants {
				if spline.ID == dominant.ID {
					continue
				}
				influences = append(influences, splineInfluence{
					spline:     spline,
					behavior:   BANKING_ADAPT_TO_HIGHER,
					higher:     dominant.ID,
					transition: transitionDistanceFor(spline),
				})
			}
		}
	}

	for _, influence := range influences {
		calculator.spreadInfluence(junction, influence)
	}
}

// spreadInfluence writes behavior and blend factor onto every cross-section of
// the spline within the transition distance. The factor rises from 0 at the
// junction to 1 at the boundary along a cosine S-curve. When several junctions
// reach the same cross-section, the closer influence (strictly lower factor) wins.
func (calculator *bankingCalculator) spreadInfluence(junction *Junction, influence splineInfluence) {
	for _, cs := range influence.spline.crossSectionsWithin(junction.Position, influence.transition) {
		dist := findDistance(cs.CenterPoint, junction.Position)
		if dist < cs.DistanceToNearestJunction {
			cs.DistanceToNearestJunction = dist
		}
		factor := cosineStep(dist / influence.transition)
		if cs.JunctionBankingBehavior != BANKING_NORMAL && factor >= cs.JunctionBankingFactor {
			continue
		}
		cs.JunctionBankingBehavior = influence.behavior
		cs.JunctionBankingFactor = factor
		cs.HigherPrioritySplineID = influence.higher
	}
}

// applyFactors scales bank angles by the blend factor wherever junction
// influence fades or reshapes the banking. Maintained and untouched
// cross-sections keep their full curvature-based angle.
func (calculator *bankingCalculator) applyFactors() {
	for _, spline := range calculator.splines {
		for _, cs := range spline.CrossSections {
			switch cs.JunctionBankingBehavior {
			case BANKING_SUPPRESS, BANKING_ADAPT_TO_HIGHER:
				cs.BankAngle *= cs.JunctionBankingFactor
			}
		}
	}
}

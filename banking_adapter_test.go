package roads2dem

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestRampOntoDominant(t *testing.T) {
	dominant := buildStraightSpline(0, ROAD_SECONDARY, orb.Point{-40, 0}, orb.Point{40, 0}, 2.0, 10.0)
	minor := buildStraightSpline(1, ROAD_RESIDENTIAL, orb.Point{0, 2}, orb.Point{0, 40}, 2.0, 0.0)
	splines := []*Spline{dominant, minor}
	junctions := newJunctionDetector(splines, defaultDetectionRadius, nil, nil).detect()
	newBankingCalculator(splines, junctions, nil).run()
	if err := newJunctionBankingAdapter(splines, junctions, nil).run(); err != nil {
		t.Error(err)
		return
	}

	// The dominant road never moves
	for i, cs := range dominant.CrossSections {
		if cs.TargetElevation != 10.0 {
			t.Errorf("Dominant section %d should stay at 10.0, but got %f", i, cs.TargetElevation)
		}
	}

	// The minor road meets the dominant surface at the junction
	meetCS := minor.FirstCrossSection()
	if meetCS.TargetElevation < 9.9 || meetCS.TargetElevation > 10.0 {
		t.Errorf("Meeting section should rise to the dominant elevation, but got %f", meetCS.TargetElevation)
	}
	if !meetCS.ConstrainedLeftEdgeElevation.IsSet() || !meetCS.ConstrainedRightEdgeElevation.IsSet() {
		t.Errorf("Meeting section edges should be pinned to the dominant surface")
	}
	if left, _ := meetCS.ConstrainedLeftEdgeElevation.Get(); left != 10.0 {
		t.Errorf("Pinned left edge should be 10.0 on a flat dominant road, but got %f", left)
	}

	// Elevation fades monotonically away from the junction and ends untouched
	for i := 0; i < len(minor.CrossSections)-1; i++ {
		if minor.CrossSections[i].TargetElevation < minor.CrossSections[i+1].TargetElevation-1e-9 {
			t.Errorf("Ramp should fade monotonically, but section %d is below section %d", i, i+1)
		}
	}
	farCS, _ := minor.ClosestCrossSection(orb.Point{0, 30})
	if farCS.TargetElevation != 0.0 {
		t.Errorf("Section beyond the transition should stay at 0.0, but got %f", farCS.TargetElevation)
	}
}

func TestEqualPrioritySmoothing(t *testing.T) {
	splines := []*Spline{
		buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{0, 0}, orb.Point{-30, -20}, 2.0, 10.0),
		buildStraightSpline(1, ROAD_RESIDENTIAL, orb.Point{1.5, 0}, orb.Point{30, -20}, 2.0, 11.0),
		buildStraightSpline(2, ROAD_RESIDENTIAL, orb.Point{0.75, 1.3}, orb.Point{0.75, 40}, 2.0, 12.0),
	}
	junctions := newJunctionDetector(splines, defaultDetectionRadius, nil, nil).detect()
	newBankingCalculator(splines, junctions, nil).run()
	if err := newJunctionBankingAdapter(splines, junctions, nil).run(); err != nil {
		t.Error(err)
		return
	}

	meeting := junctionOfType(junctions, JUNCTION_CROSSROADS)
	if meeting == nil {
		t.Errorf("Crossroads junction not found")
		return
	}
	if !meeting.resolvedTie {
		t.Errorf("Equal priorities should resolve as a tie")
	}
	average := 11.0
	for _, contributor := range meeting.Contributors {
		elevation := contributor.CrossSection.TargetElevation
		if !almostEqual(elevation, average, elevationSpreadTolerance) {
			t.Errorf("Spline %d should converge to %f at the junction, but got %f", contributor.Spline.ID, average, elevation)
		}
	}

	// Beyond the reduced transition the original elevations survive
	expected := []float64{10.0, 11.0, 12.0}
	for i, spline := range splines {
		if spline.LastCrossSection().TargetElevation != expected[i] {
			t.Errorf("Far end of spline %d should stay at %f, but got %f", spline.ID, expected[i], spline.LastCrossSection().TargetElevation)
		}
	}
}

func TestSmoothingSkippedWhenElevationsAgree(t *testing.T) {
	splines := []*Spline{
		buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{0, 0}, orb.Point{-30, -20}, 2.0, 10.0),
		buildStraightSpline(1, ROAD_RESIDENTIAL, orb.Point{1.5, 0}, orb.Point{30, -20}, 2.0, 10.0),
	}
	junctions := newJunctionDetector(splines, defaultDetectionRadius, nil, nil).detect()
	newBankingCalculator(splines, junctions, nil).run()
	if err := newJunctionBankingAdapter(splines, junctions, nil).run(); err != nil {
		t.Error(err)
		return
	}
	for _, spline := range splines {
		for i, cs := range spline.CrossSections {
			if cs.TargetElevation != 10.0 {
				t.Errorf("Spline %d section %d should stay at 10.0, but got %f", spline.ID, i, cs.TargetElevation)
			}
		}
	}
}

package roads2dem

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestNewSplineAppliesClassDefaults(t *testing.T) {
	spline := buildStraightSpline(3, ROAD_PRIMARY, orb.Point{0, 0}, orb.Point{40, 0}, 2.0, 0.0)
	if spline.Priority != priorityByRoadClass[ROAD_PRIMARY] {
		t.Errorf("Priority should default to %d, but got %d", priorityByRoadClass[ROAD_PRIMARY], spline.Priority)
	}
	if spline.RoadWidth != widthByRoadClass[ROAD_PRIMARY] {
		t.Errorf("Width should default to %f, but got %f", widthByRoadClass[ROAD_PRIMARY], spline.RoadWidth)
	}
	if spline.DetectionRadius != detectionRadiusByRoadClass[ROAD_PRIMARY] {
		t.Errorf("Detection radius should default to %f, but got %f", detectionRadiusByRoadClass[ROAD_PRIMARY], spline.DetectionRadius)
	}
	if spline.HalfWidth() != spline.RoadWidth/2.0 {
		t.Errorf("Half width should be %f, but got %f", spline.RoadWidth/2.0, spline.HalfWidth())
	}
	for _, cs := range spline.CrossSections {
		if cs.SplineID != spline.ID {
			t.Errorf("Cross-sections should be stamped with spline ID %d, but got %d", spline.ID, cs.SplineID)
		}
	}
}

func TestSplineEndpointsAndClosest(t *testing.T) {
	spline := buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{0, 0}, orb.Point{40, 0}, 2.0, 0.0)
	if spline.StartPoint() != (orb.Point{0, 0}) {
		t.Errorf("Start point should be (0, 0)")
	}
	if spline.EndPoint() != (orb.Point{40, 0}) {
		t.Errorf("End point should be (40, 0)")
	}
	cs, dist := spline.ClosestCrossSection(orb.Point{11, 3})
	if cs.CenterPoint[0] != 10.0 {
		t.Errorf("Closest cross-section should be at x=10, but got x=%f", cs.CenterPoint[0])
	}
	if !almostEqual(dist, findDistance(orb.Point{11, 3}, orb.Point{10, 0}), 1e-12) {
		t.Errorf("Closest distance mismatch: %f", dist)
	}
}

func TestCrossSectionsWithin(t *testing.T) {
	spline := buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{0, 0}, orb.Point{40, 0}, 2.0, 0.0)
	within := spline.crossSectionsWithin(orb.Point{20, 0}, 5.0)
	if len(within) != 5 {
		t.Errorf("Should find 5 cross-sections within 5 meters, but got %d", len(within))
	}
	for _, cs := range within {
		if findDistance(cs.CenterPoint, orb.Point{20, 0}) > 5.0 {
			t.Errorf("Cross-section at x=%f is out of range", cs.CenterPoint[0])
		}
	}
}

func TestSplinesToSlice(t *testing.T) {
	seen := map[SplineID]*Spline{
		7: nil,
		2: nil,
		5: nil,
	}
	ids := splinesToSlice(seen)
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 5 || ids[2] != 7 {
		t.Errorf("IDs should be sorted ascending, but got %v", ids)
	}
}

func TestEnumStrings(t *testing.T) {
	if ROAD_MOTORWAY.String() != "motorway" {
		t.Errorf("Road class string mismatch: %s", ROAD_MOTORWAY.String())
	}
	if JUNCTION_MID_SPLINE_CROSSING.String() != "mid_spline_crossing" {
		t.Errorf("Junction type string mismatch: %s", JUNCTION_MID_SPLINE_CROSSING.String())
	}
	if BANKING_ADAPT_TO_HIGHER.String() != "adapt_to_higher_priority" {
		t.Errorf("Banking behavior string mismatch: %s", BANKING_ADAPT_TO_HIGHER.String())
	}
	if BLEND_SMOOTHERSTEP.String() != "smootherstep" {
		t.Errorf("Blend curve string mismatch: %s", BLEND_SMOOTHERSTEP.String())
	}
	if ROUNDABOUT_INBOUND.String() != "inbound" {
		t.Errorf("Roundabout direction string mismatch: %s", ROUNDABOUT_INBOUND.String())
	}
}

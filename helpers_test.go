package roads2dem

import (
	"math"

	"github.com/paulmach/orb"
)

// buildStraightSpline builds a straight test road with evenly spaced
// cross-sections and a uniform target elevation
func buildStraightSpline(id SplineID, class RoadClass, from, to orb.Point, spacing, elevation float64) *Spline {
	length := findDistance(from, to)
	steps := int(length/spacing) + 1
	points := make([]orb.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		fraction := float64(i) * spacing / length
		if fraction > 1 {
			fraction = 1
		}
		points = append(points, pointOnSegmentByFraction(from, to, fraction))
		if fraction == 1 {
			break
		}
	}
	crossSections := buildCrossSections(points, nil)
	for _, cs := range crossSections {
		cs.TargetElevation = elevation
	}
	return NewSpline(id, class, crossSections)
}

// buildArcSpline builds a circular arc road so cross-sections carry curvature
func buildArcSpline(id SplineID, class RoadClass, center orb.Point, radius, fromAngle, toAngle, angleStep, elevation float64) *Spline {
	points := []orb.Point{}
	for angle := fromAngle; angle <= toAngle+1e-9; angle += angleStep {
		points = append(points, orb.Point{
			center[0] + radius*math.Cos(angle),
			center[1] + radius*math.Sin(angle),
		})
	}
	crossSections := buildCrossSections(points, nil)
	for _, cs := range crossSections {
		cs.TargetElevation = elevation
	}
	return NewSpline(id, class, crossSections)
}

// flatHeightmap builds a grid filled with a constant elevation
func flatHeightmap(width, height int, metersPerPixel, elevation float64) *Heightmap {
	hm, err := NewHeightmap(width, height, metersPerPixel)
	if err != nil {
		panic(err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hm.Set(x, y, elevation)
		}
	}
	return hm
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

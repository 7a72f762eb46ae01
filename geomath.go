package roads2dem

import (
	"math"

	"github.com/paulmach/orb"
)

// findDistance returns distance between two points (Euclidean plane, meters)
func findDistance(p, q orb.Point) float64 {
	xdistance := p[0] - q[0]
	ydistance := p[1] - q[1]
	return math.Sqrt(xdistance*xdistance + ydistance*ydistance)
}

// findCentroid returns center of mass for given set of points
func findCentroid(pts []orb.Point) orb.Point {
	totalPoints := len(pts)
	if totalPoints == 0 {
		return orb.Point{}
	}
	if totalPoints == 1 {
		return pts[0]
	}
	x, y := 0.0, 0.0
	for i := 0; i < totalPoints; i++ {
		x += pts[i][0]
		y += pts[i][1]
	}
	return orb.Point{x / float64(totalPoints), y / float64(totalPoints)}
}

// pointOnSegmentByFraction returns a point on given segment using known fraction
func pointOnSegmentByFraction(p, q orb.Point, fraction float64) orb.Point {
	return orb.Point{
		(1-fraction)*p[0] + fraction*q[0],
		(1-fraction)*p[1] + fraction*q[1],
	}
}

// middlePointSegment returns middle point for given segment
func middlePointSegment(p, q orb.Point) orb.Point {
	return pointOnSegmentByFraction(p, q, 0.5)
}

// projectOnSegment returns fraction of the projection of point pt onto segment [a;b]
// clamped to [0;1] and the projected point itself
func projectOnSegment(pt, a, b orb.Point) (float64, orb.Point) {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return 0.0, a
	}
	t := ((pt[0]-a[0])*dx + (pt[1]-a[1])*dy) / segLenSq
	t = clamp(t, 0.0, 1.0)
	return t, orb.Point{a[0] + t*dx, a[1] + t*dy}
}

// lateralOffset returns signed distance from point pt to the line through origin
// along direction normal. Positive values lie on the normal side.
func lateralOffset(pt, origin, normal orb.Point) float64 {
	return (pt[0]-origin[0])*normal[0] + (pt[1]-origin[1])*normal[1]
}

// normalizeVector returns unit vector for given one. Zero vector stays zero.
func normalizeVector(v orb.Point) orb.Point {
	length := math.Sqrt(v[0]*v[0] + v[1]*v[1])
	if length == 0 {
		return orb.Point{}
	}
	return orb.Point{v[0] / length, v[1] / length}
}

// rotate90 returns given vector rotated by 90 degrees counter-clockwise
func rotate90(v orb.Point) orb.Point {
	return orb.Point{-v[1], v[0]}
}

// clamp limits value to [low;high]
func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// lerp returns linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// cosineStep returns smoothed S-curve value for t in [0;1]:
// 0 at the start, 1 at the end, zero first derivative at both ends
func cosineStep(t float64) float64 {
	return 0.5 - 0.5*math.Cos(t*math.Pi)
}

// smoothStep returns cubic Hermite smoothing for t in [0;1]
func smoothStep(t float64) float64 {
	return t * t * (3.0 - 2.0*t)
}

// smootherStep returns quintic smoothing for t in [0;1]:
// zero first and second derivative at both ends
func smootherStep(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

// calcThreePointCurvature returns signed curvature (1/meters) of the circle through
// three consecutive points. Positive curvature bends to the left of travel direction.
func calcThreePointCurvature(p0, p1, p2 orb.Point) float64 {
	a := findDistance(p0, p1)
	b := findDistance(p1, p2)
	c := findDistance(p0, p2)
	if a == 0 || b == 0 || c == 0 {
		return 0.0
	}
	// Doubled signed area of the triangle
	cross := (p1[0]-p0[0])*(p2[1]-p0[1]) - (p1[1]-p0[1])*(p2[0]-p0[0])
	if cross == 0 {
		return 0.0
	}
	return 2.0 * cross / (a * b * c)
}

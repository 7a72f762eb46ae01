package roads2dem

import (
	"testing"

	"github.com/paulmach/orb"
)

func buildBlendFixture(t *testing.T, splines []*Spline, width, height int, terrain float64) (*Heightmap, *RoadMasks, *DistanceField) {
	hm := flatHeightmap(width, height, 1.0, terrain)
	masks := newMaskBuilder(splines, hm, defaultElevationFloor, nil).build()
	field, err := ComputeDistanceField(masks.Core, width, height, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	return hm, masks, field
}

func TestBlendCoreProtection(t *testing.T) {
	// Two roads close enough that their shoulders overlap in the gap between them
	upper := buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{10, 16}, orb.Point{70, 16}, 2.0, 10.0)
	lower := buildStraightSpline(1, ROAD_RESIDENTIAL, orb.Point{10, 24}, orb.Point{70, 24}, 2.0, 4.0)
	splines := []*Spline{upper, lower}
	hm, masks, field := buildBlendFixture(t, splines, 80, 40, 0.0)

	stats, err := newBlendProcessor(splines, BLEND_SMOOTHERSTEP, nil).run(hm, masks, field)
	if err != nil {
		t.Error(err)
		return
	}
	coreCount := int64(0)
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			idx := y*hm.Width + x
			if !masks.Core[idx] {
				continue
			}
			coreCount++
			if hm.At(x, y) != masks.Elevation[idx] {
				t.Errorf("Core pixel (%d, %d) should be exactly %f, but got %f", x, y, masks.Elevation[idx], hm.At(x, y))
				return
			}
		}
	}
	if stats.CorePixels != coreCount {
		t.Errorf("Core pixel count should be %d, but got %d", coreCount, stats.CorePixels)
	}
	if stats.ModifiedPixels != stats.CorePixels+stats.ShoulderPixels {
		t.Errorf("Modified pixels should be core plus shoulder, but got %d", stats.ModifiedPixels)
	}
}

func TestBlendShoulderMonotonicFade(t *testing.T) {
	road := buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{10, 20}, orb.Point{70, 20}, 2.0, 10.0)
	splines := []*Spline{road}
	hm, masks, field := buildBlendFixture(t, splines, 80, 40, 0.0)
	if _, err := newBlendProcessor(splines, BLEND_SMOOTHERSTEP, nil).run(hm, masks, field); err != nil {
		t.Error(err)
		return
	}
	// Walking away from the road the surface descends from the road elevation
	// to the terrain and never rises again
	previous := hm.At(40, 20)
	if previous != 10.0 {
		t.Errorf("Center pixel should be 10.0, but got %f", previous)
	}
	for y := 21; y < 40; y++ {
		current := hm.At(40, y)
		if current > previous+1e-9 {
			t.Errorf("Elevation should fade monotonically, but rose from %f to %f at y=%d", previous, current, y)
		}
		previous = current
	}
	// From the end of the blend range outward the terrain is untouched
	reach := int(road.HalfWidth() + road.HalfWidth() + road.BlendRange)
	for y := 20 + reach; y < 40; y++ {
		if hm.At(40, y) != 0.0 {
			t.Errorf("Pixel (40, %d) should stay at terrain level, but got %f", y, hm.At(40, y))
		}
	}
}

func TestBlendStatsMatchPaintedArea(t *testing.T) {
	road := buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{10, 20}, orb.Point{70, 20}, 2.0, 10.0)
	splines := []*Spline{road}
	hm, masks, field := buildBlendFixture(t, splines, 80, 40, 0.0)
	stats, err := newBlendProcessor(splines, BLEND_LINEAR, nil).run(hm, masks, field)
	if err != nil {
		t.Error(err)
		return
	}
	// A pixel sitting exactly at the end of the blend range would receive the
	// unchanged terrain value, so it must stay out of the shoulder counters
	cutoff := road.HalfWidth() + road.BlendRange
	edgePixels := int64(0)
	painted := int64(0)
	for idx := range field.Dist {
		if masks.Core[idx] || field.Nearest[idx] < 0 {
			continue
		}
		if field.Dist[idx] == cutoff {
			edgePixels++
		}
		if field.Dist[idx] < cutoff {
			painted++
		}
	}
	if edgePixels == 0 {
		t.Errorf("Grid should contain pixels exactly at the blend cutoff")
	}
	if stats.ShoulderPixels != painted {
		t.Errorf("Shoulder pixel count should be %d, but got %d", painted, stats.ShoulderPixels)
	}
	if stats.ModifiedPixels != stats.CorePixels+painted {
		t.Errorf("Modified pixels should be core plus shoulder, but got %d", stats.ModifiedPixels)
	}
	if hm.At(40, 20+int(cutoff)+3) != 0.0 {
		t.Errorf("Pixel at the blend cutoff should stay at terrain level, but got %f", hm.At(40, 20+int(cutoff)+3))
	}
}

func TestBlendCurveShapes(t *testing.T) {
	curves := []BlendCurve{BLEND_LINEAR, BLEND_COSINE, BLEND_SMOOTHSTEP, BLEND_SMOOTHERSTEP}
	for _, curve := range curves {
		road := buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{10, 20}, orb.Point{70, 20}, 2.0, 10.0)
		splines := []*Spline{road}
		hm, masks, field := buildBlendFixture(t, splines, 80, 40, 0.0)
		if _, err := newBlendProcessor(splines, curve, nil).run(hm, masks, field); err != nil {
			t.Error(err)
			return
		}
		// Pixel (40, 28) sits 5 meters beyond the core edge at y=23, a quarter
		// of the way through the 8 meter blend range past the half width
		dist := 5.0
		fraction := (dist - road.HalfWidth()) / road.BlendRange
		expected := lerp(10.0, 0.0, applyBlendCurve(curve, fraction))
		if !almostEqual(hm.At(40, 28), expected, 1e-9) {
			t.Errorf("Curve %s should paint %f at (40, 28), but got %f", curve.String(), expected, hm.At(40, 28))
		}
	}
}

func TestBlendDimensionMismatch(t *testing.T) {
	road := buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{10, 20}, orb.Point{70, 20}, 2.0, 10.0)
	splines := []*Spline{road}
	_, masks, field := buildBlendFixture(t, splines, 80, 40, 0.0)
	smaller := flatHeightmap(40, 20, 1.0, 0.0)
	if _, err := newBlendProcessor(splines, BLEND_LINEAR, nil).run(smaller, masks, field); err == nil {
		t.Errorf("Mismatched grids should be rejected")
	}
}

func TestMaxInfluenceRadius(t *testing.T) {
	splines := []*Spline{
		buildStraightSpline(0, ROAD_RESIDENTIAL, orb.Point{0, 0}, orb.Point{40, 0}, 2.0, 0.0),
		buildStraightSpline(1, ROAD_SECONDARY, orb.Point{0, 10}, orb.Point{40, 10}, 2.0, 0.0),
	}
	expected := splines[1].HalfWidth() + splines[1].BlendRange
	if radius := maxInfluenceRadius(splines); radius != expected {
		t.Errorf("Influence radius should be %f, but got %f", expected, radius)
	}
}

package roads2dem

import (
	"math"
	"math/rand"
	"testing"
)

// bruteForceDistance is the O(n^2) reference used to validate the two-pass
// transform on small grids
func bruteForceDistance(core []bool, width, height int, metersPerPixel float64) []float64 {
	dist := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			best := math.Inf(1)
			for cy := 0; cy < height; cy++ {
				for cx := 0; cx < width; cx++ {
					if !core[cy*width+cx] {
						continue
					}
					dx := float64(x - cx)
					dy := float64(y - cy)
					if d := dx*dx + dy*dy; d < best {
						best = d
					}
				}
			}
			dist[y*width+x] = math.Sqrt(best) * metersPerPixel
		}
	}
	return dist
}

func TestDistanceFieldSinglePixel(t *testing.T) {
	width, height := 9, 7
	core := make([]bool, width*height)
	core[3*width+4] = true
	field, err := ComputeDistanceField(core, width, height, 1.0)
	if err != nil {
		t.Error(err)
		return
	}
	if field.Dist[3*width+4] != 0.0 {
		t.Errorf("Core pixel should have distance 0, but got %f", field.Dist[3*width+4])
	}
	if field.Dist[3*width+7] != 3.0 {
		t.Errorf("Distance should be 3.0, but got %f", field.Dist[3*width+7])
	}
	expected := math.Sqrt(2*2 + 3*3)
	if !almostEqual(field.Dist[0*width+2], expected, 1e-9) {
		t.Errorf("Distance should be %f, but got %f", expected, field.Dist[0*width+2])
	}
	for idx := range field.Nearest {
		if field.Nearest[idx] != int32(3*width+4) {
			t.Errorf("Nearest feature at %d should be %d, but got %d", idx, 3*width+4, field.Nearest[idx])
		}
	}
}

func TestDistanceFieldAgainstBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	width, height := 20, 15
	for trial := 0; trial < 10; trial++ {
		core := make([]bool, width*height)
		for i := range core {
			core[i] = rnd.Float64() < 0.1
		}
		field, err := ComputeDistanceField(core, width, height, 1.0)
		if err != nil {
			t.Error(err)
			return
		}
		expected := bruteForceDistance(core, width, height, 1.0)
		for idx := range expected {
			if !almostEqual(field.Dist[idx], expected[idx], 1e-9) {
				t.Errorf("Trial %d: distance at %d should be %f, but got %f", trial, idx, expected[idx], field.Dist[idx])
			}
		}
	}
}

func TestDistanceFieldNearestIsConsistent(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	width, height := 16, 16
	core := make([]bool, width*height)
	for i := range core {
		core[i] = rnd.Float64() < 0.08
	}
	field, err := ComputeDistanceField(core, width, height, 1.0)
	if err != nil {
		t.Error(err)
		return
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			nearest := field.Nearest[idx]
			if nearest < 0 {
				continue
			}
			if !core[nearest] {
				t.Errorf("Nearest feature %d at pixel %d is not a core pixel", nearest, idx)
			}
			nx := int(nearest) % width
			ny := int(nearest) / width
			dx := float64(x - nx)
			dy := float64(y - ny)
			if !almostEqual(math.Sqrt(dx*dx+dy*dy), field.Dist[idx], 1e-9) {
				t.Errorf("Nearest feature %d at pixel %d does not match distance %f", nearest, idx, field.Dist[idx])
			}
		}
	}
}

func TestDistanceFieldEmptyMask(t *testing.T) {
	width, height := 8, 8
	core := make([]bool, width*height)
	field, err := ComputeDistanceField(core, width, height, 1.0)
	if err != nil {
		t.Error(err)
		return
	}
	for idx := range field.Dist {
		if !math.IsInf(field.Dist[idx], 1) {
			t.Errorf("Distance at %d should be +Inf, but got %f", idx, field.Dist[idx])
		}
		if field.Nearest[idx] != -1 {
			t.Errorf("Nearest at %d should be -1, but got %d", idx, field.Nearest[idx])
		}
	}
}

func TestDistanceFieldMetersScaling(t *testing.T) {
	width, height := 10, 5
	core := make([]bool, width*height)
	core[2*width+1] = true
	field, err := ComputeDistanceField(core, width, height, 2.5)
	if err != nil {
		t.Error(err)
		return
	}
	if field.Dist[2*width+5] != 10.0 {
		t.Errorf("Distance should be 10.0 meters, but got %f", field.Dist[2*width+5])
	}
}

func TestDistanceFieldBadInput(t *testing.T) {
	if _, err := ComputeDistanceField(make([]bool, 10), 0, 5, 1.0); err == nil {
		t.Errorf("Zero width should be rejected")
	}
	if _, err := ComputeDistanceField(make([]bool, 10), 5, 5, 1.0); err == nil {
		t.Errorf("Mismatched mask length should be rejected")
	}
}

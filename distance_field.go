package roads2dem

import (
	"math"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// DistanceField holds, for every heightmap pixel, the Euclidean distance in
// meters to the nearest core pixel along with the index of that pixel.
// Pixels with no core anywhere carry +Inf and -1.
type DistanceField struct {
	Width          int
	Height         int
	MetersPerPixel float64
	Dist           []float64
	Nearest        []int32
}

// ComputeDistanceField runs the two-pass lower-envelope Euclidean distance
// transform (Felzenszwalb & Huttenlocher) over a binary core mask: columns
// first as a plain nearest-site sweep, rows as a parabola envelope over the
// squared column distances. O(width*height) total, rows and columns processed
// in parallel.
func ComputeDistanceField(core []bool, width, height int, metersPerPixel float64) (*DistanceField, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("Bad mask dimensions: %dx%d", width, height)
	}
	if len(core) != width*height {
		return nil, errors.Errorf("Mask length %d does not match %dx%d", len(core), width, height)
	}
	size := width * height
	colDistSq := make([]float64, size)
	colFeat := make([]int32, size)

	parallelRange(width, func(fromX, toX int) {
		for x := fromX; x < toX; x++ {
			columnPass(core, width, height, x, colDistSq, colFeat)
		}
	})

	field := &DistanceField{
		Width:          width,
		Height:         height,
		MetersPerPixel: metersPerPixel,
		Dist:           make([]float64, size),
		Nearest:        make([]int32, size),
	}

	parallelRange(height, func(fromY, toY int) {
		f := make([]float64, width)
		feat := make([]int32, width)
		v := make([]int, width)
		z := make([]float64, width+1)
		outD := make([]float64, width)
		outFeat := make([]int32, width)
		for y := fromY; y < toY; y++ {
			row := y * width
			copy(f, colDistSq[row:row+width])
			copy(feat, colFeat[row:row+width])
			envelopePass(f, feat, width, v, z, outD, outFeat)
			for x := 0; x < width; x++ {
				if math.IsInf(outD[x], 1) {
					field.Dist[row+x] = math.Inf(1)
					field.Nearest[row+x] = -1
					continue
				}
				field.Dist[row+x] = math.Sqrt(outD[x]) * metersPerPixel
				field.Nearest[row+x] = outFeat[x]
			}
		}
	})
	return field, nil
}

// columnPass fills squared vertical distances to the nearest core pixel in one
// column with two sweeps
func columnPass(core []bool, width, height, x int, distSq []float64, feat []int32) {
	nearest := int32(-1)
	for y := 0; y < height; y++ {
		idx := y*width + x
		if core[idx] {
			nearest = int32(idx)
		}
		if nearest < 0 {
			distSq[idx] = math.Inf(1)
			feat[idx] = -1
			continue
		}
		dy := float64(y - int(nearest)/width)
		distSq[idx] = dy * dy
		feat[idx] = nearest
	}
	nearest = -1
	for y := height - 1; y >= 0; y-- {
		idx := y*width + x
		if core[idx] {
			nearest = int32(idx)
		}
		if nearest < 0 {
			continue
		}
		dy := float64(int(nearest)/width - y)
		if dd := dy * dy; dd < distSq[idx] {
			distSq[idx] = dd
			feat[idx] = nearest
		}
	}
}

// envelopePass computes the 1D squared-distance transform of f through the
// lower envelope of parabolas, carrying the feature index of the winning site
func envelopePass(f []float64, feat []int32, n int, v []int, z []float64, outD []float64, outFeat []int32) {
	k := -1
	for q := 0; q < n; q++ {
		if math.IsInf(f[q], 1) {
			continue
		}
		if k < 0 {
			k = 0
			v[0] = q
			z[0] = math.Inf(-1)
			z[1] = math.Inf(1)
			continue
		}
		s := intersectParabolas(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersectParabolas(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}
	if k < 0 {
		for q := 0; q < n; q++ {
			outD[q] = math.Inf(1)
			outFeat[q] = -1
		}
		return
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dx := float64(q - v[k])
		outD[q] = dx*dx + f[v[k]]
		outFeat[q] = feat[v[k]]
	}
}

// intersectParabolas returns the abscissa where parabolas rooted at q and p meet
func intersectParabolas(f []float64, q, p int) float64 {
	return ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
}

// parallelRange splits [0;n) into contiguous chunks across available cores
func parallelRange(n int, job func(from, to int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		job(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for from := 0; from < n; from += chunk {
		to := from + chunk
		if to > n {
			to = n
		}
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			job(from, to)
		}(from, to)
	}
	wg.Wait()
}

package roads2dem

import (
	"context"
	"math"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	earthR = 20037508.34

	defaultSampleSpacing = 5.0
)

// epsg4326To3857 projects geographic coordinates to planar meters
func epsg4326To3857(lon, lat float64) (float64, float64) {
	x := lon * earthR / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * earthR / 180
	return x, y
}

// ImportConfig filters and shapes OSM highway ways during spline import
type ImportConfig struct {
	// Accepted highway tag values; empty means every known road class
	Tags []string
	// Distance between generated cross-sections in meters
	SampleSpacing float64
	// Projected world offset subtracted from every point so splines align
	// with the heightmap origin
	Origin orb.Point
	Logger *zap.Logger
}

// CheckTag reports whether given highway tag is accepted and maps to a road class
func (cfg *ImportConfig) CheckTag(tag string) (RoadClass, bool) {
	class, known := roadClassByName[tag]
	if !known {
		return 0, false
	}
	if len(cfg.Tags) == 0 {
		return class, true
	}
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return class, true
		}
	}
	return 0, false
}

// ImportSplinesFromOSMFile builds road splines straight from an OSM PBF
// extract: one spline per accepted highway way, resampled into evenly spaced
// cross-sections with tangent, normal and three-point curvature. When a
// heightmap is provided, initial target elevations are sampled from it;
// otherwise they start at zero.
func ImportSplinesFromOSMFile(fileName string, cfg *ImportConfig, hm *Heightmap) ([]*Spline, error) {
	if cfg == nil {
		cfg = &ImportConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	spacing := cfg.SampleSpacing
	if spacing <= 0 {
		spacing = defaultSampleSpacing
	}

	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	type acceptedWay struct {
		id    int64
		class RoadClass
		nodes osm.WayNodes
	}

	st := time.Now()
	scannerWays := osmpbf.New(context.Background(), f, 4)
	ways := []acceptedWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		way := obj.(*osm.Way)
		tag, ok := way.TagMap()["highway"]
		if !ok {
			continue
		}
		class, ok := cfg.CheckTag(tag)
		if !ok {
			continue
		}
		prepared := acceptedWay{
			id:    int64(way.ID),
			class: class,
			nodes: make(osm.WayNodes, len(way.Nodes)),
		}
		copy(prepared.nodes, way.Nodes)
		ways = append(ways, prepared)
		for _, node := range way.Nodes {
			nodesSeen[node.ID] = struct{}{}
		}
	}
	if scannerWays.Err() != nil {
		scannerWays.Close()
		return nil, errors.Wrap(scannerWays.Err(), "Scanner error on Ways")
	}
	scannerWays.Close()
	logger.Info("Ways scanned", zap.Int("count", len(ways)), zap.Duration("elapsed", time.Since(st)))

	_, err = f.Seek(0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking")
	}

	st = time.Now()
	scannerNodes := osmpbf.New(context.Background(), f, 4)
	defer scannerNodes.Close()
	nodePoints := make(map[osm.NodeID]orb.Point)
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := nodesSeen[node.ID]; !ok {
			continue
		}
		x, y := epsg4326To3857(node.Lon, node.Lat)
		nodePoints[node.ID] = orb.Point{x - cfg.Origin[0], y - cfg.Origin[1]}
	}
	if scannerNodes.Err() != nil {
		return nil, errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")
	}
	logger.Info("Nodes scanned", zap.Int("count", len(nodePoints)), zap.Duration("elapsed", time.Since(st)))

	st = time.Now()
	splines := make([]*Spline, 0, len(ways))
	for _, way := range ways {
		line := make([]orb.Point, 0, len(way.nodes))
		for _, wayNode := range way.nodes {
			pt, ok := nodePoints[wayNode.ID]
			if !ok {
				continue
			}
			line = append(line, pt)
		}
		if len(line) < 2 {
			logger.Debug("Degenerate way skipped", zap.Int64("way_id", way.id))
			continue
		}
		samples := resampleLine(line, spacing)
		if len(samples) < 2 {
			continue
		}
		crossSections := buildCrossSections(samples, hm)
		splines = append(splines, NewSpline(SplineID(len(splines)), way.class, crossSections))
	}
	logger.Info("Splines built", zap.Int("count", len(splines)), zap.Duration("elapsed", time.Since(st)))
	return splines, nil
}

// resampleLine returns points along the polyline spaced evenly, always keeping
// the original first and last points
func resampleLine(line []orb.Point, spacing float64) []orb.Point {
	if len(line) < 2 {
		return line
	}
	samples := []orb.Point{line[0]}
	carried := 0.0
	for i := 1; i < len(line); i++ {
		segLen := findDistance(line[i-1], line[i])
		if segLen == 0 {
			continue
		}
		pos := spacing - carried
		for pos <= segLen {
			samples = append(samples, pointOnSegmentByFraction(line[i-1], line[i], pos/segLen))
			pos += spacing
		}
		carried = segLen - (pos - spacing)
	}
	last := line[len(line)-1]
	if len(samples) == 1 || findDistance(samples[len(samples)-1], last) > spacing/4.0 {
		samples = append(samples, last)
	} else {
		samples[len(samples)-1] = last
	}
	return samples
}

// buildCrossSections turns sampled centerline points into cross-sections with
// central-difference tangents and three-point curvature
func buildCrossSections(samples []orb.Point, hm *Heightmap) []*CrossSection {
	crossSections := make([]*CrossSection, 0, len(samples))
	distanceAlong := 0.0
	for i, pt := range samples {
		if i > 0 {
			distanceAlong += findDistance(samples[i-1], pt)
		}
		var tangent orb.Point
		switch {
		case len(samples) == 1:
			tangent = orb.Point{1, 0}
		case i == 0:
			tangent = orb.Point{samples[1][0] - pt[0], samples[1][1] - pt[1]}
		case i == len(samples)-1:
			tangent = orb.Point{pt[0] - samples[i-1][0], pt[1] - samples[i-1][1]}
		default:
			tangent = orb.Point{samples[i+1][0] - samples[i-1][0], samples[i+1][1] - samples[i-1][1]}
		}
		curvature := 0.0
		if i > 0 && i < len(samples)-1 {
			curvature = calcThreePointCurvature(samples[i-1], pt, samples[i+1])
		}
		elevation := 0.0
		if hm != nil {
			if sampled, ok := hm.ElevationAtPoint(pt); ok {
				elevation = sampled
			}
		}
		crossSections = append(crossSections, NewCrossSection(-1, i, pt, tangent, distanceAlong, curvature, elevation))
	}
	return crossSections
}

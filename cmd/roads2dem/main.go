package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/roads2dem/roads2dem"
	"go.uber.org/zap"
)

var (
	demFile         = flag.String("dem", "terrain.f32", "Input heightmap: raw little-endian float32 grid, row-major")
	demWidth        = flag.Int("width", 0, "Heightmap width in pixels")
	demHeight       = flag.Int("height", 0, "Heightmap height in pixels")
	metersPerPixel  = flag.Float64("mpp", 1.0, "Meters per heightmap pixel")
	splinesFile     = flag.String("splines", "", "JSON file with pre-extracted splines (see spline document format)")
	osmFileName     = flag.String("osm", "", "OSM PBF extract to build splines from (alternative to -splines)")
	configFile      = flag.String("config", "", "YAML parameter file. Empty means built-in defaults")
	out             = flag.String("out", "terrain_out.f32", "Output heightmap: raw little-endian float32 grid")
	junctionsOut    = flag.String("junctions", "", "Basename for junction exports. Empty disables export")
	junctionsFormat = flag.String("junctionsf", "csv", "Format of junction export. Expected values: csv / geojson")
	crossSectionOut = flag.String("sections", "", "Filename for annotated cross-section CSV export. Empty disables export")
	logLevel        = flag.String("loglevel", "info", "Log level: debug / info / warn / error")
	logFile         = flag.String("logfile", "", "Optional rotated log file")
)

func main() {
	flag.Parse()

	logger := roads2dem.NewLogger(*logLevel, *logFile)
	defer logger.Sync()

	cfg, err := roads2dem.LoadConfig(*configFile)
	if err != nil {
		logger.Fatal("Can't load configuration", zap.Error(err))
	}

	hm, err := readRawHeightmap(*demFile, *demWidth, *demHeight, *metersPerPixel)
	if err != nil {
		logger.Fatal("Can't read heightmap", zap.Error(err))
	}

	var splines []*roads2dem.Spline
	switch {
	case *splinesFile != "":
		splines, err = roads2dem.LoadSplinesFromJSON(*splinesFile)
	case *osmFileName != "":
		splines, err = roads2dem.ImportSplinesFromOSMFile(*osmFileName, &roads2dem.ImportConfig{
			SampleSpacing: cfg.SampleSpacing,
			Logger:        logger,
		}, hm)
	default:
		logger.Fatal("Either -splines or -osm must be provided")
	}
	if err != nil {
		logger.Fatal("Can't load splines", zap.Error(err))
	}
	for _, spline := range splines {
		cfg.ApplyToSpline(spline)
	}
	logger.Info("Splines loaded", zap.Int("count", len(splines)))

	harmonizer := roads2dem.NewHarmonizer(splines, hm,
		roads2dem.WithDetectionRadius(cfg.DetectionRadius),
		roads2dem.WithBlendCurve(cfg.ParsedBlendCurve()),
		roads2dem.WithElevationFloor(cfg.ElevationFloor),
		roads2dem.WithSmoothing(cfg.SmoothingIterations),
		roads2dem.WithLogger(logger),
	)
	result, err := harmonizer.Run()
	if err != nil {
		logger.Fatal("Harmonization failed", zap.Error(err))
	}

	if err := writeRawHeightmap(result.Heightmap, *out); err != nil {
		logger.Fatal("Can't write heightmap", zap.Error(err))
	}
	logger.Info("Heightmap written",
		zap.String("file", *out),
		zap.Int64("modified_pixels", result.Stats.ModifiedPixels))

	if *junctionsOut != "" {
		if strings.ToLower(*junctionsFormat) == "geojson" {
			b, err := roads2dem.ExportJunctionsToGeoJSON(result.Junctions)
			if err != nil {
				logger.Fatal("Can't export junctions", zap.Error(err))
			}
			if err := os.WriteFile(*junctionsOut+"_junctions.geojson", b, 0644); err != nil {
				logger.Fatal("Can't write junctions file", zap.Error(err))
			}
		} else {
			if err := roads2dem.ExportJunctionsToCSV(result.Junctions, *junctionsOut); err != nil {
				logger.Fatal("Can't export junctions", zap.Error(err))
			}
		}
		logger.Info("Junctions exported", zap.Int("count", len(result.Junctions)))
	}

	if *crossSectionOut != "" {
		if err := roads2dem.ExportCrossSectionsToCSV(splines, *crossSectionOut); err != nil {
			logger.Fatal("Can't export cross-sections", zap.Error(err))
		}
	}
}

// readRawHeightmap loads a row-major little-endian float32 grid
func readRawHeightmap(fname string, width, height int, metersPerPixel float64) (*roads2dem.Heightmap, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	expected := width * height * 4
	if len(data) != expected {
		return nil, fmt.Errorf("heightmap file size %d does not match %dx%d float32 grid (%d bytes)", len(data), width, height, expected)
	}
	elevations := make([]float64, width*height)
	for i := range elevations {
		bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		elevations[i] = float64(math.Float32frombits(bits))
	}
	return roads2dem.NewHeightmapFromData(elevations, width, height, metersPerPixel)
}

// writeRawHeightmap stores the grid as row-major little-endian float32
func writeRawHeightmap(hm *roads2dem.Heightmap, fname string) error {
	elevations := hm.Data()
	buffer := make([]byte, len(elevations)*4)
	for i, elevation := range elevations {
		binary.LittleEndian.PutUint32(buffer[i*4:i*4+4], math.Float32bits(float32(elevation)))
	}
	return os.WriteFile(fname, buffer, 0644)
}

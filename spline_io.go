package roads2dem

import (
	"encoding/json"
	"os"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// crossSectionRecord is one upstream-extracted centerline sample
type crossSectionRecord struct {
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Elevation float64  `json:"elevation"`
	Curvature *float64 `json:"curvature,omitempty"`
}

// splineRecord is one upstream-extracted road centerline
type splineRecord struct {
	Class         string               `json:"class"`
	Priority      *int                 `json:"priority,omitempty"`
	CrossSections []crossSectionRecord `json:"cross_sections"`
}

type splineDocument struct {
	Splines []splineRecord `json:"splines"`
}

// LoadSplinesFromJSON reads splines produced by an upstream raster extraction
// pass. Tangents and normals are rebuilt from the centerline points; curvature
// is taken from the file when present, otherwise recomputed.
func LoadSplinesFromJSON(path string) ([]*Spline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read splines file")
	}
	var document splineDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, errors.Wrap(err, "Can't parse splines file")
	}

	splines := make([]*Spline, 0, len(document.Splines))
	for i, record := range document.Splines {
		class, ok := roadClassByName[record.Class]
		if !ok {
			return nil, errors.Errorf("Unknown road class '%s' in spline %d", record.Class, i)
		}
		points := make([]orb.Point, len(record.CrossSections))
		for j, sample := range record.CrossSections {
			points[j] = orb.Point{sample.X, sample.Y}
		}
		crossSections := buildCrossSections(points, nil)
		for j, sample := range record.CrossSections {
			crossSections[j].TargetElevation = sample.Elevation
			if sample.Curvature != nil {
				crossSections[j].Curvature = *sample.Curvature
			}
		}
		spline := NewSpline(SplineID(len(splines)), class, crossSections)
		if record.Priority != nil {
			spline.Priority = *record.Priority
		}
		splines = append(splines, spline)
	}
	return splines, nil
}

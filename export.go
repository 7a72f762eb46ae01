package roads2dem

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// ExportJunctionsToCSV writes junctions and their contributors into two
// ';'-separated files derived from fname: '<base>_junctions.csv' and
// '<base>_contributors.csv'
func ExportJunctionsToCSV(junctions []*Junction, fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameJunctions := fmt.Sprintf(fnameParts[0] + "_junctions.csv")
	fnameContributors := fmt.Sprintf(fnameParts[0] + "_contributors.csv")

	err := exportJunctionRecords(junctions, fnameJunctions)
	if err != nil {
		return errors.Wrap(err, "Can't export junctions")
	}
	err = exportContributorRecords(junctions, fnameContributors)
	if err != nil {
		return errors.Wrap(err, "Can't export contributors")
	}
	return nil
}

func exportJunctionRecords(junctions []*Junction, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "type", "contributors", "distinct_splines", "detection_radius", "excluded", "ring_spline_id", "angular_position", "direction", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, junction := range junctions {
		err = writer.Write([]string{
			fmt.Sprintf("%d", junction.ID),
			fmt.Sprintf("%s", junction.Type),
			fmt.Sprintf("%d", len(junction.Contributors)),
			fmt.Sprintf("%d", len(junction.distinctSplines())),
			fmt.Sprintf("%f", junction.DetectionRadius),
			fmt.Sprintf("%t", junction.IsExcluded),
			fmt.Sprintf("%d", junction.RingSplineID),
			fmt.Sprintf("%f", junction.AngularPosition),
			fmt.Sprintf("%s", junction.Direction),
			wkt.MarshalString(junction.Position),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write junction")
		}
	}
	return nil
}

func exportContributorRecords(junctions []*Junction, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"junction_id", "spline_id", "cross_section_index", "is_start", "is_end", "continuous", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, junction := range junctions {
		for _, contributor := range junction.Contributors {
			err = writer.Write([]string{
				fmt.Sprintf("%d", junction.ID),
				fmt.Sprintf("%d", contributor.Spline.ID),
				fmt.Sprintf("%d", contributor.CrossSection.Index),
				fmt.Sprintf("%t", contributor.IsSplineStart),
				fmt.Sprintf("%t", contributor.IsSplineEnd),
				fmt.Sprintf("%t", contributor.IsContinuous()),
				wkt.MarshalString(contributor.CrossSection.CenterPoint),
			})
			if err != nil {
				return errors.Wrap(err, "Can't write contributor")
			}
		}
	}
	return nil
}

// ExportCrossSectionsToCSV writes every annotated cross-section with its final
// elevations and banking state
func ExportCrossSectionsToCSV(splines []*Spline, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"spline_id", "index", "distance_along", "curvature", "target_elevation", "bank_angle", "left_edge_elevation", "right_edge_elevation", "behavior", "banking_factor", "higher_priority_spline", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, spline := range splines {
		for _, cs := range spline.CrossSections {
			err = writer.Write([]string{
				fmt.Sprintf("%d", spline.ID),
				fmt.Sprintf("%d", cs.Index),
				fmt.Sprintf("%f", cs.DistanceAlongSpline),
				fmt.Sprintf("%f", cs.Curvature),
				fmt.Sprintf("%f", cs.TargetElevation),
				fmt.Sprintf("%f", cs.BankAngle),
				fmt.Sprintf("%f", cs.LeftEdgeElevation),
				fmt.Sprintf("%f", cs.RightEdgeElevation),
				fmt.Sprintf("%s", cs.JunctionBankingBehavior),
				fmt.Sprintf("%f", cs.JunctionBankingFactor),
				fmt.Sprintf("%d", cs.HigherPrioritySplineID),
				wkt.MarshalString(cs.CenterPoint),
			})
			if err != nil {
				return errors.Wrap(err, "Can't write cross-section")
			}
		}
	}
	return nil
}

// ExportJunctionsToGeoJSON returns the junction list as a GeoJSON
// FeatureCollection for reporting and debug tooling
func ExportJunctionsToGeoJSON(junctions []*Junction) ([]byte, error) {
	collection := geojson.NewFeatureCollection()
	for _, junction := range junctions {
		feature := geojson.NewPointFeature([]float64{junction.Position[0], junction.Position[1]})
		feature.SetProperty("id", int(junction.ID))
		feature.SetProperty("type", junction.Type.String())
		feature.SetProperty("contributors", len(junction.Contributors))
		feature.SetProperty("excluded", junction.IsExcluded)
		if junction.Type == JUNCTION_ROUNDABOUT {
			feature.SetProperty("ring_spline_id", int(junction.RingSplineID))
			feature.SetProperty("direction", junction.Direction.String())
		}
		collection.AddFeature(feature)
	}
	b, err := collection.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal junctions")
	}
	return b, nil
}

// ExportCenterlinesToGeoJSON returns every spline centerline as a GeoJSON
// FeatureCollection
func ExportCenterlinesToGeoJSON(splines []*Spline) ([]byte, error) {
	collection := geojson.NewFeatureCollection()
	for _, spline := range splines {
		line := make([][]float64, len(spline.CrossSections))
		for i, cs := range spline.CrossSections {
			line[i] = []float64{cs.CenterPoint[0], cs.CenterPoint[1]}
		}
		feature := geojson.NewLineStringFeature(line)
		feature.SetProperty("id", int(spline.ID))
		feature.SetProperty("class", spline.Class.String())
		feature.SetProperty("priority", spline.Priority)
		feature.SetProperty("width", spline.RoadWidth)
		collection.AddFeature(feature)
	}
	b, err := collection.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal centerlines")
	}
	return b, nil
}

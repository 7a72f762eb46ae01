package roads2dem

type RoadClass uint16

const (
	ROAD_MOTORWAY = RoadClass(iota + 1)
	ROAD_TRUNK
	ROAD_PRIMARY
	ROAD_SECONDARY
	ROAD_TERTIARY
	ROAD_RESIDENTIAL
	ROAD_SERVICE
	ROAD_TRACK
	ROAD_UNCLASSIFIED
)

func (iotaIdx RoadClass) String() string {
	return [...]string{"motorway", "trunk", "primary", "secondary", "tertiary", "residential", "service", "track", "unclassified"}[iotaIdx-1]
}

var (
	priorityByRoadClass = map[RoadClass]int{
		ROAD_MOTORWAY:     9,
		ROAD_TRUNK:        8,
		ROAD_PRIMARY:      7,
		ROAD_SECONDARY:    6,
		ROAD_TERTIARY:     5,
		ROAD_RESIDENTIAL:  4,
		ROAD_SERVICE:      3,
		ROAD_TRACK:        2,
		ROAD_UNCLASSIFIED: 1,
	}
	widthByRoadClass = map[RoadClass]float64{
		ROAD_MOTORWAY:     14.0,
		ROAD_TRUNK:        12.0,
		ROAD_PRIMARY:      10.0,
		ROAD_SECONDARY:    8.0,
		ROAD_TERTIARY:     7.0,
		ROAD_RESIDENTIAL:  6.0,
		ROAD_SERVICE:      4.0,
		ROAD_TRACK:        3.0,
		ROAD_UNCLASSIFIED: 5.0,
	}
	detectionRadiusByRoadClass = map[RoadClass]float64{
		ROAD_MOTORWAY:     12.0,
		ROAD_TRUNK:        10.0,
		ROAD_PRIMARY:      8.0,
		ROAD_SECONDARY:    6.0,
		ROAD_TERTIARY:     5.0,
		ROAD_RESIDENTIAL:  5.0,
		ROAD_SERVICE:      4.0,
		ROAD_TRACK:        4.0,
		ROAD_UNCLASSIFIED: 5.0,
	}
	// Design speeds in meters per second, used by the superelevation law
	designSpeedByRoadClass = map[RoadClass]float64{
		ROAD_MOTORWAY:     33.3,
		ROAD_TRUNK:        27.8,
		ROAD_PRIMARY:      22.2,
		ROAD_SECONDARY:    19.4,
		ROAD_TERTIARY:     16.7,
		ROAD_RESIDENTIAL:  13.9,
		ROAD_SERVICE:      8.3,
		ROAD_TRACK:        8.3,
		ROAD_UNCLASSIFIED: 13.9,
	}
	// Maximum superelevation in radians (~6 degrees for fast roads, less for minor ones)
	maxBankAngleByRoadClass = map[RoadClass]float64{
		ROAD_MOTORWAY:     0.105,
		ROAD_TRUNK:        0.105,
		ROAD_PRIMARY:      0.087,
		ROAD_SECONDARY:    0.070,
		ROAD_TERTIARY:     0.070,
		ROAD_RESIDENTIAL:  0.052,
		ROAD_SERVICE:      0.035,
		ROAD_TRACK:        0.035,
		ROAD_UNCLASSIFIED: 0.052,
	}
	blendRangeByRoadClass = map[RoadClass]float64{
		ROAD_MOTORWAY:     20.0,
		ROAD_TRUNK:        18.0,
		ROAD_PRIMARY:      15.0,
		ROAD_SECONDARY:    12.0,
		ROAD_TERTIARY:     10.0,
		ROAD_RESIDENTIAL:  8.0,
		ROAD_SERVICE:      6.0,
		ROAD_TRACK:        5.0,
		ROAD_UNCLASSIFIED: 8.0,
	}
	roadClassByName = map[string]RoadClass{
		"motorway":     ROAD_MOTORWAY,
		"trunk":        ROAD_TRUNK,
		"primary":      ROAD_PRIMARY,
		"secondary":    ROAD_SECONDARY,
		"tertiary":     ROAD_TERTIARY,
		"residential":  ROAD_RESIDENTIAL,
		"service":      ROAD_SERVICE,
		"track":        ROAD_TRACK,
		"unclassified": ROAD_UNCLASSIFIED,
	}
)

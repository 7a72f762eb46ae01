package roads2dem

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

const (
	// Upper bound of sampled cross-sections per spline during crossing detection
	maxCrossingSamples = 100
)

// splineEndpoint is a clustering candidate: the first or last cross-section of a spline
type splineEndpoint struct {
	spline  *Spline
	cs      *CrossSection
	isStart bool
	isEnd   bool
	radius  float64
}

// crossSectionRef ties a cross-section back to its owning spline inside the shared index
type crossSectionRef struct {
	spline *Spline
	cs     *CrossSection
}

type splinePairKey struct {
	a SplineID
	b SplineID
}

func makeSplinePairKey(a, b SplineID) splinePairKey {
	if a > b {
		a, b = b, a
	}
	return splinePairKey{a: a, b: b}
}

// junctionDetector builds the full junction set over all splines: clustered
// endpoints, T-junctions, mid-spline crossings and roundabout connections.
type junctionDetector struct {
	splines       []*Spline
	defaultRadius float64
	roundabouts   []roundaboutRing
	logger        *zap.Logger

	allSections  []crossSectionRef
	sectionsGrid *SpatialGrid
	maxRadius    float64
}

func newJunctionDetector(splines []*Spline, defaultRadius float64, roundabouts []roundaboutRing, logger *zap.Logger) *junctionDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &junctionDetector{
		splines:       splines,
		defaultRadius: defaultRadius,
		roundabouts:   roundabouts,
		logger:        logger,
	}
}

func (detector *junctionDetector) effectiveRadius(spline *Spline) float64 {
	if spline.DetectionRadius > 0 {
		return spline.DetectionRadius
	}
	return detector.defaultRadius
}

// detect runs every detection stage and returns classified junctions with
// sequential identifiers. An empty cross-section set yields an empty list.
func (detector *junctionDetector) detect() []*Junction {
	endpoints := detector.collectEndpoints()
	detector.buildSectionsIndex()

	junctions := detector.clusterEndpoints(endpoints)
	detector.attachContinuousContributors(junctions)
	junctions = append(junctions, detector.detectCrossings(junctions)...)
	junctions = append(junctions, detector.connectRoundabouts()...)

	for i, junction := range junctions {
		junction.ID = JunctionID(i)
		junction.recomputePosition()
		junction.classify()
	}
	return junctions
}

// collectEndpoints gathers the first and (if distinct) last cross-section of
// every spline. Splines without cross-sections are skipped.
func (detector *junctionDetector) collectEndpoints() []splineEndpoint {
	endpoints := []splineEndpoint{}
	for _, spline := range detector.splines {
		first := spline.FirstCrossSection()
		if first == nil {
			detector.logger.Debug("Spline has no cross-sections, skipping endpoint collection", zap.Int("spline_id", int(spline.ID)))
			continue
		}
		radius := detector.effectiveRadius(spline)
		if radius > detector.maxRadius {
			detector.maxRadius = radius
		}
		last := spline.LastCrossSection()
		if first == last {
			endpoints = append(endpoints, splineEndpoint{spline: spline, cs: first, isStart: true, isEnd: true, radius: radius})
			continue
		}
		endpoints = append(endpoints, splineEndpoint{spline: spline, cs: first, isStart: true, radius: radius})
		endpoints = append(endpoints, splineEndpoint{spline: spline, cs: last, isEnd: true, radius: radius})
	}
	return endpoints
}

// buildSectionsIndex indexes every cross-section of every spline; T-junction
// and crossing detection query it
func (detector *junctionDetector) buildSectionsIndex() {
	detector.allSections = []crossSectionRef{}
	detector.sectionsGrid = NewSpatialGrid(detector.maxRadius)
	for _, spline := range detector.splines {
		for _, cs := range spline.CrossSections {
			detector.allSections = append(detector.allSections, crossSectionRef{spline: spline, cs: cs})
			detector.sectionsGrid.Insert(cs.CenterPoint, len(detector.allSections)-1)
		}
	}
}

// clusterEndpoints groups endpoints into junctions. Two endpoints join when
// their distance does not exceed the larger of their radii; the relation closes
// transitively through union-find, so chains of pairwise-close endpoints end up
// in one junction.
func (detector *junctionDetector) clusterEndpoints(endpoints []splineEndpoint) []*Junction {
	if len(endpoints) == 0 {
		return []*Junction{}
	}
	endpointsGrid := NewSpatialGrid(detector.maxRadius)
	for i, endpoint := range endpoints {
		endpointsGrid.Insert(endpoint.cs.CenterPoint, i)
	}
	uf := NewUnionFind(len(endpoints))
	for i, endpoint := range endpoints {
		for _, j := range endpointsGrid.QueryRadius(endpoint.cs.CenterPoint, detector.maxRadius) {
			if j <= i {
				continue
			}
			other := endpoints[j]
			pairRadius := math.Max(endpoint.radius, other.radius)
			if findDistance(endpoint.cs.CenterPoint, other.cs.CenterPoint) <= pairRadius {
				uf.Union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range endpoints {
		root := uf.Find(i)
		groups[root] = append(groups[root], i)
	}
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	junctions := make([]*Junction, 0, len(roots))
	for _, root := range roots {
		junction := &Junction{}
		for _, idx := range groups[root] {
			endpoint := endpoints[idx]
			junction.Contributors = append(junction.Contributors, &JunctionContributor{
				Spline:        endpoint.spline,
				CrossSection:  endpoint.cs,
				IsSplineStart: endpoint.isStart,
				IsSplineEnd:   endpoint.isEnd,
			})
			if endpoint.radius > junction.DetectionRadius {
				junction.DetectionRadius = endpoint.radius
			}
		}
		junction.recomputePosition()
		junctions = append(junctions, junction)
	}
	return junctions
}

// attachContinuousContributors scans near every junction for mid-spline
// cross-sections of splines not yet represented there and adds the closest one
// per spline as a continuous contributor. A spline already present through an
// endpoint keeps its endpoint contributor.
func (detector *junctionDetector) attachContinuousContributors(junctions []*Junction) {
	for _, junction := range junctions {
		candidates := detector.sectionsGrid.QueryRadius(junction.Position, junction.DetectionRadius)
		sort.Slice(candidates, func(i, j int) bool {
			di := findDistance(detector.allSections[candidates[i]].cs.CenterPoint, junction.Position)
			dj := findDistance(detector.allSections[candidates[j]].cs.CenterPoint, junction.Position)
			if di == dj {
				return candidates[i] < candidates[j]
			}
			return di < dj
		})
		added := make(map[SplineID]struct{})
		for _, idx := range candidates {
			ref := detector.allSections[idx]
			if ref.cs.Index == 0 || ref.cs.Index == len(ref.spline.CrossSections)-1 {
				continue
			}
			if _, ok := added[ref.spline.ID]; ok {
				continue
			}
			if existing := junction.contributorFor(ref.spline.ID); existing != nil {
				if existing.IsEndpoint() {
					detector.logger.Debug("Spline already terminates at junction, continuous contributor skipped",
						zap.Int("spline_id", int(ref.spline.ID)),
						zap.Float64("junction_x", junction.Position[0]),
						zap.Float64("junction_y", junction.Position[1]))
				}
				added[ref.spline.ID] = struct{}{}
				continue
			}
			junction.Contributors = append(junction.Contributors, &JunctionContributor{
				Spline:       ref.spline,
				CrossSection: ref.cs,
			})
			added[ref.spline.ID] = struct{}{}
		}
	}
}

// detectCrossings finds places where two splines pass near each other without
// any endpoint involved. Spline pairs already meeting at a detected junction
// are skipped so true T-junctions are not re-classified as crossings.
func (detector *junctionDetector) detectCrossings(junctions []*Junction) []*Junction {
	connectedPairs := make(map[splinePairKey]struct{})
	for _, junction := range junctions {
		distinct := junction.distinctSplines()
		for i := 0; i < len(distinct); i++ {
			for j := i + 1; j < len(distinct); j++ {
				connectedPairs[makeSplinePairKey(distinct[i], distinct[j])] = struct{}{}
			}
		}
	}

	crossings := []*Junction{}
	for _, spline := range detector.splines {
		if len(spline.CrossSections) < 3 {
			continue
		}
		radius := detector.effectiveRadius(spline)
		stride := (len(spline.CrossSections) - 2) / maxCrossingSamples
		if stride < 1 {
			stride = 1
		}
		type crossingCandidate struct {
			other   *Spline
			ownCS   *CrossSection
			otherCS *CrossSection
			dist    float64
		}
		best := make(map[SplineID]crossingCandidate)
		for i := 1; i < len(spline.CrossSections)-1; i += stride {
			cs := spline.CrossSections[i]
			for _, idx := range detector.sectionsGrid.QueryRadius(cs.CenterPoint, detector.maxRadius) {
				ref := detector.allSections[idx]
				if ref.spline.ID <= spline.ID {
					continue
				}
				if ref.cs.Index == 0 || ref.cs.Index == len(ref.spline.CrossSections)-1 {
					continue
				}
				pairRadius := math.Max(radius, detector.effectiveRadius(ref.spline))
				dist := findDistance(cs.CenterPoint, ref.cs.CenterPoint)
				if dist > pairRadius {
					continue
				}
				if existing, ok := best[ref.spline.ID]; !ok || dist < existing.dist {
					best[ref.spline.ID] = crossingCandidate{other: ref.spline, ownCS: cs, otherCS: ref.cs, dist: dist}
				}
			}
		}
		otherIDs := make([]SplineID, 0, len(best))
		for id := range best {
			otherIDs = append(otherIDs, id)
		}
		sort.Slice(otherIDs, func(i, j int) bool { return otherIDs[i] < otherIDs[j] })
		for _, otherID := range otherIDs {
			candidate := best[otherID]
			pairKey := makeSplinePairKey(spline.ID, otherID)
			if _, ok := connectedPairs[pairKey]; ok {
				continue
			}
			pairRadius := math.Max(radius, detector.effectiveRadius(candidate.other))
			position := middlePointSegment(candidate.ownCS.CenterPoint, candidate.otherCS.CenterPoint)
			duplicate := false
			for _, crossing := range crossings {
				if findDistance(crossing.Position, position) <= pairRadius/2.0 {
					duplicate = true
					break
				}
			}
			if duplicate {
				detector.logger.Debug("Duplicate crossing discarded",
					zap.Int("spline_id", int(spline.ID)),
					zap.Int("other_spline_id", int(otherID)))
				continue
			}
			crossings = append(crossings, &Junction{
				Type:            JUNCTION_MID_SPLINE_CROSSING,
				Position:        position,
				DetectionRadius: pairRadius,
				Contributors: []*JunctionContributor{
					{Spline: spline, CrossSection: candidate.ownCS},
					{Spline: candidate.other, CrossSection: candidate.otherCS},
				},
			})
			connectedPairs[pairKey] = struct{}{}
		}
	}
	return crossings
}

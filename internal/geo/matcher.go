package geo

import (
	"github.com/tidwall/rtree"
)

// Candidate is one waypoint eligible for geofence matching.
type Candidate struct {
	WaypointID string
	Position   int64
	Lat        float64
	Lng        float64
}

// Match is the selected waypoint and its distance from the sample.
type Match struct {
	WaypointID string
	Position   int64
	DistanceKm float64
}

// Matcher selects the candidate waypoint nearest to a sample point,
// provided it lies within the proximity threshold.
type Matcher struct {
	ThresholdKm float64
}

// NewMatcher returns a Matcher with the default 100 m threshold.
func NewMatcher() Matcher {
	return Matcher{ThresholdKm: DefaultThresholdKm}
}

// WaypointIndex is a spatial index over candidate waypoints. Points are
// stored as degenerate [lng, lat] rectangles.
type WaypointIndex struct {
	tree rtree.RTreeG[Candidate]
}

// NewWaypointIndex builds an index over the given candidates.
func NewWaypointIndex(candidates []Candidate) *WaypointIndex {
	idx := &WaypointIndex{}
	for _, c := range candidates {
		p := [2]float64{c.Lng, c.Lat}
		idx.tree.Insert(p, p, c)
	}
	return idx
}

// Len returns the number of indexed candidates.
func (idx *WaypointIndex) Len() int {
	return idx.tree.Len()
}

// Within returns the candidates inside the given bounds.
func (idx *WaypointIndex) Within(b Bounds) []Candidate {
	var out []Candidate
	idx.tree.Search(
		[2]float64{b.MinLng, b.MinLat},
		[2]float64{b.MaxLng, b.MaxLat},
		func(_, _ [2]float64, c Candidate) bool {
			out = append(out, c)
			return true
		})
	return out
}

// NearestWithin returns the candidate nearest to (lat, lng) whose distance
// is at or below the threshold. Exact ties are broken by waypoint ID so
// selection is deterministic. The second return value is false when no
// candidate is inside the geofence.
func (m Matcher) NearestWithin(lat, lng float64, idx *WaypointIndex) (Match, bool) {
	nearby := idx.Within(BoundsForRadius(lat, lng, m.ThresholdKm))

	var best Match
	found := false
	for _, c := range nearby {
		d := DistanceKm(lat, lng, c.Lat, c.Lng)
		if d > m.ThresholdKm {
			continue
		}
		if !found || d < best.DistanceKm ||
			(d == best.DistanceKm && c.WaypointID < best.WaypointID) {
			best = Match{WaypointID: c.WaypointID, Position: c.Position, DistanceKm: d}
			found = true
		}
	}
	return best, found
}

// NearestCandidate is a convenience wrapper that indexes candidates and
// matches in one call, for callers holding a fresh candidate slice.
func (m Matcher) NearestCandidate(lat, lng float64, candidates []Candidate) (Match, bool) {
	if len(candidates) == 0 {
		return Match{}, false
	}
	return m.NearestWithin(lat, lng, NewWaypointIndex(candidates))
}

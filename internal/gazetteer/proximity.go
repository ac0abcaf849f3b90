package gazetteer

import (
	"github.com/Guram-LM/Country-validation/internal/geo"
	"github.com/Guram-LM/Country-validation/internal/models"
)

// RoadDistance returns the minimum great-circle distance from near to any
// point of the road's geometry. ok is false when the road has no points.
func RoadDistance(road models.Road, near geo.Point) (float64, bool) {
	var best float64
	found := false
	for _, line := range road.Geometry {
		for _, p := range line {
			d := geo.Haversine(near, p)
			if !found || d < best {
				best = d
				found = true
			}
		}
	}
	return best, found
}

// NearestRoad selects the road whose closest geometry point is nearest to
// near, among candidates within radiusMeters. When two roads are equally
// close the earlier candidate wins, so the result is deterministic for a
// fixed candidate order.
func NearestRoad(roads []models.Road, near geo.Point, radiusMeters float64) (models.Road, bool) {
	var best models.Road
	bestDist := radiusMeters
	found := false
	for _, r := range roads {
		d, ok := RoadDistance(r, near)
		if !ok || d > radiusMeters {
			continue
		}
		if !found || d < bestDist {
			best = r
			bestDist = d
			found = true
		}
	}
	return best, found
}

// WithinRadius filters roads to those with at least one geometry point within
// radiusMeters of near, preserving the input order.
func WithinRadius(roads []models.Road, near geo.Point, radiusMeters float64) []models.Road {
	var out []models.Road
	for _, r := range roads {
		if d, ok := RoadDistance(r, near); ok && d <= radiusMeters {
			out = append(out, r)
		}
	}
	return out
}

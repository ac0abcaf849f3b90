package geo

import (
	"errors"
	"math"
)

const (
	earthRadiusMeters = 6371000.0

	// HouseNumberScale is the normalized house-number range: number N is
	// assumed to sit at N/1000 of the road's total length. There is no real
	// address-range data behind this, it is a deliberate approximation.
	HouseNumberScale = 1000
)

var (
	ErrNoGeometry      = errors.New("geometry has no points")
	ErrNotInterpolable = errors.New("geometry cannot be interpolated")
)

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Polyline []Point

// MultiLine is a road shape: one or more polylines, possibly disjoint.
type MultiLine []Polyline

// Haversine returns the great-circle distance between two points in meters,
// assuming a spherical Earth.
func Haversine(a, b Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLon := degreesToRadians(b.Lon - a.Lon)

	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

// Centroid returns the arithmetic mean of every point across every polyline,
// averaged per axis. Returns ErrNoGeometry when the shape has no points.
func Centroid(ml MultiLine) (Point, error) {
	var sumLat, sumLon float64
	var n int
	for _, line := range ml {
		for _, p := range line {
			sumLat += p.Lat
			sumLon += p.Lon
			n++
		}
	}
	if n == 0 {
		return Point{}, ErrNoGeometry
	}
	return Point{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}, nil
}

type segment struct {
	a, b   Point
	length float64
}

func segments(ml MultiLine) []segment {
	var out []segment
	for _, line := range ml {
		for i := 1; i < len(line); i++ {
			out = append(out, segment{
				a:      line[i-1],
				b:      line[i],
				length: Haversine(line[i-1], line[i]),
			})
		}
	}
	return out
}

// Interpolate estimates a point along the geometry proportional to a house
// number on the 1..HouseNumberScale range. Distances along the path are
// great-circle; the point inside the chosen segment is a plain component-wise
// lerp between its endpoints. A house number beyond the scale lands on the
// final point of the final polyline. Returns ErrNotInterpolable when the
// number is not positive or the geometry has no length; callers are expected
// to fall back to Centroid.
func Interpolate(ml MultiLine, houseNumber int) (Point, error) {
	if houseNumber <= 0 {
		return Point{}, ErrNotInterpolable
	}

	segs := segments(ml)
	var total float64
	for _, s := range segs {
		total += s.length
	}
	if total == 0 {
		return Point{}, ErrNotInterpolable
	}

	target := float64(houseNumber) / HouseNumberScale * total
	if target >= total {
		// the road ends here; house numbers past the scale land on its tail
		return finalPoint(ml)
	}

	var offset float64
	for _, s := range segs {
		if s.length > 0 && offset+s.length >= target {
			ratio := (target - offset) / s.length
			return Point{
				Lat: s.a.Lat + ratio*(s.b.Lat-s.a.Lat),
				Lon: s.a.Lon + ratio*(s.b.Lon-s.a.Lon),
			}, nil
		}
		offset += s.length
	}

	// rounding pushed the target past every cumulative end
	return finalPoint(ml)
}

func finalPoint(ml MultiLine) (Point, error) {
	for i := len(ml) - 1; i >= 0; i-- {
		if len(ml[i]) > 0 {
			return ml[i][len(ml[i])-1], nil
		}
	}
	return Point{}, ErrNoGeometry
}

// Box is an axis-aligned bounding box in degrees.
type Box struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Bounds computes the bounding box of the geometry.
func Bounds(ml MultiLine) (Box, error) {
	box := Box{MinLat: math.MaxFloat64, MinLon: math.MaxFloat64, MaxLat: -math.MaxFloat64, MaxLon: -math.MaxFloat64}
	var n int
	for _, line := range ml {
		for _, p := range line {
			box.MinLat = math.Min(box.MinLat, p.Lat)
			box.MinLon = math.Min(box.MinLon, p.Lon)
			box.MaxLat = math.Max(box.MaxLat, p.Lat)
			box.MaxLon = math.Max(box.MaxLon, p.Lon)
			n++
		}
	}
	if n == 0 {
		return Box{}, ErrNoGeometry
	}
	return box, nil
}

// ExpandBounds builds a box around center that over-approximates a circle of
// radiusMeters. Used as a coarse SQL prefilter; callers still apply the exact
// haversine rule.
func ExpandBounds(center Point, radiusMeters float64) Box {
	dLat := radiusMeters / earthRadiusMeters * 180 / math.Pi
	cosLat := math.Cos(degreesToRadians(center.Lat))
	dLon := dLat
	if cosLat > 0.01 {
		dLon = dLat / cosLat
	} else {
		dLon = 180
	}
	return Box{
		MinLat: center.Lat - dLat,
		MinLon: center.Lon - dLon,
		MaxLat: center.Lat + dLat,
		MaxLon: center.Lon + dLon,
	}
}

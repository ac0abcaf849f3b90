package gazetteer

import (
	"strings"
	"testing"
)

const placesJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Tbilisi"}, "geometry": {"type": "Point", "coordinates": [44.8271, 41.7151]}},
    {"type": "Feature", "properties": {"name": "Kutaisi"}, "geometry": {"type": "Point", "coordinates": [42.7180, 42.2679]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 2]}},
    {"type": "Feature", "properties": {"name": "NotAPoint"}, "geometry": {"type": "LineString", "coordinates": [[1, 2], [3, 4]]}}
  ]
}`

func TestParsePlaces(t *testing.T) {
	places, err := ParsePlaces(strings.NewReader(placesJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if places[0].Name != "Tbilisi" {
		t.Fatalf("unexpected first place: %s", places[0].Name)
	}
	if places[0].Location.Lat != 41.7151 || places[0].Location.Lon != 44.8271 {
		t.Fatalf("coordinates must decode as [lon, lat], got %+v", places[0].Location)
	}
}

const roadsJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Rustaveli Avenue"}, "geometry": {"type": "LineString", "coordinates": [[44.80, 41.70], [44.83, 41.72]]}},
    {"type": "Feature", "properties": {"name": "Agmashenebeli Avenue"}, "geometry": {"type": "MultiLineString", "coordinates": [[[44.79, 41.71], [44.80, 41.72]], [], [[44.81, 41.73]]]}},
    {"type": "Feature", "properties": {"name": "Empty Road"}, "geometry": {"type": "MultiLineString", "coordinates": [[], []]}},
    {"type": "Feature", "properties": {"name": "Some Polygon"}, "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 1], [0, 1], [0, 0]]]}}
  ]
}`

func TestParseRoads(t *testing.T) {
	roads, err := ParseRoads(strings.NewReader(roadsJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roads) != 2 {
		t.Fatalf("expected 2 roads, got %d", len(roads))
	}
	if roads[0].Name != "Rustaveli Avenue" || len(roads[0].Geometry) != 1 || len(roads[0].Geometry[0]) != 2 {
		t.Fatalf("unexpected first road: %+v", roads[0])
	}
	if roads[0].Geometry[0][0].Lat != 41.70 || roads[0].Geometry[0][0].Lon != 44.80 {
		t.Fatalf("coordinates must decode as [lon, lat], got %+v", roads[0].Geometry[0][0])
	}
	// empty inner polyline dropped, the rest kept
	if len(roads[1].Geometry) != 2 {
		t.Fatalf("expected empty polyline dropped, got %d polylines", len(roads[1].Geometry))
	}
}

func TestParseRoadsRejectsGarbage(t *testing.T) {
	if _, err := ParseRoads(strings.NewReader("not json")); err == nil {
		t.Fatalf("expected a decode error")
	}
}

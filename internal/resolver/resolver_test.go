package resolver

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Guram-LM/Country-validation/internal/gazetteer"
	"github.com/Guram-LM/Country-validation/internal/geo"
	"github.com/Guram-LM/Country-validation/internal/geocode"
	"github.com/Guram-LM/Country-validation/internal/models"
)

func testService() *Service {
	places := []models.Place{
		{Name: "Tbilisi", Location: geo.Point{Lat: 41.7151, Lon: 44.8271}},
		{Name: "Kutaisi", Location: geo.Point{Lat: 42.2679, Lon: 42.7180}},
	}
	roads := []models.Road{
		{Name: "Rustaveli", Geometry: geo.MultiLine{{
			{Lat: 41.70, Lon: 44.80},
			{Lat: 41.72, Lon: 44.83},
		}}},
		// roughly 40 km north of Tbilisi
		{Name: "Distant Street", Geometry: geo.MultiLine{{
			{Lat: 42.075, Lon: 44.8271},
			{Lat: 42.080, Lon: 44.8300},
		}}},
		{Name: "Pointless Road", Geometry: geo.MultiLine{{
			{Lat: 41.7151, Lon: 44.8271},
		}}},
	}
	ix := gazetteer.NewMemoryIndex(places, roads)
	return New(ix, geocode.MockGeocoder{}, "en", zerolog.Nop())
}

func TestResolveInterpolatesHouseNumber(t *testing.T) {
	s := testService()
	res := s.Resolve(context.Background(), Request{
		Country: "Georgia", City: "Tbilisi", Street: "Rustaveli", HouseNumber: "500",
	})
	if !res.Success {
		t.Fatalf("expected success, got: %s", res.Message)
	}
	if res.Source != models.SourceLocalDataset {
		t.Fatalf("unexpected source: %s", res.Source)
	}
	if res.InterpolatedPoint == nil || res.Coordinate == nil {
		t.Fatalf("expected interpolated coordinate, got %+v", res)
	}
	// house 500 on a single segment is the midpoint
	if math.Abs(res.Coordinate.Lat-41.71) > 1e-9 || math.Abs(res.Coordinate.Lon-44.815) > 1e-9 {
		t.Fatalf("expected segment midpoint, got %+v", res.Coordinate)
	}
	if len(res.Geometry) == 0 {
		t.Fatalf("expected road geometry on a local result")
	}
}

func TestResolveCityNotFound(t *testing.T) {
	s := testService()
	res := s.Resolve(context.Background(), Request{
		Country: "Georgia", City: "Atlantis", Street: "Rustaveli",
	})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Source != models.SourceLocalDataset {
		t.Fatalf("unexpected source: %s", res.Source)
	}
	if !strings.Contains(res.Message, "Atlantis") {
		t.Fatalf("message must name the missing city, got: %s", res.Message)
	}
}

func TestResolveStreetBeyondRadius(t *testing.T) {
	s := testService()
	res := s.Resolve(context.Background(), Request{
		Country: "Georgia", City: "Kutaisi", Street: "Rustaveli",
	})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(res.Message, "30 km") {
		t.Fatalf("message must state the 30 km bound, got: %s", res.Message)
	}
}

func TestResolveRemoteCountry(t *testing.T) {
	s := testService()
	res := s.Resolve(context.Background(), Request{
		Country: "France", City: "Paris", Street: "Champs-Elysees", HouseNumber: "1",
	})
	if res.Source != models.SourceRemoteProvider {
		t.Fatalf("unexpected source: %s", res.Source)
	}
	if !res.Success || res.Coordinate == nil {
		t.Fatalf("expected mock provider success, got %+v", res)
	}
	if res.Geometry != nil {
		t.Fatalf("remote results must not carry geometry")
	}
}

type notFoundGeocoder struct{}

func (notFoundGeocoder) Geocode(ctx context.Context, query, lang string) (geocode.Result, error) {
	return geocode.Result{}, geocode.ErrNotFound
}

func TestResolveRemoteNoResults(t *testing.T) {
	s := testService()
	s.geocoder = notFoundGeocoder{}
	res := s.Resolve(context.Background(), Request{
		Country: "France", City: "Paris", Street: "Nonexistent",
	})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Source != models.SourceRemoteProvider {
		t.Fatalf("unexpected source: %s", res.Source)
	}
}

type brokenGeocoder struct{}

func (brokenGeocoder) Geocode(ctx context.Context, query, lang string) (geocode.Result, error) {
	return geocode.Result{}, errors.New("connection refused")
}

func TestResolveRemoteProviderUnreachable(t *testing.T) {
	s := testService()
	s.geocoder = brokenGeocoder{}
	res := s.Resolve(context.Background(), Request{
		Country: "France", City: "Paris", Street: "Champs-Elysees",
	})
	if res.Success {
		t.Fatalf("expected failure when the provider is unreachable")
	}
	if res.Source != models.SourceRemoteProvider {
		t.Fatalf("unexpected source: %s", res.Source)
	}
}

func TestResolveCentroidFallbackWithoutHouseNumber(t *testing.T) {
	s := testService()
	res := s.Resolve(context.Background(), Request{
		Country: "Georgia", City: "Tbilisi", Street: "Rustaveli",
	})
	if !res.Success {
		t.Fatalf("expected success, got: %s", res.Message)
	}
	if res.InterpolatedPoint != nil {
		t.Fatalf("expected no interpolated point without a house number")
	}
	if math.Abs(res.Coordinate.Lat-41.71) > 1e-9 || math.Abs(res.Coordinate.Lon-44.815) > 1e-9 {
		t.Fatalf("expected geometry centroid, got %+v", res.Coordinate)
	}
}

func TestResolveCentroidFallbackOnUnparsableHouseNumber(t *testing.T) {
	s := testService()
	res := s.Resolve(context.Background(), Request{
		Country: "Georgia", City: "Tbilisi", Street: "Rustaveli", HouseNumber: "n/a",
	})
	if !res.Success {
		t.Fatalf("expected success, got: %s", res.Message)
	}
	if res.InterpolatedPoint != nil {
		t.Fatalf("unparsable house number must fall back to centroid")
	}
}

func TestResolveDegenerateGeometryFallsBackToCentroid(t *testing.T) {
	// a single-point road cannot be interpolated but has a centroid
	s := testService()
	res := s.Resolve(context.Background(), Request{
		Country: "Georgia", City: "Tbilisi", Street: "Pointless", HouseNumber: "500",
	})
	if !res.Success {
		t.Fatalf("expected centroid fallback, got: %s", res.Message)
	}
	if res.InterpolatedPoint != nil {
		t.Fatalf("expected no interpolated point for degenerate geometry")
	}
	if res.Coordinate.Lat != 41.7151 || res.Coordinate.Lon != 44.8271 {
		t.Fatalf("unexpected centroid: %+v", res.Coordinate)
	}
}

func TestResolveMissingFields(t *testing.T) {
	s := testService()
	res := s.Resolve(context.Background(), Request{Country: "Georgia", City: "", Street: " "})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(res.Message, "city") || !strings.Contains(res.Message, "street") {
		t.Fatalf("message must name the missing fields, got: %s", res.Message)
	}
}

func TestResolveIdempotent(t *testing.T) {
	s := testService()
	req := Request{Country: "Georgia", City: "Tbilisi", Street: "Rustaveli", HouseNumber: "321"}
	a := s.Resolve(context.Background(), req)
	b := s.Resolve(context.Background(), req)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results:\n%+v\n%+v", a, b)
	}
}

type unavailableIndex struct{}

func (unavailableIndex) PlacesByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	return nil, gazetteer.ErrUnavailable
}

func (unavailableIndex) PlaceByName(ctx context.Context, name string) (models.Place, error) {
	return models.Place{}, gazetteer.ErrUnavailable
}

func (unavailableIndex) RoadsMatching(ctx context.Context, query string, mode gazetteer.MatchMode, near geo.Point, radiusMeters float64, limit int) ([]models.Road, error) {
	return nil, gazetteer.ErrUnavailable
}

func TestResolveDatasetUnavailable(t *testing.T) {
	s := New(unavailableIndex{}, geocode.MockGeocoder{}, "en", zerolog.Nop())
	res := s.Resolve(context.Background(), Request{
		Country: "Georgia", City: "Tbilisi", Street: "Rustaveli",
	})
	if res.Success {
		t.Fatalf("expected failure when the dataset is down")
	}
	if res.Source != models.SourceLocalDataset {
		t.Fatalf("unexpected source: %s", res.Source)
	}
}

func TestSuggestCities(t *testing.T) {
	s := testService()
	ctx := context.Background()

	got := s.SuggestCities(ctx, "tb", "Georgia")
	if len(got) != 1 || got[0] != "Tbilisi" {
		t.Fatalf("unexpected suggestions: %v", got)
	}

	if got := s.SuggestCities(ctx, "t", "Georgia"); len(got) != 0 {
		t.Fatalf("short queries must yield nothing, got %v", got)
	}
	if got := s.SuggestCities(ctx, "tb", "France"); len(got) != 0 {
		t.Fatalf("non-local countries must yield nothing, got %v", got)
	}
}

func TestSuggestCitiesDatasetUnavailable(t *testing.T) {
	s := New(unavailableIndex{}, geocode.MockGeocoder{}, "en", zerolog.Nop())
	if got := s.SuggestCities(context.Background(), "tb", "Georgia"); len(got) != 0 {
		t.Fatalf("dataset faults must yield an empty list, got %v", got)
	}
}

func TestSuggestStreets(t *testing.T) {
	s := testService()
	ctx := context.Background()

	got := s.SuggestStreets(ctx, "Tbilisi", "ru", "Georgia")
	if len(got) != 1 || got[0] != "Rustaveli" {
		t.Fatalf("unexpected suggestions: %v", got)
	}

	// Distant Street is past the 30 km bound
	if got := s.SuggestStreets(ctx, "Tbilisi", "di", "Georgia"); len(got) != 0 {
		t.Fatalf("expected no out-of-radius suggestions, got %v", got)
	}

	if got := s.SuggestStreets(ctx, "Atlantis", "ru", "Georgia"); len(got) != 0 {
		t.Fatalf("unknown city must yield nothing, got %v", got)
	}
	if got := s.SuggestStreets(ctx, "Tbilisi", "ru", "Italy"); len(got) != 0 {
		t.Fatalf("non-local countries must yield nothing, got %v", got)
	}
}

package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Guram-LM/Country-validation/internal/gazetteer"
	"github.com/Guram-LM/Country-validation/internal/geo"
	"github.com/Guram-LM/Country-validation/internal/geocode"
	"github.com/Guram-LM/Country-validation/internal/metrics"
	"github.com/Guram-LM/Country-validation/internal/models"
)

const (
	// ProximityRadiusMeters bounds how far a street may lie from its city
	// center and still count as a match.
	ProximityRadiusMeters = 30000
	// SuggestionLimit caps both suggestion endpoints.
	SuggestionLimit = 10
	// minSuggestionQuery gates suggestion lookups.
	minSuggestionQuery = 2
	// roadCandidateLimit caps how many name matches the index returns before
	// the exact proximity rule is applied.
	roadCandidateLimit = 50
)

// Internal error taxonomy. Both are folded into failure messages at the
// Resolve boundary; they never cross the HTTP surface.
var (
	ErrMissingField = errors.New("resolver: missing field")
	ErrOutOfRange   = errors.New("resolver: street outside proximity radius")
)

// Request is one address to resolve. HouseNumber is free text; its numeric
// part is extracted before interpolation.
type Request struct {
	Country     string `json:"country" validate:"required"`
	City        string `json:"city" validate:"required"`
	Street      string `json:"street" validate:"required"`
	HouseNumber string `json:"house_number"`
}

// Service resolves addresses against an injected read-only dataset or a
// remote geocoding provider. It holds no per-request state; concurrent use
// needs no coordination.
type Service struct {
	index    gazetteer.Index
	geocoder geocode.Geocoder
	logger   zerolog.Logger
	lang     string
}

func New(index gazetteer.Index, geocoder geocode.Geocoder, lang string, logger zerolog.Logger) *Service {
	return &Service{index: index, geocoder: geocoder, logger: logger, lang: lang}
}

// Resolve is a total function: every internal fault is converted into a
// ResolvedAddress with Success=false, never an error.
func (s *Service) Resolve(ctx context.Context, req Request) models.ResolvedAddress {
	country := strings.TrimSpace(req.Country)
	city := strings.TrimSpace(req.City)
	street := strings.TrimSpace(req.Street)

	if missing := missingFields(country, city, street); len(missing) > 0 {
		s.logger.Debug().Err(ErrMissingField).Strs("fields", missing).Msg("resolution rejected")
		res := models.ResolvedAddress{
			Success: false,
			Message: fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")),
			Source:  classifySource(country),
		}
		metrics.Resolutions.WithLabelValues(string(res.Source), "error").Inc()
		return res
	}

	var res models.ResolvedAddress
	if IsLocalCountry(country) {
		res = s.resolveLocal(ctx, city, street, req.HouseNumber)
	} else {
		res = s.resolveRemote(ctx, country, city, street, req.HouseNumber)
	}
	metrics.Resolutions.WithLabelValues(string(res.Source), outcome(res)).Inc()
	return res
}

func missingFields(country, city, street string) []string {
	var missing []string
	if country == "" {
		missing = append(missing, "country")
	}
	if city == "" {
		missing = append(missing, "city")
	}
	if street == "" {
		missing = append(missing, "street")
	}
	return missing
}

func classifySource(country string) models.Source {
	if IsLocalCountry(country) {
		return models.SourceLocalDataset
	}
	return models.SourceRemoteProvider
}

func outcome(res models.ResolvedAddress) string {
	if res.Success {
		return "resolved"
	}
	return "failed"
}

func (s *Service) resolveLocal(ctx context.Context, city, street, houseNumber string) models.ResolvedAddress {
	fail := func(msg string) models.ResolvedAddress {
		return models.ResolvedAddress{Success: false, Message: msg, Source: models.SourceLocalDataset}
	}

	place, err := s.index.PlaceByName(ctx, city)
	if err != nil {
		if errors.Is(err, gazetteer.ErrNotFound) {
			return fail(fmt.Sprintf("city %q was not found in the Georgian dataset", city))
		}
		s.logger.Error().Err(err).Str("city", city).Msg("place lookup failed")
		return fail("the Georgian dataset is temporarily unavailable")
	}

	candidates, err := s.index.RoadsMatching(ctx, street, gazetteer.MatchContains, place.Location, ProximityRadiusMeters, roadCandidateLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("street", street).Msg("road lookup failed")
		return fail("the Georgian dataset is temporarily unavailable")
	}

	road, ok := gazetteer.NearestRoad(candidates, place.Location, ProximityRadiusMeters)
	if !ok {
		s.logger.Debug().Err(ErrOutOfRange).Str("street", street).Str("city", place.Name).Msg("no road in range")
		return fail(fmt.Sprintf("street %q is not within 30 km of %s", street, place.Name))
	}

	var coord geo.Point
	var interpolated *geo.Point
	if hn := parseHouseNumber(houseNumber); hn > 0 {
		if p, err := geo.Interpolate(road.Geometry, hn); err == nil {
			coord = p
			interpolated = &p
		}
	}
	if interpolated == nil {
		c, err := geo.Centroid(road.Geometry)
		if err != nil {
			return fail(fmt.Sprintf("coordinates could not be determined for %q", road.Name))
		}
		coord = c
	}

	return models.ResolvedAddress{
		Success:           true,
		Message:           fmt.Sprintf("%s, %s", road.Name, place.Name),
		Source:            models.SourceLocalDataset,
		Coordinate:        &coord,
		Geometry:          road.Geometry,
		InterpolatedPoint: interpolated,
	}
}

func (s *Service) resolveRemote(ctx context.Context, country, city, street, houseNumber string) models.ResolvedAddress {
	query := geocode.BuildQuery(street, houseNumber, city, country)

	start := time.Now()
	result, err := s.geocoder.Geocode(ctx, query, s.lang)
	metrics.GeocoderRequestSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return models.ResolvedAddress{
				Success: false,
				Message: fmt.Sprintf("no results found for %q", query),
				Source:  models.SourceRemoteProvider,
			}
		}
		s.logger.Error().Err(err).Str("query", query).Msg("remote geocoding failed")
		return models.ResolvedAddress{
			Success: false,
			Message: "the geocoding provider is temporarily unavailable",
			Source:  models.SourceRemoteProvider,
		}
	}

	coord := geo.Point{Lat: result.Lat, Lon: result.Lon}
	return models.ResolvedAddress{
		Success:    true,
		Message:    result.DisplayName,
		Source:     models.SourceRemoteProvider,
		Coordinate: &coord,
	}
}

// SuggestCities returns up to SuggestionLimit place names starting with
// prefix. Empty for short queries, non-local countries and dataset faults.
func (s *Service) SuggestCities(ctx context.Context, prefix, country string) []string {
	metrics.Suggestions.WithLabelValues("cities").Inc()

	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < minSuggestionQuery || !IsLocalCountry(country) {
		return []string{}
	}

	names, err := s.index.PlacesByPrefix(ctx, prefix, SuggestionLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("prefix", prefix).Msg("city suggestions failed")
		return []string{}
	}
	if names == nil {
		names = []string{}
	}
	return names
}

// SuggestStreets returns up to SuggestionLimit road names starting with
// prefix within the proximity radius of the named city. Same gating as
// SuggestCities; unknown cities yield an empty list.
func (s *Service) SuggestStreets(ctx context.Context, city, prefix, country string) []string {
	metrics.Suggestions.WithLabelValues("streets").Inc()

	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < minSuggestionQuery || !IsLocalCountry(country) {
		return []string{}
	}

	place, err := s.index.PlaceByName(ctx, strings.TrimSpace(city))
	if err != nil {
		if !errors.Is(err, gazetteer.ErrNotFound) {
			s.logger.Error().Err(err).Str("city", city).Msg("street suggestions failed")
		}
		return []string{}
	}

	candidates, err := s.index.RoadsMatching(ctx, prefix, gazetteer.MatchPrefix, place.Location, ProximityRadiusMeters, roadCandidateLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("prefix", prefix).Msg("street suggestions failed")
		return []string{}
	}

	within := gazetteer.WithinRadius(candidates, place.Location, ProximityRadiusMeters)
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range within {
		if len(out) >= SuggestionLimit {
			break
		}
		key := strings.ToLower(r.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r.Name)
	}
	return out
}

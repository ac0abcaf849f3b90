package geocode

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound means the provider returned no result for the query.
var ErrNotFound = errors.New("geocode: no results")

// Result is a successful provider response.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Geocoder turns a free-text address into a coordinate. lang is a hint for
// the language of the formatted address in the response.
type Geocoder interface {
	Geocode(ctx context.Context, query string, lang string) (Result, error)
}

// BuildQuery composes the free-text address sent to the provider:
// "street houseNumber, city, country", skipping empty parts.
func BuildQuery(street, houseNumber, city, country string) string {
	street = strings.TrimSpace(street)
	houseNumber = strings.TrimSpace(houseNumber)
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)

	streetPart := street
	if houseNumber != "" {
		streetPart = strings.TrimSpace(street + " " + houseNumber)
	}

	parts := []string{}
	if streetPart != "" {
		parts = append(parts, streetPart)
	}
	if city != "" {
		parts = append(parts, city)
	}
	if country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}

package gazetteer

import (
	"context"
	"errors"

	"github.com/Guram-LM/Country-validation/internal/geo"
	"github.com/Guram-LM/Country-validation/internal/models"
)

var (
	// ErrNotFound means the named place does not exist in the dataset.
	ErrNotFound = errors.New("gazetteer: not found")
	// ErrUnavailable means the dataset backend could not be reached.
	ErrUnavailable = errors.New("gazetteer: dataset unavailable")
)

// MatchMode controls how a name query is compared against road names.
type MatchMode int

const (
	// MatchPrefix matches names starting with the query.
	MatchPrefix MatchMode = iota
	// MatchContains matches names containing the query anywhere.
	MatchContains
)

// Index is the read-only spatial dataset the resolver is built on. All name
// comparisons are case-insensitive and literal: user input is never
// interpreted as a pattern.
type Index interface {
	// PlacesByPrefix returns up to limit place names starting with prefix,
	// in dataset order. The order is not a ranking.
	PlacesByPrefix(ctx context.Context, prefix string, limit int) ([]string, error)

	// PlaceByName returns the place whose full name equals name, or
	// ErrNotFound.
	PlaceByName(ctx context.Context, name string) (models.Place, error)

	// RoadsMatching returns up to limit roads whose name matches query under
	// mode and whose geometry lies near the reference point. Implementations
	// may over-approximate the radius (e.g. with a bounding box); callers
	// apply the exact proximity rule.
	RoadsMatching(ctx context.Context, query string, mode MatchMode, near geo.Point, radiusMeters float64, limit int) ([]models.Road, error)
}

// Counter is implemented by indexes that can report dataset sizes.
type Counter interface {
	Counts(ctx context.Context) (places int64, roads int64, err error)
}

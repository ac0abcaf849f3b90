package gazetteer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Guram-LM/Country-validation/internal/geo"
	"github.com/Guram-LM/Country-validation/internal/models"
)

// MemoryIndex serves the Index contract from parsed slices. It backs the
// file-based dev mode and the tests; the data is never mutated after
// construction, so it is safe for concurrent reads.
type MemoryIndex struct {
	places []models.Place
	roads  []models.Road
}

func NewMemoryIndex(places []models.Place, roads []models.Road) *MemoryIndex {
	return &MemoryIndex{places: places, roads: roads}
}

// NewFileIndex loads the dataset from two GeoJSON files.
func NewFileIndex(placesPath, roadsPath string) (*MemoryIndex, error) {
	pf, err := os.Open(placesPath)
	if err != nil {
		return nil, fmt.Errorf("open places dataset: %w", err)
	}
	defer pf.Close()
	places, err := ParsePlaces(pf)
	if err != nil {
		return nil, err
	}

	rf, err := os.Open(roadsPath)
	if err != nil {
		return nil, fmt.Errorf("open roads dataset: %w", err)
	}
	defer rf.Close()
	roads, err := ParseRoads(rf)
	if err != nil {
		return nil, err
	}

	return NewMemoryIndex(places, roads), nil
}

func (ix *MemoryIndex) PlacesByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	q := strings.ToLower(prefix)
	var out []string
	for _, p := range ix.places {
		if len(out) >= limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(p.Name), q) {
			out = append(out, p.Name)
		}
	}
	return out, nil
}

func (ix *MemoryIndex) PlaceByName(ctx context.Context, name string) (models.Place, error) {
	for _, p := range ix.places {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return models.Place{}, ErrNotFound
}

func (ix *MemoryIndex) RoadsMatching(ctx context.Context, query string, mode MatchMode, near geo.Point, radiusMeters float64, limit int) ([]models.Road, error) {
	q := strings.ToLower(query)
	var out []models.Road
	for _, r := range ix.roads {
		if len(out) >= limit {
			break
		}
		name := strings.ToLower(r.Name)
		var matched bool
		switch mode {
		case MatchPrefix:
			matched = strings.HasPrefix(name, q)
		case MatchContains:
			matched = strings.Contains(name, q)
		}
		if !matched {
			continue
		}
		if d, ok := RoadDistance(r, near); !ok || d > radiusMeters {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (ix *MemoryIndex) Counts(ctx context.Context) (int64, int64, error) {
	return int64(len(ix.places)), int64(len(ix.roads)), nil
}

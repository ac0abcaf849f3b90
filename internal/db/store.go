package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Guram-LM/Country-validation/internal/gazetteer"
	"github.com/Guram-LM/Country-validation/internal/geo"
	"github.com/Guram-LM/Country-validation/internal/models"
)

// Store serves the gazetteer.Index contract from Postgres. Road geometry is
// stored as JSONB in [lon, lat] order with a precomputed bounding box used as
// the proximity prefilter.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS places (
			name text PRIMARY KEY,
			lat double precision NOT NULL,
			lon double precision NOT NULL
		);
		CREATE INDEX IF NOT EXISTS places_name_lower_idx ON places (LOWER(name) text_pattern_ops);

		CREATE TABLE IF NOT EXISTS roads (
			id bigserial PRIMARY KEY,
			name text NOT NULL,
			geometry jsonb NOT NULL,
			min_lat double precision NOT NULL,
			min_lon double precision NOT NULL,
			max_lat double precision NOT NULL,
			max_lon double precision NOT NULL
		);
		CREATE INDEX IF NOT EXISTS roads_name_lower_idx ON roads (LOWER(name));
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// escapeLikePattern neutralizes LIKE metacharacters so user input is matched
// literally, never interpreted as a pattern.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", gazetteer.ErrUnavailable, err)
}

func (s *Store) PlacesByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	pattern := escapeLikePattern(strings.ToLower(prefix)) + "%"
	rows, err := s.Pool.Query(ctx, `SELECT name FROM places WHERE LOWER(name) LIKE $1 LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (s *Store) PlaceByName(ctx context.Context, name string) (models.Place, error) {
	var p models.Place
	err := s.Pool.QueryRow(ctx,
		`SELECT name, lat, lon FROM places WHERE LOWER(name) = LOWER($1)`, name,
	).Scan(&p.Name, &p.Location.Lat, &p.Location.Lon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Place{}, gazetteer.ErrNotFound
		}
		return models.Place{}, unavailable(err)
	}
	return p, nil
}

func (s *Store) RoadsMatching(ctx context.Context, query string, mode gazetteer.MatchMode, near geo.Point, radiusMeters float64, limit int) ([]models.Road, error) {
	pattern := escapeLikePattern(strings.ToLower(query)) + "%"
	if mode == gazetteer.MatchContains {
		pattern = "%" + pattern
	}
	box := geo.ExpandBounds(near, radiusMeters)

	rows, err := s.Pool.Query(ctx, `
		SELECT name, geometry FROM roads
		WHERE LOWER(name) LIKE $1
		  AND max_lat >= $2 AND min_lat <= $3
		  AND max_lon >= $4 AND min_lon <= $5
		LIMIT $6
	`, pattern, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon, limit)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []models.Road
	for rows.Next() {
		var name string
		var raw []byte
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, unavailable(err)
		}
		var lines [][][]float64
		if err := json.Unmarshal(raw, &lines); err != nil {
			return nil, unavailable(err)
		}
		ml := make(geo.MultiLine, 0, len(lines))
		for _, line := range lines {
			pl := make(geo.Polyline, 0, len(line))
			for _, coord := range line {
				if len(coord) < 2 {
					continue
				}
				pl = append(pl, geo.Point{Lon: coord[0], Lat: coord[1]})
			}
			if len(pl) > 0 {
				ml = append(ml, pl)
			}
		}
		out = append(out, models.Road{Name: name, Geometry: ml})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

// ImportDataset replaces both tables with the given records in one shot.
func (s *Store) ImportDataset(ctx context.Context, places []models.Place, roads []models.Road) (int64, int64, error) {
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `TRUNCATE places, roads RESTART IDENTITY`)
		return err
	})
	if err != nil {
		return 0, 0, fmt.Errorf("reset tables: %w", err)
	}

	placeRows := make([][]any, 0, len(places))
	for _, p := range places {
		placeRows = append(placeRows, []any{p.Name, p.Location.Lat, p.Location.Lon})
	}
	placeCount, err := s.Pool.CopyFrom(ctx, pgx.Identifier{"places"},
		[]string{"name", "lat", "lon"}, pgx.CopyFromRows(placeRows))
	if err != nil {
		return 0, 0, fmt.Errorf("insert places: %w", err)
	}

	roadRows := make([][]any, 0, len(roads))
	for _, r := range roads {
		box, err := geo.Bounds(r.Geometry)
		if err != nil {
			continue
		}
		lines := make([][][]float64, 0, len(r.Geometry))
		for _, pl := range r.Geometry {
			line := make([][]float64, 0, len(pl))
			for _, p := range pl {
				line = append(line, []float64{p.Lon, p.Lat})
			}
			lines = append(lines, line)
		}
		raw, err := json.Marshal(lines)
		if err != nil {
			return placeCount, 0, fmt.Errorf("encode road geometry: %w", err)
		}
		roadRows = append(roadRows, []any{r.Name, raw, box.MinLat, box.MinLon, box.MaxLat, box.MaxLon})
	}
	roadCount, err := s.Pool.CopyFrom(ctx, pgx.Identifier{"roads"},
		[]string{"name", "geometry", "min_lat", "min_lon", "max_lat", "max_lon"}, pgx.CopyFromRows(roadRows))
	if err != nil {
		return placeCount, 0, fmt.Errorf("insert roads: %w", err)
	}

	return placeCount, roadCount, nil
}

func (s *Store) Counts(ctx context.Context) (int64, int64, error) {
	var places, roads int64
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM places`).Scan(&places); err != nil {
		return 0, 0, unavailable(err)
	}
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM roads`).Scan(&roads); err != nil {
		return 0, 0, unavailable(err)
	}
	return places, roads, nil
}

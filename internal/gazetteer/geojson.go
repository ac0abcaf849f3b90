package gazetteer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Guram-LM/Country-validation/internal/geo"
	"github.com/Guram-LM/Country-validation/internal/models"
)

// GeoJSON decoding for the dataset files. Coordinates follow the GeoJSON
// convention: [lon, lat].

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any  `json:"properties"`
	Geometry   geometryPayload `json:"geometry"`
}

type geometryPayload struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func (f feature) name() string {
	if f.Properties == nil {
		return ""
	}
	if v, ok := f.Properties["name"].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// ParsePlaces decodes a FeatureCollection of named Point features. Features
// without a name or with a non-Point geometry are skipped.
func ParsePlaces(r io.Reader) ([]models.Place, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode places geojson: %w", err)
	}

	var out []models.Place
	for _, f := range fc.Features {
		name := f.name()
		if name == "" || f.Geometry.Type != "Point" {
			continue
		}
		var coord []float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coord); err != nil || len(coord) < 2 {
			continue
		}
		out = append(out, models.Place{
			Name:     name,
			Location: geo.Point{Lon: coord[0], Lat: coord[1]},
		})
	}
	return out, nil
}

// ParseRoads decodes a FeatureCollection of named LineString or
// MultiLineString features. Polylines without points are dropped; a feature
// left with no polylines is skipped entirely.
func ParseRoads(r io.Reader) ([]models.Road, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode roads geojson: %w", err)
	}

	var out []models.Road
	for _, f := range fc.Features {
		name := f.name()
		if name == "" {
			continue
		}

		var lines [][][]float64
		switch f.Geometry.Type {
		case "LineString":
			var single [][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &single); err != nil {
				continue
			}
			lines = [][][]float64{single}
		case "MultiLineString":
			if err := json.Unmarshal(f.Geometry.Coordinates, &lines); err != nil {
				continue
			}
		default:
			continue
		}

		ml := toMultiLine(lines)
		if len(ml) == 0 {
			continue
		}
		out = append(out, models.Road{Name: name, Geometry: ml})
	}
	return out, nil
}

func toMultiLine(lines [][][]float64) geo.MultiLine {
	var ml geo.MultiLine
	for _, line := range lines {
		var pl geo.Polyline
		for _, coord := range line {
			if len(coord) < 2 {
				continue
			}
			pl = append(pl, geo.Point{Lon: coord[0], Lat: coord[1]})
		}
		if len(pl) == 0 {
			continue
		}
		ml = append(ml, pl)
	}
	return ml
}

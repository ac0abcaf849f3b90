package geocode

import (
	"context"

	"github.com/Guram-LM/Country-validation/internal/utils"
)

// MockGeocoder derives a stable pseudo-coordinate from the query hash. Used
// when no provider URL is configured and by tests.
type MockGeocoder struct{}

func (MockGeocoder) Geocode(ctx context.Context, query string, lang string) (Result, error) {
	h := utils.HashStringToUint64(query)
	lat := float64(h%16000)/100 - 80
	lon := float64(h/7%36000)/100 - 180
	return Result{Lat: lat, Lon: lon, DisplayName: query}, nil
}

package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Guram-LM/Country-validation/internal/db"
	"github.com/Guram-LM/Country-validation/internal/gazetteer"
	"github.com/Guram-LM/Country-validation/internal/metrics"
	"github.com/Guram-LM/Country-validation/internal/models"
	"github.com/Guram-LM/Country-validation/internal/resolver"
)

type Handler struct {
	Resolver  *resolver.Service
	Index     gazetteer.Index
	Store     *db.Store // nil when the dataset is file-backed
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

// ImportSummary reports what a dataset import loaded.
type ImportSummary struct {
	Places int64 `json:"places"`
	Roads  int64 `json:"roads"`
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Resolve an address to a coordinate
// @Description Resolves a country/city/street/house-number tuple via the Georgian dataset or the remote geocoding provider
// @Tags resolve
// @Accept json
// @Produce json
// @Param request body resolver.Request true "Address to resolve"
// @Success 200 {object} models.ResolvedAddress
// @Failure 400 {object} map[string]any
// @Router /api/resolve [post]
func (h *Handler) Resolve(c *gin.Context) {
	var req resolver.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Resolver.Resolve(c.Request.Context(), req))
}

// @Summary Suggest city names
// @Tags suggest
// @Produce json
// @Param q query string true "Name prefix (min 2 characters)"
// @Param country query string true "Country name"
// @Success 200 {array} string
// @Router /api/suggest/cities [get]
func (h *Handler) SuggestCities(c *gin.Context) {
	names := h.Resolver.SuggestCities(c.Request.Context(), c.Query("q"), c.Query("country"))
	c.JSON(http.StatusOK, names)
}

// @Summary Suggest street names near a city
// @Tags suggest
// @Produce json
// @Param city query string true "City name"
// @Param q query string true "Name prefix (min 2 characters)"
// @Param country query string true "Country name"
// @Success 200 {array} string
// @Router /api/suggest/streets [get]
func (h *Handler) SuggestStreets(c *gin.Context) {
	names := h.Resolver.SuggestStreets(c.Request.Context(), c.Query("city"), c.Query("q"), c.Query("country"))
	c.JSON(http.StatusOK, names)
}

// @Summary Import the Georgian dataset
// @Description Upload places and roads GeoJSON files, replacing the current dataset
// @Tags dataset
// @Accept multipart/form-data
// @Produce json
// @Param places formData file true "places.geojson"
// @Param roads formData file true "roads.geojson"
// @Success 200 {object} ImportSummary
// @Failure 400 {object} map[string]any
// @Router /api/dataset/import [post]
func (h *Handler) ImportDataset(c *gin.Context) {
	if h.Store == nil {
		writeError(c, http.StatusConflict, "NO_DATABASE", "Dataset import requires a database backend", nil)
		return
	}

	placesFile, err := c.FormFile("places")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "places file required", nil)
		return
	}
	roadsFile, err := c.FormFile("roads")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "roads file required", nil)
		return
	}
	if !validateExt(placesFile.Filename) || !validateExt(roadsFile.Filename) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "files must be .geojson or .json", nil)
		return
	}

	places, err := parsePlacesFile(placesFile)
	if err != nil {
		writeError(c, http.StatusBadRequest, "GEOJSON_PARSE_ERROR", "Failed to parse places", err.Error())
		return
	}
	roads, err := parseRoadsFile(roadsFile)
	if err != nil {
		writeError(c, http.StatusBadRequest, "GEOJSON_PARSE_ERROR", "Failed to parse roads", err.Error())
		return
	}

	placeCount, roadCount, err := h.Store.ImportDataset(c.Request.Context(), places, roads)
	if err != nil {
		h.Logger.Error().Err(err).Msg("dataset import failed")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to import dataset", err.Error())
		return
	}

	metrics.DatasetFeatures.WithLabelValues("places").Set(float64(placeCount))
	metrics.DatasetFeatures.WithLabelValues("roads").Set(float64(roadCount))

	c.JSON(http.StatusOK, ImportSummary{Places: placeCount, Roads: roadCount})
}

// @Summary Dataset statistics
// @Tags dataset
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/dataset/stats [get]
func (h *Handler) DatasetStats(c *gin.Context) {
	counter, ok := h.Index.(gazetteer.Counter)
	if !ok {
		writeError(c, http.StatusNotImplemented, "NOT_SUPPORTED", "Dataset backend does not report counts", nil)
		return
	}
	places, roads, err := counter.Counts(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to count dataset", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places, "roads": roads})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func validateExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".geojson" || ext == ".json"
}

func parsePlacesFile(file *multipart.FileHeader) ([]models.Place, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gazetteer.ParsePlaces(f)
}

func parseRoadsFile(file *multipart.FileHeader) ([]models.Road, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gazetteer.ParseRoads(f)
}

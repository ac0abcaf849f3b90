package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Guram-LM/Country-validation/internal/config"
	"github.com/Guram-LM/Country-validation/internal/db"
	"github.com/Guram-LM/Country-validation/internal/gazetteer"
	"github.com/Guram-LM/Country-validation/internal/http/handlers"
	"github.com/Guram-LM/Country-validation/internal/http/middleware"
	"github.com/Guram-LM/Country-validation/internal/metrics"
	"github.com/Guram-LM/Country-validation/internal/resolver"

	_ "github.com/Guram-LM/Country-validation/docs"
)

func Router(cfg config.Config, index gazetteer.Index, store *db.Store, svc *resolver.Service, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Resolver:  svc,
		Index:     index,
		Store:     store,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/resolve", h.Resolve)
		api.GET("/suggest/cities", h.SuggestCities)
		api.GET("/suggest/streets", h.SuggestStreets)
	}

	admin := api.Group("/dataset")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/import", h.ImportDataset)
		admin.GET("/stats", h.DatasetStats)
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

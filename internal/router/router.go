package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"crossquote/internal/handler"
	"crossquote/internal/middleware"
)

// Options holds the HTTP settings applied as global middleware.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	EnableSwagger  bool
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	log *zap.Logger,
	quoteH *handler.QuoteHandler,
	classificationH *handler.ClassificationHandler,
	catalogH *handler.CatalogHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.BodyLimit(opts.MaxBodyBytes))
	v1.Use(middleware.Timeout(opts.RequestTimeout))

	// Quotes
	quotes := v1.Group("/quotes")
	quotes.POST("", quoteH.Create)
	quotes.POST("/export", quoteH.Export)

	// Classification
	v1.POST("/classifications", classificationH.Classify)
	hsCodes := v1.Group("/hs-codes")
	hsCodes.POST("/validate", classificationH.ValidateCode)
	hsCodes.POST("/mappings", classificationH.RegisterMapping)

	// Logistics
	v1.POST("/logistics/options", quoteH.ShippingOptions)

	// Catalog administration
	admin := v1.Group("/admin")
	admin.GET("/catalog", catalogH.Stats)
	admin.POST("/catalog/refresh", catalogH.Refresh)

	return r
}

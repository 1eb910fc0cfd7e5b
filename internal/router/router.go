package router

import (
	"net/http"
	"time"

	"so101builder/internal/catalog"
	"so101builder/internal/comparison"
	"so101builder/internal/docs"
	"so101builder/internal/export"
	"so101builder/internal/logger"
	"so101builder/internal/middleware"
	"so101builder/internal/pricing"
	"so101builder/internal/recommendation"
	"so101builder/internal/setup"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Log         *logger.Logger
	CORSOrigins []string

	Catalog         *catalog.Handler
	Setup           *setup.Handler
	Pricing         *pricing.Handler
	Recommendations *recommendation.Handler
	Comparison      *comparison.Handler
	Export          *export.Handler
	Docs            *docs.Handler
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	setupID := middleware.ValidSetupID("setup_id")

	// ───────────────────────── WIZARD ─────────────────────────
	wizard := api.Group("/wizard")
	{
		wizard.POST("/start", d.Setup.Start)
		wizard.PUT("/:setup_id/step/:step", setupID, d.Setup.UpdateStep)
		wizard.GET("/:setup_id/summary", setupID, d.Setup.Summary)
		wizard.DELETE("/:setup_id", setupID, d.Setup.Delete)
		wizard.PUT("/:setup_id/components", setupID, d.Setup.SetSelection)
		wizard.DELETE("/:setup_id/components/:component_id", setupID, d.Setup.RemoveSelection)
	}

	// ───────────────────────── COMPONENTS ─────────────────────────
	components := api.Group("/components")
	{
		components.GET("", d.Catalog.List)
		components.GET("/so101-defaults", d.Catalog.Defaults)
		components.GET("/categories", d.Catalog.Categories)
		components.GET("/:id", d.Catalog.Get)
		components.POST("", d.Catalog.Create)
	}

	// ───────────────────────── PRICING ─────────────────────────
	pricingGroup := api.Group("/pricing")
	{
		pricingGroup.GET("/component/:id", d.Pricing.ComponentPrices)
		pricingGroup.POST("/search", d.Pricing.Search)
		pricingGroup.GET("/setup/:setup_id", setupID, d.Pricing.SetupCost)
		pricingGroup.POST("/refresh/:component_id", d.Pricing.Refresh)
	}

	// ───────────────────────── RECOMMENDATIONS ─────────────────────────
	recs := api.Group("/recommendations")
	{
		recs.POST("/generate", d.Recommendations.Generate)
		recs.GET("/:setup_id", setupID, d.Recommendations.Get)
		recs.POST("/chat", d.Recommendations.Chat)
	}

	// ───────────────────────── COMPARISON ─────────────────────────
	api.POST("/comparison/compare", d.Comparison.Compare)

	// ───────────────────────── EXPORT ─────────────────────────
	exports := api.Group("/export")
	{
		exports.POST("/json", d.Export.JSON)
		exports.POST("/shopping-list", d.Export.ShoppingList)
		exports.POST("/xlsx", d.Export.XLSX)
	}

	// ───────────────────────── DOCS ─────────────────────────
	docsGroup := api.Group("/docs")
	{
		docsGroup.GET("", d.Docs.List)
		docsGroup.GET("/categories", d.Docs.Categories)
		docsGroup.GET("/search/fulltext", d.Docs.Search)
		docsGroup.GET("/:slug", d.Docs.Get)
	}

	return r
}

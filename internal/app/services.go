package app

import (
	"so101builder/internal/catalog"
	"so101builder/internal/comparison"
	"so101builder/internal/config"
	"so101builder/internal/docs"
	"so101builder/internal/export"
	"so101builder/internal/logger"
	"so101builder/internal/pricing"
	"so101builder/internal/recommendation"
	"so101builder/internal/router"
	"so101builder/internal/setup"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repos struct {
	Catalog *catalog.PostgresRepository
	Setups  *setup.PostgresRepository
	Docs    *docs.PostgresRepository
}

func wireRepos(pool *pgxpool.Pool) Repos {
	return Repos{
		Catalog: catalog.NewPostgresRepository(pool),
		Setups:  setup.NewPostgresRepository(pool),
		Docs:    docs.NewPostgresRepository(pool),
	}
}

type Services struct {
	Catalog         *catalog.Service
	Setups          *setup.Service
	Pricing         *pricing.Service
	Recommendations *recommendation.Service
	Comparison      *comparison.Service
	Export          *export.Service
	Docs            *docs.Service
}

func wireServices(cfg *config.Config, log *logger.Logger, repos Repos, clients Clients) Services {
	setups := setup.NewService(repos.Setups, repos.Catalog, cfg.Session.Expiry(), log)

	searcher := pricing.NewSearcher(clients.Providers, pricing.SearcherOptions{
		Timeout:  cfg.Search.Timeout,
		Retries:  cfg.Search.Retries,
		CacheTTL: cfg.Search.CacheTTL,
		Cache:    clients.PriceCache,
	}, log)

	resolver := recommendation.NewResolver(clients.LLM, cfg.Gemini.Timeout, log)

	// a typed nil *R2Client must not reach the interface
	var uploader export.Uploader
	if clients.R2 != nil {
		uploader = clients.R2
	}

	return Services{
		Catalog:         catalog.NewService(repos.Catalog, log),
		Setups:          setups,
		Pricing:         pricing.NewService(repos.Catalog, repos.Catalog, setups, searcher, log),
		Recommendations: recommendation.NewService(setups, resolver, log),
		Comparison:      comparison.NewService(repos.Catalog),
		Export:          export.NewService(repos.Catalog, setups, uploader, log),
		Docs:            docs.NewService(repos.Docs, log),
	}
}

// Router builds the HTTP engine over the wired services.
func (a *App) Router() *gin.Engine {
	return router.New(router.Deps{
		Log:             a.Log,
		CORSOrigins:     a.Cfg.CORS.Origins,
		Catalog:         catalog.NewHandler(a.Services.Catalog),
		Setup:           setup.NewHandler(a.Services.Setups),
		Pricing:         pricing.NewHandler(a.Services.Pricing),
		Recommendations: recommendation.NewHandler(a.Services.Recommendations),
		Comparison:      comparison.NewHandler(a.Services.Comparison),
		Export:          export.NewHandler(a.Services.Export),
		Docs:            docs.NewHandler(a.Services.Docs),
	})
}

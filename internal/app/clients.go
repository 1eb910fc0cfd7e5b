package app

import (
	"context"
	"fmt"

	"so101builder/internal/config"
	"so101builder/internal/llm"
	"so101builder/internal/logger"
	"so101builder/internal/pricing"
	"so101builder/internal/storage"
)

// Clients are the optional external services. Each one is left at its
// disabled value when its configuration is missing.
type Clients struct {
	LLM         llm.Client
	Providers   []pricing.Provider
	PriceCache  pricing.Cache
	R2          *storage.R2Client
	redisCloser func() error
}

func wireClients(ctx context.Context, cfg *config.Config, log *logger.Logger) (Clients, error) {
	var c Clients

	// Gemini
	c.LLM = llm.Disabled{}
	if cfg.Gemini.APIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return c, fmt.Errorf("init gemini client: %w", err)
		}
		c.LLM = gemini
		log.Info("gemini enabled", "model", cfg.Gemini.Model)
	} else {
		log.Warn("GEMINI_API_KEY not set, recommendations will use defaults")
	}

	// Price search, Tavily first
	if cfg.Search.TavilyAPIKey != "" {
		c.Providers = append(c.Providers, pricing.NewTavilyClient(cfg.Search.TavilyAPIKey, cfg.Search.Timeout))
	}
	if cfg.Search.SerpAPIKey != "" {
		c.Providers = append(c.Providers, pricing.NewSerpAPIClient(cfg.Search.SerpAPIKey, cfg.Search.Timeout))
	}
	if len(c.Providers) == 0 {
		log.Warn("no price search provider configured")
	}

	// Redis
	c.PriceCache = pricing.NopCache{}
	if cfg.Redis.URL != "" {
		cache, err := pricing.NewRedisCache(ctx, cfg.Redis.URL, log)
		if err != nil {
			// searches still work uncached
			log.Warn("redis unavailable, price search cache disabled", "error", err)
		} else {
			c.PriceCache = cache
			c.redisCloser = cache.Close
		}
	}

	// R2
	if cfg.Storage.Enabled() {
		r2, err := storage.NewR2Client(ctx, cfg.Storage)
		if err != nil {
			return c, fmt.Errorf("init r2 client: %w", err)
		}
		c.R2 = r2
		log.Info("r2 export uploads enabled", "bucket", cfg.Storage.Bucket)
	}

	return c, nil
}

func (c Clients) Close() {
	if c.redisCloser != nil {
		_ = c.redisCloser()
	}
}

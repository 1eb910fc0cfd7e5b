package app

import (
	"context"
	"fmt"

	"so101builder/internal/config"
	"so101builder/internal/db"
	"so101builder/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds everything both binaries share: the pool, external clients and
// the wired services.
type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	DB       *pgxpool.Pool
	Clients  Clients
	Repos    Repos
	Services Services
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	pool, err := db.ConnectPostgres(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	clients, err := wireClients(ctx, cfg, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	repos := wireRepos(pool)
	services := wireServices(cfg, log, repos, clients)

	return &App{
		Log:      log,
		Cfg:      cfg,
		DB:       pool,
		Clients:  clients,
		Repos:    repos,
		Services: services,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.DB != nil {
		a.DB.Close()
	}
}

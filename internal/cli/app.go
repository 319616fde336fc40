// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/bnema/tabtree/internal/cli/styles"
	"github.com/bnema/tabtree/internal/config"
	"github.com/bnema/tabtree/internal/domain/build"
	"github.com/bnema/tabtree/internal/domain/repository"
	"github.com/bnema/tabtree/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tabtree/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	Sessions  repository.SessionStateRepository

	db  *sql.DB
	ctx context.Context
}

// NewApp creates a new CLI application with all dependencies.
func NewApp() (*App, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("config manager: %w", err)
	}
	if err := manager.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := manager.Get()

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("TABTREE_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.NewFromConfigValues(logLevel, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &App{
		Config:   cfg,
		Manager:  manager,
		Theme:    styles.NewTheme(),
		Sessions: sqlite.NewSessionStateRepository(db),
		db:       db,
		ctx:      ctx,
	}, nil
}

// Ctx returns the application context carrying the logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

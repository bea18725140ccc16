package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hr-analytics-go/internal/config"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hr-analytics-go/internal/repository/firebase"
	"github.com/cmlabs-hris/hr-analytics-go/internal/repository/memory"
	"github.com/cmlabs-hris/hr-analytics-go/internal/repository/postgresql"
)

// OpenStore builds the document store selected by cfg.Store.Type. The
// returned close function releases any pool and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (document.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Type {
	case config.StoreFirebase:
		opts := []firebase.Option{}
		if cfg.Store.CredentialsFile != "" {
			hc, err := oauth.NewServiceAccountClient(ctx, cfg.Store.CredentialsFile, oauth.DatabaseScopes...)
			if err != nil {
				return nil, noop, err
			}
			opts = append(opts, firebase.WithHTTPClient(hc))
		}
		if cfg.Store.AuthSecret != "" {
			opts = append(opts, firebase.WithAuthSecret(cfg.Store.AuthSecret))
		}
		opts = append(opts, firebase.WithTimeout(cfg.Store.Timeout), firebase.WithRetryDelay(cfg.Store.RetryDelay))

		client, err := firebase.NewClient(cfg.Store.URL, cfg.Store.RootPath, opts...)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("Using hosted document store", "url", cfg.Store.URL, "root", cfg.Store.RootPath)
		return client, noop, nil

	case config.StoreMemory:
		var seed map[string]any
		if cfg.Store.SeedFile != "" {
			var err error
			if seed, err = memory.LoadSeedFile(cfg.Store.SeedFile); err != nil {
				return nil, noop, err
			}
		}
		slog.Info("Using in-memory document store", "seed", cfg.Store.SeedFile)
		return memory.NewDocumentStore(seed), noop, nil

	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.Database.URL, database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		repo := postgresql.NewDocumentRepository(db, cfg.Store.DocumentKey)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		slog.Info("Using postgres document store", "key", cfg.Store.DocumentKey)
		return repo, db.Close, nil

	default:
		return nil, noop, fmt.Errorf("unsupported store type %q", cfg.Store.Type)
	}
}

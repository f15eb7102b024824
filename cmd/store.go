package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/ridgepoint/commission-cli/internal/store"
	"github.com/ridgepoint/commission-cli/pkg/copper"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "commission.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initCopper() (copper.Client, error) {
	if err := cfg.Validate("sync"); err != nil {
		return nil, err
	}
	return copper.NewClient(cfg.Copper.Token, cfg.Copper.Email,
		copper.FieldIDs{
			AccountOrderID: cfg.Copper.AccountOrderIDField,
			AccountType:    cfg.Copper.AccountTypeField,
			Active:         cfg.Copper.ActiveField,
		},
		copper.WithBaseURL(cfg.Copper.BaseURL),
		copper.WithRateLimit(cfg.Copper.RateLimit),
	), nil
}

package main

import (
	"context"
	"path/filepath"

	"github.com/sells-group/econlink/internal/cache"
	"github.com/sells-group/econlink/internal/config"
	"github.com/sells-group/econlink/internal/fetch"
	"github.com/sells-group/econlink/internal/pipeline"
)

// app wires the shared dependencies behind every command.
type app struct {
	cfg    *config.Config
	store  cache.Store
	client *fetch.Client
	census *fetch.CensusClient
	bls    *fetch.BLSClient
	driver *pipeline.Driver
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := cache.NewSQLite(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	fetcher := fetch.NewHTTPFetcher(fetch.HTTPOptions{
		UserAgent:   cfg.Fetch.UserAgent,
		Timeout:     cfg.Fetch.Timeout(),
		MinInterval: cfg.Fetch.MinInterval(),
		MaxRetries:  cfg.Fetch.MaxRetries,
	})
	client := fetch.NewClient(fetcher, store, cfg.Cache.TTL())

	return &app{
		cfg:    cfg,
		store:  store,
		client: client,
		census: fetch.NewCensusClient(client, cfg.Fetch.CensusBaseURL, cfg.Fetch.CensusAPIKey),
		bls:    fetch.NewBLSClient(client, cfg.Fetch.BLSBaseURL),
		driver: pipeline.NewDriver(store),
	}, nil
}

func (a *app) close() {
	_ = a.store.Close()
}

// rawPath resolves a file under the raw data directory.
func (a *app) rawPath(name string) string {
	return filepath.Join(a.cfg.Data.RawDir, name)
}

// processedPath resolves a file under the processed data directory.
func (a *app) processedPath(name string) string {
	return filepath.Join(a.cfg.Data.ProcessedDir, name)
}

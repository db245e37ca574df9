package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SPANNER_DATABASE", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("DRY_RUN", "")
		t.Setenv("CATALOG_SEED", "")

		cfg := loadConfig()
		assert.Equal(t, "projects/test-project/instances/dev-instance/databases/catalog-db", cfg.SpannerDB)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.False(t, cfg.DryRun)
		assert.Empty(t, cfg.SeedFile)
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("SPANNER_DATABASE", "projects/p/instances/i/databases/d")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("DRY_RUN", "true")

		cfg := loadConfig()
		assert.Equal(t, "projects/p/instances/i/databases/d", cfg.SpannerDB)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.True(t, cfg.DryRun)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		assert.Equal(t, slog.LevelInfo, loadConfig().LogLevel)
	})
}

func TestRun_DryRun(t *testing.T) {
	cfg := Config{DryRun: true, LogLevel: slog.LevelInfo}
	require.NoError(t, run(context.Background(), cfg, slog.New(slog.DiscardHandler)))
}

func TestRun_DryRunWithSeed(t *testing.T) {
	path := writeSeed(t, `
products:
  - name: Desk Lamp
    category: home
    price_cents: 4999
  - name: Chair
    category: home
    price_cents: 12900
`)
	cfg := Config{DryRun: true, SeedFile: path}
	require.NoError(t, run(context.Background(), cfg, slog.New(slog.DiscardHandler)))
}

func TestSeedProducts_Empty(t *testing.T) {
	_, err := seedProducts(writeSeed(t, "products: []"), time.Now())
	assert.Error(t, err)
}

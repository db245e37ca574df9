package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/changetrack/internal/app/product/domain"
	"github.com/light-bringer/changetrack/internal/app/product/session"
	"github.com/light-bringer/changetrack/internal/services"
)

func main() {
	config := loadConfig()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel}))

	if err := run(context.Background(), config, logger); err != nil {
		logger.Error("catalog editor failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config Config, logger *slog.Logger) error {
	logger.Info("starting catalog editor", "database", config.SpannerDB, "dry_run", config.DryRun)

	svc, err := services.NewServiceOptions(ctx, services.Options{
		SpannerDB: config.SpannerDB,
		DryRun:    config.DryRun,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	sess := svc.NewSession()

	// 1. Create the seeded products and save them
	products, err := seedProducts(config.SeedFile, svc.Clock.Now())
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := sess.Create(p); err != nil {
			return err
		}
	}
	if err := sess.Save(ctx); err != nil {
		return err
	}
	p := products[0]

	// 2. Edit, look at the pending changes, roll part of them back
	if err := p.SetName("Brass Desk Lamp"); err != nil {
		return err
	}
	if err := p.SetBasePrice(domain.MustMoney(5999, 100)); err != nil {
		return err
	}
	if err := p.SetImages([]string{"lamp-front.png", "lamp-side.png"}); err != nil {
		return err
	}
	logChanges(ctx, logger, sess.Changes())

	if err := sess.Revert(p, domain.FieldBasePrice); err != nil {
		return err
	}
	logger.InfoContext(ctx, "price reverted", "price", p.BasePrice().String())
	logChanges(ctx, logger, sess.Changes())

	// 3. Save what is left
	if err := sess.Save(ctx); err != nil {
		return err
	}

	// 4. Edit again and discard
	if err := p.Activate(); err != nil {
		return err
	}
	if err := sess.Discard(); err != nil {
		return err
	}
	logger.InfoContext(ctx, "edits discarded", "status", p.Status(), "version", p.Version())

	if config.DryRun {
		return nil
	}

	listed, err := sess.ListByCategory(ctx, p.Category())
	if err != nil {
		return err
	}
	for _, product := range listed {
		logger.InfoContext(ctx, "product", "id", product.ID(), "name", product.Name(), "version", product.Version())
	}
	return nil
}

// seedProducts builds the products of the seed file, or a single demo product without one.
func seedProducts(path string, now time.Time) ([]*domain.Product, error) {
	if path == "" {
		p, err := domain.NewProduct(uuid.New().String(), "Desk Lamp", "Adjustable arm", "home",
			domain.MustMoney(4999, 100), now)
		if err != nil {
			return nil, err
		}
		return []*domain.Product{p}, p.AddTags("lighting", "office")
	}

	seed, err := LoadSeed(path)
	if err != nil {
		return nil, err
	}
	if len(seed.Products) == 0 {
		return nil, fmt.Errorf("seed %s has no products", path)
	}

	products := make([]*domain.Product, 0, len(seed.Products))
	for _, sp := range seed.Products {
		p, err := sp.Build(now)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func logChanges(ctx context.Context, logger *slog.Logger, changes []session.Change) {
	for _, c := range changes {
		logger.InfoContext(ctx, "pending change", "product", c.ProductID, "new", c.New, "fields", c.Fields)
	}
}

// Config holds application configuration.
type Config struct {
	SpannerDB string
	LogLevel  slog.Level
	DryRun    bool
	SeedFile  string
}

// loadConfig loads configuration from environment variables with defaults.
func loadConfig() Config {
	spannerDB := os.Getenv("SPANNER_DATABASE")
	if spannerDB == "" {
		// Default for local development with emulator
		spannerDB = "projects/test-project/instances/dev-instance/databases/catalog-db"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(os.Getenv("LOG_LEVEL")))); err != nil {
		level = slog.LevelInfo
	}

	dryRun, _ := strconv.ParseBool(os.Getenv("DRY_RUN"))

	return Config{
		SpannerDB: spannerDB,
		LogLevel:  level,
		DryRun:    dryRun,
		SeedFile:  os.Getenv("CATALOG_SEED"),
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// target names the Spanner database the migrations run against.
type target struct {
	project  string
	instance string
	database string
}

func (t target) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", t.project, t.instance)
}

func (t target) databasePath() string {
	return fmt.Sprintf("%s/databases/%s", t.instancePath(), t.database)
}

type migrator struct {
	target    target
	dir       string
	emulator  bool
	logger    *slog.Logger
	instances *instance.InstanceAdminClient
	databases *database.DatabaseAdminClient
}

func main() {
	var t target
	flag.StringVar(&t.project, "project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	flag.StringVar(&t.instance, "instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	flag.StringVar(&t.database, "database", getEnvOrDefault("SPANNER_DATABASE_ID", "catalog-db"), "Spanner database ID")
	dir := flag.String("migrations", "migrations", "Directory containing migration SQL files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	emulatorHost := os.Getenv("SPANNER_EMULATOR_HOST")
	if emulatorHost != "" {
		logger.Info("using spanner emulator", "host", emulatorHost)
	}

	if err := run(context.Background(), t, *dir, emulatorHost != "", logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations completed", "database", t.databasePath())
}

func run(ctx context.Context, t target, dir string, emulator bool, logger *slog.Logger) error {
	instances, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instances.Close()

	databases, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer databases.Close()

	m := &migrator{
		target:    t,
		dir:       dir,
		emulator:  emulator,
		logger:    logger,
		instances: instances,
		databases: databases,
	}

	if err := m.ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := m.ensureDatabase(ctx); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := m.apply(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (m *migrator) ensureInstance(ctx context.Context) error {
	_, err := m.instances.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: m.target.instancePath()})
	switch {
	case err == nil:
		m.logger.Info("instance already exists", "instance", m.target.instance)
		return nil
	case status.Code(err) != codes.NotFound:
		m.logger.Warn("unexpected error checking instance", "error", err)
		return nil
	}

	m.logger.Info("creating instance", "instance", m.target.instance)
	op, err := m.instances.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + m.target.project,
		InstanceId: m.target.instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", m.target.project),
			DisplayName: "Catalog Instance",
			NodeCount:   1,
		},
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}

	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		m.logger.Warn("instance creation did not complete cleanly", "error", err)
	}
	return nil
}

func (m *migrator) ensureDatabase(ctx context.Context) error {
	_, err := m.databases.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: m.target.databasePath()})
	switch {
	case err == nil:
		m.logger.Info("database already exists", "database", m.target.database)
		return nil
	case status.Code(err) != codes.NotFound:
		// the emulator reports odd errors for databases that exist
		if m.emulator {
			m.logger.Warn("proceeding with database in emulator mode", "error", err)
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	m.logger.Info("creating database", "database", m.target.database)
	op, err := m.databases.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          m.target.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", m.target.database),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

func (m *migrator) apply(ctx context.Context) error {
	files, err := filepath.Glob(filepath.Join(m.dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		m.logger.Info("no migration files found", "dir", m.dir)
		return nil
	}

	for _, file := range files {
		name := filepath.Base(file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := m.databases.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   m.target.databasePath(),
			Statements: splitDDLStatements(string(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		m.logger.Info("migration applied", "file", name)
	}
	return nil
}

// splitDDLStatements drops comment and blank lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for stmt := range strings.SplitSeq(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

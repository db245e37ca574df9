// Package services wires the catalog editing dependencies together.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/changetrack/internal/app/product/contracts"
	"github.com/light-bringer/changetrack/internal/app/product/repo"
	"github.com/light-bringer/changetrack/internal/app/product/session"
	"github.com/light-bringer/changetrack/internal/pkg/clock"
	"github.com/light-bringer/changetrack/internal/pkg/committer"
)

// Options configures NewServiceOptions.
type Options struct {
	SpannerDB string
	// DryRun skips the Spanner connection. Saves are logged instead of written
	// and product reads fail with repo.ErrNoClient.
	DryRun bool
	Logger *slog.Logger
	Clock  clock.Clock
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Products      contracts.ProductRepository
	Outbox        contracts.OutboxRepository
	Applier       committer.Applier
	Clock         clock.Clock
	Logger        *slog.Logger
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, opts Options) (*ServiceOptions, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}

	s := &ServiceOptions{
		Outbox: repo.NewOutboxRepo(),
		Clock:  clk,
		Logger: logger,
	}

	if opts.DryRun {
		s.Applier = committer.NewDryRun(logger)
	} else {
		client, err := spanner.NewClient(ctx, opts.SpannerDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		s.SpannerClient = client
		s.Applier = committer.NewCommitter(client)
	}

	s.Products = repo.NewProductRepo(s.SpannerClient, clk)
	return s, nil
}

// NewSession starts an editing session on the wired dependencies.
func (s *ServiceOptions) NewSession() *session.Session {
	return session.New(s.Products, s.Outbox, s.Applier, s.Clock, s.Logger)
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}

package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/changetrack/internal/app/product/domain"
	"github.com/light-bringer/changetrack/internal/pkg/changetrack"
	"github.com/light-bringer/changetrack/internal/pkg/committer"
)

// ProductRepository defines the interface for product persistence.
// Repositories return mutations, they don't apply them.
type ProductRepository interface {
	// InsertMut creates a mutation for inserting a new product at its next version
	InsertMut(product *domain.Product) (*spanner.Mutation, error)

	// UpdateMut creates a mutation writing only the columns behind the dirty
	// properties and bumping the version. Returns nil when dirty is empty.
	UpdateMut(product *domain.Product, dirty []*changetrack.Property[*domain.Product]) (*spanner.Mutation, error)

	// VersionCheck guards an update against concurrent writers
	VersionCheck(product *domain.Product) committer.VersionCheck

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListByCategory returns the non-archived products of a category ordered by name
	ListByCategory(ctx context.Context, category string) ([]*domain.Product, error)
}

package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/changetrack/internal/app/product/contracts"
	"github.com/light-bringer/changetrack/internal/app/product/domain"
	"github.com/light-bringer/changetrack/internal/models/m_product"
	"github.com/light-bringer/changetrack/internal/pkg/changetrack"
	"github.com/light-bringer/changetrack/internal/pkg/clock"
	"github.com/light-bringer/changetrack/internal/pkg/committer"
	"github.com/light-bringer/changetrack/internal/pkg/query"
)

// ErrUnmappedProperty is returned for a tracked property with no backing column.
var ErrUnmappedProperty = errors.New("tracked property has no column")

// ErrNoClient is returned by reads on a repo built without a Spanner client.
var ErrNoClient = errors.New("spanner client not configured")

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client *spanner.Client
	model  *m_product.Model
	clock  clock.Clock
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client, clk clock.Clock) contracts.ProductRepository {
	return &ProductRepo{
		client: client,
		model:  m_product.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new product at its next version.
func (r *ProductRepo) InsertMut(product *domain.Product) (*spanner.Mutation, error) {
	data, err := domainToData(product)
	if err != nil {
		return nil, err
	}
	data.Version++
	return r.model.InsertMut(data), nil
}

// UpdateMut creates a mutation for updating a product (only dirty fields).
func (r *ProductRepo) UpdateMut(product *domain.Product, dirty []*changetrack.Property[*domain.Product]) (*spanner.Mutation, error) {
	if len(dirty) == 0 {
		return nil, nil
	}

	updates, err := updateColumns(product, dirty)
	if err != nil {
		return nil, err
	}

	updates[m_product.UpdatedAt] = r.clock.Now()

	// Increment version for optimistic locking
	updates[m_product.Version] = product.Version() + 1

	return r.model.UpdateMut(product.ID(), updates), nil
}

// VersionCheck asserts the stored row is still at the version product was loaded with.
func (r *ProductRepo) VersionCheck(product *domain.Product) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    m_product.TableName,
		Key:      spanner.Key{product.ID()},
		Column:   m_product.Version,
		Expected: product.Version(),
	}
}

// updateColumns maps dirty tracked properties to the columns that store them.
func updateColumns(product *domain.Product, dirty []*changetrack.Property[*domain.Product]) (map[string]interface{}, error) {
	updates := make(map[string]interface{}, len(dirty)+2)
	for _, p := range dirty {
		switch p.Name() {
		case domain.FieldName:
			updates[m_product.Name] = product.Name()
		case domain.FieldDescription:
			updates[m_product.Description] = product.Description()
		case domain.FieldCategory:
			updates[m_product.Category] = product.Category()
		case domain.FieldBasePrice:
			num, denom, err := product.BasePrice().Parts()
			if err != nil {
				return nil, fmt.Errorf("base price exceeds storage capacity: %w", err)
			}
			updates[m_product.BasePriceNumerator] = num
			updates[m_product.BasePriceDenominator] = denom
		case domain.FieldStatus:
			updates[m_product.Status] = string(product.Status())
		case domain.FieldTags:
			updates[m_product.Tags] = nonNil(product.Tags())
		case domain.FieldImages:
			updates[m_product.Images] = nonNil(product.Images())
		case domain.FieldArchivedAt:
			updates[m_product.ArchivedAt] = nullTime(product.ArchivedAt())
		default:
			return nil, fmt.Errorf("%s: %w", p.Name(), ErrUnmappedProperty)
		}
	}
	return updates, nil
}

// GetByID retrieves a product by ID, reconstructing the domain aggregate.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	if r.client == nil {
		return nil, ErrNoClient
	}
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return dataToDomain(&data)
}

// ListByCategory returns the non-archived products of a category ordered by name.
func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	if r.client == nil {
		return nil, ErrNoClient
	}
	stmt := listByCategoryQuery(category)
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var products []*domain.Product
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		p, err := dataToDomain(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, nil
}

func listByCategoryQuery(category string) spanner.Statement {
	return query.From(m_product.TableName).
		Select(m_product.Columns()...).
		Where(query.Eq(m_product.Category, category)).
		Where(query.Ne(m_product.Status, string(domain.StatusArchived))).
		OrderBy(m_product.Name, query.Asc).
		Build()
}

// domainToData converts a domain Product to database Data.
func domainToData(product *domain.Product) (*m_product.Data, error) {
	num, denom, err := product.BasePrice().Parts()
	if err != nil {
		return nil, fmt.Errorf("price exceeds storage capacity: %w", err)
	}

	return &m_product.Data{
		ProductID:            product.ID(),
		Name:                 product.Name(),
		Description:          product.Description(),
		Category:             product.Category(),
		BasePriceNumerator:   num,
		BasePriceDenominator: denom,
		Status:               string(product.Status()),
		Tags:                 nonNil(product.Tags()),
		Images:               nonNil(product.Images()),
		Version:              product.Version(),
		CreatedAt:            product.CreatedAt(),
		UpdatedAt:            product.UpdatedAt(),
		ArchivedAt:           nullTime(product.ArchivedAt()),
	}, nil
}

// dataToDomain converts database Data to a domain Product.
func dataToDomain(data *m_product.Data) (*domain.Product, error) {
	basePrice, err := domain.NewMoney(data.BasePriceNumerator, data.BasePriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid base price: %w", err)
	}

	var archivedAt *time.Time
	if data.ArchivedAt.Valid {
		archivedAt = &data.ArchivedAt.Time
	}

	return domain.ReconstructProduct(
		data.ProductID,
		data.Name,
		data.Description,
		data.Category,
		basePrice,
		domain.ProductStatus(data.Status),
		data.Tags,
		data.Images,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
		archivedAt,
	), nil
}

func nullTime(t *time.Time) spanner.NullTime {
	if t == nil {
		return spanner.NullTime{}
	}
	return spanner.NullTime{Time: *t, Valid: true}
}

// nonNil keeps empty lists from being written as NULL arrays.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

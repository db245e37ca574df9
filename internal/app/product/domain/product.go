package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/light-bringer/changetrack/internal/pkg/changetrack"
)

// Field names for change tracking
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldBasePrice   = "base_price"
	FieldStatus      = "status"
	FieldTags        = "tags"
	FieldImages      = "images"
	FieldArchivedAt  = "archived_at"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	StatusInactive ProductStatus = "inactive"
	StatusActive   ProductStatus = "active"
	StatusArchived ProductStatus = "archived"
)

// Product is the aggregate root for product editing.
// Mutations are plain field updates; which of them are pending is decided by
// comparing against a changetrack snapshot, see Schema.
type Product struct {
	id          string
	name        string
	description string
	category    string
	basePrice   *Money
	status      ProductStatus
	tags        *changetrack.Bag[string]
	images      []string
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
	archivedAt  *time.Time
}

var productSchema = changetrack.NewSchema(
	changetrack.Field(FieldName,
		func(p *Product) string { return p.name },
		func(p *Product, v string) { p.name = v }),
	changetrack.Field(FieldDescription,
		func(p *Product) string { return p.description },
		func(p *Product, v string) { p.description = v }),
	changetrack.Field(FieldCategory,
		func(p *Product) string { return p.category },
		func(p *Product, v string) { p.category = v }),
	changetrack.Field(FieldBasePrice,
		func(p *Product) *Money { return p.basePrice },
		func(p *Product, v *Money) { p.basePrice = v }),
	changetrack.Field(FieldStatus,
		func(p *Product) ProductStatus { return p.status },
		func(p *Product, v ProductStatus) { p.status = v }),
	changetrack.CollectionField(FieldTags,
		func(p *Product) *changetrack.Bag[string] { return p.tags },
		func(p *Product, v *changetrack.Bag[string]) { p.tags = v }),
	// Image order is the gallery order; the slice itself is replaced freely by SetImages.
	changetrack.CollectionField(FieldImages,
		func(p *Product) []string { return p.images },
		func(p *Product, v []string) { p.images = v },
		changetrack.WithoutInstance()),
	changetrack.Field(FieldArchivedAt,
		func(p *Product) *time.Time { return p.archivedAt },
		func(p *Product, v *time.Time) { p.archivedAt = v }),
)

// Schema returns the tracked properties of Product.
func Schema() *changetrack.Schema[*Product] {
	return productSchema
}

// NewProduct creates a new, inactive Product.
func NewProduct(id, name, description, category string, basePrice *Money, now time.Time) (*Product, error) {
	p := &Product{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		basePrice:   basePrice,
		status:      StatusInactive,
		tags:        changetrack.NewBag[string](),
		images:      []string{},
		createdAt:   now,
		updatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ReconstructProduct reconstitutes a Product from storage.
func ReconstructProduct(
	id, name, description, category string,
	basePrice *Money,
	status ProductStatus,
	tags, images []string,
	version int64,
	createdAt, updatedAt time.Time,
	archivedAt *time.Time,
) *Product {
	if images == nil {
		images = []string{}
	}
	return &Product{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		basePrice:   basePrice,
		status:      status,
		tags:        changetrack.NewBag(tags...),
		images:      slices.Clone(images),
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		archivedAt:  archivedAt,
	}
}

// Getters
func (p *Product) ID() string             { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Description() string    { return p.description }
func (p *Product) Category() string       { return p.category }
func (p *Product) BasePrice() *Money      { return p.basePrice }
func (p *Product) Status() ProductStatus  { return p.status }
func (p *Product) Tags() []string         { return p.tags.Values() }
func (p *Product) Images() []string       { return slices.Clone(p.images) }
func (p *Product) Version() int64         { return p.version }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }
func (p *Product) ArchivedAt() *time.Time { return p.archivedAt }

// SetName updates the product name.
func (p *Product) SetName(name string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	p.name = name
	return nil
}

// SetDescription updates the product description.
func (p *Product) SetDescription(description string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	p.description = description
	return nil
}

// SetCategory updates the product category.
func (p *Product) SetCategory(category string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	if category == "" {
		return ErrInvalidCategory
	}
	p.category = category
	return nil
}

// SetBasePrice updates the base price.
func (p *Product) SetBasePrice(price *Money) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	if price == nil || !price.IsPositive() {
		return ErrInvalidPrice
	}
	p.basePrice = price
	return nil
}

// AddTags adds tags, ignoring ones the product already has. Tags are lower-cased.
func (p *Product) AddTags(tags ...string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return ErrEmptyTag
		}
		if !slices.Contains(p.tags.Values(), tag) {
			p.tags.Add(tag)
		}
	}
	return nil
}

// RemoveTag removes a tag if present.
func (p *Product) RemoveTag(tag string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	p.tags.DeleteFunc(func(t string) bool { return t == tag })
	return nil
}

// SetImages replaces the image gallery; order is significant.
func (p *Product) SetImages(images []string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	p.images = append(p.images[:0], images...)
	return nil
}

// Activate activates the product.
func (p *Product) Activate() error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	if p.status == StatusActive {
		return ErrAlreadyActive
	}
	p.status = StatusActive
	return nil
}

// Deactivate deactivates the product.
func (p *Product) Deactivate() error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	if p.status == StatusInactive {
		return ErrAlreadyInactive
	}
	p.status = StatusInactive
	return nil
}

// Archive archives the product (soft delete).
func (p *Product) Archive(now time.Time) error {
	if p.status == StatusArchived {
		return ErrAlreadyArchived
	}
	p.status = StatusArchived
	p.archivedAt = &now
	return nil
}

// IsActive returns true if the product is active.
func (p *Product) IsActive() bool {
	return p.status == StatusActive
}

// IsArchived returns true if the product is archived.
func (p *Product) IsArchived() bool {
	return p.status == StatusArchived
}

// Validate checks the invariants that must hold before a product is persisted.
func (p *Product) Validate() error {
	if p.name == "" {
		return ErrEmptyName
	}
	if p.category == "" {
		return ErrInvalidCategory
	}
	if p.basePrice == nil || !p.basePrice.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// MarkPersisted records a successful save at the given version.
func (p *Product) MarkPersisted(version int64, at time.Time) {
	p.version = version
	p.updatedAt = at
}

// checkNotArchived returns an error if the product is archived.
func (p *Product) checkNotArchived() error {
	if p.status == StatusArchived {
		return ErrCannotModifyArchived
	}
	return nil
}

package m_product

import (
	"slices"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a product.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns(),
		[]interface{}{
			data.ProductID,
			data.Name,
			data.Description,
			data.Category,
			data.BasePriceNumerator,
			data.BasePriceDenominator,
			data.Status,
			data.Tags,
			data.Images,
			data.Version,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
			data.ArchivedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific product fields.
// Columns follow the product ID in sorted order so equal updates produce equal mutations.
func (m *Model) UpdateMut(productID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns, values := UpdateColumns(productID, updates)
	return spanner.Update(TableName, columns, values)
}

// UpdateColumns lays out an update the way UpdateMut writes it.
func UpdateColumns(productID string, updates map[string]interface{}) ([]string, []interface{}) {
	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, ProductID)
	values = append(values, productID)

	names := make([]string, 0, len(updates))
	for col := range updates {
		names = append(names, col)
	}
	slices.Sort(names)

	for _, col := range names {
		columns = append(columns, col)
		values = append(values, updates[col])
	}
	return columns, values
}

package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID            = "product_id"
	Name                 = "name"
	Description          = "description"
	Category             = "category"
	BasePriceNumerator   = "base_price_numerator"
	BasePriceDenominator = "base_price_denominator"
	Status               = "status"
	Tags                 = "tags"
	Images               = "images"
	Version              = "version"
	CreatedAt            = "created_at"
	UpdatedAt            = "updated_at"
	ArchivedAt           = "archived_at"
)

// Columns returns every column of the products table in schema order.
func Columns() []string {
	return []string{
		ProductID,
		Name,
		Description,
		Category,
		BasePriceNumerator,
		BasePriceDenominator,
		Status,
		Tags,
		Images,
		Version,
		CreatedAt,
		UpdatedAt,
		ArchivedAt,
	}
}

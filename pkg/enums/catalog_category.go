package enums

import "fmt"

// CatalogCategory tags rows of catalogo_simple. Every reference value the
// importers resolve (products, varieties, lengths, packagings, box types,
// order types, groups) and the serialized weight rules live in this one table.
type CatalogCategory string

const (
	CategoryProduct    CatalogCategory = "producto"
	CategoryVariety    CatalogCategory = "variedad"
	CategoryLength     CatalogCategory = "longitud"
	CategoryPacking    CatalogCategory = "empaque"
	CategoryBoxType    CatalogCategory = "tipocaja"
	CategoryOrderType  CatalogCategory = "tipopedido"
	CategoryGroup      CatalogCategory = "grupo"
	CategoryWeightRule CatalogCategory = "regla_peso"
)

var validCatalogCategories = []CatalogCategory{
	CategoryProduct,
	CategoryVariety,
	CategoryLength,
	CategoryPacking,
	CategoryBoxType,
	CategoryOrderType,
	CategoryGroup,
	CategoryWeightRule,
}

// CatalogCategories lists every recognized category.
func CatalogCategories() []CatalogCategory {
	out := make([]CatalogCategory, len(validCatalogCategories))
	copy(out, validCatalogCategories)
	return out
}

// String implements fmt.Stringer.
func (c CatalogCategory) String() string {
	return string(c)
}

// IsValid reports whether the category is recognized.
func (c CatalogCategory) IsValid() bool {
	for _, candidate := range validCatalogCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCatalogCategory converts a raw string into a CatalogCategory.
func ParseCatalogCategory(value string) (CatalogCategory, error) {
	for _, candidate := range validCatalogCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog category %q", value)
}

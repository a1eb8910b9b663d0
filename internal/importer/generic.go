package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
)

// Header keys the generic vendor format carries. Missing headers are
// tolerated: the matching field stays empty for every row.
const (
	headerClientCode    = "client code"
	headerVariety       = "variety"
	headerProduct       = "product"
	headerLengthGrade   = "length/grade"
	headerStemsPerBunch = "stems x bunch"
	headerBoxes         = "boxes"
	headerStems         = "stems"
	headerTotalStems    = "total stems"
	headerOrderType     = "order type"
	headerFarm          = "farm"
)

// GenericAdapter maps rows of the generic vendor sheet onto order drafts.
// Every free-text column goes through catalog resolution; misses stay null.
type GenericAdapter struct {
	catalog  CatalogResolver
	supplier SupplierResolver
}

// NewGenericAdapter builds the adapter with the required resolvers.
func NewGenericAdapter(catalog CatalogResolver, supplier SupplierResolver) (*GenericAdapter, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if supplier == nil {
		return nil, fmt.Errorf("supplier resolver required")
	}
	return &GenericAdapter{catalog: catalog, supplier: supplier}, nil
}

// MapRow resolves one sheet row into an order draft for the invoice.
func (a *GenericAdapter) MapRow(ctx context.Context, row Row, invoiceID, clientID int64) (*models.Order, error) {
	variety := row.Get(headerVariety)
	farm := row.Get(headerFarm)

	// the product column is free-form enough that it is matched against the
	// whole catalog, not one category
	product, err := a.catalog.Resolve(ctx, row.Get(headerProduct), nil)
	if err != nil {
		return nil, err
	}
	var productID *int64
	if product != nil {
		id := product.ID
		productID = &id
	}

	varietyID, err := a.catalog.ResolveID(ctx, variety, enums.CategoryVariety)
	if err != nil {
		return nil, err
	}
	lengthID, err := a.catalog.ResolveID(ctx, row.Get(headerLengthGrade), enums.CategoryLength)
	if err != nil {
		return nil, err
	}
	packingID, err := a.catalog.ResolveID(ctx, row.Get(headerStemsPerBunch), enums.CategoryPacking)
	if err != nil {
		return nil, err
	}
	orderTypeID, err := a.catalog.ResolveID(ctx, row.Get(headerOrderType), enums.CategoryOrderType)
	if err != nil {
		return nil, err
	}

	var supplierID *int64
	if farm != "" {
		supplierID, err = a.supplier.ResolveSupplierID(ctx, farm)
		if err != nil {
			return nil, err
		}
	}

	notes := []string{variety}
	if farm != "" {
		notes = append(notes, "Finca: "+farm)
	}

	order := &models.Order{
		InvoiceID:   invoiceID,
		ClientID:    clientID,
		Code:        row.Get(headerClientCode),
		Notes:       strings.Join(notes, " | "),
		ProductID:   productID,
		VarietyID:   varietyID,
		LengthID:    lengthID,
		PackingID:   packingID,
		OrderTypeID: orderTypeID,
		SupplierID:  supplierID,
	}

	if boxes, ok := parseFloatCell(row.Get(headerBoxes)); ok {
		order.Quantity = &boxes
	}
	if stems, ok := parseIntCell(row.Get(headerStems)); ok {
		order.Stems = &stems
	}
	if total, ok := parseFloatCell(row.Get(headerTotalStems)); ok {
		order.TotalStems = &total
	} else if order.Quantity != nil && order.Stems != nil {
		total := *order.Quantity * float64(*order.Stems)
		order.TotalStems = &total
	}

	return order, nil
}

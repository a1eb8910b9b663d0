package importer

import (
	"context"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
)

// CatalogResolver converts free text into catalog ids.
type CatalogResolver interface {
	Resolve(ctx context.Context, text string, category *enums.CatalogCategory) (*models.CatalogEntry, error)
	ResolveID(ctx context.Context, text string, category enums.CatalogCategory) (*int64, error)
}

// SupplierResolver converts a farm name into a supplier id.
type SupplierResolver interface {
	ResolveSupplierID(ctx context.Context, text string) (*int64, error)
}

// OrderInserter persists one mapped order row.
type OrderInserter interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}

// InvoiceClientSource looks up the client an invoice belongs to.
type InvoiceClientSource interface {
	FindClientID(ctx context.Context, invoiceID int64) (int64, error)
}

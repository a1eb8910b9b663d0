package catalog

import (
	"context"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the simple catalog table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.CatalogEntry) (*models.CatalogEntry, error)
	FindByID(ctx context.Context, id int64) (*models.CatalogEntry, error)
	ListByCategory(ctx context.Context, category enums.CatalogCategory) ([]models.CatalogEntry, error)
	ListAll(ctx context.Context) ([]models.CatalogEntry, error)
	UpdateValue(ctx context.Context, id int64, value string) error
	Delete(ctx context.Context, id int64) error
	ResolveValue(ctx context.Context, text string, category *enums.CatalogCategory) (*models.CatalogEntry, error)
}

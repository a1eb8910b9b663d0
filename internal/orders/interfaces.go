package orders

import (
	"context"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]models.Order, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

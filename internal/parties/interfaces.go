package parties

import (
	"context"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for terceros (clients, suppliers
// and cargo agents).
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, party *models.Party) (*models.Party, error)
	FindByID(ctx context.Context, id int64) (*models.Party, error)
	ListByType(ctx context.Context, partyType enums.PartyType) ([]models.Party, error)
	ListAll(ctx context.Context) ([]models.Party, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	ResolveByName(ctx context.Context, text string, partyType enums.PartyType) (*models.Party, error)
}

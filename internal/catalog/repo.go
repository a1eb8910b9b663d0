package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.CatalogEntry) (*models.CatalogEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListByCategory(ctx context.Context, category enums.CatalogCategory) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("categoria = ?", category).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := r.db.WithContext(ctx).
		Order("categoria ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) UpdateValue(ctx context.Context, id int64, value string) error {
	result := r.db.WithContext(ctx).
		Model(&models.CatalogEntry{}).
		Where("id = ?", id).
		Update("valor", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.CatalogEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ResolveValue finds the first catalog entry whose value contains the
// normalized free text. Rows are scanned in id order so repeated imports of
// the same sheet resolve to the same entry. A miss returns (nil, nil).
func (r *repository) ResolveValue(ctx context.Context, text string, category *enums.CatalogCategory) (*models.CatalogEntry, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Where("LOWER(TRIM(valor)) LIKE ?", "%"+needle+"%")
	if category != nil {
		query = query.Where("categoria = ?", *category)
	}

	var entry models.CatalogEntry
	err := query.Order("id ASC").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

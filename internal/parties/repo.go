package parties

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

// NewRepository builds a parties repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, party *models.Party) (*models.Party, error) {
	if err := r.db.WithContext(ctx).Create(party).Error; err != nil {
		return nil, err
	}
	return party, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Party, error) {
	var party models.Party
	err := r.db.WithContext(ctx).
		Where("idtercero = ?", id).
		First(&party).Error
	if err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *repository) ListByType(ctx context.Context, partyType enums.PartyType) ([]models.Party, error) {
	var list []models.Party
	err := r.db.WithContext(ctx).
		Where("tipo = ?", partyType).
		Order("nombre ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Party, error) {
	var list []models.Party
	err := r.db.WithContext(ctx).
		Order("nombre ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Party{}).
		Where("idtercero = ?", id).
		Updates(updates)
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
		Where("idtercero = ?", id).
		Delete(&models.Party{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ResolveByName finds the first party of the given type whose name contains
// the normalized free text, scanning in id order. A miss returns (nil, nil).
func (r *repository) ResolveByName(ctx context.Context, text string, partyType enums.PartyType) (*models.Party, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, nil
	}

	var party models.Party
	err := r.db.WithContext(ctx).
		Where("tipo = ?", partyType).
		Where("LOWER(TRIM(nombre)) LIKE ?", "%"+needle+"%").
		Order("idtercero ASC").
		First(&party).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &party, nil
}

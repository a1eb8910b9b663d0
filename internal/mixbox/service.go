package mixbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	pkgerrors "github.com/dquinterov/mesacompras-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultGroupID is assigned to decomposition children that arrive without an
// explicit group.
const DefaultGroupID int64 = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service splits one mixed-content detail row into its component rows.
type Service interface {
	Decompose(ctx context.Context, detailID int64, items []ItemInput) (*Result, error)
}

// ItemInput is one derived row of a decomposed box.
type ItemInput struct {
	GroupID   *int64           `json:"idgrupo"`
	ProductID *int64           `json:"idproducto"`
	VarietyID *int64           `json:"idvariedad"`
	LengthID  *int64           `json:"idlongitud"`
	PackingID *int64           `json:"idempaque"`
	BoxTypeID *int64           `json:"idtipocaja"`
	Quantity  float64          `json:"cantidad" validate:"required,gt=0"`
	Bunches   *int             `json:"cantidadRamos"`
	Stems     *int             `json:"cantidadTallos"`
	UnitPrice *decimal.Decimal `json:"precio_unitario"`
}

// Result reports the replacement rows created by one decomposition.
type Result struct {
	OriginalID int64   `json:"original_id"`
	ChildIDs   []int64 `json:"child_ids"`
}

type service struct {
	tx txRunner
}

// NewService builds the decomposer with the required dependencies.
func NewService(tx txRunner) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{tx: tx}, nil
}

// Decompose deletes the original detail row and inserts one row per item,
// each tagged with idmix = original id, inside a single transaction. Children
// inherit the original's invoice, order and supplier references.
func (s *service) Decompose(ctx context.Context, detailID int64, items []ItemInput) (*Result, error) {
	if detailID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "detail id is required")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one mix item is required")
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("mix item %d: quantity must be positive", i))
		}
	}

	result := &Result{OriginalID: detailID}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var original models.InvoiceDetail
		err := tx.Where("iddetalle = ?", detailID).First(&original).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("detail %d not found", detailID))
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading detail")
		}
		if original.MixParentID != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("detail %d is already a mix child and cannot be decomposed", detailID))
		}

		if err := tx.Where("iddetalle = ?", detailID).Delete(&models.InvoiceDetail{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting original detail")
		}

		for _, item := range items {
			child := buildChild(&original, item)
			if err := tx.Create(child).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting mix item")
			}
			result.ChildIDs = append(result.ChildIDs, child.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func buildChild(original *models.InvoiceDetail, item ItemInput) *models.InvoiceDetail {
	groupID := item.GroupID
	if groupID == nil {
		fallback := DefaultGroupID
		groupID = &fallback
	}

	unitPrice := original.UnitPrice
	if item.UnitPrice != nil {
		unitPrice = *item.UnitPrice
	}

	parentID := original.ID
	return &models.InvoiceDetail{
		InvoiceID:        original.InvoiceID,
		OrderID:          original.OrderID,
		Code:             original.Code,
		GroupID:          groupID,
		SupplierID:       original.SupplierID,
		ProductID:        item.ProductID,
		VarietyID:        item.VarietyID,
		LengthID:         item.LengthID,
		PackingID:        item.PackingID,
		BoxTypeID:        item.BoxTypeID,
		Quantity:         item.Quantity,
		Bunches:          item.Bunches,
		Stems:            item.Stems,
		UnitPrice:        unitPrice,
		Subtotal:         unitPrice.Mul(decimal.NewFromFloat(item.Quantity)),
		SupplierDocument: original.SupplierDocument,
		MasterWaybill:    original.MasterWaybill,
		UserID:           original.UserID,
		PurchasedAt:      original.PurchasedAt,
		MixParentID:      &parentID,
	}
}

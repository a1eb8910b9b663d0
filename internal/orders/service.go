package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	pkgerrors "github.com/dquinterov/mesacompras-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// orderColumns are the order fields a client may patch.
var orderColumns = map[string]bool{
	"codigo":        true,
	"observaciones": true,
	"idproducto":    true,
	"idvariedad":    true,
	"idlongitud":    true,
	"idempaque":     true,
	"idtipocaja":    true,
	"idtipopedido":  true,
	"idproveedor":   true,
	"cantidad":      true,
	"tallos":        true,
	"totaltallos":   true,
}

// Service exposes order line operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]models.Order, error)
	UpdateField(ctx context.Context, id int64, field string, value any) error
	BatchDelete(ctx context.Context, ids []int64) (int64, error)
}

// CreateOrderInput carries the fields for a manually pasted order line.
type CreateOrderInput struct {
	InvoiceID   int64    `json:"idfactura" validate:"required,gt=0"`
	ClientID    int64    `json:"idcliente" validate:"required,gt=0"`
	Code        string   `json:"codigo"`
	Notes       string   `json:"observaciones"`
	ProductID   *int64   `json:"idproducto"`
	VarietyID   *int64   `json:"idvariedad"`
	LengthID    *int64   `json:"idlongitud"`
	PackingID   *int64   `json:"idempaque"`
	BoxTypeID   *int64   `json:"idtipocaja"`
	OrderTypeID *int64   `json:"idtipopedido"`
	SupplierID  *int64   `json:"idproveedor"`
	Quantity    *float64 `json:"cantidad"`
	Stems       *int     `json:"tallos"`
	TotalStems  *float64 `json:"totaltallos"`
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo, validate: validator.New()}, nil
}

// Create inserts one order line. When totaltallos is absent it defaults to
// cantidad * tallos, mirroring what the spreadsheet importers do.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order payload")
	}

	totalStems := input.TotalStems
	if totalStems == nil && input.Quantity != nil && input.Stems != nil {
		total := *input.Quantity * float64(*input.Stems)
		totalStems = &total
	}

	order := &models.Order{
		InvoiceID:   input.InvoiceID,
		ClientID:    input.ClientID,
		Code:        input.Code,
		Notes:       input.Notes,
		ProductID:   input.ProductID,
		VarietyID:   input.VarietyID,
		LengthID:    input.LengthID,
		PackingID:   input.PackingID,
		BoxTypeID:   input.BoxTypeID,
		OrderTypeID: input.OrderTypeID,
		SupplierID:  input.SupplierID,
		Quantity:    input.Quantity,
		Stems:       input.Stems,
		TotalStems:  totalStems,
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}
	return created, nil
}

func (s *service) ListByInvoice(ctx context.Context, invoiceID int64) ([]models.Order, error) {
	if invoiceID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	orders, err := s.repo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

func (s *service) UpdateField(ctx context.Context, id int64, field string, value any) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !orderColumns[field] {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("field %q cannot be updated", field))
	}

	err := s.repo.Update(ctx, id, map[string]any{field: value})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %d not found", id))
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
	}
	return nil
}

func (s *service) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one order id is required")
	}
	for _, id := range ids {
		if id <= 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order id %d", id))
		}
	}

	deleted, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting orders")
	}
	return deleted, nil
}

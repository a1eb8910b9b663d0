package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	pkgerrors "github.com/dquinterov/mesacompras-backend/pkg/errors"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// headerColumns are the invoice header fields a client may patch.
var headerColumns = map[string]bool{
	"numero_factura": true,
	"idcliente":      true,
	"fecha":          true,
	"fecha_vuelo":    true,
	"awb":            true,
	"hawb":           true,
	"idcarguera":     true,
	"iddae":          true,
	"estado":         true,
}

// detailColumns are the detail fields a client may patch.
var detailColumns = map[string]bool{
	"codigo":              true,
	"idgrupo":             true,
	"idproveedor":         true,
	"idproducto":          true,
	"idvariedad":          true,
	"idlongitud":          true,
	"idempaque":           true,
	"idtipocaja":          true,
	"cantidad":            true,
	"cantidadRamos":       true,
	"cantidadTallos":      true,
	"precio_unitario":     true,
	"precio_venta":        true,
	"subtotal":            true,
	"documento_proveedor": true,
	"guia_master":         true,
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes consolidated invoice operations.
type Service interface {
	Create(ctx context.Context, input CreateInvoiceInput) (*models.Invoice, error)
	MaxNumber(ctx context.Context) (int64, error)
	ListInProcess(ctx context.Context) ([]InvoiceWithClient, error)
	ListWithDetails(ctx context.Context) ([]InvoiceWithDetails, error)
	UpdateHeaderField(ctx context.Context, id int64, field string, value any) error
	ListDetails(ctx context.Context, invoiceID int64) ([]models.InvoiceDetail, error)
	UpdateDetailField(ctx context.Context, detailID int64, field string, value any) error
	AssignAWB(ctx context.Context, input AssignAWBInput) (int64, error)
	ConfirmPurchase(ctx context.Context, input ConfirmPurchaseInput) (*models.InvoiceDetail, error)
	FindClientID(ctx context.Context, invoiceID int64) (int64, error)
}

// CreateInvoiceInput carries the fields for a new invoice header.
type CreateInvoiceInput struct {
	Number     int64      `json:"numero_factura" validate:"required,gt=0"`
	ClientID   int64      `json:"idcliente" validate:"required,gt=0"`
	Date       *time.Time `json:"fecha"`
	FlightDate *time.Time `json:"fecha_vuelo"`
	AWB        *string    `json:"awb"`
	HAWB       *string    `json:"hawb"`
}

// AssignAWBInput targets every detail row of one group within an invoice.
type AssignAWBInput struct {
	InvoiceID int64  `json:"idfactura" validate:"required,gt=0"`
	GroupID   int64  `json:"idgrupo" validate:"required,gt=0"`
	AWB       string `json:"guia_master" validate:"required"`
}

// ConfirmPurchaseInput records a purchase against an order.
type ConfirmPurchaseInput struct {
	InvoiceID        int64            `json:"idfactura" validate:"required,gt=0"`
	OrderID          int64            `json:"idpedido" validate:"required,gt=0"`
	Code             string           `json:"codigo"`
	GroupID          *int64           `json:"idgrupo"`
	SupplierID       int64            `json:"idproveedor" validate:"required,gt=0"`
	ProductID        *int64           `json:"idproducto"`
	VarietyID        *int64           `json:"idvariedad"`
	LengthID         *int64           `json:"idlongitud"`
	PackingID        *int64           `json:"idempaque"`
	BoxTypeID        *int64           `json:"idtipocaja"`
	Quantity         float64          `json:"cantidad" validate:"required,gt=0"`
	Bunches          *int             `json:"cantidadRamos"`
	Stems            *int             `json:"cantidadTallos"`
	UnitPrice        decimal.Decimal  `json:"precio_unitario"`
	SalePrice        *decimal.Decimal `json:"precio_venta"`
	SupplierDocument *string          `json:"documento_proveedor"`
	UserID           *int64           `json:"idusuario"`
}

// InvoiceWithDetails bundles an in-process invoice with its detail rows.
type InvoiceWithDetails struct {
	InvoiceWithClient
	Details []models.InvoiceDetail `json:"detalles"`
}

type service struct {
	repo     Repository
	tx       txRunner
	validate *validator.Validate
	logg     *logger.Logger
	now      clock
}

// NewService builds the invoice service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		validate: validator.New(),
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInvoiceInput) (*models.Invoice, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice payload")
	}

	date := s.now()
	if input.Date != nil {
		date = *input.Date
	}

	invoice := &models.Invoice{
		Number:     input.Number,
		ClientID:   input.ClientID,
		Date:       date,
		FlightDate: input.FlightDate,
		AWB:        input.AWB,
		HAWB:       input.HAWB,
		Status:     enums.InvoiceStatusInProcess,
	}
	created, err := s.repo.Create(ctx, invoice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating invoice")
	}
	return created, nil
}

func (s *service) MaxNumber(ctx context.Context) (int64, error) {
	max, err := s.repo.MaxNumber(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "querying max invoice number")
	}
	return max, nil
}

func (s *service) ListInProcess(ctx context.Context) ([]InvoiceWithClient, error) {
	rows, err := s.repo.ListInProcess(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing invoices")
	}
	return rows, nil
}

func (s *service) ListWithDetails(ctx context.Context) ([]InvoiceWithDetails, error) {
	headers, err := s.repo.ListInProcess(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing invoices")
	}

	out := make([]InvoiceWithDetails, 0, len(headers))
	for _, header := range headers {
		details, err := s.repo.ListDetails(ctx, header.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing invoice details")
		}
		out = append(out, InvoiceWithDetails{InvoiceWithClient: header, Details: details})
	}
	return out, nil
}

func (s *service) UpdateHeaderField(ctx context.Context, id int64, field string, value any) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	if !headerColumns[field] {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("field %q cannot be updated", field))
	}

	err := s.repo.UpdateHeader(ctx, id, map[string]any{field: value})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("invoice %d not found", id))
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating invoice")
	}
	return nil
}

func (s *service) ListDetails(ctx context.Context, invoiceID int64) ([]models.InvoiceDetail, error) {
	if invoiceID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	details, err := s.repo.ListDetails(ctx, invoiceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing invoice details")
	}
	return details, nil
}

func (s *service) UpdateDetailField(ctx context.Context, detailID int64, field string, value any) error {
	if detailID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "detail id is required")
	}
	if !detailColumns[field] {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("field %q cannot be updated", field))
	}

	err := s.repo.UpdateDetail(ctx, detailID, map[string]any{field: value})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("detail %d not found", detailID))
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating invoice detail")
	}
	return nil
}

func (s *service) AssignAWB(ctx context.Context, input AssignAWBInput) (int64, error) {
	if err := s.validate.Struct(input); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid awb payload")
	}

	updated, err := s.repo.AssignMasterWaybill(ctx, input.InvoiceID, input.GroupID, input.AWB)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assigning master waybill")
	}
	return updated, nil
}

// ConfirmPurchase inserts the purchased detail row and decrements the source
// order balance inside one transaction.
func (s *service) ConfirmPurchase(ctx context.Context, input ConfirmPurchaseInput) (*models.InvoiceDetail, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase payload")
	}

	stems := 0
	if input.Stems != nil {
		stems = *input.Stems
	}

	purchasedAt := s.now()
	orderID := input.OrderID
	supplierID := input.SupplierID
	detail := &models.InvoiceDetail{
		InvoiceID:        input.InvoiceID,
		OrderID:          &orderID,
		Code:             input.Code,
		GroupID:          input.GroupID,
		SupplierID:       &supplierID,
		ProductID:        input.ProductID,
		VarietyID:        input.VarietyID,
		LengthID:         input.LengthID,
		PackingID:        input.PackingID,
		BoxTypeID:        input.BoxTypeID,
		Quantity:         input.Quantity,
		Bunches:          input.Bunches,
		Stems:            input.Stems,
		UnitPrice:        input.UnitPrice,
		SalePrice:        input.SalePrice,
		Subtotal:         input.UnitPrice.Mul(decimal.NewFromFloat(input.Quantity)),
		SupplierDocument: input.SupplierDocument,
		UserID:           input.UserID,
		PurchasedAt:      &purchasedAt,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateDetail(ctx, detail); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting purchase detail")
		}
		err := repo.DecrementOrderBalance(ctx, input.OrderID, input.Quantity, stems)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %d not found", input.OrderID))
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing order balance")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithInvoiceID(ctx, input.InvoiceID)
	s.logg.Info(ctx, fmt.Sprintf("purchase confirmed for order %d", input.OrderID))
	return detail, nil
}

func (s *service) FindClientID(ctx context.Context, invoiceID int64) (int64, error) {
	clientID, err := s.repo.FindClientID(ctx, invoiceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("invoice %d not found", invoiceID))
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading invoice")
	}
	return clientID, nil
}

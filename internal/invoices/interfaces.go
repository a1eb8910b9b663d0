package invoices

import (
	"context"
	"time"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"gorm.io/gorm"
)

// InvoiceWithClient is the in-process listing row, headers joined with the
// client's name.
type InvoiceWithClient struct {
	models.Invoice
	ClientName string `json:"cliente" gorm:"column:cliente"`
}

// Repository defines persistence operations for invoice headers and their
// detail rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	FindByID(ctx context.Context, id int64) (*models.Invoice, error)
	FindClientID(ctx context.Context, invoiceID int64) (int64, error)
	MaxNumber(ctx context.Context) (int64, error)
	ListInProcess(ctx context.Context) ([]InvoiceWithClient, error)
	UpdateHeader(ctx context.Context, id int64, updates map[string]any) error
	ListDetails(ctx context.Context, invoiceID int64) ([]models.InvoiceDetail, error)
	CreateDetail(ctx context.Context, detail *models.InvoiceDetail) (*models.InvoiceDetail, error)
	UpdateDetail(ctx context.Context, detailID int64, updates map[string]any) error
	AssignMasterWaybill(ctx context.Context, invoiceID, groupID int64, awb string) (int64, error)
	DecrementOrderBalance(ctx context.Context, orderID int64, quantity float64, stems int) error
}

// clock lets tests pin fechacompra.
type clock func() time.Time

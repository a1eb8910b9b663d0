package invoices

import (
	"context"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoice repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) FindClientID(ctx context.Context, invoiceID int64) (int64, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Select("idcliente").
		Where("id = ?", invoiceID).
		First(&invoice).Error
	if err != nil {
		return 0, err
	}
	return invoice.ClientID, nil
}

// MaxNumber returns the highest numero_factura issued so far, 0 when no
// invoices exist yet.
func (r *repository) MaxNumber(ctx context.Context) (int64, error) {
	var max *int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("MAX(numero_factura)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repository) ListInProcess(ctx context.Context) ([]InvoiceWithClient, error) {
	var rows []InvoiceWithClient
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("factura_consolidada.*, terceros.nombre AS cliente").
		Joins("JOIN terceros ON terceros.idtercero = factura_consolidada.idcliente").
		Where("factura_consolidada.estado = ?", enums.InvoiceStatusInProcess).
		Order("factura_consolidada.fecha DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListDetails(ctx context.Context, invoiceID int64) ([]models.InvoiceDetail, error) {
	var details []models.InvoiceDetail
	err := r.db.WithContext(ctx).
		Where("idfactura = ?", invoiceID).
		Order("iddetalle ASC").
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repository) CreateDetail(ctx context.Context, detail *models.InvoiceDetail) (*models.InvoiceDetail, error) {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *repository) UpdateDetail(ctx context.Context, detailID int64, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceDetail{}).
		Where("iddetalle = ?", detailID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AssignMasterWaybill stamps the AWB on every detail row of one group within
// the invoice and reports how many rows it touched.
func (r *repository) AssignMasterWaybill(ctx context.Context, invoiceID, groupID int64, awb string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceDetail{}).
		Where("idfactura = ? AND idgrupo = ?", invoiceID, groupID).
		Update("guia_master", awb)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DecrementOrderBalance subtracts a confirmed purchase from the source order,
// treating null balances as zero.
func (r *repository) DecrementOrderBalance(ctx context.Context, orderID int64, quantity float64, stems int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("idpedido = ?", orderID).
		Updates(map[string]any{
			"cantidad":    gorm.Expr("COALESCE(cantidad, 0) - ?", quantity),
			"totaltallos": gorm.Expr("COALESCE(totaltallos, 0) - ?", quantity*float64(stems)),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

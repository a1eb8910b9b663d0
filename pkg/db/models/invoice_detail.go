package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceDetail is one purchased box line on a consolidated invoice.
// Column names (including the camelCase pair) follow the legacy schema.
type InvoiceDetail struct {
	ID               int64            `gorm:"column:iddetalle;primaryKey;autoIncrement" json:"iddetalle"`
	InvoiceID        int64            `gorm:"column:idfactura;not null;index" json:"idfactura"`
	OrderID          *int64           `gorm:"column:idpedido" json:"idpedido"`
	Code             string           `gorm:"column:codigo" json:"codigo"`
	GroupID          *int64           `gorm:"column:idgrupo" json:"idgrupo"`
	SupplierID       *int64           `gorm:"column:idproveedor" json:"idproveedor"`
	ProductID        *int64           `gorm:"column:idproducto" json:"idproducto"`
	VarietyID        *int64           `gorm:"column:idvariedad" json:"idvariedad"`
	LengthID         *int64           `gorm:"column:idlongitud" json:"idlongitud"`
	PackingID        *int64           `gorm:"column:idempaque" json:"idempaque"`
	BoxTypeID        *int64           `gorm:"column:idtipocaja" json:"idtipocaja"`
	Quantity         float64          `gorm:"column:cantidad;not null" json:"cantidad"`
	Bunches          *int             `gorm:"column:cantidadRamos" json:"cantidadRamos"`
	Stems            *int             `gorm:"column:cantidadTallos" json:"cantidadTallos"`
	UnitPrice        decimal.Decimal  `gorm:"column:precio_unitario;type:numeric(12,4)" json:"precio_unitario"`
	SalePrice        *decimal.Decimal `gorm:"column:precio_venta;type:numeric(12,4)" json:"precio_venta"`
	Subtotal         decimal.Decimal  `gorm:"column:subtotal;type:numeric(14,4)" json:"subtotal"`
	SupplierDocument *string          `gorm:"column:documento_proveedor" json:"documento_proveedor"`
	MasterWaybill    *string          `gorm:"column:guia_master" json:"guia_master"`
	Weight           float64          `gorm:"column:peso;not null;default:0" json:"peso"`
	UserID           *int64           `gorm:"column:idusuario" json:"idusuario"`
	PurchasedAt      *time.Time       `gorm:"column:fechacompra" json:"fechacompra"`
	MixParentID      *int64           `gorm:"column:idmix" json:"idmix"`
}

// TableName maps to the legacy table.
func (InvoiceDetail) TableName() string {
	return "factura_consolidada_detalle"
}

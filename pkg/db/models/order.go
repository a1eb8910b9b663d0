package models

// Order is a pedido: one client order line awaiting purchase. Catalog
// references are nullable because spreadsheet imports insert rows even when
// a free-text value resolves to nothing.
type Order struct {
	ID          int64    `gorm:"column:idpedido;primaryKey;autoIncrement" json:"idpedido"`
	InvoiceID   int64    `gorm:"column:idfactura;not null;index" json:"idfactura"`
	ClientID    int64    `gorm:"column:idcliente;not null" json:"idcliente"`
	Code        string   `gorm:"column:codigo" json:"codigo"`
	Notes       string   `gorm:"column:observaciones" json:"observaciones"`
	ProductID   *int64   `gorm:"column:idproducto" json:"idproducto"`
	VarietyID   *int64   `gorm:"column:idvariedad" json:"idvariedad"`
	LengthID    *int64   `gorm:"column:idlongitud" json:"idlongitud"`
	PackingID   *int64   `gorm:"column:idempaque" json:"idempaque"`
	BoxTypeID   *int64   `gorm:"column:idtipocaja" json:"idtipocaja"`
	OrderTypeID *int64   `gorm:"column:idtipopedido" json:"idtipopedido"`
	SupplierID  *int64   `gorm:"column:idproveedor" json:"idproveedor"`
	Quantity    *float64 `gorm:"column:cantidad" json:"cantidad"`
	Stems       *int     `gorm:"column:tallos" json:"tallos"`
	TotalStems  *float64 `gorm:"column:totaltallos" json:"totaltallos"`
}

// TableName maps to the legacy table.
func (Order) TableName() string {
	return "pedidos"
}

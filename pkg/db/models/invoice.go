package models

import (
	"time"

	"github.com/dquinterov/mesacompras-backend/pkg/enums"
)

// Invoice is a consolidated invoice grouping the orders of one client for
// one flight. Details hang off it in InvoiceDetail.
type Invoice struct {
	ID           int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Number       int64               `gorm:"column:numero_factura;not null" json:"numero_factura"`
	ClientID     int64               `gorm:"column:idcliente;not null;index" json:"idcliente"`
	Date         time.Time           `gorm:"column:fecha;not null" json:"fecha"`
	FlightDate   *time.Time          `gorm:"column:fecha_vuelo" json:"fecha_vuelo"`
	AWB          *string             `gorm:"column:awb" json:"awb"`
	HAWB         *string             `gorm:"column:hawb" json:"hawb"`
	CargoAgentID *int64              `gorm:"column:idcarguera" json:"idcarguera"`
	DAEID        *int64              `gorm:"column:iddae" json:"iddae"`
	Status       enums.InvoiceStatus `gorm:"column:estado;not null;default:proceso" json:"estado"`
}

// TableName maps to the legacy table.
func (Invoice) TableName() string {
	return "factura_consolidada"
}

package models

import "github.com/dquinterov/mesacompras-backend/pkg/enums"

// Party is a tercero: a client placing orders or a supplier farm.
type Party struct {
	ID    int64           `gorm:"column:idtercero;primaryKey;autoIncrement" json:"idtercero"`
	Name  string          `gorm:"column:nombre;not null" json:"nombre"`
	Phone *string         `gorm:"column:telefono" json:"telefono"`
	Email *string         `gorm:"column:correo" json:"correo"`
	Type  enums.PartyType `gorm:"column:tipo;not null;index" json:"tipo"`
}

// TableName maps to the legacy table.
func (Party) TableName() string {
	return "terceros"
}

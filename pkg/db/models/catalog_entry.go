package models

import "github.com/dquinterov/mesacompras-backend/pkg/enums"

// CatalogEntry is one row of the shared reference catalog. Free text coming
// off vendor spreadsheets is resolved against Value; Category narrows the
// search. Weight rules are stored here too, serialized into Value.
type CatalogEntry struct {
	ID       int64                 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Category enums.CatalogCategory `gorm:"column:categoria;not null;index" json:"categoria"`
	Value    string                `gorm:"column:valor;not null" json:"valor"`
}

// TableName maps to the legacy table.
func (CatalogEntry) TableName() string {
	return "catalogo_simple"
}

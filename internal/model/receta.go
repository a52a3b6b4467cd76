package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecetaItem says how much of a material goes into one unit of a product.
// Both sides reference the catalog by name.
type RecetaItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoFinal string          `gorm:"not null;index"`
	Insumo        string          `gorm:"not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(14,3);not null"`
}

func (RecetaItem) TableName() string { return "recetas" }

func (r *RecetaItem) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog row. Codigo is not unique: the shop's price list has
// historically reused short codes. Posicion keeps the catalog order that
// first-match lookups depend on.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Posicion    int             `gorm:"not null;index"`
	Codigo      string          `gorm:"index;not null"`
	Nombre      string          `gorm:"index;not null"`
	Unidad      string          `gorm:"not null;default:'un.'"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Cantidad    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	// Reservado is stock sold in acopio that has not been picked up yet.
	Reservado   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockMinimo decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Producto) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Gasto is a purchase of material that entered stock.
type Gasto struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Fecha      time.Time       `gorm:"not null;index"`
	Insumo     string          `gorm:"not null"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Proveedor  *string
	UsuarioID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
}

func (g *Gasto) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

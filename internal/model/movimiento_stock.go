package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de movimiento.
const (
	MovVenta         = "venta"
	MovAcopio        = "acopio"
	MovEntregaAcopio = "entrega_acopio"
	MovCompra        = "compra"
	MovAjusteManual  = "ajuste_manual"
	MovProduccion    = "produccion"
	MovConsumoReceta = "consumo_receta"
	MovAlta          = "alta"
)

// Campos afectados.
const (
	CampoCantidad  = "cantidad"
	CampoReservado = "reservado"
)

// MovimientoStock records every change to a product's physical or reserved
// quantity. Codigo and Nombre are copied so the row survives a catalog
// replacement.
type MovimientoStock struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Codigo       string          `gorm:"not null"`
	Nombre       string          `gorm:"not null"`
	Tipo         string          `gorm:"type:varchar(20);not null;index"`
	Campo        string          `gorm:"type:varchar(10);not null"`
	Cantidad     decimal.Decimal `gorm:"type:decimal(14,3);not null"` // positive = entrada
	Anterior     decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Nuevo        decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Motivo       string
	ReferenciaID *uuid.UUID `gorm:"type:uuid;index"` // venta_id or lote_id when applicable
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"index"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

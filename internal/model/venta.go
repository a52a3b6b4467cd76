package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venta is an append-only sale record. Its items are a frozen copy of the
// catalog at confirmation time; reprints never read the live catalog.
type Venta struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Numero    int             `gorm:"uniqueIndex;not null"`
	Fecha     time.Time       `gorm:"not null;index"`
	Cliente   string          `gorm:"not null"`
	Entrega   string          `gorm:"type:varchar(10);not null;index"` // "inmediata" | "acopio"
	Total     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Ganancia  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	UsuarioID *uuid.UUID      `gorm:"type:uuid"`
	PDFPath   *string
	CreatedAt time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

func (v *Venta) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// VentaItem is one line of a sale with the prices in force at the time.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Orden          int             `gorm:"not null"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid"`
	Codigo         string          `gorm:"not null"`
	Nombre         string          `gorm:"not null"`
	Unidad         string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PrecioCosto    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

func (VentaItem) TableName() string { return "venta_items" }

func (i *VentaItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

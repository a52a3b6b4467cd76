package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoteProduccion is a batch of concrete goods curing in the yard. Only
// "en_proceso" and "finalizado" are stored; "listo" is derived from the date.
type LoteProduccion struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Producto     string          `gorm:"not null;index"` // catalog name, not a foreign key
	Cantidad     decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	FechaInicio  time.Time       `gorm:"not null"`
	DiasFraguado int             `gorm:"not null"`
	FechaListo   time.Time       `gorm:"not null;index"`
	Estado       string          `gorm:"type:varchar(15);not null;index"`
	FinalizadoEl *time.Time
	// AvisoListoEl is set once the ready notification has been sent.
	AvisoListoEl *time.Time
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LoteProduccion) TableName() string { return "lotes_produccion" }

func (l *LoteProduccion) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

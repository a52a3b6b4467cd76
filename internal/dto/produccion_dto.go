package dto

import (
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/shopspring/decimal"
)

type RegistrarLoteRequest struct {
	Producto     string          `json:"producto"      validate:"required,max=120"`
	Cantidad     decimal.Decimal `json:"cantidad"      validate:"required,gt=0"`
	FechaInicio  string          `json:"fecha_inicio"  validate:"omitempty,datetime=2006-01-02"` // empty = today
	DiasFraguado int             `json:"dias_fraguado" validate:"min=0,max=365"`
}

type LoteFilter struct {
	// Todos includes finalized batches.
	Todos bool `form:"todos"`
}

type LoteResponse struct {
	ID           string          `json:"id"`
	Producto     string          `json:"producto"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	FechaInicio  string          `json:"fecha_inicio"`
	DiasFraguado int             `json:"dias_fraguado"`
	FechaListo   string          `json:"fecha_listo"`
	Estado       string          `json:"estado"`
	FinalizadoEl *string         `json:"finalizado_el"`
}

type LoteMutacionResponse struct {
	Lote         LoteResponse         `json:"lote"`
	Advertencias []ledger.Advertencia `json:"advertencias"`
}

package dto

import (
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/shopspring/decimal"
)

type AlertasResponse struct {
	Alertas []ledger.Advertencia `json:"alertas"`
	Total   int                  `json:"total"`
}

// MovimientoFilter is bound from the query string of GET /v1/inventario/movimientos.
type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoResponse struct {
	ID           string          `json:"id"`
	ProductoID   string          `json:"producto_id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Tipo         string          `json:"tipo"`
	Campo        string          `json:"campo"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	Anterior     decimal.Decimal `json:"anterior"`
	Nuevo        decimal.Decimal `json:"nuevo"`
	Motivo       string          `json:"motivo"`
	ReferenciaID *string         `json:"referencia_id"`
	Fecha        string          `json:"fecha"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

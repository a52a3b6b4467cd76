package dto

import (
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Desde   string `form:"desde"` // YYYY-MM-DD
	Hasta   string `form:"hasta"` // YYYY-MM-DD, inclusive
	Entrega string `form:"entrega" validate:"omitempty,oneof=inmediata acopio"`
	Cliente string `form:"cliente"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	Codigo   string          `json:"codigo"   validate:"required,max=30"`
	Cantidad decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
}

type ConfirmarVentaRequest struct {
	Cliente string             `json:"cliente" validate:"max=120"`
	Entrega string             `json:"entrega" validate:"required,oneof=inmediata acopio"`
	Items   []ItemVentaRequest `json:"items"   validate:"dive"`
	// ClienteEmail is optional; when present, the receipt worker mails the PDF.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// EntregarAcopioRequest records goods picked up from the yard.
type EntregarAcopioRequest struct {
	Codigo   string          `json:"codigo"   validate:"required,max=30"`
	Cantidad decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
	VentaID  *string         `json:"venta_id" validate:"omitempty,uuid"`
	Motivo   string          `json:"motivo"   validate:"max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	Unidad         string          `json:"unidad"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID           string               `json:"id"`
	Numero       int                  `json:"numero"`
	Fecha        string               `json:"fecha"`
	Cliente      string               `json:"cliente"`
	Entrega      string               `json:"entrega"`
	Total        decimal.Decimal      `json:"total"`
	Ganancia     decimal.Decimal      `json:"ganancia"`
	Items        []ItemVentaResponse  `json:"items"`
	Advertencias []ledger.Advertencia `json:"advertencias,omitempty"`
}

type ReciboResponse struct {
	Numero  int                 `json:"numero"`
	Cliente string              `json:"cliente"`
	Fecha   string              `json:"fecha"`
	Entrega string              `json:"entrega"`
	Lineas  []ItemVentaResponse `json:"lineas"`
	Total   decimal.Decimal     `json:"total"`
}

// ResumenFilter selects the period of GET /v1/ventas/resumen.
type ResumenFilter struct {
	Desde string `form:"desde"`
	Hasta string `form:"hasta"`
}

type ResumenEntrega struct {
	Entrega  string          `json:"entrega"`
	Ventas   int64           `json:"ventas"`
	Total    decimal.Decimal `json:"total"`
	Ganancia decimal.Decimal `json:"ganancia"`
}

type ResumenVentasResponse struct {
	Desde      string           `json:"desde"`
	Hasta      string           `json:"hasta"`
	Ventas     int64            `json:"ventas"`
	Total      decimal.Decimal  `json:"total"`
	Ganancia   decimal.Decimal  `json:"ganancia"`
	PorEntrega []ResumenEntrega `json:"por_entrega"`
}

package dto

import (
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string          `json:"codigo"       validate:"required,max=30"`
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=120"`
	Unidad      string          `json:"unidad"       validate:"omitempty,max=20"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"min=0"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	StockMinimo decimal.Decimal `json:"stock_minimo" validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Codigo      *string          `json:"codigo"       validate:"omitempty,max=30"`
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=2,max=120"`
	Unidad      *string          `json:"unidad"       validate:"omitempty,max=20"`
	PrecioCosto *decimal.Decimal `json:"precio_costo"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	StockMinimo *decimal.Decimal `json:"stock_minimo"`
}

// AjustarStockRequest changes the physical or the reserved quantity by Delta.
type AjustarStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3,max=200"`
}

// ReemplazarCatalogoRequest replaces the whole catalog ("guardar todo").
type ReemplazarCatalogoRequest struct {
	Productos []ProductoItemRequest `json:"productos" validate:"dive"`
}

type ProductoItemRequest struct {
	ID          *string         `json:"id"           validate:"omitempty,uuid"`
	Codigo      string          `json:"codigo"       validate:"max=30"`
	Nombre      string          `json:"nombre"       validate:"required,max=120"`
	Unidad      string          `json:"unidad"       validate:"omitempty,max=20"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"min=0"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	Reservado   decimal.Decimal `json:"reservado"`
	StockMinimo decimal.Decimal `json:"stock_minimo" validate:"min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Codigo string `form:"codigo"`
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Unidad      string          `json:"unidad"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	Reservado   decimal.Decimal `json:"reservado"`
	Disponible  decimal.Decimal `json:"disponible"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// ProductoMutacionResponse wraps a product after a stock-changing operation.
type ProductoMutacionResponse struct {
	Producto     ProductoResponse     `json:"producto"`
	Advertencias []ledger.Advertencia `json:"advertencias"`
}

type ReemplazarCatalogoResponse struct {
	Productos int `json:"productos"`
	Altas     int `json:"altas"`
	Bajas     int `json:"bajas"`
}

type ImportarCSVResponse struct {
	Filas        int                  `json:"filas"`
	Advertencias []ledger.Advertencia `json:"advertencias"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint (no auth required).
type ConsultaPreciosResponse struct {
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Unidad      string          `json:"unidad"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Disponible  decimal.Decimal `json:"disponible"`
	Ambiguo     bool            `json:"ambiguo"`
}

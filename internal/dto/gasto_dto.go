package dto

import (
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/shopspring/decimal"
)

type RegistrarGastoRequest struct {
	Insumo    string          `json:"insumo"    validate:"required,max=120"`
	Cantidad  decimal.Decimal `json:"cantidad"  validate:"required,gt=0"`
	Monto     decimal.Decimal `json:"monto"     validate:"min=0"`
	Nuevo     bool            `json:"nuevo"`
	Codigo    string          `json:"codigo"    validate:"max=30"`
	Unidad    string          `json:"unidad"    validate:"max=20"`
	Proveedor *string         `json:"proveedor" validate:"omitempty,max=120"`
	Fecha     string          `json:"fecha"     validate:"omitempty,datetime=2006-01-02"`
}

type GastoFilter struct {
	Desde string `form:"desde"`
	Hasta string `form:"hasta"`
}

type GastoResponse struct {
	ID         string          `json:"id"`
	Fecha      string          `json:"fecha"`
	Insumo     string          `json:"insumo"`
	ProductoID string          `json:"producto_id"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Monto      decimal.Decimal `json:"monto"`
	Proveedor  *string         `json:"proveedor"`
}

type GastoMutacionResponse struct {
	Gasto        GastoResponse        `json:"gasto"`
	Producto     ProductoResponse     `json:"producto"`
	Advertencias []ledger.Advertencia `json:"advertencias"`
}

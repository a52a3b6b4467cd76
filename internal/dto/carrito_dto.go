package dto

import (
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/shopspring/decimal"
)

type AgregarLineaRequest struct {
	Codigo   string          `json:"codigo"   validate:"required,max=30"`
	Cantidad decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
}

type ConfirmarCarritoRequest struct {
	Cliente      string  `json:"cliente"       validate:"max=120"`
	Entrega      string  `json:"entrega"       validate:"required,oneof=inmediata acopio"`
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type LineaCarritoResponse struct {
	Indice         int             `json:"indice"`
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	Unidad         string          `json:"unidad"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Disponible     decimal.Decimal `json:"disponible"`
}

// CarritoResponse prices the session cart at current catalog prices.
type CarritoResponse struct {
	Lineas       []LineaCarritoResponse `json:"lineas"`
	Total        decimal.Decimal        `json:"total"`
	Advertencias []ledger.Advertencia   `json:"advertencias"`
}

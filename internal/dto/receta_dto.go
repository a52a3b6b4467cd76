package dto

import "github.com/shopspring/decimal"

type RecetaLinea struct {
	ProductoFinal string          `json:"producto_final" validate:"required,max=120"`
	Insumo        string          `json:"insumo"         validate:"required,max=120"`
	Cantidad      decimal.Decimal `json:"cantidad"       validate:"required,gt=0"`
}

// ReemplazarRecetasRequest replaces the whole recipe table.
type ReemplazarRecetasRequest struct {
	Lineas []RecetaLinea `json:"lineas" validate:"dive"`
}

package dto

import (
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/shopspring/decimal"
)

type CotizarObraRequest struct {
	Cliente string          `json:"cliente" validate:"max=120"`
	Tipo    string          `json:"tipo"    validate:"required,oneof=lineal perimetro"`
	Largo   decimal.Decimal `json:"largo"   validate:"required,gt=0"`
	Ancho   decimal.Decimal `json:"ancho"   validate:"min=0"`
	Altura  decimal.Decimal `json:"altura"  validate:"required,gt=0"`
	Hilos   int             `json:"hilos"   validate:"min=0,max=10"`

	PostesIntermedios *int             `json:"postes_intermedios" validate:"omitempty,min=0"`
	PostesRefuerzo    *int             `json:"postes_refuerzo"    validate:"omitempty,min=0"`
	MetrosTejido      *decimal.Decimal `json:"metros_tejido"`
	// CargarCarrito replaces the caller's session cart with the quoted materials.
	CargarCarrito bool `json:"cargar_carrito"`
}

type MaterialesResponse struct {
	Metros            decimal.Decimal `json:"metros"`
	PostesIntermedios int             `json:"postes_intermedios"`
	PostesRefuerzo    int             `json:"postes_refuerzo"`
	MetrosTejido      decimal.Decimal `json:"metros_tejido"`
	Hilos             int             `json:"hilos"`
	MetrosAlambre     decimal.Decimal `json:"metros_alambre"`
}

type LineaPresupuestoResponse struct {
	Material       string          `json:"material"`
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	Unidad         string          `json:"unidad"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PresupuestoResponse struct {
	Numero       string                     `json:"numero"`
	Cliente      string                     `json:"cliente"`
	Materiales   MaterialesResponse         `json:"materiales"`
	Lineas       []LineaPresupuestoResponse `json:"lineas"`
	Total        decimal.Decimal            `json:"total"`
	TextoWA      string                     `json:"texto_whatsapp"`
	Advertencias []ledger.Advertencia       `json:"advertencias"`
}

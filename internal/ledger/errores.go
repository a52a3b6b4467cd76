package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNoEncontrado       = errors.New("no encontrado")
	ErrLoteNoListo        = errors.New("el lote todavia no cumplio el tiempo de fraguado")
	ErrLoteFinalizado     = errors.New("el lote ya fue finalizado")
	ErrStockInsuficiente  = errors.New("stock disponible insuficiente")
	ErrCantidadInvalida   = errors.New("la cantidad debe ser mayor a cero")
	ErrMontoNegativo      = errors.New("los montos no pueden ser negativos")
	ErrCodigoDuplicado    = errors.New("ya existe un producto con ese codigo")
	ErrNombreDuplicado    = errors.New("ya existe un producto con ese nombre")
	ErrEntregaInvalida    = errors.New("tipo de entrega invalido")
	ErrAcopioInsuficiente = errors.New("la entrega supera lo reservado en acopio")
	ErrProductoRequerido  = errors.New("el nombre del producto es obligatorio")
	ErrIDDuplicado        = errors.New("el mismo id aparece mas de una vez")
	ErrParametroInvalido  = errors.New("parametro invalido")
)

// NoEncontradoError reports a catalog lookup miss. It matches ErrNoEncontrado
// with errors.Is so callers can map it without inspecting the fields.
type NoEncontradoError struct {
	Campo string // "codigo" | "nombre" | "id"
	Valor string
}

func (e *NoEncontradoError) Error() string {
	return fmt.Sprintf("producto no encontrado (%s %q)", e.Campo, e.Valor)
}

func (e *NoEncontradoError) Is(target error) bool { return target == ErrNoEncontrado }

func noEncontradoCodigo(codigo string) error {
	return &NoEncontradoError{Campo: "codigo", Valor: codigo}
}

func noEncontradoNombre(nombre string) error {
	return &NoEncontradoError{Campo: "nombre", Valor: nombre}
}

// ── Advertencias ─────────────────────────────────────────────────────────────

// TipoAdvertencia classifies a non-blocking stock condition.
type TipoAdvertencia string

const (
	AdvStockInsuficiente   TipoAdvertencia = "stock_insuficiente"
	AdvStockNegativo       TipoAdvertencia = "stock_negativo"
	AdvReservaNegativa     TipoAdvertencia = "reserva_negativa"
	AdvBajoMinimo          TipoAdvertencia = "bajo_minimo"
	AdvSobreReservado      TipoAdvertencia = "sobre_reservado"
	AdvCodigoDuplicado     TipoAdvertencia = "codigo_duplicado"
	AdvProductoDesconocido TipoAdvertencia = "producto_desconocido"
	AdvMaterialSinPrecio   TipoAdvertencia = "material_sin_precio"
)

// Advertencia is surfaced to the caller but never blocks an operation.
type Advertencia struct {
	Tipo    TipoAdvertencia `json:"tipo"`
	Codigo  string          `json:"codigo,omitempty"`
	Nombre  string          `json:"nombre,omitempty"`
	Detalle string          `json:"detalle"`
}

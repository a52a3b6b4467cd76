package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/bwmarrin/snowflake"
)

// CotizadorService prices fence jobs against the current catalog. Quotes are
// not stored; each one gets a time-ordered snowflake number for reference.
type CotizadorService interface {
	// CalcularObra returns the bill of materials and its price. usuarioID is
	// used only when the request asks to load the quote into the cart.
	CalcularObra(ctx context.Context, usuarioID string, req dto.CotizarObraRequest) (*dto.PresupuestoResponse, error)
	PresupuestoPDF(ctx context.Context, req dto.CotizarObraRequest) ([]byte, string, error)
}

type cotizadorService struct {
	store    *LedgerStore
	carritos CarritoService
	claves   ledger.ClavesMateriales
	numeros  *snowflake.Node
	empresa  infra.Empresa
	reloj    Reloj
}

func NewCotizadorService(
	store *LedgerStore,
	carritos CarritoService,
	claves ledger.ClavesMateriales,
	numeros *snowflake.Node,
	empresa infra.Empresa,
	reloj Reloj,
) CotizadorService {
	return &cotizadorService{
		store:    store,
		carritos: carritos,
		claves:   claves,
		numeros:  numeros,
		empresa:  empresa,
		reloj:    reloj,
	}
}

type cotizacion struct {
	numero      string
	cliente     string
	params      ledger.ParametrosObra
	presupuesto ledger.Presupuesto
	advs        []ledger.Advertencia
}

func (s *cotizadorService) cotizar(ctx context.Context, req dto.CotizarObraRequest) (*cotizacion, error) {
	params := ledger.ParametrosObra{
		Tipo:              ledger.TipoObra(req.Tipo),
		Largo:             req.Largo,
		Ancho:             req.Ancho,
		Altura:            req.Altura,
		Hilos:             req.Hilos,
		PostesIntermedios: req.PostesIntermedios,
		PostesRefuerzo:    req.PostesRefuerzo,
		MetrosTejido:      req.MetrosTejido,
	}
	m, err := ledger.CalcularMateriales(params)
	if err != nil {
		return nil, datoInvalido(err)
	}
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, advs := ledger.PresupuestarObra(cat, m, s.claves)
	return &cotizacion{
		numero:      s.numeros.Generate().String(),
		cliente:     strings.TrimSpace(req.Cliente),
		params:      params,
		presupuesto: p,
		advs:        advs,
	}, nil
}

func (s *cotizadorService) CalcularObra(ctx context.Context, usuarioID string, req dto.CotizarObraRequest) (*dto.PresupuestoResponse, error) {
	c, err := s.cotizar(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.CargarCarrito {
		if _, err := s.carritos.Reemplazar(ctx, usuarioID, c.presupuesto.Carrito); err != nil {
			return nil, err
		}
	}

	m := c.presupuesto.Materiales
	lineas := make([]dto.LineaPresupuestoResponse, len(c.presupuesto.Lineas))
	for i, l := range c.presupuesto.Lineas {
		lineas[i] = dto.LineaPresupuestoResponse{
			Material:       l.Material,
			Codigo:         l.Codigo,
			Nombre:         l.Nombre,
			Unidad:         l.Unidad,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Subtotal,
		}
	}
	registrarAdvertencias("cotizar_obra", c.advs)
	return &dto.PresupuestoResponse{
		Numero:  c.numero,
		Cliente: c.cliente,
		Materiales: dto.MaterialesResponse{
			Metros:            m.Metros,
			PostesIntermedios: m.PostesIntermedios,
			PostesRefuerzo:    m.PostesRefuerzo,
			MetrosTejido:      m.MetrosTejido,
			Hilos:             m.Hilos,
			MetrosAlambre:     m.MetrosAlambre,
		},
		Lineas:       lineas,
		Total:        c.presupuesto.Total,
		TextoWA:      textoWhatsApp(s.empresa.Nombre, c.cliente, c.params.Altura.String(), c.presupuesto),
		Advertencias: vacioSiNil(c.advs),
	}, nil
}

func (s *cotizadorService) PresupuestoPDF(ctx context.Context, req dto.CotizarObraRequest) ([]byte, string, error) {
	c, err := s.cotizar(ctx, req)
	if err != nil {
		return nil, "", err
	}
	ahora := s.reloj.Ahora().In(s.reloj.Loc)
	pdf, err := infra.GenerarPresupuestoPDF(infra.PresupuestoDoc{
		Numero:      c.numero,
		Cliente:     c.cliente,
		Fecha:       ahora,
		Descripcion: descripcionObra(c.params, c.presupuesto.Materiales),
		Presupuesto: c.presupuesto,
	}, s.empresa)
	if err != nil {
		return nil, "", fmt.Errorf("presupuesto pdf: %w", err)
	}
	return pdf, path.Base(infra.NombreDocumento("presupuesto", c.numero, c.cliente, ahora)), nil
}

func descripcionObra(p ledger.ParametrosObra, m ledger.MaterialesObra) string {
	tipo := "tramo lineal"
	if p.Tipo == ledger.ObraPerimetro {
		tipo = "perímetro"
	}
	return fmt.Sprintf("%s m x %s m (%s)", m.Metros.String(), p.Altura.String(), tipo)
}

// textoWhatsApp is the summary the seller pastes into a chat with the customer.
func textoWhatsApp(empresa, cliente, altura string, p ledger.Presupuesto) string {
	m := p.Materiales
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", empresa)
	if cliente != "" {
		fmt.Fprintf(&b, "Cliente: %s\n", cliente)
	}
	fmt.Fprintf(&b, "Obra: %sm x %sm\n", m.Metros.String(), altura)
	b.WriteString("Materiales:\n")
	fmt.Fprintf(&b, "- %d Postes Int.\n", m.PostesIntermedios)
	fmt.Fprintf(&b, "- %d Postes Ref.\n", m.PostesRefuerzo)
	fmt.Fprintf(&b, "- %sm Tejido\n", m.MetrosTejido.String())
	fmt.Fprintf(&b, "- %d Hilos Alambre (%sm)\n", m.Hilos, m.MetrosAlambre.String())
	fmt.Fprintf(&b, "*Total: %s*", infra.Pesos(p.Total))
	return b.String()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/repository"
	"github.com/Martin-Comito/alambrados/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type VentaService interface {
	Confirmar(ctx context.Context, usuarioID *uuid.UUID, req dto.ConfirmarVentaRequest) (*dto.VentaResponse, error)
	// ConfirmarCarrito sells the caller's session cart and discards it.
	ConfirmarCarrito(ctx context.Context, usuarioID uuid.UUID, req dto.ConfirmarCarritoRequest) (*dto.VentaResponse, error)
	EntregarAcopio(ctx context.Context, usuarioID *uuid.UUID, req dto.EntregarAcopioRequest) (*dto.ProductoMutacionResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	Recibo(ctx context.Context, id uuid.UUID) (*dto.ReciboResponse, error)
	// ReimprimirPDF returns the stored receipt, rendering it again from the
	// sale snapshot when it was never stored.
	ReimprimirPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	GenerarPDF(ctx context.Context, id uuid.UUID) (*worker.DocumentoVenta, error)
	Resumen(ctx context.Context, filter dto.ResumenFilter) (*dto.ResumenVentasResponse, error)
	ExportarXLSX(ctx context.Context, filter dto.VentaFilter) ([]byte, error)
}

type ventaService struct {
	repo       repository.VentaRepository
	store      *LedgerStore
	carritos   CarritoService
	documentos infra.DocumentStore
	publisher  infra.Publisher
	dispatcher *worker.Dispatcher
	empresa    infra.Empresa
	reloj      Reloj
}

func NewVentaService(
	repo repository.VentaRepository,
	store *LedgerStore,
	carritos CarritoService,
	documentos infra.DocumentStore,
	publisher infra.Publisher,
	dispatcher *worker.Dispatcher,
	empresa infra.Empresa,
	reloj Reloj,
) VentaService {
	return &ventaService{
		repo:       repo,
		store:      store,
		carritos:   carritos,
		documentos: documentos,
		publisher:  publisher,
		dispatcher: dispatcher,
		empresa:    empresa,
		reloj:      reloj,
	}
}

// ── Confirmar ─────────────────────────────────────────────────────────────────
// One transaction under the ledger lock:
//   1. apply the sale to the catalog snapshot (rejections change nothing)
//   2. take the next sale number, append the frozen sale record
//   3. write the touched products and their movements
// After commit (best effort): metrics, venta.confirmada, receipt job.

func (s *ventaService) Confirmar(ctx context.Context, usuarioID *uuid.UUID, req dto.ConfirmarVentaRequest) (*dto.VentaResponse, error) {
	pedido := ledger.Pedido{
		Cliente: req.Cliente,
		Entrega: ledger.Entrega(req.Entrega),
		Lineas:  make(ledger.Carrito, len(req.Items)),
	}
	for i, it := range req.Items {
		pedido.Lineas[i] = ledger.LineaCarrito{Codigo: it.Codigo, Cantidad: it.Cantidad}
	}
	return s.confirmar(ctx, usuarioID, pedido, req.ClienteEmail)
}

func (s *ventaService) ConfirmarCarrito(ctx context.Context, usuarioID uuid.UUID, req dto.ConfirmarCarritoRequest) (*dto.VentaResponse, error) {
	lineas, err := s.carritos.Lineas(ctx, usuarioID.String())
	if err != nil {
		return nil, err
	}
	resp, err := s.confirmar(ctx, &usuarioID, ledger.Pedido{
		Cliente: req.Cliente,
		Entrega: ledger.Entrega(req.Entrega),
		Lineas:  lineas,
	}, req.ClienteEmail)
	if err != nil {
		return nil, err
	}
	if err := s.carritos.Vaciar(ctx, usuarioID.String()); err != nil {
		log.Warn().Err(err).Str("usuario_id", usuarioID.String()).Msg("venta: vaciar carrito")
	}
	return resp, nil
}

func (s *ventaService) confirmar(ctx context.Context, usuarioID *uuid.UUID, pedido ledger.Pedido, email *string) (*dto.VentaResponse, error) {
	ventaID := uuid.New()
	var venta model.Venta
	var advs []ledger.Advertencia

	err := s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		v, a, err := ledger.AplicarVenta(op.Catalogo, pedido, op.Ahora())
		if err != nil {
			return err
		}
		numero, err := s.repo.NextNumero(ctx, op.Tx)
		if err != nil {
			return fmt.Errorf("numerar venta: %w", err)
		}
		v.Numero = numero

		venta = modeloDesdeVenta(*v)
		venta.ID = ventaID
		venta.UsuarioID = usuarioID
		if err := s.repo.Create(ctx, op.Tx, &venta); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}

		tipo := model.MovVenta
		if pedido.Entrega == ledger.EntregaAcopio {
			tipo = model.MovAcopio
		}
		advs = a
		return op.Guardar(tipo, fmt.Sprintf("Venta #%d", numero), &ventaID)
	})
	if err != nil {
		return nil, err
	}

	infra.VentasConfirmadas.WithLabelValues(venta.Entrega).Inc()
	infra.VentasMonto.WithLabelValues(venta.Entrega).Add(venta.Total.InexactFloat64())
	registrarAdvertencias("venta", advs)
	log.Info().
		Int("numero", venta.Numero).
		Str("entrega", venta.Entrega).
		Str("total", venta.Total.StringFixed(2)).
		Int("advertencias", len(advs)).
		Msg("venta confirmada")

	publicar(ctx, s.publisher, infra.Evento{
		Tipo: infra.EventoVentaConfirmada,
		Key:  venta.ID.String(),
		Datos: map[string]any{
			"venta_id": venta.ID.String(),
			"numero":   venta.Numero,
			"entrega":  venta.Entrega,
			"total":    venta.Total.StringFixed(2),
		},
	})

	// Async receipt (best-effort, fire & forget)
	if s.dispatcher != nil {
		payload := worker.PDFVentaPayload{VentaID: venta.ID.String()}
		if email != nil && *email != "" {
			payload.Email = email
		}
		if err := s.dispatcher.EnqueuePDFVenta(ctx, payload); err != nil {
			log.Warn().Err(err).Int("numero", venta.Numero).Msg("venta: encolar recibo")
		}
	}

	resp := s.reloj.ventaToResponse(venta, vacioSiNil(advs))
	return &resp, nil
}

// ── Acopio ────────────────────────────────────────────────────────────────────

func (s *ventaService) EntregarAcopio(ctx context.Context, usuarioID *uuid.UUID, req dto.EntregarAcopioRequest) (*dto.ProductoMutacionResponse, error) {
	var ref *uuid.UUID
	motivo := req.Motivo
	if req.VentaID != nil {
		id, err := uuid.Parse(*req.VentaID)
		if err != nil {
			return nil, datoInvalido(errors.New("venta_id invalido"))
		}
		v, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, noEncontrado(err, "venta no encontrada")
		}
		if v.Entrega != string(ledger.EntregaAcopio) {
			return nil, datoInvalido(fmt.Errorf("la venta #%d no fue en acopio", v.Numero))
		}
		ref = &id
		if motivo == "" {
			motivo = fmt.Sprintf("Entrega de acopio, venta #%d", v.Numero)
		}
	}
	if motivo == "" {
		motivo = "Entrega de acopio"
	}

	var resp dto.ProductoMutacionResponse
	err := s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		it, advs, err := ledger.EntregarAcopio(op.Catalogo, req.Codigo, req.Cantidad)
		if err != nil {
			return err
		}
		if err := op.Guardar(model.MovEntregaAcopio, motivo, ref); err != nil {
			return err
		}
		resp = dto.ProductoMutacionResponse{
			Producto:     itemToResponse(*it),
			Advertencias: vacioSiNil(append(advs, op.Catalogo.AdvertenciaCodigo(req.Codigo)...)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	registrarAdvertencias("entrega_acopio", resp.Advertencias)
	datos := map[string]any{"codigo": req.Codigo, "cantidad": req.Cantidad.String()}
	if ref != nil {
		datos["venta_id"] = ref.String()
	}
	publicar(ctx, s.publisher, infra.Evento{Tipo: infra.EventoAcopioEntregado, Key: resp.Producto.ID, Datos: datos})
	return &resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "venta no encontrada")
	}
	resp := s.reloj.ventaToResponse(*v, nil)
	return &resp, nil
}

func (s *ventaService) query(filter dto.VentaFilter) (repository.VentaQuery, error) {
	desde, hasta, err := s.reloj.Rango(filter.Desde, filter.Hasta)
	if err != nil {
		return repository.VentaQuery{}, datoInvalido(err)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	return repository.VentaQuery{
		Desde:   desde,
		Hasta:   hasta,
		Entrega: filter.Entrega,
		Cliente: filter.Cliente,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}, nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	q, err := s.query(filter)
	if err != nil {
		return nil, err
	}
	ventas, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, len(ventas))
	for i, v := range ventas {
		data[i] = s.reloj.ventaToResponse(v, nil)
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *ventaService) Recibo(ctx context.Context, id uuid.UUID) (*dto.ReciboResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "venta no encontrada")
	}
	r := ledger.ReciboDesdeVenta(ventaDesdeModelo(*v))
	resp := &dto.ReciboResponse{
		Numero:  r.Numero,
		Cliente: r.Cliente,
		Fecha:   s.reloj.Local(r.Fecha),
		Entrega: string(r.Entrega),
		Lineas:  make([]dto.ItemVentaResponse, len(r.Lineas)),
		Total:   r.Total,
	}
	for i, l := range r.Lineas {
		resp.Lineas[i] = dto.ItemVentaResponse{
			Codigo:         l.Codigo,
			Nombre:         l.Nombre,
			Unidad:         l.Unidad,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Subtotal,
		}
	}
	return resp, nil
}

// ── Documentos ────────────────────────────────────────────────────────────────

func (s *ventaService) renderizar(v model.Venta) ([]byte, string, error) {
	recibo := ledger.ReciboDesdeVenta(ventaDesdeModelo(v))
	data, err := infra.GenerarReciboPDF(recibo, s.empresa, s.reloj.Loc)
	if err != nil {
		return nil, "", fmt.Errorf("recibo #%d: %w", v.Numero, err)
	}
	nombre := infra.NombreDocumento("recibo", fmt.Sprintf("%06d", v.Numero), v.Cliente, v.Fecha.In(s.reloj.Loc))
	return data, nombre, nil
}

// GenerarPDF renders the receipt from the frozen sale snapshot, stores it and
// records the path on the sale. Used by the receipt worker.
func (s *ventaService) GenerarPDF(ctx context.Context, id uuid.UUID) (*worker.DocumentoVenta, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "venta no encontrada")
	}
	data, nombre, err := s.renderizar(*v)
	if err != nil {
		return nil, err
	}
	path, err := s.documentos.Guardar(ctx, nombre, data)
	if err != nil {
		return nil, fmt.Errorf("guardar recibo #%d: %w", v.Numero, err)
	}
	if err := s.repo.UpdatePDFPath(ctx, v.ID, path); err != nil {
		return nil, err
	}
	return &worker.DocumentoVenta{Path: path, Numero: v.Numero, Cliente: v.Cliente}, nil
}

func (s *ventaService) ReimprimirPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", noEncontrado(err, "venta no encontrada")
	}
	archivo := fmt.Sprintf("venta-%06d.pdf", v.Numero)
	if v.PDFPath != nil {
		data, err := s.documentos.Abrir(ctx, *v.PDFPath)
		if err == nil {
			return data, archivo, nil
		}
		log.Warn().Err(err).Str("path", *v.PDFPath).Msg("venta: recibo guardado ilegible, se regenera")
	}
	data, _, err := s.renderizar(*v)
	if err != nil {
		return nil, "", err
	}
	return data, archivo, nil
}

// ── Resumen ───────────────────────────────────────────────────────────────────

func (s *ventaService) Resumen(ctx context.Context, filter dto.ResumenFilter) (*dto.ResumenVentasResponse, error) {
	desde, hasta, err := s.reloj.Rango(filter.Desde, filter.Hasta)
	if err != nil {
		return nil, datoInvalido(err)
	}
	ventas, err := s.repo.ListSinItems(ctx, repository.VentaQuery{Desde: desde, Hasta: hasta})
	if err != nil {
		return nil, err
	}
	return resumir(filter, ventas), nil
}

func resumir(filter dto.ResumenFilter, ventas []model.Venta) *dto.ResumenVentasResponse {
	resp := &dto.ResumenVentasResponse{
		Desde:    filter.Desde,
		Hasta:    filter.Hasta,
		Total:    decimal.Zero,
		Ganancia: decimal.Zero,
	}
	porEntrega := map[string]*dto.ResumenEntrega{}
	for _, e := range []ledger.Entrega{ledger.EntregaInmediata, ledger.EntregaAcopio} {
		r := &dto.ResumenEntrega{Entrega: string(e), Total: decimal.Zero, Ganancia: decimal.Zero}
		porEntrega[string(e)] = r
	}
	for _, v := range ventas {
		resp.Ventas++
		resp.Total = resp.Total.Add(v.Total)
		resp.Ganancia = resp.Ganancia.Add(v.Ganancia)
		r, ok := porEntrega[v.Entrega]
		if !ok {
			continue
		}
		r.Ventas++
		r.Total = r.Total.Add(v.Total)
		r.Ganancia = r.Ganancia.Add(v.Ganancia)
	}
	resp.PorEntrega = []dto.ResumenEntrega{
		*porEntrega[string(ledger.EntregaInmediata)],
		*porEntrega[string(ledger.EntregaAcopio)],
	}
	return resp
}

// ExportarXLSX writes the sales log of the period plus its summary.
func (s *ventaService) ExportarXLSX(ctx context.Context, filter dto.VentaFilter) ([]byte, error) {
	q, err := s.query(filter)
	if err != nil {
		return nil, err
	}
	ventas, err := s.repo.ListSinItems(ctx, q)
	if err != nil {
		return nil, err
	}

	detalle := infra.Hoja{
		Nombre:      "Ventas",
		Encabezados: []string{"Numero", "Fecha", "Cliente", "Entrega", "Monto Total", "Ganancia"},
		Filas:       make([][]any, len(ventas)),
	}
	for i, v := range ventas {
		detalle.Filas[i] = []any{
			v.Numero, v.Fecha.In(s.reloj.Loc).Format("2006-01-02 15:04"), v.Cliente, v.Entrega, v.Total, v.Ganancia,
		}
	}

	res := resumir(dto.ResumenFilter{Desde: filter.Desde, Hasta: filter.Hasta}, ventas)
	resumen := infra.Hoja{
		Nombre:      "Resumen",
		Encabezados: []string{"Entrega", "Ventas", "Monto Total", "Ganancia"},
	}
	for _, r := range res.PorEntrega {
		resumen.Filas = append(resumen.Filas, []any{r.Entrega, r.Ventas, r.Total, r.Ganancia})
	}
	resumen.Filas = append(resumen.Filas, []any{"total", res.Ventas, res.Total, res.Ganancia})
	return infra.GenerarXLSX(detalle, resumen)
}

// publicar is best effort: the operation already committed.
func publicar(ctx context.Context, pub infra.Publisher, ev infra.Evento) {
	if pub == nil {
		return
	}
	ev.Fecha = time.Now().UTC()
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("tipo", ev.Tipo).Msg("publicar evento")
	}
}

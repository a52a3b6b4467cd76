package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoMutacionResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	// ObtenerPorCodigo returns the first product with the code, flagging shared codes.
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoMutacionResponse, error)
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoMutacionResponse, error)
	AjustarStock(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoMutacionResponse, error)
	AjustarReservado(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoMutacionResponse, error)
	ReemplazarCatalogo(ctx context.Context, usuarioID *uuid.UUID, req dto.ReemplazarCatalogoRequest) (*dto.ReemplazarCatalogoResponse, error)
	// ImportarPlanilla loads a legacy stock sheet (.csv or .xlsx) as the new catalog.
	ImportarPlanilla(ctx context.Context, usuarioID *uuid.UUID, nombreArchivo string, r io.Reader) (*dto.ImportarCSVResponse, error)
	ExportarXLSX(ctx context.Context) ([]byte, error)
}

type productoService struct {
	repo      repository.ProductoRepository
	store     *LedgerStore
	precios   *repository.PrecioCache
	publisher infra.Publisher
}

func NewProductoService(
	repo repository.ProductoRepository,
	store *LedgerStore,
	precios *repository.PrecioCache,
	publisher infra.Publisher,
) ProductoService {
	return &productoService{repo: repo, store: store, precios: precios, publisher: publisher}
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto no encontrado")
	}
	resp := productoToResponse(*p)
	return &resp, nil
}

func (s *productoService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoMutacionResponse, error) {
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	it, err := cat.BuscarPorCodigo(codigo)
	if err != nil {
		return nil, err
	}
	return &dto.ProductoMutacionResponse{
		Producto:     itemToResponse(*it),
		Advertencias: vacioSiNil(cat.AdvertenciaCodigo(codigo)),
	}, nil
}

// ConsultarPrecio serves the public price check. Results are cached per code
// and invalidated by every write that touches the code.
func (s *productoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error) {
	if cached, ok := s.precios.Get(ctx, codigo); ok {
		return cached, nil
	}
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, noEncontrado(err, fmt.Sprintf("no hay productos con el codigo %s", codigo))
	}
	n, err := s.repo.CountByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	resp := dto.ConsultaPreciosResponse{
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Unidad:      p.Unidad,
		PrecioVenta: p.PrecioVenta,
		Disponible:  p.Cantidad.Sub(p.Reservado),
		Ambiguo:     n > 1,
	}
	s.precios.Set(ctx, codigo, resp)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i, p := range productos {
		data[i] = productoToResponse(p)
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// ── Escritura ─────────────────────────────────────────────────────────────────

func (s *productoService) Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoMutacionResponse, error) {
	unidad := req.Unidad
	if unidad == "" {
		unidad = ledger.UnidadPorDefecto
	}
	var resp dto.ProductoMutacionResponse
	err := s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		it, err := op.Catalogo.CrearItem(ledger.NuevoItem{
			Codigo:      req.Codigo,
			Nombre:      req.Nombre,
			Unidad:      unidad,
			PrecioCosto: req.PrecioCosto,
			PrecioVenta: req.PrecioVenta,
			Cantidad:    req.Cantidad,
			StockMinimo: req.StockMinimo,
		})
		if err != nil {
			return err
		}
		advs := append(it.Advertencias(), op.Catalogo.AdvertenciaCodigo(it.Codigo)...)
		if err := op.Guardar(model.MovAlta, "alta de producto", nil); err != nil {
			return err
		}
		resp = dto.ProductoMutacionResponse{Producto: itemToResponse(*it), Advertencias: vacioSiNil(advs)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	registrarAdvertencias("crear_producto", resp.Advertencias)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoMutacionResponse, error) {
	var resp dto.ProductoMutacionResponse
	err := s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		it, err := op.Catalogo.Editar(id, ledger.EdicionItem{
			Codigo:      req.Codigo,
			Nombre:      req.Nombre,
			Unidad:      req.Unidad,
			PrecioCosto: req.PrecioCosto,
			PrecioVenta: req.PrecioVenta,
			StockMinimo: req.StockMinimo,
		})
		if err != nil {
			return err
		}
		if err := op.Guardar(model.MovAjusteManual, "edicion de producto", nil); err != nil {
			return err
		}
		resp = dto.ProductoMutacionResponse{
			Producto:     itemToResponse(*it),
			Advertencias: vacioSiNil(append(it.Advertencias(), op.Catalogo.AdvertenciaCodigo(it.Codigo)...)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *productoService) AjustarStock(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoMutacionResponse, error) {
	return s.ajustar(ctx, usuarioID, id, req, func(cat *ledger.Catalogo, it *ledger.Item, d decimal.Decimal) []ledger.Advertencia {
		return cat.AjustarCantidad(it, d)
	})
}

func (s *productoService) AjustarReservado(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoMutacionResponse, error) {
	return s.ajustar(ctx, usuarioID, id, req, func(cat *ledger.Catalogo, it *ledger.Item, d decimal.Decimal) []ledger.Advertencia {
		return cat.AjustarReservado(it, d)
	})
}

func (s *productoService) ajustar(
	ctx context.Context,
	usuarioID *uuid.UUID,
	id uuid.UUID,
	req dto.AjustarStockRequest,
	fn func(*ledger.Catalogo, *ledger.Item, decimal.Decimal) []ledger.Advertencia,
) (*dto.ProductoMutacionResponse, error) {
	var resp dto.ProductoMutacionResponse
	err := s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		it, err := op.Catalogo.BuscarPorID(id)
		if err != nil {
			return err
		}
		advs := fn(op.Catalogo, it, req.Delta)
		if err := op.Guardar(model.MovAjusteManual, req.Motivo, nil); err != nil {
			return err
		}
		resp = dto.ProductoMutacionResponse{Producto: itemToResponse(*it), Advertencias: vacioSiNil(advs)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	registrarAdvertencias("ajuste_manual", resp.Advertencias)
	return &resp, nil
}

// ReemplazarCatalogo swaps the whole catalog ("guardar todo"). Rows with an
// id keep their identity so their history stays linked.
func (s *productoService) ReemplazarCatalogo(ctx context.Context, usuarioID *uuid.UUID, req dto.ReemplazarCatalogoRequest) (*dto.ReemplazarCatalogoResponse, error) {
	items := make([]ledger.Item, len(req.Productos))
	for i, p := range req.Productos {
		it := ledger.Item{
			Codigo:      p.Codigo,
			Nombre:      p.Nombre,
			Unidad:      p.Unidad,
			PrecioCosto: p.PrecioCosto,
			PrecioVenta: p.PrecioVenta,
			Cantidad:    p.Cantidad,
			Reservado:   p.Reservado,
			StockMinimo: p.StockMinimo,
		}
		if it.Unidad == "" {
			it.Unidad = ledger.UnidadPorDefecto
		}
		if p.ID != nil {
			id, err := uuid.Parse(*p.ID)
			if err != nil {
				return nil, datoInvalido(fmt.Errorf("fila %d: id invalido", i+1))
			}
			it.ID = id
		}
		items[i] = it
	}

	return s.reemplazar(ctx, usuarioID, items, "reemplazo de catalogo")
}

func (s *productoService) reemplazar(ctx context.Context, usuarioID *uuid.UUID, items []ledger.Item, motivo string) (*dto.ReemplazarCatalogoResponse, error) {
	var resp dto.ReemplazarCatalogoResponse
	err := s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		vistos := make(map[uuid.UUID]bool, len(items))
		for i := range items {
			if items[i].ID == uuid.Nil {
				continue
			}
			if vistos[items[i].ID] {
				return datoInvalido(fmt.Errorf("el id %s aparece dos veces", items[i].ID))
			}
			vistos[items[i].ID] = true
			if _, ok := op.Modelo(items[i].ID); !ok {
				// unknown ids are treated as new rows
				items[i].ID = uuid.Nil
			}
		}
		if err := op.Catalogo.ReemplazarTodo(items); err != nil {
			return err
		}
		if err := op.Guardar(model.MovAjusteManual, motivo, nil); err != nil {
			return err
		}
		altas, _, bajas := op.Resumen()
		resp = dto.ReemplazarCatalogoResponse{Productos: op.Catalogo.Len(), Altas: altas, Bajas: bajas}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publicar(ctx, s.publisher, infra.Evento{Tipo: infra.EventoCatalogo, Key: "catalogo", Datos: resp})
	return &resp, nil
}

// ── Planillas ─────────────────────────────────────────────────────────────────

// Columnas of the legacy stock sheet. Codigo and Reservado were added later;
// any missing column reads as zero (or "un." for Unidad).
var columnasPlanilla = []string{
	"Producto", "Cantidad", "Unidad", "Precio Costo", "Precio Venta", "Stock Minimo", "Codigo", "Reservado",
}

func (s *productoService) ImportarPlanilla(ctx context.Context, usuarioID *uuid.UUID, nombreArchivo string, r io.Reader) (*dto.ImportarCSVResponse, error) {
	var filas [][]string
	var err error
	switch strings.ToLower(filepath.Ext(nombreArchivo)) {
	case ".xlsx":
		filas, err = leerXLSX(r)
	default:
		filas, err = leerCSV(r)
	}
	if err != nil {
		return nil, datoInvalido(err)
	}
	items, err := itemsDesdeFilas(filas)
	if err != nil {
		return nil, datoInvalido(err)
	}

	// keep the identity of rows whose name already exists
	actuales, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	porNombre := make(map[string]uuid.UUID, len(actuales))
	for _, p := range actuales {
		if _, ok := porNombre[p.Nombre]; !ok {
			porNombre[p.Nombre] = p.ID
		}
	}
	usados := make(map[uuid.UUID]bool)
	for i := range items {
		if id, ok := porNombre[items[i].Nombre]; ok && !usados[id] {
			items[i].ID = id
			usados[id] = true
		}
	}

	if _, err := s.reemplazar(ctx, usuarioID, items, "importacion de "+filepath.Base(nombreArchivo)); err != nil {
		return nil, err
	}
	cat := ledger.NuevoCatalogo(items, s.store.Politica())
	advs := cat.Alertas()
	registrarAdvertencias("importar_planilla", advs)
	return &dto.ImportarCSVResponse{Filas: len(items), Advertencias: vacioSiNil(advs)}, nil
}

func leerCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	filas, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return filas, nil
}

func leerXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()
	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, errors.New("xlsx: el archivo no tiene hojas")
	}
	return f.GetRows(hojas[0])
}

func itemsDesdeFilas(filas [][]string) ([]ledger.Item, error) {
	if len(filas) == 0 {
		return nil, errors.New("la planilla esta vacia")
	}
	idx := make(map[string]int)
	for i, h := range filas[0] {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := idx["Producto"]; !ok {
		return nil, errors.New("falta la columna Producto")
	}

	celda := func(fila []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(fila) {
			return ""
		}
		return strings.TrimSpace(fila[i])
	}
	numero := func(fila []string, n int, col string) (decimal.Decimal, error) {
		v := celda(fila, col)
		if v == "" || strings.EqualFold(v, "nan") {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("fila %d, columna %s: %q no es un numero", n, col, v)
		}
		return d, nil
	}

	items := make([]ledger.Item, 0, len(filas)-1)
	for n, fila := range filas[1:] {
		nombre := celda(fila, "Producto")
		if nombre == "" {
			continue
		}
		it := ledger.Item{Nombre: nombre, Codigo: celda(fila, "Codigo"), Unidad: celda(fila, "Unidad")}
		if it.Unidad == "" {
			it.Unidad = ledger.UnidadPorDefecto
		}
		campos := []struct {
			col string
			dst *decimal.Decimal
		}{
			{"Cantidad", &it.Cantidad},
			{"Precio Costo", &it.PrecioCosto},
			{"Precio Venta", &it.PrecioVenta},
			{"Stock Minimo", &it.StockMinimo},
			{"Reservado", &it.Reservado},
		}
		for _, c := range campos {
			v, err := numero(fila, n+2, c.col)
			if err != nil {
				return nil, err
			}
			*c.dst = v
		}
		items = append(items, it)
	}
	return items, nil
}

// ExportarXLSX writes the catalog in the legacy column layout plus the
// computed Disponible.
func (s *productoService) ExportarXLSX(ctx context.Context) ([]byte, error) {
	productos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	hoja := infra.Hoja{
		Nombre:      "Stock",
		Encabezados: append(append([]string{}, columnasPlanilla...), "Disponible"),
		Filas:       make([][]any, len(productos)),
	}
	for i, p := range productos {
		hoja.Filas[i] = []any{
			p.Nombre, p.Cantidad, p.Unidad, p.PrecioCosto, p.PrecioVenta, p.StockMinimo,
			p.Codigo, p.Reservado, p.Cantidad.Sub(p.Reservado),
		}
	}
	return infra.GenerarXLSX(hoja)
}

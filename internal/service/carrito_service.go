package service

import (
	"context"
	"fmt"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/repository"

	"github.com/shopspring/decimal"
)

// CarritoService keeps one quote cart per user. Lines hold only a code and a
// quantity; every read prices them at the current catalog.
type CarritoService interface {
	Obtener(ctx context.Context, usuarioID string) (*dto.CarritoResponse, error)
	AgregarLinea(ctx context.Context, usuarioID string, req dto.AgregarLineaRequest) (*dto.CarritoResponse, error)
	QuitarLinea(ctx context.Context, usuarioID string, indice int) (*dto.CarritoResponse, error)
	// Reemplazar overwrites the cart, e.g. with the materials of a quote.
	Reemplazar(ctx context.Context, usuarioID string, c ledger.Carrito) (*dto.CarritoResponse, error)
	Vaciar(ctx context.Context, usuarioID string) error
	// Lineas returns the raw cart for checkout.
	Lineas(ctx context.Context, usuarioID string) (ledger.Carrito, error)
}

type carritoService struct {
	repo  repository.CarritoRepository
	store *LedgerStore
}

func NewCarritoService(repo repository.CarritoRepository, store *LedgerStore) CarritoService {
	return &carritoService{repo: repo, store: store}
}

func (s *carritoService) Lineas(ctx context.Context, usuarioID string) (ledger.Carrito, error) {
	return s.repo.Get(ctx, usuarioID)
}

func (s *carritoService) Obtener(ctx context.Context, usuarioID string) (*dto.CarritoResponse, error) {
	c, err := s.repo.Get(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return s.cotizar(ctx, c)
}

func (s *carritoService) AgregarLinea(ctx context.Context, usuarioID string, req dto.AgregarLineaRequest) (*dto.CarritoResponse, error) {
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if cat.Politica().SiFaltaCodigo == ledger.FaltaRechazar {
		if _, err := cat.BuscarPorCodigo(req.Codigo); err != nil {
			return nil, err
		}
	}

	c, err := s.repo.Get(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	c, err = ledger.AgregarLinea(c, req.Codigo, req.Cantidad)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, usuarioID, c); err != nil {
		return nil, err
	}
	return cotizarCon(cat, c), nil
}

func (s *carritoService) QuitarLinea(ctx context.Context, usuarioID string, indice int) (*dto.CarritoResponse, error) {
	c, err := s.repo.Get(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if indice < 0 || indice >= len(c) {
		return nil, noEncontradoError{msg: fmt.Sprintf("el carrito no tiene la linea %d", indice)}
	}
	c = ledger.QuitarLinea(c, indice)
	if err := s.repo.Save(ctx, usuarioID, c); err != nil {
		return nil, err
	}
	return s.cotizar(ctx, c)
}

func (s *carritoService) Reemplazar(ctx context.Context, usuarioID string, c ledger.Carrito) (*dto.CarritoResponse, error) {
	if err := s.repo.Save(ctx, usuarioID, c); err != nil {
		return nil, err
	}
	return s.cotizar(ctx, c)
}

func (s *carritoService) Vaciar(ctx context.Context, usuarioID string) error {
	return s.repo.Delete(ctx, usuarioID)
}

func (s *carritoService) cotizar(ctx context.Context, c ledger.Carrito) (*dto.CarritoResponse, error) {
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return cotizarCon(cat, c), nil
}

// cotizarCon prices each line on its own so one unknown code does not hide
// the rest of the cart; the unknown line is reported instead.
func cotizarCon(cat *ledger.Catalogo, c ledger.Carrito) *dto.CarritoResponse {
	resp := &dto.CarritoResponse{
		Lineas:       make([]dto.LineaCarritoResponse, 0, len(c)),
		Total:        decimal.Zero,
		Advertencias: []ledger.Advertencia{},
	}
	for i, l := range c {
		linea := dto.LineaCarritoResponse{Indice: i, Codigo: l.Codigo, Cantidad: l.Cantidad}
		it, err := ledger.ResolverLinea(cat, l)
		if err != nil {
			resp.Advertencias = append(resp.Advertencias, ledger.Advertencia{
				Tipo:    ledger.AdvProductoDesconocido,
				Codigo:  l.Codigo,
				Detalle: "el codigo ya no existe en el catalogo",
			})
			resp.Lineas = append(resp.Lineas, linea)
			continue
		}
		linea.Nombre = it.Nombre
		linea.Unidad = it.Unidad
		linea.PrecioUnitario = it.PrecioVenta
		linea.Subtotal = l.Cantidad.Mul(it.PrecioVenta)
		linea.Disponible = it.Disponible()
		resp.Lineas = append(resp.Lineas, linea)
		resp.Total = resp.Total.Add(linea.Subtotal)
		if l.ItemID == nil {
			resp.Advertencias = append(resp.Advertencias, cat.AdvertenciaCodigo(l.Codigo)...)
		}
	}
	return resp
}

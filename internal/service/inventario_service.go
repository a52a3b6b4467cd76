package service

import (
	"context"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/repository"

	"github.com/google/uuid"
)

// InventarioService reports on the state and history of stock.
type InventarioService interface {
	ObtenerAlertas(ctx context.Context) (*dto.AlertasResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	movimientos repository.MovimientoStockRepository
	store       *LedgerStore
	reloj       Reloj
}

func NewInventarioService(movimientos repository.MovimientoStockRepository, store *LedgerStore, reloj Reloj) InventarioService {
	return &inventarioService{movimientos: movimientos, store: store, reloj: reloj}
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) (*dto.AlertasResponse, error) {
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	alertas := vacioSiNil(cat.Alertas())
	return &dto.AlertasResponse{Alertas: alertas, Total: len(alertas)}, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	f := repository.MovimientoStockFilter{Tipo: filter.Tipo, Page: filter.Page, Limit: filter.Limit}
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, datoInvalido(err)
		}
		f.ProductoID = &id
	}

	movs, total, err := s.movimientos.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, len(movs))
	for i, m := range movs {
		data[i] = s.reloj.movimientoToResponse(m)
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

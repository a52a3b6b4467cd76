package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/repository"

	"github.com/google/uuid"
)

// GastoService records material purchases; each one enters stock.
type GastoService interface {
	Registrar(ctx context.Context, usuarioID *uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoMutacionResponse, error)
	Listar(ctx context.Context, filter dto.GastoFilter) ([]dto.GastoResponse, error)
}

type gastoService struct {
	repo  repository.GastoRepository
	store *LedgerStore
	reloj Reloj
}

func NewGastoService(repo repository.GastoRepository, store *LedgerStore, reloj Reloj) GastoService {
	return &gastoService{repo: repo, store: store, reloj: reloj}
}

func (s *gastoService) Registrar(ctx context.Context, usuarioID *uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoMutacionResponse, error) {
	fecha, err := s.reloj.ParseDia(req.Fecha)
	if err != nil {
		return nil, datoInvalido(err)
	}
	gastoID := uuid.New()

	var resp dto.GastoMutacionResponse
	err = s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		it, advs, err := ledger.RegistrarCompra(op.Catalogo, ledger.Compra{
			Insumo:   req.Insumo,
			Codigo:   req.Codigo,
			Unidad:   req.Unidad,
			Cantidad: req.Cantidad,
			Monto:    req.Monto,
			Nuevo:    req.Nuevo,
		})
		if err != nil {
			return err
		}
		if err := op.Guardar(model.MovCompra, fmt.Sprintf("Compra de %s", req.Insumo), &gastoID); err != nil {
			return err
		}

		g := model.Gasto{
			ID:         gastoID,
			Fecha:      fecha,
			Insumo:     req.Insumo,
			ProductoID: it.ID,
			Cantidad:   req.Cantidad,
			Monto:      req.Monto,
			Proveedor:  req.Proveedor,
			UsuarioID:  usuarioID,
		}
		if err := s.repo.CreateTx(op.Tx, &g); err != nil {
			return err
		}
		if it.Codigo != "" {
			advs = append(advs, op.Catalogo.AdvertenciaCodigo(it.Codigo)...)
		}
		resp = dto.GastoMutacionResponse{
			Gasto:        s.reloj.gastoToResponse(g),
			Producto:     itemToResponse(*it),
			Advertencias: vacioSiNil(advs),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	registrarAdvertencias("compra", resp.Advertencias)
	return &resp, nil
}

func (s *gastoService) Listar(ctx context.Context, filter dto.GastoFilter) ([]dto.GastoResponse, error) {
	desde, hasta, err := s.dias(filter)
	if err != nil {
		return nil, datoInvalido(err)
	}
	gastos, err := s.repo.List(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GastoResponse, len(gastos))
	for i, g := range gastos {
		out[i] = s.reloj.gastoToResponse(g)
	}
	return out, nil
}

// dias bounds the purchase dates. Fecha is a calendar day, so the bounds are
// calendar days too rather than local instants.
func (s *gastoService) dias(filter dto.GastoFilter) (*time.Time, *time.Time, error) {
	var desde, hasta *time.Time
	if filter.Desde != "" {
		d, err := s.reloj.ParseDia(filter.Desde)
		if err != nil {
			return nil, nil, err
		}
		desde = &d
	}
	if filter.Hasta != "" {
		h, err := s.reloj.ParseDia(filter.Hasta)
		if err != nil {
			return nil, nil, err
		}
		h = h.AddDate(0, 0, 1)
		hasta = &h
	}
	if desde != nil && hasta != nil && !desde.Before(*hasta) {
		return nil, nil, fmt.Errorf("rango de fechas invalido: %s > %s", filter.Desde, filter.Hasta)
	}
	return desde, hasta, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProduccionService tracks batches of concrete posts while they cure.
type ProduccionService interface {
	RegistrarLote(ctx context.Context, usuarioID *uuid.UUID, req dto.RegistrarLoteRequest) (*dto.LoteMutacionResponse, error)
	ListarLotes(ctx context.Context, filter dto.LoteFilter) ([]dto.LoteResponse, error)
	FinalizarLote(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID) (*dto.LoteMutacionResponse, error)
	// LotesListos lists active batches whose curing period is over.
	LotesListos(ctx context.Context) ([]dto.LoteResponse, error)
}

type produccionService struct {
	lotes     repository.LoteRepository
	recetas   repository.RecetaRepository
	store     *LedgerStore
	publisher infra.Publisher
	reloj     Reloj
}

func NewProduccionService(
	lotes repository.LoteRepository,
	recetas repository.RecetaRepository,
	store *LedgerStore,
	publisher infra.Publisher,
	reloj Reloj,
) ProduccionService {
	return &produccionService{lotes: lotes, recetas: recetas, store: store, publisher: publisher, reloj: reloj}
}

// RegistrarLote creates the batch and draws the materials of its recipe in
// the same transaction. A recipe material missing from the catalog rejects
// the registration.
func (s *produccionService) RegistrarLote(ctx context.Context, usuarioID *uuid.UUID, req dto.RegistrarLoteRequest) (*dto.LoteMutacionResponse, error) {
	inicio, err := s.reloj.ParseDia(req.FechaInicio)
	if err != nil {
		return nil, datoInvalido(err)
	}
	loteID := uuid.New()
	motivo := fmt.Sprintf("Lote %s x %s", req.Producto, req.Cantidad.String())

	var m model.LoteProduccion
	var advs []ledger.Advertencia
	err = s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		if _, err := ledger.NuevoLote(req.Producto, req.Cantidad, inicio, req.DiasFraguado); err != nil {
			return err
		}

		filas, err := s.recetas.ListByProductoTx(op.Tx, req.Producto)
		if err != nil {
			return err
		}
		if len(filas) > 0 {
			_, consumo, err := ledger.ConsumirReceta(op.Catalogo, recetaDesdeModelo(filas), req.Producto, req.Cantidad)
			if err != nil {
				return err
			}
			advs = append(advs, consumo...)
			if err := op.Guardar(model.MovConsumoReceta, motivo, &loteID); err != nil {
				return err
			}
		}

		l, reg, err := ledger.RegistrarLote(op.Catalogo, req.Producto, req.Cantidad, inicio, req.DiasFraguado)
		if err != nil {
			return err
		}
		l.ID = loteID
		advs = append(advs, reg...)
		if l.Estado == ledger.LoteFinalizado {
			ahora := op.Ahora()
			l.FinalizadoEl = &ahora
			if err := op.Guardar(model.MovProduccion, motivo, &loteID); err != nil {
				return err
			}
		}

		m = modeloDesdeLote(model.LoteProduccion{UsuarioID: usuarioID}, *l)
		return s.lotes.CreateTx(op.Tx, &m)
	})
	if err != nil {
		return nil, err
	}

	registrarAdvertencias("registrar_lote", advs)
	publicar(ctx, s.publisher, infra.Evento{Tipo: infra.EventoLoteRegistrado, Key: m.ID.String(), Datos: eventoLote(m)})
	if m.Estado == string(ledger.LoteFinalizado) {
		s.finalizado(ctx, m)
	}
	return &dto.LoteMutacionResponse{
		Lote:         s.reloj.loteToResponse(m, s.reloj.Hoy()),
		Advertencias: vacioSiNil(advs),
	}, nil
}

func (s *produccionService) ListarLotes(ctx context.Context, filter dto.LoteFilter) ([]dto.LoteResponse, error) {
	lotes, err := s.lotes.List(ctx, filter.Todos)
	if err != nil {
		return nil, err
	}
	hoy := s.reloj.Hoy()
	out := make([]dto.LoteResponse, len(lotes))
	for i, l := range lotes {
		out[i] = s.reloj.loteToResponse(l, hoy)
	}
	return out, nil
}

func (s *produccionService) LotesListos(ctx context.Context) ([]dto.LoteResponse, error) {
	lotes, err := s.lotes.List(ctx, false)
	if err != nil {
		return nil, err
	}
	hoy := s.reloj.Hoy()
	out := make([]dto.LoteResponse, 0, len(lotes))
	for _, l := range lotes {
		if ledger.EstaListo(loteDesdeModelo(l), hoy) {
			out = append(out, s.reloj.loteToResponse(l, hoy))
		}
	}
	return out, nil
}

// FinalizarLote moves a cured batch into stock. The batch row is read under
// the ledger lock so two concurrent finalizations cannot both add stock.
func (s *produccionService) FinalizarLote(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID) (*dto.LoteMutacionResponse, error) {
	var m model.LoteProduccion
	var advs []ledger.Advertencia
	err := s.store.Ejecutar(ctx, usuarioID, func(op *Operacion) error {
		row, err := s.lotes.FindByIDTx(op.Tx, id)
		if err != nil {
			return noEncontrado(err, "lote no encontrado")
		}
		l := loteDesdeModelo(*row)
		advs, err = ledger.Finalizar(&l, op.Catalogo, s.reloj.Hoy())
		if err != nil {
			return err
		}
		ahora := op.Ahora()
		l.FinalizadoEl = &ahora

		motivo := fmt.Sprintf("Lote %s x %s", l.Producto, l.Cantidad.String())
		if err := op.Guardar(model.MovProduccion, motivo, &id); err != nil {
			return err
		}
		m = modeloDesdeLote(*row, l)
		return s.lotes.SaveTx(op.Tx, &m)
	})
	if err != nil {
		return nil, err
	}

	registrarAdvertencias("finalizar_lote", advs)
	s.finalizado(ctx, m)
	return &dto.LoteMutacionResponse{
		Lote:         s.reloj.loteToResponse(m, s.reloj.Hoy()),
		Advertencias: vacioSiNil(advs),
	}, nil
}

func (s *produccionService) finalizado(ctx context.Context, m model.LoteProduccion) {
	infra.LotesFinalizados.Inc()
	log.Info().
		Str("lote_id", m.ID.String()).
		Str("producto", m.Producto).
		Str("cantidad", m.Cantidad.String()).
		Msg("lote finalizado")
	publicar(ctx, s.publisher, infra.Evento{Tipo: infra.EventoLoteFinalizado, Key: m.ID.String(), Datos: eventoLote(m)})
}

func eventoLote(m model.LoteProduccion) map[string]any {
	return map[string]any{
		"lote_id":     m.ID.String(),
		"producto":    m.Producto,
		"cantidad":    m.Cantidad.String(),
		"fecha_listo": m.FechaListo.Format(formatoDia),
		"estado":      m.Estado,
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/repository"
)

// RecetaService edits the fabrication recipes as a whole table, the way the
// shop keeps them.
type RecetaService interface {
	Listar(ctx context.Context) ([]dto.RecetaLinea, error)
	Reemplazar(ctx context.Context, req dto.ReemplazarRecetasRequest) ([]dto.RecetaLinea, error)
}

type recetaService struct {
	repo repository.RecetaRepository
}

func NewRecetaService(repo repository.RecetaRepository) RecetaService {
	return &recetaService{repo: repo}
}

func (s *recetaService) Listar(ctx context.Context) ([]dto.RecetaLinea, error) {
	filas, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecetaLinea, len(filas))
	for i, f := range filas {
		out[i] = dto.RecetaLinea{ProductoFinal: f.ProductoFinal, Insumo: f.Insumo, Cantidad: f.Cantidad}
	}
	return out, nil
}

func (s *recetaService) Reemplazar(ctx context.Context, req dto.ReemplazarRecetasRequest) ([]dto.RecetaLinea, error) {
	vistos := make(map[[2]string]bool, len(req.Lineas))
	filas := make([]model.RecetaItem, 0, len(req.Lineas))
	for _, l := range req.Lineas {
		if l.ProductoFinal == l.Insumo {
			return nil, datoInvalido(fmt.Errorf("%s no puede ser insumo de si mismo", l.Insumo))
		}
		k := [2]string{l.ProductoFinal, l.Insumo}
		if vistos[k] {
			return nil, datoInvalido(fmt.Errorf("%s figura dos veces en la receta de %s", l.Insumo, l.ProductoFinal))
		}
		vistos[k] = true
		filas = append(filas, model.RecetaItem{ProductoFinal: l.ProductoFinal, Insumo: l.Insumo, Cantidad: l.Cantidad})
	}
	if err := s.repo.ReplaceAll(ctx, filas); err != nil {
		return nil, err
	}
	return s.Listar(ctx)
}

func recetaDesdeModelo(filas []model.RecetaItem) []ledger.LineaReceta {
	out := make([]ledger.LineaReceta, len(filas))
	for i, f := range filas {
		out[i] = ledger.LineaReceta{ProductoFinal: f.ProductoFinal, Insumo: f.Insumo, Cantidad: f.Cantidad}
	}
	return out
}

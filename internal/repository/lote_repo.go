package repository

import (
	"context"
	"time"

	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoteRepository interface {
	CreateTx(tx *gorm.DB, l *model.LoteProduccion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LoteProduccion, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.LoteProduccion, error)
	SaveTx(tx *gorm.DB, l *model.LoteProduccion) error
	// List returns batches ordered by ready date; finalized ones only when todos is set.
	List(ctx context.Context, todos bool) ([]model.LoteProduccion, error)
	// ListListosSinAviso returns active batches ready on or before hasta that
	// were never notified.
	ListListosSinAviso(ctx context.Context, hasta time.Time) ([]model.LoteProduccion, error)
	MarcarAviso(ctx context.Context, id uuid.UUID, t time.Time) error
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) CreateTx(tx *gorm.DB, l *model.LoteProduccion) error {
	return tx.Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LoteProduccion, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *loteRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.LoteProduccion, error) {
	var l model.LoteProduccion
	err := tx.Where("id = ?", id).First(&l).Error
	return &l, err
}

func (r *loteRepo) SaveTx(tx *gorm.DB, l *model.LoteProduccion) error {
	return tx.Save(l).Error
}

func (r *loteRepo) List(ctx context.Context, todos bool) ([]model.LoteProduccion, error) {
	var lotes []model.LoteProduccion
	q := r.db.WithContext(ctx)
	if !todos {
		q = q.Where("estado <> ?", string(ledger.LoteFinalizado))
	}
	err := q.Order("fecha_listo ASC").Order("created_at ASC").Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) ListListosSinAviso(ctx context.Context, hasta time.Time) ([]model.LoteProduccion, error) {
	var lotes []model.LoteProduccion
	err := r.db.WithContext(ctx).
		Where("estado = ? AND fecha_listo <= ? AND aviso_listo_el IS NULL", string(ledger.LoteEnProceso), hasta).
		Order("fecha_listo ASC").
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) MarcarAviso(ctx context.Context, id uuid.UUID, t time.Time) error {
	return r.db.WithContext(ctx).Model(&model.LoteProduccion{}).
		Where("id = ?", id).Update("aviso_listo_el", t).Error
}

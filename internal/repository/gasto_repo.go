package repository

import (
	"context"
	"time"

	"github.com/Martin-Comito/alambrados/internal/model"

	"gorm.io/gorm"
)

type GastoRepository interface {
	CreateTx(tx *gorm.DB, g *model.Gasto) error
	// List filters by [desde, hasta); nil bounds are open.
	List(ctx context.Context, desde, hasta *time.Time) ([]model.Gasto, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) CreateTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Create(g).Error
}

func (r *gastoRepo) List(ctx context.Context, desde, hasta *time.Time) ([]model.Gasto, error) {
	q := r.db.WithContext(ctx)
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha < ?", *hasta)
	}
	var gastos []model.Gasto
	err := q.Order("fecha DESC").Find(&gastos).Error
	return gastos, err
}

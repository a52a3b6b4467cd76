package repository

import (
	"context"

	"github.com/Martin-Comito/alambrados/internal/model"

	"gorm.io/gorm"
)

type RecetaRepository interface {
	ListAll(ctx context.Context) ([]model.RecetaItem, error)
	ListByProductoTx(tx *gorm.DB, producto string) ([]model.RecetaItem, error)
	// ReplaceAll swaps the recipe table in one transaction.
	ReplaceAll(ctx context.Context, items []model.RecetaItem) error
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) ListAll(ctx context.Context) ([]model.RecetaItem, error) {
	var items []model.RecetaItem
	err := r.db.WithContext(ctx).Order("producto_final ASC").Order("insumo ASC").Find(&items).Error
	return items, err
}

func (r *recetaRepo) ListByProductoTx(tx *gorm.DB, producto string) ([]model.RecetaItem, error) {
	var items []model.RecetaItem
	err := tx.Where("producto_final = ?", producto).Order("insumo ASC").Find(&items).Error
	return items, err
}

func (r *recetaRepo) ReplaceAll(ctx context.Context, items []model.RecetaItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.RecetaItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

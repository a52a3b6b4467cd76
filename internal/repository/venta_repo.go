package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Martin-Comito/alambrados/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VentaQuery filters the sales log. Hasta is exclusive.
type VentaQuery struct {
	Desde   *time.Time
	Hasta   *time.Time
	Entrega string
	Cliente string
	Page    int
	Limit   int
}

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	// NextNumero must run under the ledger lock; numbers are MAX+1.
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, q VentaQuery) ([]model.Venta, int64, error)
	// ListSinItems loads headers only, for aggregates and exports.
	ListSinItems(ctx context.Context, q VentaQuery) ([]model.Venta, error)
	UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Model(&model.Venta{}).
		Select("COALESCE(MAX(numero), 0) + 1").Scan(&num).Error
	return num, err
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *ventaRepo) filtrar(ctx context.Context, q VentaQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Venta{})
	if q.Desde != nil {
		db = db.Where("fecha >= ?", *q.Desde)
	}
	if q.Hasta != nil {
		db = db.Where("fecha < ?", *q.Hasta)
	}
	if q.Entrega != "" {
		db = db.Where("entrega = ?", q.Entrega)
	}
	if q.Cliente != "" {
		db = db.Where("LOWER(cliente) LIKE ?", "%"+strings.ToLower(q.Cliente)+"%")
	}
	return db
}

func (r *ventaRepo) List(ctx context.Context, q VentaQuery) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	db := r.filtrar(ctx, q)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Order("numero DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) ListSinItems(ctx context.Context, q VentaQuery) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.filtrar(ctx, q).Order("numero ASC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Venta{}).Where("id = ?", id).Update("pdf_path", path).Error
}

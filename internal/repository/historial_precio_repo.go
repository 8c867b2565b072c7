package repository

import (
	"context"

	"github.com/dmbruno/Ananda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistorialPrecioRepository interface {
	CreateBatchTx(tx *gorm.DB, regs []model.HistorialPrecio) error
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error)
}

type historialPrecioRepo struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepo{db: db}
}

func (r *historialPrecioRepo) CreateBatchTx(tx *gorm.DB, regs []model.HistorialPrecio) error {
	if len(regs) == 0 {
		return nil
	}
	return tx.Create(&regs).Error
}

func (r *historialPrecioRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error) {
	var regs []model.HistorialPrecio
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at desc").
		Find(&regs).Error
	return regs, err
}

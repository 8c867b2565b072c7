package repository

import (
	"context"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	// FindAbierta returns the single open session, or gorm.ErrRecordNotFound.
	FindAbierta(ctx context.Context) (*model.Caja, error)
	FindAbiertaTx(tx *gorm.DB) (*model.Caja, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	List(ctx context.Context, f dto.CajaFilter) ([]model.Caja, int64, error)
	Update(ctx context.Context, c *model.Caja) error
	UpdateTx(tx *gorm.DB, c *model.Caja) error
	// SumVentasTx totals the sales attributed to a session.
	SumVentasTx(tx *gorm.DB, cajaID uuid.UUID) (decimal.Decimal, error)

	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindAbierta(ctx context.Context) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Preload("UsuarioApertura").
		Preload("Ventas").
		Where("estado = ?", model.CajaAbierta).
		First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindAbiertaTx(tx *gorm.DB) (*model.Caja, error) {
	var c model.Caja
	err := tx.Where("estado = ?", model.CajaAbierta).First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Preload("UsuarioApertura").
		Preload("UsuarioCierre").
		Preload("UsuarioControl").
		Preload("Ventas").
		Preload("Ventas.Cliente").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cajaRepo) List(ctx context.Context, f dto.CajaFilter) ([]model.Caja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Caja{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cajas []model.Caja
	err := q.Preload("UsuarioApertura").Preload("UsuarioCierre").Preload("UsuarioControl").
		Preload("Ventas").
		Order("fecha_apertura desc").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&cajas).Error
	return cajas, total, err
}

func (r *cajaRepo) Update(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cajaRepo) UpdateTx(tx *gorm.DB, c *model.Caja) error {
	return tx.Save(c).Error
}

func (r *cajaRepo) SumVentasTx(tx *gorm.DB, cajaID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&model.Venta{}).
		Where("caja_id = ?", cajaID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

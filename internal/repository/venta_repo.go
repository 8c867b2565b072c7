package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiaTotal is one row of the daily sales aggregation.
type DiaTotal struct {
	Dia   time.Time
	Total decimal.Decimal
}

// FilaInconsistencia is one sale line whose product or category was
// deactivated after the sale.
type FilaInconsistencia struct {
	VentaID        uuid.UUID
	ProductoID     uuid.UUID
	ProductoNombre string
	Motivo         string
	FechaVenta     time.Time
}

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, f dto.VentaFilter) ([]model.Venta, int64, error)
	UpdateTx(tx *gorm.DB, v *model.Venta) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// TotalesPorDia aggregates sale totals per calendar day over [desde, hasta).
	TotalesPorDia(ctx context.Context, desde, hasta time.Time) ([]DiaTotal, error)
	ListInconsistencias(ctx context.Context) ([]FilaInconsistencia, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Usuario").
		Preload("Detalles").
		Preload("Detalles.Producto").
		First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Preload("Detalles").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, f dto.VentaFilter) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if f.Desde != "" {
		q = q.Where("fecha_venta >= ?", f.Desde)
	}
	if f.Hasta != "" {
		// inclusive upper bound on the calendar day
		q = q.Where("fecha_venta < (?::date + interval '1 day')", f.Hasta)
	}
	if f.ClienteID != "" {
		q = q.Where("cliente_id = ?", f.ClienteID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ventas []model.Venta
	err := q.Preload("Cliente").Preload("Detalles").Preload("Detalles.Producto").
		Order("fecha_venta desc").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) UpdateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Save(v).Error
}

// DeleteTx removes the sale and its lines. Detail rows cascade at the
// database level; the explicit delete keeps the behavior independent of
// how the constraint was migrated.
func (r *ventaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("venta_id = ?", id).Delete(&model.DetalleVenta{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Venta{}, "id = ?", id).Error
}

func (r *ventaRepo) TotalesPorDia(ctx context.Context, desde, hasta time.Time) ([]DiaTotal, error) {
	// Group in the caller's zone, not the session's; otherwise late-evening
	// sales shift into the next bucket when the server runs on UTC.
	_, offset := desde.Zone()
	zona := fmt.Sprintf("%+03d:%02d", offset/3600, abs(offset%3600)/60)

	var rows []DiaTotal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("DATE(fecha_venta AT TIME ZONE (?::interval)) AS dia, COALESCE(SUM(total), 0) AS total", zona).
		Where("fecha_venta >= ? AND fecha_venta < ?", desde, hasta).
		Group("dia").
		Order("dia asc").
		Scan(&rows).Error
	return rows, err
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (r *ventaRepo) ListInconsistencias(ctx context.Context) ([]FilaInconsistencia, error) {
	var rows []FilaInconsistencia
	err := r.db.WithContext(ctx).Raw(`
		SELECT v.id AS venta_id,
		       p.id AS producto_id,
		       p.nombre AS producto_nombre,
		       CASE WHEN NOT p.activo THEN 'producto_inactivo' ELSE 'categoria_inactiva' END AS motivo,
		       v.fecha_venta
		FROM ventas v
		JOIN detalle_ventas dv ON dv.venta_id = v.id
		JOIN productos p ON p.id = dv.producto_id
		LEFT JOIN categorias c ON c.id = p.categoria_id
		WHERE NOT p.activo OR NOT COALESCE(c.activo, true)
		ORDER BY v.fecha_venta DESC`).
		Scan(&rows).Error
	return rows, err
}

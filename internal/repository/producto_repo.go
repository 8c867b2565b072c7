package repository

import (
	"context"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, f dto.ProductoFilter) ([]model.Producto, int64, error)
	ListStockBajo(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	UpdateImagen(ctx context.Context, id uuid.UUID, imagenURL string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// DecrementStockTx takes cantidad units inside tx. The update is
	// conditional on stock_actual >= cantidad; a zero RowsAffected means
	// a concurrent sale drained the stock first.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error)
	IncrementStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)

	// ListForAjuste resolves the products targeted by a bulk price
	// adjustment scope, inside tx.
	ListForAjusteTx(tx *gorm.DB, alcance string, categoriaID, subcategoriaID *uuid.UUID, ids []uuid.UUID) ([]model.Producto, error)
	UpdatePrecioTx(tx *gorm.DB, id uuid.UUID, precio decimal.Decimal) error

	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categoria").Preload("Subcategoria").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "codigo = ? AND activo = true", codigo).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, f dto.ProductoFilter) ([]model.Producto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Producto{})

	switch f.Activo {
	case "all":
	case "false":
		q = q.Where("activo = false")
	default:
		q = q.Where("activo = true")
	}
	if f.CategoriaID != "" {
		q = q.Where("categoria_id = ?", f.CategoriaID)
	}
	if f.SubcategoriaID != "" {
		q = q.Where("subcategoria_id = ?", f.SubcategoriaID)
	}
	if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Where("nombre ILIKE ? OR codigo ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productos []model.Producto
	err := q.Order("nombre asc").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListStockBajo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = true AND stock_actual <= stock_minimo").
		Order("stock_actual asc").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) UpdateImagen(ctx context.Context, id uuid.UUID, imagenURL string) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).
		Update("imagen_url", imagenURL).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Updates(map[string]interface{}{
		"activo":     false,
		"updated_at": time.Now(),
	}).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) (int64, error) {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock_actual >= ?", id, cantidad).
		Update("stock_actual", gorm.Expr("stock_actual - ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *productoRepo) IncrementStockTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock_actual", gorm.Expr("stock_actual + ?", cantidad)).Error
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) ListForAjusteTx(tx *gorm.DB, alcance string, categoriaID, subcategoriaID *uuid.UUID, ids []uuid.UUID) ([]model.Producto, error) {
	q := tx.Where("activo = true")
	switch alcance {
	case "categoria":
		q = q.Where("categoria_id = ?", categoriaID)
	case "subcategoria":
		q = q.Where("subcategoria_id = ?", subcategoriaID)
	case "productos_especificos":
		q = q.Where("id IN ?", ids)
	}
	var productos []model.Producto
	err := q.Find(&productos).Error
	return productos, err
}

func (r *productoRepo) UpdatePrecioTx(tx *gorm.DB, id uuid.UUID, precio decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("precio_venta", precio).Error
}

package repository

import (
	"context"

	"github.com/dmbruno/Ananda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository covers categories and their subcategories.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context, incluirInactivas bool) ([]model.Categoria, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	Actualizar(ctx context.Context, c *model.Categoria) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	CrearSubcategoria(ctx context.Context, s *model.Subcategoria) error
	ListarSubcategorias(ctx context.Context, categoriaID *uuid.UUID) ([]model.Subcategoria, error)
	ObtenerSubcategoria(ctx context.Context, id uuid.UUID) (*model.Subcategoria, error)
	ActualizarSubcategoria(ctx context.Context, s *model.Subcategoria) error
	DesactivarSubcategoria(ctx context.Context, id uuid.UUID) error
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository { return &categoriaRepo{db: db} }

func (r *categoriaRepo) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) Listar(ctx context.Context, incluirInactivas bool) ([]model.Categoria, error) {
	var list []model.Categoria
	q := r.db.WithContext(ctx).Order("nombre asc")
	if !incluirInactivas {
		q = q.Where("activo = true")
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *categoriaRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) Actualizar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *categoriaRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *categoriaRepo) CrearSubcategoria(ctx context.Context, s *model.Subcategoria) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *categoriaRepo) ListarSubcategorias(ctx context.Context, categoriaID *uuid.UUID) ([]model.Subcategoria, error) {
	var list []model.Subcategoria
	q := r.db.WithContext(ctx).Where("activo = true").Order("nombre asc")
	if categoriaID != nil {
		q = q.Where("categoria_id = ?", *categoriaID)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *categoriaRepo) ObtenerSubcategoria(ctx context.Context, id uuid.UUID) (*model.Subcategoria, error) {
	var s model.Subcategoria
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *categoriaRepo) ActualizarSubcategoria(ctx context.Context, s *model.Subcategoria) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *categoriaRepo) DesactivarSubcategoria(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Subcategoria{}).Where("id = ?", id).Update("activo", false).Error
}

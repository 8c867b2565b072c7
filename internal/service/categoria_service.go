package service

import (
	"context"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/google/uuid"
)

type CategoriaService struct {
	categorias repository.CategoriaRepository
}

func NewCategoriaService(categorias repository.CategoriaRepository) *CategoriaService {
	return &CategoriaService{categorias: categorias}
}

func (s *CategoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	c := &model.Categoria{Nombre: req.Nombre, Activo: true}
	if err := s.categorias.Crear(ctx, c); err != nil {
		return nil, err
	}
	resp := toCategoriaResponse(c)
	return &resp, nil
}

func (s *CategoriaService) Listar(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error) {
	list, err := s.categorias.Listar(ctx, incluirInactivas)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(list))
	for i := range list {
		out = append(out, toCategoriaResponse(&list[i]))
	}
	return out, nil
}

func (s *CategoriaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CategoriaResponse, error) {
	c, err := s.categorias.ObtenerPorID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toCategoriaResponse(c)
	return &resp, nil
}

func (s *CategoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.categorias.ObtenerPorID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c.Nombre = req.Nombre
	if err := s.categorias.Actualizar(ctx, c); err != nil {
		return nil, err
	}
	resp := toCategoriaResponse(c)
	return &resp, nil
}

func (s *CategoriaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categorias.ObtenerPorID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.categorias.Desactivar(ctx, id)
}

func (s *CategoriaService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categorias.ObtenerPorID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.categorias.Reactivar(ctx, id)
}

// ─── Subcategorias ───────────────────────────────────────────────────────────

// CrearSubcategoria validates the parent category before inserting.
func (s *CategoriaService) CrearSubcategoria(ctx context.Context, req dto.CrearSubcategoriaRequest) (*dto.SubcategoriaResponse, error) {
	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.categorias.ObtenerPorID(ctx, categoriaID); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sub := &model.Subcategoria{Nombre: req.Nombre, CategoriaID: categoriaID, Activo: true}
	if err := s.categorias.CrearSubcategoria(ctx, sub); err != nil {
		return nil, err
	}
	resp := toSubcategoriaResponse(sub)
	return &resp, nil
}

func (s *CategoriaService) ListarSubcategorias(ctx context.Context, categoriaID *uuid.UUID) ([]dto.SubcategoriaResponse, error) {
	list, err := s.categorias.ListarSubcategorias(ctx, categoriaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubcategoriaResponse, 0, len(list))
	for i := range list {
		out = append(out, toSubcategoriaResponse(&list[i]))
	}
	return out, nil
}

func (s *CategoriaService) ActualizarSubcategoria(ctx context.Context, id uuid.UUID, nombre string) (*dto.SubcategoriaResponse, error) {
	sub, err := s.categorias.ObtenerSubcategoria(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sub.Nombre = nombre
	if err := s.categorias.ActualizarSubcategoria(ctx, sub); err != nil {
		return nil, err
	}
	resp := toSubcategoriaResponse(sub)
	return &resp, nil
}

func (s *CategoriaService) EliminarSubcategoria(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categorias.ObtenerSubcategoria(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.categorias.DesactivarSubcategoria(ctx, id)
}

func toCategoriaResponse(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{ID: c.ID.String(), Nombre: c.Nombre, Activo: c.Activo}
}

func toSubcategoriaResponse(s *model.Subcategoria) dto.SubcategoriaResponse {
	return dto.SubcategoriaResponse{
		ID:          s.ID.String(),
		Nombre:      s.Nombre,
		CategoriaID: s.CategoriaID.String(),
		Activo:      s.Activo,
	}
}

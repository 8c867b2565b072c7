package service

import (
	"context"
	"errors"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UsuarioService struct {
	usuarios repository.UsuarioRepository
}

func NewUsuarioService(usuarios repository.UsuarioRepository) *UsuarioService {
	return &UsuarioService{usuarios: usuarios}
}

func (s *UsuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &model.Usuario{
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAdmin:      req.IsAdmin,
		Activo:       true,
	}
	if err := s.usuarios.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailEnUso
		}
		return nil, err
	}
	resp := ToUsuarioResponse(u)
	return &resp, nil
}

func (s *UsuarioService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	var (
		users []model.Usuario
		err   error
	)
	if incluirInactivos {
		users, err = s.usuarios.ListAll(ctx)
	} else {
		users, err = s.usuarios.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUsuarioResponse(&users[i]))
	}
	return out, nil
}

func (s *UsuarioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := ToUsuarioResponse(u)
	return &resp, nil
}

func (s *UsuarioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Nombre != "" {
		u.Nombre = req.Nombre
	}
	if req.Apellido != "" {
		u.Apellido = req.Apellido
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}

	if err := s.usuarios.Update(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailEnUso
		}
		return nil, err
	}
	resp := ToUsuarioResponse(u)
	return &resp, nil
}

func (s *UsuarioService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.usuarios.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.usuarios.SoftDelete(ctx, id)
}

func (s *UsuarioService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.usuarios.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.usuarios.Reactivar(ctx, id)
}

// ToUsuarioResponse builds the API projection for a user.
func ToUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	var eliminado *string
	if u.FechaEliminacion != nil {
		s := u.FechaEliminacion.Format(time.RFC3339)
		eliminado = &s
	}
	return dto.UsuarioResponse{
		ID:               u.ID.String(),
		Nombre:           u.Nombre,
		Apellido:         u.Apellido,
		NombreCompleto:   u.NombreCompleto(),
		Email:            u.Email,
		IsAdmin:          u.IsAdmin,
		Activo:           u.Activo,
		FechaEliminacion: eliminado,
	}
}

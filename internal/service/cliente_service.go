package service

import (
	"context"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/google/uuid"
)

type ClienteService struct {
	clientes repository.ClienteRepository
}

func NewClienteService(clientes repository.ClienteRepository) *ClienteService {
	return &ClienteService{clientes: clientes}
}

func (s *ClienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Telefono: req.Telefono,
		Activo:   true,
	}
	if req.FechaNacimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, err
		}
		c.FechaNacimiento = &fecha
	}

	if err := s.clientes.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := ToClienteResponse(c)
	return &resp, nil
}

func (s *ClienteService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ClienteResponse, error) {
	var (
		clientes []model.Cliente
		err      error
	)
	if incluirInactivos {
		clientes, err = s.clientes.ListAll(ctx)
	} else {
		clientes, err = s.clientes.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, ToClienteResponse(&clientes[i]))
	}
	return out, nil
}

func (s *ClienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := ToClienteResponse(c)
	return &resp, nil
}

func (s *ClienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Nombre != "" {
		c.Nombre = req.Nombre
	}
	if req.Apellido != "" {
		c.Apellido = req.Apellido
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.FechaNacimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, err
		}
		c.FechaNacimiento = &fecha
	}

	if err := s.clientes.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := ToClienteResponse(c)
	return &resp, nil
}

func (s *ClienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientes.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.clientes.SoftDelete(ctx, id)
}

func (s *ClienteService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientes.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.clientes.Reactivar(ctx, id)
}

// CumplesDelMes lists active clients with a birthday in the current month.
func (s *ClienteService) CumplesDelMes(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.clientes.ListCumplesDelMes(ctx, time.Now().Month())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, ToClienteResponse(&clientes[i]))
	}
	return out, nil
}

// MarcarSaludo stamps ultimo_saludo with the current time.
func (s *ClienteService) MarcarSaludo(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ahora := time.Now()
	if err := s.clientes.MarcarSaludo(ctx, id, ahora); err != nil {
		return nil, err
	}
	c.UltimoSaludo = &ahora
	resp := ToClienteResponse(c)
	return &resp, nil
}

func ToClienteResponse(c *model.Cliente) dto.ClienteResponse {
	var nacimiento, saludo *string
	if c.FechaNacimiento != nil {
		s := c.FechaNacimiento.Format("2006-01-02")
		nacimiento = &s
	}
	if c.UltimoSaludo != nil {
		s := c.UltimoSaludo.Format(time.RFC3339)
		saludo = &s
	}
	return dto.ClienteResponse{
		ID:              c.ID.String(),
		Nombre:          c.Nombre,
		Apellido:        c.Apellido,
		Telefono:        c.Telefono,
		FechaNacimiento: nacimiento,
		UltimoSaludo:    saludo,
		Activo:          c.Activo,
	}
}

package repository

import (
	"context"
	"time"

	"github.com/dmbruno/Ananda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context) ([]model.Cliente, error)
	ListAll(ctx context.Context) ([]model.Cliente, error)
	// ListCumplesDelMes returns active clients whose birthday falls in month.
	ListCumplesDelMes(ctx context.Context, month time.Month) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	MarcarSaludo(ctx context.Context, id uuid.UUID, cuando time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).Where("activo = true").Order("apellido asc").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) ListAll(ctx context.Context) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).Order("apellido asc").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) ListCumplesDelMes(ctx context.Context, month time.Month) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).
		Where("activo = true AND fecha_nacimiento IS NOT NULL AND EXTRACT(MONTH FROM fecha_nacimiento) = ?", int(month)).
		Order("EXTRACT(DAY FROM fecha_nacimiento) asc").
		Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) MarcarSaludo(ctx context.Context, id uuid.UUID, cuando time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).
		Update("ultimo_saludo", cuando).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *clienteRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", true).Error
}

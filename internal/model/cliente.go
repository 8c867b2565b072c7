package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer record. UltimoSaludo keeps the timestamp of the last
// birthday greeting so the front-end can avoid greeting twice.
type Cliente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string    `gorm:"not null"`
	Apellido        string    `gorm:"not null"`
	Telefono        *string
	FechaNacimiento *time.Time `gorm:"type:date"`
	UltimoSaludo    *time.Time
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Ventas []Venta `gorm:"foreignKey:ClienteID"`
}

func (Cliente) TableName() string { return "clientes" }

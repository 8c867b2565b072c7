package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system operators. IsAdmin gates the back-office-only
// operations (ajuste masivo de precios, control de caja, ABM de usuarios).
type Usuario struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre            string    `gorm:"not null"`
	Apellido          string    `gorm:"not null"`
	Email             string    `gorm:"uniqueIndex;not null"`
	PasswordHash      string    `gorm:"not null"`
	IsAdmin           bool      `gorm:"not null;default:false"`
	Activo            bool      `gorm:"not null;default:true"`
	FechaEliminacion  *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Ventas []Venta `gorm:"foreignKey:UsuarioID"`
}

// TableName overrides GORM's default pluralization for Spanish names.
func (Usuario) TableName() string { return "usuarios" }

// NombreCompleto is used in responses and email greetings.
func (u *Usuario) NombreCompleto() string { return u.Nombre + " " + u.Apellido }

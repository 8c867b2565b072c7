package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria classifies products. Soft-deleted categories stay referenced by
// historical ventas; they are only excluded from active listings.
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Subcategorias []Subcategoria `gorm:"foreignKey:CategoriaID"`
	Productos     []Producto     `gorm:"foreignKey:CategoriaID"`
}

func (Categoria) TableName() string { return "categorias" }

// Subcategoria belongs to exactly one Categoria.
type Subcategoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"not null"`
	CategoriaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (Subcategoria) TableName() string { return "subcategorias" }

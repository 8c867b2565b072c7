package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item (clothing-oriented: talle/color/temporada).
type Producto struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string    `gorm:"index;not null"`
	Talle          *string   `gorm:"type:varchar(10)"`
	Codigo         string    `gorm:"uniqueIndex;not null"`
	Color          *string   `gorm:"type:varchar(30)"`
	Marca          *string   `gorm:"type:varchar(30)"`
	Costo          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ImagenURL      *string
	StockActual    int     `gorm:"not null;default:0"`
	StockMinimo    int     `gorm:"not null;default:5"`
	Temporada      *string `gorm:"type:varchar(20)"`
	FechaIngreso   *time.Time `gorm:"type:date"`
	CategoriaID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	SubcategoriaID *uuid.UUID `gorm:"type:uuid;index"`
	Activo         bool       `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Categoria    *Categoria    `gorm:"foreignKey:CategoriaID"`
	Subcategoria *Subcategoria `gorm:"foreignKey:SubcategoriaID"`
	Detalles     []DetalleVenta `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "productos" }

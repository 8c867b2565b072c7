package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a sale. Total is computed once at creation (sum of detalle
// subtotals reduced by Descuento) and never recomputed afterwards.
type Venta struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CajaID     *uuid.UUID `gorm:"type:uuid;index"`
	FechaVenta time.Time  `gorm:"not null;index"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(30);not null"`
	// Descuento is a percentage (0–100) applied over the gross total.
	Descuento decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
	Caja     *Caja          `gorm:"foreignKey:CajaID"`
	Detalles []DetalleVenta `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one sale line. PrecioUnitario is a snapshot of the product
// price at sale time, independent of later price changes; Subtotal is fixed
// at creation (cantidad × precio_unitario).
type DetalleVenta struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Cantidad       int       `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalle_ventas" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caja states. Transitions are strictly forward:
// abierta → cerrada → controlada.
const (
	CajaAbierta    = "abierta"
	CajaCerrada    = "cerrada"
	CajaControlada = "controlada"
)

// Caja represents one cash-register session: opening float, the sales
// attributed to it, and the closing reconciliation.
//
// MontoFinal accrues while the session is open (initialized from
// MontoInicial by the first sale). MontoSistema is fixed at close:
// monto_inicial + Σ(ventas.total). Diferencia = monto_declarado −
// monto_sistema when the operator declares a count, 0 otherwise.
type Caja struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FechaApertura  time.Time `gorm:"not null"`
	FechaCierre    *time.Time
	FechaControl   *time.Time
	MontoInicial   decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MontoFinal     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoSistema   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoDeclarado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia     *decimal.Decimal `gorm:"type:decimal(12,2)"`

	UsuarioAperturaID uuid.UUID  `gorm:"type:uuid;not null"`
	UsuarioCierreID   *uuid.UUID `gorm:"type:uuid"`
	UsuarioControlID  *uuid.UUID `gorm:"type:uuid"`

	Estado        string `gorm:"type:varchar(20);not null;default:'abierta'"`
	NotasApertura *string
	NotasCierre   *string

	UsuarioApertura *Usuario `gorm:"foreignKey:UsuarioAperturaID"`
	UsuarioCierre   *Usuario `gorm:"foreignKey:UsuarioCierreID"`
	UsuarioControl  *Usuario `gorm:"foreignKey:UsuarioControlID"`
	Ventas          []Venta  `gorm:"foreignKey:CajaID"`
}

func (Caja) TableName() string { return "cajas" }

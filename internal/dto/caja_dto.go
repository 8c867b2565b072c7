package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
	Notas        *string         `json:"notas"`
}

type CerrarCajaRequest struct {
	// MontoDeclarado is the operator's blind cash count; nil means no
	// declaration (diferencia = 0).
	MontoDeclarado *decimal.Decimal `json:"monto_declarado"`
	Notas          *string          `json:"notas"`
}

type CajaFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaResponse struct {
	ID             string           `json:"id"`
	FechaApertura  string           `json:"fecha_apertura"`
	FechaCierre    *string          `json:"fecha_cierre"`
	FechaControl   *string          `json:"fecha_control"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	MontoFinal     *decimal.Decimal `json:"monto_final"`
	MontoSistema   *decimal.Decimal `json:"monto_sistema"`
	MontoDeclarado *decimal.Decimal `json:"monto_declarado"`
	Diferencia     *decimal.Decimal `json:"diferencia"`

	UsuarioApertura *UsuarioResponse `json:"usuario_apertura"`
	UsuarioCierre   *UsuarioResponse `json:"usuario_cierre"`
	UsuarioControl  *UsuarioResponse `json:"usuario_control"`

	Estado        string  `json:"estado"`
	NotasApertura *string `json:"notas_apertura"`
	NotasCierre   *string `json:"notas_cierre"`

	VentasTotal    decimal.Decimal `json:"ventas_total"`
	VentasCantidad int             `json:"ventas_cantidad"`
	Ventas         []VentaResponse `json:"ventas,omitempty"`
}

// CajaActualResponse mirrors the original /api/caja/actual contract: estado
// "cerrada" with a nil caja when nothing is open.
type CajaActualResponse struct {
	Caja   *CajaResponse `json:"caja"`
	Estado string        `json:"estado"`
}

type CajaListResponse struct {
	Data  []CajaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

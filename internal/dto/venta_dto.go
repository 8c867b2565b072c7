package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /api/ventas.
type VentaFilter struct {
	Desde     string `form:"desde"      validate:"omitempty,datetime=2006-01-02"`
	Hasta     string `form:"hasta"      validate:"omitempty,datetime=2006-01-02"`
	ClienteID string `form:"cliente_id" validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleVentaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
}

type CrearVentaRequest struct {
	ClienteID  string                `json:"cliente_id"  validate:"required,uuid"`
	MetodoPago string                `json:"metodo_pago" validate:"required,oneof=efectivo debito credito transferencia"`
	Descuento  decimal.Decimal       `json:"descuento"   validate:"min=0,max=100"`
	Detalles   []DetalleVentaRequest `json:"detalles"    validate:"required,min=1,dive"`
}

type ActualizarVentaRequest struct {
	MetodoPago string           `json:"metodo_pago" validate:"omitempty,oneof=efectivo debito credito transferencia"`
	Descuento  *decimal.Decimal `json:"descuento"   validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID            string                 `json:"id"`
	ClienteID     string                 `json:"cliente_id"`
	ClienteNombre string                 `json:"cliente_nombre"`
	UsuarioID     string                 `json:"usuario_id"`
	CajaID        *string                `json:"caja_id"`
	FechaVenta    string                 `json:"fecha_venta"`
	Total         decimal.Decimal        `json:"total"`
	MetodoPago    string                 `json:"metodo_pago"`
	Descuento     decimal.Decimal        `json:"descuento"`
	Detalles      []DetalleVentaResponse `json:"detalles,omitempty"`
}

// StockInsuficiente enumerates one shortage found during sale validation.
// The whole sale is rejected before any write when the list is non-empty.
type StockInsuficiente struct {
	ProductoID string `json:"producto_id"`
	Producto   string `json:"producto"`
	Disponible int    `json:"disponible"`
	Solicitado int    `json:"solicitado"`
}

type EstadisticaDia struct {
	Fecha string          `json:"fecha"`
	Dia   int             `json:"dia"`
	Total decimal.Decimal `json:"total"`
}

type EstadisticasResponse struct {
	Datos        []EstadisticaDia `json:"datos"`
	TotalGeneral decimal.Decimal  `json:"total_general"`
	Periodo      string           `json:"periodo"`
}

// VentaInconsistente surfaces a historical sale whose product or category was
// soft-deleted after the fact. Reported, never auto-corrected.
type VentaInconsistente struct {
	VentaID        string `json:"venta_id"`
	ProductoID     string `json:"producto_id"`
	Producto       string `json:"producto"`
	Motivo         string `json:"motivo"` // "producto_inactivo" | "categoria_inactiva"
	FechaVenta     string `json:"fecha_venta"`
}

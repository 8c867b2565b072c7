package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductoFilter is bound from the query string of GET /api/productos.
type ProductoFilter struct {
	// Activo: "" (default, solo activos) | "false" (inactivos) | "all"
	Activo         string `form:"activo"`
	CategoriaID    string `form:"categoria_id"    validate:"omitempty,uuid"`
	SubcategoriaID string `form:"subcategoria_id" validate:"omitempty,uuid"`
	Q              string `form:"q"` // matches nombre or codigo
	Page           int    `form:"page,default=1"   validate:"min=1"`
	Limit          int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre         string          `json:"nombre"       validate:"required"`
	Talle          *string         `json:"talle"`
	Codigo         string          `json:"codigo"       validate:"required"`
	Color          *string         `json:"color"`
	Marca          *string         `json:"marca"`
	Costo          decimal.Decimal `json:"costo"        validate:"min=0"`
	PrecioVenta    decimal.Decimal `json:"precio_venta" validate:"min=0"`
	StockActual    int             `json:"stock_actual" validate:"min=0"`
	StockMinimo    int             `json:"stock_minimo" validate:"min=0"`
	Temporada      *string         `json:"temporada"`
	FechaIngreso   *string         `json:"fecha_ingreso"   validate:"omitempty,datetime=2006-01-02"`
	CategoriaID    string          `json:"categoria_id"    validate:"required,uuid"`
	SubcategoriaID *string         `json:"subcategoria_id" validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre         string           `json:"nombre"`
	Talle          *string          `json:"talle"`
	Color          *string          `json:"color"`
	Marca          *string          `json:"marca"`
	Costo          *decimal.Decimal `json:"costo"`
	PrecioVenta    *decimal.Decimal `json:"precio_venta"`
	StockActual    *int             `json:"stock_actual" validate:"omitempty,min=0"`
	StockMinimo    *int             `json:"stock_minimo" validate:"omitempty,min=0"`
	Temporada      *string          `json:"temporada"`
	FechaIngreso   *string          `json:"fecha_ingreso"   validate:"omitempty,datetime=2006-01-02"`
	CategoriaID    *string          `json:"categoria_id"    validate:"omitempty,uuid"`
	SubcategoriaID *string          `json:"subcategoria_id" validate:"omitempty,uuid"`
}

type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// AjusteMasivoRequest drives POST /api/productos/ajuste-masivo-precios.
type AjusteMasivoRequest struct {
	TipoAjuste     string          `json:"tipo_ajuste"  validate:"required,oneof=monto porcentaje"`
	ValorAjuste    decimal.Decimal `json:"valor_ajuste" validate:"required,gt=0"`
	Alcance        string          `json:"alcance"      validate:"required,oneof=todos categoria subcategoria productos_especificos"`
	CategoriaID    *string         `json:"categoria_id"    validate:"omitempty,uuid"`
	SubcategoriaID *string         `json:"subcategoria_id" validate:"omitempty,uuid"`
	ProductosIDs   []string        `json:"productos_ids"   validate:"omitempty,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Talle          *string         `json:"talle"`
	Codigo         string          `json:"codigo"`
	Color          *string         `json:"color"`
	Marca          *string         `json:"marca"`
	Costo          decimal.Decimal `json:"costo"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"`
	ImagenURL      *string         `json:"imagen_url"`
	StockActual    int             `json:"stock_actual"`
	StockMinimo    int             `json:"stock_minimo"`
	Temporada      *string         `json:"temporada"`
	FechaIngreso   *string         `json:"fecha_ingreso"`
	CategoriaID    string          `json:"categoria_id"`
	SubcategoriaID *string         `json:"subcategoria_id"`
	Activo         bool            `json:"activo"`
}

type AjusteMasivoResponse struct {
	Mensaje               string `json:"mensaje"`
	ProductosActualizados int    `json:"productos_actualizados"`
}

// PrecioResponse is the public price-check projection (cached in Redis).
type PrecioResponse struct {
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
}

type HistorialPrecioResponse struct {
	ID            string          `json:"id"`
	PrecioAntes   decimal.Decimal `json:"precio_antes"`
	PrecioDespues decimal.Decimal `json:"precio_despues"`
	TipoAjuste    string          `json:"tipo_ajuste"`
	ValorAjuste   decimal.Decimal `json:"valor_ajuste"`
	Fecha         string          `json:"fecha"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo,omitempty"`
	ReferenciaID  *string `json:"referencia_id,omitempty"`
	Fecha         string  `json:"fecha"`
}

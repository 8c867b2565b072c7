package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/infra"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	precioCacheKey = "precio:%s"
	precioCacheTTL = 60 * time.Second
)

// ErrStockInsuficiente signals a manual adjustment that would leave the
// stock negative.
var ErrStockInsuficiente = errors.New("stock insuficiente")

type ProductoService struct {
	productos   repository.ProductoRepository
	categorias  repository.CategoriaRepository
	historial   repository.HistorialPrecioRepository
	movimientos repository.MovimientoStockRepository
	rdb         *redis.Client
	uploadDir   string
}

func NewProductoService(
	productos repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	historial repository.HistorialPrecioRepository,
	movimientos repository.MovimientoStockRepository,
	rdb *redis.Client,
	uploadDir string,
) *ProductoService {
	return &ProductoService{
		productos:   productos,
		categorias:  categorias,
		historial:   historial,
		movimientos: movimientos,
		rdb:         rdb,
		uploadDir:   uploadDir,
	}
}

func (s *ProductoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.categorias.ObtenerPorID(ctx, categoriaID); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p := &model.Producto{
		Nombre:      req.Nombre,
		Talle:       req.Talle,
		Codigo:      req.Codigo,
		Color:       req.Color,
		Marca:       req.Marca,
		Costo:       req.Costo,
		PrecioVenta: req.PrecioVenta,
		StockActual: req.StockActual,
		StockMinimo: req.StockMinimo,
		Temporada:   req.Temporada,
		CategoriaID: categoriaID,
		Activo:      true,
	}
	if req.FechaIngreso != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaIngreso)
		if err != nil {
			return nil, err
		}
		p.FechaIngreso = &fecha
	}
	if req.SubcategoriaID != nil {
		subID, err := uuid.Parse(*req.SubcategoriaID)
		if err != nil {
			return nil, ErrNotFound
		}
		p.SubcategoriaID = &subID
	}

	if err := s.productos.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodigoEnUso
		}
		return nil, err
	}
	resp := ToProductoResponse(p)
	return &resp, nil
}

func (s *ProductoService) Listar(ctx context.Context, f dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.productos.List(ctx, f)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, ToProductoResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *ProductoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := ToProductoResponse(p)
	return &resp, nil
}

func (s *ProductoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Talle != nil {
		p.Talle = req.Talle
	}
	if req.Color != nil {
		p.Color = req.Color
	}
	if req.Marca != nil {
		p.Marca = req.Marca
	}
	if req.Costo != nil {
		p.Costo = *req.Costo
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.StockActual != nil {
		p.StockActual = *req.StockActual
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.Temporada != nil {
		p.Temporada = req.Temporada
	}
	if req.FechaIngreso != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaIngreso)
		if err != nil {
			return nil, err
		}
		p.FechaIngreso = &fecha
	}
	if req.CategoriaID != nil {
		categoriaID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, ErrNotFound
		}
		if _, err := s.categorias.ObtenerPorID(ctx, categoriaID); err != nil {
			if isNotFound(err) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		p.CategoriaID = categoriaID
	}
	if req.SubcategoriaID != nil {
		subID, err := uuid.Parse(*req.SubcategoriaID)
		if err != nil {
			return nil, ErrNotFound
		}
		p.SubcategoriaID = &subID
	}

	if err := s.productos.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarPrecio(ctx, p.Codigo)
	resp := ToProductoResponse(p)
	return &resp, nil
}

func (s *ProductoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if err := s.productos.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return nil
}

func (s *ProductoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.productos.Reactivar(ctx, id)
}

// SubirImagen stores the uploaded product image and persists its URL.
func (s *ProductoService) SubirImagen(ctx context.Context, id uuid.UUID, file *multipart.FileHeader) (string, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}

	fileName, err := infra.SaveProductImage(file, s.uploadDir, p.ID.String())
	if err != nil {
		return "", err
	}

	imagenURL := "/uploads/" + fileName
	if err := s.productos.UpdateImagen(ctx, id, imagenURL); err != nil {
		return "", err
	}
	return imagenURL, nil
}

// StockBajo lists active products at or below their minimum stock.
func (s *ProductoService) StockBajo(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.productos.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, ToProductoResponse(&productos[i]))
	}
	return out, nil
}

// AjustarStock applies a manual stock delta and writes the ledger row.
func (s *ProductoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	var out dto.ProductoResponse

	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		p, err := s.productos.FindByIDTx(tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}

		nuevo := p.StockActual + req.Delta
		if nuevo < 0 {
			return ErrStockInsuficiente
		}

		if req.Delta < 0 {
			affected, err := s.productos.DecrementStockTx(tx, id, -req.Delta)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrStockInsuficiente
			}
		} else {
			if err := s.productos.IncrementStockTx(tx, id, req.Delta); err != nil {
				return err
			}
		}

		mov := &model.MovimientoStock{
			ProductoID:    id,
			Tipo:          "ajuste_manual",
			Cantidad:      req.Delta,
			StockAnterior: p.StockActual,
			StockNuevo:    nuevo,
			Motivo:        req.Motivo,
		}
		if err := s.movimientos.CreateTx(tx, mov); err != nil {
			return err
		}

		p.StockActual = nuevo
		out = ToProductoResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AjusteMasivoPrecios applies a flat or percentage adjustment over the
// selected scope. All updates and their history rows commit in one
// transaction; prices clamp at zero and round to two decimals.
func (s *ProductoService) AjusteMasivoPrecios(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteMasivoRequest) (*dto.AjusteMasivoResponse, error) {
	if !req.ValorAjuste.IsPositive() {
		return nil, ErrAjusteInvalido
	}

	var categoriaID, subcategoriaID *uuid.UUID
	if req.CategoriaID != nil {
		id, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, ErrNotFound
		}
		categoriaID = &id
	}
	if req.SubcategoriaID != nil {
		id, err := uuid.Parse(*req.SubcategoriaID)
		if err != nil {
			return nil, ErrNotFound
		}
		subcategoriaID = &id
	}
	ids := make([]uuid.UUID, 0, len(req.ProductosIDs))
	for _, raw := range req.ProductosIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrNotFound
		}
		ids = append(ids, id)
	}

	actualizados := 0
	codigos := make([]string, 0)

	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		productos, err := s.productos.ListForAjusteTx(tx, req.Alcance, categoriaID, subcategoriaID, ids)
		if err != nil {
			return err
		}

		historial := make([]model.HistorialPrecio, 0, len(productos))
		for i := range productos {
			p := &productos[i]
			nuevo := aplicarAjuste(p.PrecioVenta, req.TipoAjuste, req.ValorAjuste)
			if nuevo.Equal(p.PrecioVenta) {
				continue
			}

			if err := s.productos.UpdatePrecioTx(tx, p.ID, nuevo); err != nil {
				return err
			}
			historial = append(historial, model.HistorialPrecio{
				ProductoID:    p.ID,
				UsuarioID:     usuarioID,
				PrecioAntes:   p.PrecioVenta,
				PrecioDespues: nuevo,
				TipoAjuste:    req.TipoAjuste,
				ValorAjuste:   req.ValorAjuste,
			})
			codigos = append(codigos, p.Codigo)
			actualizados++
		}

		return s.historial.CreateBatchTx(tx, historial)
	})
	if err != nil {
		return nil, err
	}

	for _, codigo := range codigos {
		s.invalidarPrecio(ctx, codigo)
	}

	return &dto.AjusteMasivoResponse{
		Mensaje:               fmt.Sprintf("Se actualizaron %d productos", actualizados),
		ProductosActualizados: actualizados,
	}, nil
}

// PrecioPorCodigo is the public price check, cached in Redis for 60s.
// HistorialPrecios lists the bulk-adjustment price changes of a product,
// newest first.
func (s *ProductoService) HistorialPrecios(ctx context.Context, id uuid.UUID) ([]dto.HistorialPrecioResponse, error) {
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	filas, err := s.historial.ListByProducto(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]dto.HistorialPrecioResponse, 0, len(filas))
	for _, h := range filas {
		out = append(out, dto.HistorialPrecioResponse{
			ID:            h.ID.String(),
			PrecioAntes:   h.PrecioAntes,
			PrecioDespues: h.PrecioDespues,
			TipoAjuste:    h.TipoAjuste,
			ValorAjuste:   h.ValorAjuste,
			Fecha:         h.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// MovimientosStock lists the stock ledger of a product, newest first.
func (s *ProductoService) MovimientosStock(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error) {
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	filas, err := s.movimientos.ListByProducto(ctx, id, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MovimientoStockResponse, 0, len(filas))
	for _, m := range filas {
		resp := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			Fecha:         m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			resp.ReferenciaID = &ref
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *ProductoService) PrecioPorCodigo(ctx context.Context, codigo string) (*dto.PrecioResponse, error) {
	key := fmt.Sprintf(precioCacheKey, codigo)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PrecioResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.productos.FindByCodigo(ctx, codigo)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := &dto.PrecioResponse{Codigo: p.Codigo, Nombre: p.Nombre, PrecioVenta: p.PrecioVenta}
	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, payload, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo cachear el precio")
			}
		}
	}
	return resp, nil
}

func (s *ProductoService) invalidarPrecio(ctx context.Context, codigo string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf(precioCacheKey, codigo)).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo invalidar el cache de precio")
	}
}

// aplicarAjuste computes the new price: flat add for "monto", ×(1+v/100)
// for "porcentaje". Clamped at zero, rounded to two decimals.
func aplicarAjuste(precio decimal.Decimal, tipo string, valor decimal.Decimal) decimal.Decimal {
	var nuevo decimal.Decimal
	if tipo == "porcentaje" {
		factor := decimal.NewFromInt(1).Add(valor.Div(decimal.NewFromInt(100)))
		nuevo = precio.Mul(factor)
	} else {
		nuevo = precio.Add(valor)
	}
	if nuevo.IsNegative() {
		nuevo = decimal.Zero
	}
	return nuevo.Round(2)
}

// ToProductoResponse builds the API projection for a product.
func ToProductoResponse(p *model.Producto) dto.ProductoResponse {
	var fechaIngreso *string
	if p.FechaIngreso != nil {
		s := p.FechaIngreso.Format("2006-01-02")
		fechaIngreso = &s
	}
	var subcategoriaID *string
	if p.SubcategoriaID != nil {
		s := p.SubcategoriaID.String()
		subcategoriaID = &s
	}
	return dto.ProductoResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		Talle:          p.Talle,
		Codigo:         p.Codigo,
		Color:          p.Color,
		Marca:          p.Marca,
		Costo:          p.Costo,
		PrecioVenta:    p.PrecioVenta,
		ImagenURL:      p.ImagenURL,
		StockActual:    p.StockActual,
		StockMinimo:    p.StockMinimo,
		Temporada:      p.Temporada,
		FechaIngreso:   fechaIngreso,
		CategoriaID:    p.CategoriaID.String(),
		SubcategoriaID: subcategoriaID,
		Activo:         p.Activo,
	}
}

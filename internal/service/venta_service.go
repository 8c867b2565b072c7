package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockFaltanteError carries the full shortage list so the client can show
// every failing line at once. The sale writes nothing when this is returned.
type StockFaltanteError struct {
	Faltantes []dto.StockInsuficiente
}

func (e *StockFaltanteError) Error() string {
	return fmt.Sprintf("stock insuficiente en %d productos", len(e.Faltantes))
}

type VentaService struct {
	ventas      repository.VentaRepository
	productos   repository.ProductoRepository
	cajas       repository.CajaRepository
	movimientos repository.MovimientoStockRepository
}

func NewVentaService(
	ventas repository.VentaRepository,
	productos repository.ProductoRepository,
	cajas repository.CajaRepository,
	movimientos repository.MovimientoStockRepository,
) *VentaService {
	return &VentaService{ventas: ventas, productos: productos, cajas: cajas, movimientos: movimientos}
}

// Crear registers a sale against the open register. Validation runs over
// every line before any write; persistence, stock decrements, ledger rows
// and the register accrual share one transaction.
func (s *VentaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, ErrNotFound
	}

	var out dto.VentaResponse

	err = runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		caja, err := s.cajas.FindAbiertaTx(tx)
		if err != nil {
			if isNotFound(err) {
				return ErrVentaSinCaja
			}
			return err
		}

		// Validate every line before touching anything.
		type linea struct {
			producto *model.Producto
			cantidad int
			precio   decimal.Decimal
		}
		lineas := make([]linea, 0, len(req.Detalles))
		faltantes := make([]dto.StockInsuficiente, 0)

		for _, d := range req.Detalles {
			productoID, err := uuid.Parse(d.ProductoID)
			if err != nil {
				return ErrNotFound
			}
			p, err := s.productos.FindByIDTx(tx, productoID)
			if err != nil {
				if isNotFound(err) {
					return ErrNotFound
				}
				return err
			}
			if !p.Activo {
				return ErrNotFound
			}
			if p.StockActual < d.Cantidad {
				faltantes = append(faltantes, dto.StockInsuficiente{
					ProductoID: p.ID.String(),
					Producto:   p.Nombre,
					Disponible: p.StockActual,
					Solicitado: d.Cantidad,
				})
				continue
			}
			lineas = append(lineas, linea{producto: p, cantidad: d.Cantidad, precio: d.PrecioUnitario})
		}
		if len(faltantes) > 0 {
			return &StockFaltanteError{Faltantes: faltantes}
		}

		// Totals: gross minus the percentage discount, floored at zero.
		bruto := decimal.Zero
		detalles := make([]model.DetalleVenta, 0, len(lineas))
		for _, l := range lineas {
			subtotal := l.precio.Mul(decimal.NewFromInt(int64(l.cantidad)))
			bruto = bruto.Add(subtotal)
			detalles = append(detalles, model.DetalleVenta{
				ProductoID:     l.producto.ID,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				Subtotal:       subtotal.Round(2),
			})
		}
		factor := decimal.NewFromInt(1).Sub(req.Descuento.Div(decimal.NewFromInt(100)))
		total := bruto.Mul(factor).Round(2)
		if total.IsNegative() {
			total = decimal.Zero
		}

		venta := &model.Venta{
			ClienteID:  clienteID,
			UsuarioID:  usuarioID,
			CajaID:     &caja.ID,
			FechaVenta: time.Now(),
			Total:      total,
			MetodoPago: req.MetodoPago,
			Descuento:  req.Descuento,
			Detalles:   detalles,
		}
		if err := s.ventas.CreateTx(tx, venta); err != nil {
			return err
		}

		// Conditional decrements close the race with concurrent sales; a
		// zero RowsAffected means someone drained the stock after our read.
		for _, l := range lineas {
			affected, err := s.productos.DecrementStockTx(tx, l.producto.ID, l.cantidad)
			if err != nil {
				return err
			}
			if affected == 0 {
				return &StockFaltanteError{Faltantes: []dto.StockInsuficiente{{
					ProductoID: l.producto.ID.String(),
					Producto:   l.producto.Nombre,
					Disponible: l.producto.StockActual,
					Solicitado: l.cantidad,
				}}}
			}
			mov := &model.MovimientoStock{
				ProductoID:    l.producto.ID,
				Tipo:          "venta",
				Cantidad:      -l.cantidad,
				StockAnterior: l.producto.StockActual,
				StockNuevo:    l.producto.StockActual - l.cantidad,
				ReferenciaID:  &venta.ID,
			}
			if err := s.movimientos.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		// Running register total, initialized from the opening float.
		acumulado := caja.MontoInicial
		if caja.MontoFinal != nil {
			acumulado = *caja.MontoFinal
		}
		nuevoFinal := acumulado.Add(total)
		caja.MontoFinal = &nuevoFinal
		if err := s.cajas.UpdateTx(tx, caja); err != nil {
			return err
		}

		out = ToVentaResponse(venta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *VentaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := ToVentaResponse(v)
	return &resp, nil
}

func (s *VentaService) Listar(ctx context.Context, f dto.VentaFilter) (*dto.VentaListResponse, error) {
	ventas, total, err := s.ventas.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, ToVentaResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Actualizar only touches metodo_pago and descuento. The stored total is
// never recomputed.
func (s *VentaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error) {
	var out dto.VentaResponse

	err := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		v, err := s.ventas.FindByIDTx(tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}

		if req.MetodoPago != "" {
			v.MetodoPago = req.MetodoPago
		}
		if req.Descuento != nil {
			v.Descuento = *req.Descuento
		}
		if err := s.ventas.UpdateTx(tx, v); err != nil {
			return err
		}
		out = ToVentaResponse(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Eliminar hard-deletes the sale, restores stock with ledger rows, and
// discounts the total from the register it belonged to when that register
// is still open.
func (s *VentaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		v, err := s.ventas.FindByIDTx(tx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}

		for _, d := range v.Detalles {
			p, err := s.productos.FindByIDTx(tx, d.ProductoID)
			if err != nil {
				return err
			}
			if err := s.productos.IncrementStockTx(tx, d.ProductoID, d.Cantidad); err != nil {
				return err
			}
			mov := &model.MovimientoStock{
				ProductoID:    d.ProductoID,
				Tipo:          "restore_eliminacion",
				Cantidad:      d.Cantidad,
				StockAnterior: p.StockActual,
				StockNuevo:    p.StockActual + d.Cantidad,
				Motivo:        "eliminacion de venta",
				ReferenciaID:  &v.ID,
			}
			if err := s.movimientos.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		if v.CajaID != nil {
			caja, err := s.cajas.FindAbiertaTx(tx)
			if err == nil && caja.ID == *v.CajaID && caja.MontoFinal != nil {
				nuevoFinal := caja.MontoFinal.Sub(v.Total)
				caja.MontoFinal = &nuevoFinal
				if err := s.cajas.UpdateTx(tx, caja); err != nil {
					return err
				}
			} else if err != nil && !isNotFound(err) {
				return err
			}
		}

		return s.ventas.DeleteTx(tx, id)
	})
}

// EstadisticasUltimos10Dias aggregates per-day totals, zero-filling the
// days without sales.
func (s *VentaService) EstadisticasUltimos10Dias(ctx context.Context) (*dto.EstadisticasResponse, error) {
	// Midnight on the local calendar, not a UTC truncation: the buckets
	// must line up with the shop's business day.
	ahora := time.Now()
	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	desde := hoy.AddDate(0, 0, -9)
	hasta := hoy.AddDate(0, 0, 1)

	rows, err := s.ventas.TotalesPorDia(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	porDia := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		porDia[r.Dia.Format("2006-01-02")] = r.Total
	}

	datos := make([]dto.EstadisticaDia, 0, 10)
	totalGeneral := decimal.Zero
	for i := 0; i < 10; i++ {
		dia := desde.AddDate(0, 0, i)
		clave := dia.Format("2006-01-02")
		total, ok := porDia[clave]
		if !ok {
			total = decimal.Zero
		}
		totalGeneral = totalGeneral.Add(total)
		datos = append(datos, dto.EstadisticaDia{Fecha: clave, Dia: dia.Day(), Total: total})
	}

	return &dto.EstadisticasResponse{
		Datos:        datos,
		TotalGeneral: totalGeneral,
		Periodo: fmt.Sprintf("%s a %s",
			desde.Format("2006-01-02"), hoy.Format("2006-01-02")),
	}, nil
}

// Inconsistencias reports sales whose product or category was deactivated
// after the sale. Reported only, never auto-corrected.
func (s *VentaService) Inconsistencias(ctx context.Context) ([]dto.VentaInconsistente, error) {
	rows, err := s.ventas.ListInconsistencias(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaInconsistente, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.VentaInconsistente{
			VentaID:    r.VentaID.String(),
			ProductoID: r.ProductoID.String(),
			Producto:   r.ProductoNombre,
			Motivo:     r.Motivo,
			FechaVenta: r.FechaVenta.Format(time.RFC3339),
		})
	}
	return out, nil
}

// ToVentaResponse builds the API projection for a sale.
func ToVentaResponse(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:         v.ID.String(),
		ClienteID:  v.ClienteID.String(),
		UsuarioID:  v.UsuarioID.String(),
		FechaVenta: v.FechaVenta.Format(time.RFC3339),
		Total:      v.Total,
		MetodoPago: v.MetodoPago,
		Descuento:  v.Descuento,
	}
	if v.CajaID != nil {
		id := v.CajaID.String()
		resp.CajaID = &id
	}
	if v.Cliente != nil {
		resp.ClienteNombre = v.Cliente.Nombre + " " + v.Cliente.Apellido
	}
	for i := range v.Detalles {
		d := &v.Detalles[i]
		det := dto.DetalleVentaResponse{
			ID:             d.ID.String(),
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			det.Producto = d.Producto.Nombre
		}
		resp.Detalles = append(resp.Detalles, det)
	}
	return resp
}

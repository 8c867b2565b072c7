package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	svc       *VentaService
	ventas    *fakeVentaRepo
	productos *fakeProductoRepo
	cajas     *fakeCajaRepo
	movs      *fakeMovimientoRepo
	caja      *model.Caja
}

func newVentaFixture(t *testing.T, conCaja bool) *ventaFixture {
	t.Helper()
	f := &ventaFixture{
		ventas:    newFakeVentaRepo(),
		productos: newFakeProductoRepo(),
		cajas:     newFakeCajaRepo(),
		movs:      &fakeMovimientoRepo{},
	}
	f.svc = NewVentaService(f.ventas, f.productos, f.cajas, f.movs)

	if conCaja {
		f.caja = &model.Caja{
			ID:           uuid.New(),
			MontoInicial: decimal.NewFromInt(1000),
			Estado:       model.CajaAbierta,
		}
		f.cajas.cajas[f.caja.ID] = f.caja
	}
	return f
}

func (f *ventaFixture) addProducto(nombre string, precio float64, stock int) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		Codigo:      "COD-" + nombre,
		PrecioVenta: decimal.NewFromFloat(precio),
		StockActual: stock,
		StockMinimo: 1,
		CategoriaID: uuid.New(),
		Activo:      true,
	}
	f.productos.productos[p.ID] = p
	return p
}

func TestVentaCrear(t *testing.T) {
	f := newVentaFixture(t, true)
	remera := f.addProducto("Remera", 1500, 10)
	jean := f.addProducto("Jean", 8000, 5)

	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearVentaRequest{
		ClienteID:  uuid.NewString(),
		MetodoPago: "efectivo",
		Descuento:  decimal.NewFromInt(10),
		Detalles: []dto.DetalleVentaRequest{
			{ProductoID: remera.ID.String(), Cantidad: 2, PrecioUnitario: decimal.NewFromInt(1500)},
			{ProductoID: jean.ID.String(), Cantidad: 1, PrecioUnitario: decimal.NewFromInt(8000)},
		},
	})
	require.NoError(t, err)

	// total = (2×1500 + 8000) × 0.90 = 9900
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(9900)), "total %s", resp.Total)
	assert.Len(t, resp.Detalles, 2)

	// Stock decremented and ledger rows written.
	assert.Equal(t, 8, remera.StockActual)
	assert.Equal(t, 4, jean.StockActual)
	require.Len(t, f.movs.movimientos, 2)
	assert.Equal(t, "venta", f.movs.movimientos[0].Tipo)
	assert.Equal(t, -2, f.movs.movimientos[0].Cantidad)

	// The register accrual starts at the opening float.
	require.NotNil(t, f.caja.MontoFinal)
	assert.True(t, f.caja.MontoFinal.Equal(decimal.NewFromInt(10900)))
}

func TestVentaCrearSinCajaAbierta(t *testing.T) {
	f := newVentaFixture(t, false)
	p := f.addProducto("Remera", 1500, 10)

	_, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearVentaRequest{
		ClienteID:  uuid.NewString(),
		MetodoPago: "efectivo",
		Detalles: []dto.DetalleVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: 1, PrecioUnitario: decimal.NewFromInt(1500)},
		},
	})
	assert.ErrorIs(t, err, ErrVentaSinCaja)
	assert.Empty(t, f.ventas.ventas)
	assert.Equal(t, 10, p.StockActual)
}

func TestVentaCrearStockInsuficienteEnumeraTodo(t *testing.T) {
	f := newVentaFixture(t, true)
	remera := f.addProducto("Remera", 1500, 1)
	jean := f.addProducto("Jean", 8000, 0)
	campera := f.addProducto("Campera", 20000, 50)

	_, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearVentaRequest{
		ClienteID:  uuid.NewString(),
		MetodoPago: "debito",
		Detalles: []dto.DetalleVentaRequest{
			{ProductoID: remera.ID.String(), Cantidad: 3, PrecioUnitario: decimal.NewFromInt(1500)},
			{ProductoID: jean.ID.String(), Cantidad: 1, PrecioUnitario: decimal.NewFromInt(8000)},
			{ProductoID: campera.ID.String(), Cantidad: 2, PrecioUnitario: decimal.NewFromInt(20000)},
		},
	})

	var stockErr *StockFaltanteError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Faltantes, 2)

	// Nothing was written; stock is untouched, including the valid line.
	assert.Empty(t, f.ventas.ventas)
	assert.Equal(t, 1, remera.StockActual)
	assert.Equal(t, 50, campera.StockActual)
	assert.Empty(t, f.movs.movimientos)
}

func TestVentaCrearDescuentoTotal(t *testing.T) {
	f := newVentaFixture(t, true)
	p := f.addProducto("Remera", 1000, 5)

	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearVentaRequest{
		ClienteID:  uuid.NewString(),
		MetodoPago: "efectivo",
		Descuento:  decimal.NewFromInt(100),
		Detalles: []dto.DetalleVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: 1, PrecioUnitario: decimal.NewFromInt(1000)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.IsZero())
}

func TestVentaActualizarNoRecalculaTotal(t *testing.T) {
	f := newVentaFixture(t, true)
	p := f.addProducto("Remera", 1000, 5)

	creada, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearVentaRequest{
		ClienteID:  uuid.NewString(),
		MetodoPago: "efectivo",
		Detalles: []dto.DetalleVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: 2, PrecioUnitario: decimal.NewFromInt(1000)},
		},
	})
	require.NoError(t, err)

	id := uuid.MustParse(creada.ID)
	nuevoDescuento := decimal.NewFromInt(50)
	resp, err := f.svc.Actualizar(context.Background(), id, dto.ActualizarVentaRequest{
		MetodoPago: "credito",
		Descuento:  &nuevoDescuento,
	})
	require.NoError(t, err)

	assert.Equal(t, "credito", resp.MetodoPago)
	assert.True(t, resp.Descuento.Equal(nuevoDescuento))
	// The stored total stays as computed at creation.
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(2000)))
}

func TestVentaEliminarRestauraStock(t *testing.T) {
	f := newVentaFixture(t, true)
	p := f.addProducto("Remera", 1000, 5)

	creada, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearVentaRequest{
		ClienteID:  uuid.NewString(),
		MetodoPago: "efectivo",
		Detalles: []dto.DetalleVentaRequest{
			{ProductoID: p.ID.String(), Cantidad: 3, PrecioUnitario: decimal.NewFromInt(1000)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, p.StockActual)

	err = f.svc.Eliminar(context.Background(), uuid.MustParse(creada.ID))
	require.NoError(t, err)

	assert.Equal(t, 5, p.StockActual)
	assert.Empty(t, f.ventas.ventas)

	// Ledger keeps both movements: the sale and the restore.
	require.Len(t, f.movs.movimientos, 2)
	assert.Equal(t, "restore_eliminacion", f.movs.movimientos[1].Tipo)
	assert.Equal(t, 3, f.movs.movimientos[1].Cantidad)

	// The open register gives the total back.
	require.NotNil(t, f.caja.MontoFinal)
	assert.True(t, f.caja.MontoFinal.Equal(decimal.NewFromInt(1000)))
}

func TestEstadisticasZeroFill(t *testing.T) {
	f := newVentaFixture(t, false)

	ahora := time.Now()
	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	f.ventas.totalesDia = []repository.DiaTotal{
		{Dia: hoy, Total: decimal.NewFromInt(5000)},
		{Dia: hoy.AddDate(0, 0, -3), Total: decimal.NewFromInt(1200)},
	}

	resp, err := f.svc.EstadisticasUltimos10Dias(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Datos, 10)
	assert.True(t, resp.TotalGeneral.Equal(decimal.NewFromInt(6200)))

	conVentas := 0
	for _, d := range resp.Datos {
		if !d.Total.IsZero() {
			conVentas++
		}
	}
	assert.Equal(t, 2, conVentas)
	assert.Equal(t, hoy.Format("2006-01-02"), resp.Datos[9].Fecha)
}

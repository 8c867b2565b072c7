package service

import (
	"context"
	"testing"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCajaAbrir(t *testing.T) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo, newFakeUsuarioRepo(), t.TempDir())
	usuario := uuid.New()

	resp, err := svc.Abrir(context.Background(), usuario, dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CajaAbierta, resp.Estado)
	assert.True(t, resp.MontoInicial.Equal(decimal.NewFromInt(1000)))

	// A second opening must be rejected while the first stays open.
	_, err = svc.Abrir(context.Background(), usuario, dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, ErrCajaYaAbierta)
}

func TestCajaCerrarCalculaMontos(t *testing.T) {
	repo := newFakeCajaRepo()
	usuarios := newFakeUsuarioRepo()
	svc := NewCajaService(repo, usuarios, t.TempDir())
	cajero := seedUsuario(t, usuarios, "cajero@ananda.com", "secreta123", false)

	caja := &model.Caja{
		ID:           uuid.New(),
		MontoInicial: decimal.NewFromInt(1000),
		Estado:       model.CajaAbierta,
		Ventas: []model.Venta{
			{Total: decimal.NewFromFloat(2500.50)},
			{Total: decimal.NewFromFloat(1200.25)},
		},
	}
	repo.cajas[caja.ID] = caja

	declarado := decimal.NewFromInt(4600)
	resp, err := svc.Cerrar(context.Background(), cajero.ID, dto.CerrarCajaRequest{
		MontoDeclarado: &declarado,
	})
	require.NoError(t, err)

	// monto_sistema = 1000 + 2500.50 + 1200.25
	require.NotNil(t, resp.MontoSistema)
	assert.True(t, resp.MontoSistema.Equal(decimal.NewFromFloat(4700.75)))
	// diferencia = 4600 − 4700.75
	require.NotNil(t, resp.Diferencia)
	assert.True(t, resp.Diferencia.Equal(decimal.NewFromFloat(-100.75)))
	assert.Equal(t, model.CajaCerrada, resp.Estado)
	// The response names who closed the session.
	require.NotNil(t, resp.UsuarioCierre)
	assert.Equal(t, "cajero@ananda.com", resp.UsuarioCierre.Email)
}

func TestCajaCerrarSinDeclaracion(t *testing.T) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo, newFakeUsuarioRepo(), t.TempDir())

	caja := &model.Caja{
		ID:           uuid.New(),
		MontoInicial: decimal.NewFromInt(500),
		Estado:       model.CajaAbierta,
	}
	repo.cajas[caja.ID] = caja

	resp, err := svc.Cerrar(context.Background(), uuid.New(), dto.CerrarCajaRequest{})
	require.NoError(t, err)

	assert.Nil(t, resp.MontoDeclarado)
	require.NotNil(t, resp.Diferencia)
	assert.True(t, resp.Diferencia.IsZero())
}

func TestCajaCerrarSinCajaAbierta(t *testing.T) {
	svc := NewCajaService(newFakeCajaRepo(), newFakeUsuarioRepo(), t.TempDir())

	_, err := svc.Cerrar(context.Background(), uuid.New(), dto.CerrarCajaRequest{})
	assert.ErrorIs(t, err, ErrCajaNoAbierta)
}

func TestCajaControlar(t *testing.T) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo, newFakeUsuarioRepo(), t.TempDir())
	admin := uuid.New()

	cerrada := &model.Caja{ID: uuid.New(), MontoInicial: decimal.Zero, Estado: model.CajaCerrada}
	abierta := &model.Caja{ID: uuid.New(), MontoInicial: decimal.Zero, Estado: model.CajaAbierta}
	repo.cajas[cerrada.ID] = cerrada
	repo.cajas[abierta.ID] = abierta

	resp, err := svc.Controlar(context.Background(), admin, cerrada.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CajaControlada, resp.Estado)
	assert.NotNil(t, resp.FechaControl)

	// Open sessions cannot be audited, and audited sessions cannot again.
	_, err = svc.Controlar(context.Background(), admin, abierta.ID)
	assert.ErrorIs(t, err, ErrCajaNoCerrada)
	_, err = svc.Controlar(context.Background(), admin, cerrada.ID)
	assert.ErrorIs(t, err, ErrCajaNoCerrada)
}

func TestCajaActualSinSesion(t *testing.T) {
	svc := NewCajaService(newFakeCajaRepo(), newFakeUsuarioRepo(), t.TempDir())

	resp, err := svc.Actual(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp.Caja)
	assert.Equal(t, model.CajaCerrada, resp.Estado)
}

func TestCajaActualConVentas(t *testing.T) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo, newFakeUsuarioRepo(), t.TempDir())

	caja := &model.Caja{
		ID:           uuid.New(),
		MontoInicial: decimal.NewFromInt(100),
		Estado:       model.CajaAbierta,
		Ventas: []model.Venta{
			{ID: uuid.New(), Total: decimal.NewFromInt(300)},
			{ID: uuid.New(), Total: decimal.NewFromInt(200)},
		},
	}
	repo.cajas[caja.ID] = caja

	resp, err := svc.Actual(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resp.Caja)
	assert.Equal(t, 2, resp.Caja.VentasCantidad)
	assert.True(t, resp.Caja.VentasTotal.Equal(decimal.NewFromInt(500)))
	assert.Len(t, resp.Caja.Ventas, 2)
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmbruno/Ananda/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClienteCrearConFechaNacimiento(t *testing.T) {
	svc := NewClienteService(newFakeClienteRepo())

	fecha := "1990-06-15"
	resp, err := svc.Crear(context.Background(), dto.CrearClienteRequest{
		Nombre:          "Maria",
		Apellido:        "Gomez",
		FechaNacimiento: &fecha,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.FechaNacimiento)
	assert.Equal(t, "1990-06-15", *resp.FechaNacimiento)
	assert.True(t, resp.Activo)
}

func TestClienteSoftDeleteYReactivar(t *testing.T) {
	repo := newFakeClienteRepo()
	svc := NewClienteService(repo)

	creado, err := svc.Crear(context.Background(), dto.CrearClienteRequest{
		Nombre: "Maria", Apellido: "Gomez",
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	require.NoError(t, svc.Eliminar(context.Background(), id))

	// Still fetchable by id after the soft delete.
	obtenido, err := svc.Obtener(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, obtenido.Activo)

	// But excluded from the default listing.
	activos, err := svc.Listar(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, activos)

	require.NoError(t, svc.Reactivar(context.Background(), id))
	activos, err = svc.Listar(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)
}

func TestClienteCumplesDelMes(t *testing.T) {
	repo := newFakeClienteRepo()
	svc := NewClienteService(repo)

	esteMes := fmt.Sprintf("1985-%02d-10", time.Now().Month())
	otroMes := fmt.Sprintf("1985-%02d-10", time.Now().AddDate(0, 1, 0).Month())

	_, err := svc.Crear(context.Background(), dto.CrearClienteRequest{
		Nombre: "Cumple", Apellido: "EsteMes", FechaNacimiento: &esteMes,
	})
	require.NoError(t, err)
	_, err = svc.Crear(context.Background(), dto.CrearClienteRequest{
		Nombre: "Cumple", Apellido: "OtroMes", FechaNacimiento: &otroMes,
	})
	require.NoError(t, err)
	_, err = svc.Crear(context.Background(), dto.CrearClienteRequest{
		Nombre: "Sin", Apellido: "Fecha",
	})
	require.NoError(t, err)

	resp, err := svc.CumplesDelMes(context.Background())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "EsteMes", resp[0].Apellido)
}

func TestClienteMarcarSaludo(t *testing.T) {
	repo := newFakeClienteRepo()
	svc := NewClienteService(repo)

	creado, err := svc.Crear(context.Background(), dto.CrearClienteRequest{
		Nombre: "Maria", Apellido: "Gomez",
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	resp, err := svc.MarcarSaludo(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, resp.UltimoSaludo)

	_, err = svc.MarcarSaludo(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

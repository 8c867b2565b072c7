// Package service holds the business rules. Services depend on repository
// interfaces so unit tests can swap in in-memory fakes; multi-write
// operations run inside a single transaction via runTx.
package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrCredencialesInvalidas = errors.New("credenciales invalidas")
	ErrTokenInvalido         = errors.New("token invalido o expirado")
	ErrEmailEnUso            = errors.New("el email ya esta registrado")
	ErrCodigoEnUso           = errors.New("el codigo de producto ya existe")
	ErrCajaYaAbierta         = errors.New("ya hay una caja abierta")
	ErrCajaNoAbierta         = errors.New("no hay una caja abierta")
	ErrCajaNoCerrada         = errors.New("la caja debe estar cerrada para controlarla")
	ErrVentaSinCaja          = errors.New("no se puede registrar una venta sin una caja abierta")
	ErrAjusteInvalido        = errors.New("el valor del ajuste debe ser positivo")
)

// runTx executes fn inside a database transaction. A nil db runs fn directly
// with a nil tx, which lets unit tests exercise services against in-memory
// repository fakes.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

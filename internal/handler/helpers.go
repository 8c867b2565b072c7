// Package handler contains the HTTP layer: request binding, validation and
// the mapping from service errors to status codes.
package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/dmbruno/Ananda/internal/apierror"
	"github.com/dmbruno/Ananda/internal/middleware"
	"github.com/dmbruno/Ananda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal validates as its float value (min/max/required).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate binds the JSON body and runs struct validation. On
// failure it writes the 400 response and returns false.
func bindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Cuerpo de la solicitud invalido"))
		return false
	}
	return validateStruct(c, obj)
}

// bindQueryAndValidate does the same for query-string filters.
func bindQueryAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros de consulta invalidos"))
		return false
	}
	return validateStruct(c, obj)
}

func validateStruct(c *gin.Context, obj interface{}) bool {
	err := validate.Struct(obj)
	if err == nil {
		return true
	}

	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
	return false
}

// paramUUID parses a path parameter as UUID, writing the 400 on failure.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Identificador invalido"))
		return uuid.Nil, false
	}
	return id, true
}

func claimsFrom(c *gin.Context) *middleware.JWTClaims {
	return middleware.GetClaims(c)
}

// currentUserID reads the authenticated user id from the JWT claims.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := claimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("No autenticado"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("No autenticado"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP statuses. Unknown errors are
// logged and surface as an opaque 500.
func respondError(c *gin.Context, err error) {
	var stockErr *service.StockFaltanteError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              "Stock insuficiente",
			"stock_insuficiente": stockErr.Faltantes,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
	case errors.Is(err, service.ErrCredencialesInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.New("Credenciales invalidas"))
	case errors.Is(err, service.ErrTokenInvalido):
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
	case errors.Is(err, service.ErrEmailEnUso):
		c.JSON(http.StatusBadRequest, apierror.New("El email ya esta registrado"))
	case errors.Is(err, service.ErrCodigoEnUso):
		c.JSON(http.StatusBadRequest, apierror.New("El codigo de producto ya existe"))
	case errors.Is(err, service.ErrCajaYaAbierta):
		c.JSON(http.StatusBadRequest, apierror.New("Ya hay una caja abierta"))
	case errors.Is(err, service.ErrCajaNoAbierta):
		c.JSON(http.StatusBadRequest, apierror.New("No hay una caja abierta"))
	case errors.Is(err, service.ErrCajaNoCerrada):
		c.JSON(http.StatusBadRequest, apierror.New("La caja debe estar cerrada para controlarla"))
	case errors.Is(err, service.ErrVentaSinCaja):
		c.JSON(http.StatusBadRequest, apierror.New("No se puede registrar una venta sin una caja abierta"))
	case errors.Is(err, service.ErrAjusteInvalido):
		c.JSON(http.StatusBadRequest, apierror.New("El valor del ajuste debe ser positivo"))
	case errors.Is(err, service.ErrStockInsuficiente):
		c.JSON(http.StatusBadRequest, apierror.New("Stock insuficiente"))
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("error no manejado")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

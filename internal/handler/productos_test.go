package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmbruno/Ananda/internal/middleware"
	"github.com/dmbruno/Ananda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ajusteMasivoPost drives the endpoint as an authenticated admin. Every case
// fails request validation, so the service behind the handler is never hit.
func ajusteMasivoPost(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewProductoHandler(service.NewProductoService(nil, nil, nil, nil, nil, ""))
	r := gin.New()
	r.POST("/ajuste", func(c *gin.Context) {
		c.Set("jwt_claims", &middleware.JWTClaims{
			UserID:  uuid.NewString(),
			Email:   "admin@ananda.com",
			IsAdmin: true,
			Type:    middleware.TokenAccess,
		})
	}, h.AjusteMasivo)

	req := httptest.NewRequest(http.MethodPost, "/ajuste", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAjusteMasivoValorDebeSerPositivo(t *testing.T) {
	w := ajusteMasivoPost(t, `{"tipo_ajuste":"monto","valor_ajuste":-50,"alcance":"todos"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ajusteMasivoPost(t, `{"tipo_ajuste":"porcentaje","valor_ajuste":0,"alcance":"todos"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAjusteMasivoExigeSelectorDeAlcance(t *testing.T) {
	cases := map[string]string{
		"categoria":             `{"tipo_ajuste":"monto","valor_ajuste":10,"alcance":"categoria"}`,
		"subcategoria":          `{"tipo_ajuste":"monto","valor_ajuste":10,"alcance":"subcategoria"}`,
		"productos_especificos": `{"tipo_ajuste":"monto","valor_ajuste":10,"alcance":"productos_especificos"}`,
	}
	for alcance, body := range cases {
		w := ajusteMasivoPost(t, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "alcance %s", alcance)
		assert.Contains(t, w.Body.String(), "es requerido")
	}
}

//go:build integration

package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmbruno/Ananda/internal/config"
	"github.com/dmbruno/Ananda/internal/handler"
	"github.com/dmbruno/Ananda/internal/infra"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"
	"github.com/dmbruno/Ananda/internal/router"
	"github.com/dmbruno/Ananda/internal/service"
	"github.com/dmbruno/Ananda/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	srv *httptest.Server
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ananda_test"),
		tcpostgres.WithUsername("ananda"),
		tcpostgres.WithPassword("ananda"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	rd, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rd.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	redisURL, err := rd.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		DatabaseURL:        dsn,
		RedisURL:           redisURL,
		JWTSecret:          "secreto-e2e",
		JWTExpirationHours: 1,
		JWTRefreshHours:    168,
		CORSOrigins:        "*",
		FrontendURL:        "http://localhost:5173",
		UploadDir:          t.TempDir(),
		PDFStoragePath:     t.TempDir(),
		WorkerPoolSize:     1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed the admin operator.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.MinCost)
	require.NoError(t, err)
	usuarioRepo := repository.NewUsuarioRepository(db)
	require.NoError(t, usuarioRepo.Create(ctx, &model.Usuario{
		Nombre: "Admin", Apellido: "Test",
		Email: "admin@test.com", PasswordHash: string(hash),
		IsAdmin: true, Activo: true,
	}))

	clienteRepo := repository.NewClienteRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	engine := router.New(cfg, router.Handlers{
		Health:     handler.NewHealthHandler(db, rdb, mailer),
		Auth:       handler.NewAuthHandler(service.NewAuthService(usuarioRepo, dispatcher, cfg)),
		Usuarios:   handler.NewUsuarioHandler(service.NewUsuarioService(usuarioRepo)),
		Clientes:   handler.NewClienteHandler(service.NewClienteService(clienteRepo)),
		Categorias: handler.NewCategoriaHandler(service.NewCategoriaService(categoriaRepo)),
		Productos:  handler.NewProductoHandler(service.NewProductoService(productoRepo, categoriaRepo, historialRepo, movimientoRepo, rdb, cfg.UploadDir)),
		Ventas:     handler.NewVentaHandler(service.NewVentaService(ventaRepo, productoRepo, cajaRepo, movimientoRepo)),
		Cajas:      handler.NewCajaHandler(service.NewCajaService(cajaRepo, usuarioRepo, cfg.PDFStoragePath)),
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return &env{srv: srv}
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (e *env) login(t *testing.T) string {
	resp, body := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@test.com",
		"password": "admin12345",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestE2EFlujoCompletoDeVenta(t *testing.T) {
	e := setup(t)
	token := e.login(t)

	// Protected routes reject anonymous calls.
	resp, _ := e.do(t, http.MethodGet, "/api/productos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Catalog setup.
	resp, cat := e.do(t, http.MethodPost, "/api/categorias", token, map[string]string{"nombre": "Remeras"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, prod := e.do(t, http.MethodPost, "/api/productos", token, map[string]interface{}{
		"nombre":       "Remera lisa",
		"codigo":       "REM-001",
		"costo":        800,
		"precio_venta": 1500,
		"stock_actual": 10,
		"stock_minimo": 2,
		"categoria_id": cat["id"],
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, cli := e.do(t, http.MethodPost, "/api/clientes", token, map[string]string{
		"nombre": "Maria", "apellido": "Gomez",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// A sale without an open register is rejected.
	venta := map[string]interface{}{
		"cliente_id":  cli["id"],
		"metodo_pago": "efectivo",
		"detalles": []map[string]interface{}{
			{"producto_id": prod["id"], "cantidad": 2, "precio_unitario": 1500},
		},
	}
	resp, _ = e.do(t, http.MethodPost, "/api/ventas", token, venta)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Open the register; a second open attempt fails.
	resp, _ = e.do(t, http.MethodPost, "/api/caja/abrir", token, map[string]interface{}{"monto_inicial": 1000})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, "/api/caja/abrir", token, map[string]interface{}{"monto_inicial": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The sale now succeeds and decrements stock.
	resp, creada := e.do(t, http.MethodPost, "/api/ventas", token, venta)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "3000", fmt.Sprint(creada["total"]))

	resp, prodDespues := e.do(t, http.MethodGet, fmt.Sprintf("/api/productos/%s", prod["id"]), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 8, prodDespues["stock_actual"].(float64))

	// Shortages list every failing line and write nothing.
	resp, falla := e.do(t, http.MethodPost, "/api/ventas", token, map[string]interface{}{
		"cliente_id":  cli["id"],
		"metodo_pago": "efectivo",
		"detalles": []map[string]interface{}{
			{"producto_id": prod["id"], "cantidad": 99, "precio_unitario": 1500},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotNil(t, falla["stock_insuficiente"])

	// Close with a declared count and verify the reconciliation.
	resp, cerrada := e.do(t, http.MethodPost, "/api/caja/cerrar", token, map[string]interface{}{
		"monto_declarado": 4100,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cerrada", cerrada["estado"])
	assert.Equal(t, "4000", fmt.Sprint(cerrada["monto_sistema"]))
	assert.Equal(t, "100", fmt.Sprint(cerrada["diferencia"]))

	// Audit it (admin) and confirm the forward-only state machine.
	cajaID, _ := cerrada["id"].(string)
	resp, controlada := e.do(t, http.MethodPost, "/api/caja/"+cajaID+"/controlar", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "controlada", controlada["estado"])

	resp, _ = e.do(t, http.MethodPost, "/api/caja/"+cajaID+"/controlar", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestE2EAjusteMasivoYPrecioPublico(t *testing.T) {
	e := setup(t)
	token := e.login(t)

	resp, cat := e.do(t, http.MethodPost, "/api/categorias", token, map[string]string{"nombre": "Jeans"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/productos", token, map[string]interface{}{
		"nombre":       "Jean clasico",
		"codigo":       "JEA-001",
		"costo":        5000,
		"precio_venta": 10000,
		"stock_actual": 5,
		"categoria_id": cat["id"],
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Public price check needs no token.
	resp, precio := e.do(t, http.MethodGet, "/api/precio/JEA-001", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10000", fmt.Sprint(precio["precio_venta"]))

	resp, ajuste := e.do(t, http.MethodPost, "/api/productos/ajuste-masivo-precios", token, map[string]interface{}{
		"tipo_ajuste":  "porcentaje",
		"valor_ajuste": 10,
		"alcance":      "todos",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, ajuste["productos_actualizados"].(float64))

	// Cache was invalidated; the public check sees the new price.
	resp, precio = e.do(t, http.MethodGet, "/api/precio/JEA-001", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "11000", fmt.Sprint(precio["precio_venta"]))
}

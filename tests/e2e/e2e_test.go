//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"loteparatodos/internal/config"
	"loteparatodos/internal/infra"
	"loteparatodos/internal/model"
	"loteparatodos/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	engine *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("loteparatodos_test"),
		tcPostgres.WithUsername("loteparatodos"),
		tcPostgres.WithPassword("loteparatodos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	// Build config
	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		JWTSecret:            "test-secret-key",
		JWTExpirationHours:   8,
		JWTRefreshHours:      24,
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		NotificadorURL:       "http://localhost:9999", // no se invoca en estos tests
		WorkerPoolSize:       1,
		PDFStoragePath:       t.TempDir(),
		DiasAvisoVencimiento: 7,
	}

	// Connect DB + run migrations
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("loteparatodos2026"), bcrypt.MinCost)
	require.NoError(t, err)
	adminEmail := "admin@e2e.test"
	admin := model.Usuario{
		Username:     "admin.e2e",
		Nombre:       "Admin E2E",
		Email:        &adminEmail,
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}
	require.NoError(t, db.Create(&admin).Error)

	// Build router
	notificadorCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, notificadorCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Login as admin
	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "loteparatodos2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{
		server: srv,
		token:  loginBody.AccessToken,
		engine: r,
	}
}

// ── Fixture helpers ──────────────────────────────────────────────────────────

type idResponse struct {
	ID string `json:"id"`
}

func crearCliente(t *testing.T, env *testEnv, nombre, dni string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{"nombre": nombre, "dni": dni}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c idResponse
	decodeJSON(t, resp, &c)
	return c.ID
}

func crearEmprendimiento(t *testing.T, env *testEnv, nombre string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/emprendimientos",
		jsonBody(t, map[string]any{"nombre": nombre, "ubicacion": "Ruta 9 km 42"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var e idResponse
	decodeJSON(t, resp, &e)
	return e.ID
}

func crearLote(t *testing.T, env *testEnv, emprendimientoID, numero string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/lotes",
		jsonBody(t, map[string]any{
			"emprendimiento_id": emprendimientoID,
			"numero":            numero,
			"superficie_m2":     300.0,
			"precio_base":       1000000.0,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var l idResponse
	decodeJSON(t, resp, &l)
	return l.ID
}

func crearContrato(t *testing.T, env *testEnv, loteID, clienteID string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/contratos",
		jsonBody(t, map[string]any{
			"lote_id":         loteID,
			"cliente_id":      clienteID,
			"precio_base":     1000000.0,
			"entrega_inicial": 100000.0,
			"cantidad_cuotas": 12,
			"monto_cuota":     75000.0,
			"fecha_inicio":    "2026-01-01",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c idResponse
	decodeJSON(t, resp, &c)
	return c.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Ciclo completo: cliente → lote → contrato → plan de cuotas → pago →
// estado de cuenta con saldo consistente.
func TestE2E_CicloCompletoDeVenta(t *testing.T) {
	env := setupTestEnv(t)

	clienteID := crearCliente(t, env, "Juana Pérez", "30111222")
	empID := crearEmprendimiento(t, env, "Altos del Sur")
	loteID := crearLote(t, env, empID, "A-12")
	contratoID := crearContrato(t, env, loteID, clienteID)

	// El lote queda vendido
	loteResp := do(t, env.server, "GET", "/v1/lotes/"+loteID, nil, env.token)
	require.Equal(t, http.StatusOK, loteResp.StatusCode)
	var lote struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, loteResp, &lote)
	assert.Equal(t, "vendido", lote.Estado)

	// Plan de cuotas: 12 cuotas en 2 ciclos de 6
	planResp := do(t, env.server, "GET", "/v1/contratos/"+contratoID+"/plan-cuotas", nil, env.token)
	require.Equal(t, http.StatusOK, planResp.StatusCode)
	var plan struct {
		Ciclos []struct {
			Numero      int `json:"numero"`
			CuotasTotal int `json:"cuotas_total"`
			Cuotas      []struct {
				Numero int    `json:"numero"`
				Fecha  string `json:"fecha"`
			} `json:"cuotas"`
		} `json:"ciclos"`
		EntregaInicial *struct {
			Tipo string `json:"tipo"`
		} `json:"entrega_inicial"`
	}
	decodeJSON(t, planResp, &plan)
	require.Len(t, plan.Ciclos, 2)
	assert.Equal(t, 6, plan.Ciclos[0].CuotasTotal)
	assert.Equal(t, 6, plan.Ciclos[1].CuotasTotal)
	assert.Equal(t, "2026-02-01", plan.Ciclos[0].Cuotas[0].Fecha)
	require.NotNil(t, plan.EntregaInicial)

	// Registrar un pago de cuota
	pagoResp := do(t, env.server, "POST", "/v1/pagos",
		jsonBody(t, map[string]any{
			"contrato_id": contratoID,
			"tipo":        "cuota",
			"monto":       75000.0,
			"fecha":       "2026-02-01",
			"descripcion": "Cuota 1",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, pagoResp.StatusCode)
	var pago struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, pagoResp, &pago)
	assert.Equal(t, "confirmado", pago.Estado)

	// Estado de cuenta: entrega + 12 cuotas + 1 pago, saldo = Σdebe − Σhaber
	cuentaResp := do(t, env.server, "GET", "/v1/contratos/"+contratoID+"/estado-cuenta", nil, env.token)
	require.Equal(t, http.StatusOK, cuentaResp.StatusCode)
	var cuenta struct {
		Entradas []struct {
			Tipo  string          `json:"tipo"`
			Debe  decimal.Decimal `json:"debe"`
			Haber decimal.Decimal `json:"haber"`
			Saldo decimal.Decimal `json:"saldo"`
		} `json:"entradas"`
		SaldoFinal decimal.Decimal `json:"saldo_final"`
	}
	decodeJSON(t, cuentaResp, &cuenta)
	require.Len(t, cuenta.Entradas, 14)

	saldo := decimal.Zero
	pagos := 0
	for _, e := range cuenta.Entradas {
		saldo = saldo.Add(e.Debe).Sub(e.Haber)
		if e.Tipo == "pago" {
			pagos++
			assert.True(t, e.Haber.Equal(decimal.NewFromInt(75000)))
		}
	}
	assert.Equal(t, 1, pagos)
	assert.True(t, cuenta.SaldoFinal.Equal(saldo),
		"saldo_final %s, esperado %s", cuenta.SaldoFinal, saldo)
	assert.True(t, cuenta.Entradas[len(cuenta.Entradas)-1].Saldo.Equal(saldo))
}

// Un contrato en cuotas sin fecha de inicio se rechaza y no toca el lote.
func TestE2E_ContratoSinFechaInicioRechazado(t *testing.T) {
	env := setupTestEnv(t)

	clienteID := crearCliente(t, env, "Carlos Gómez", "28555666")
	empID := crearEmprendimiento(t, env, "Parque Norte")
	loteID := crearLote(t, env, empID, "B-03")

	resp := do(t, env.server, "POST", "/v1/contratos",
		jsonBody(t, map[string]any{
			"lote_id":         loteID,
			"cliente_id":      clienteID,
			"precio_base":     1000000.0,
			"cantidad_cuotas": 12,
			"monto_cuota":     75000.0,
			// sin fecha_inicio
		}),
		env.token,
	)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// El lote sigue disponible
	loteResp := do(t, env.server, "GET", "/v1/lotes/"+loteID, nil, env.token)
	require.Equal(t, http.StatusOK, loteResp.StatusCode)
	var lote struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, loteResp, &lote)
	assert.Equal(t, "disponible", lote.Estado)
}

// Entrega parcial de materiales: la línea se divide y el stock baja solo por
// lo efectivamente entregado.
func TestE2E_EntregaParcialDeMateriales(t *testing.T) {
	env := setupTestEnv(t)

	empID := crearEmprendimiento(t, env, "Obrador Central")

	// Material con stock inicial vía ajuste
	matResp := do(t, env.server, "POST", "/v1/materiales",
		jsonBody(t, map[string]any{"nombre": "Cemento", "unidad": "bolsa"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, matResp.StatusCode)
	var mat idResponse
	decodeJSON(t, matResp, &mat)

	ajusteResp := do(t, env.server, "POST", "/v1/materiales/"+mat.ID+"/ajuste-stock",
		jsonBody(t, map[string]any{"cantidad": 100.0, "motivo": "Carga inicial"}),
		env.token,
	)
	require.Equal(t, http.StatusOK, ajusteResp.StatusCode)
	ajusteResp.Body.Close()

	// Ticket de entrega con una línea de 10 bolsas
	ticketResp := do(t, env.server, "POST", "/v1/tickets",
		jsonBody(t, map[string]any{
			"emprendimiento_id": empID,
			"tipo":              "entrega",
			"lineas": []map[string]any{
				{"material_id": mat.ID, "cantidad": 10.0},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, ticketResp.StatusCode)
	var ticket struct {
		ID     string `json:"id"`
		Lineas []struct {
			ID string `json:"id"`
		} `json:"lineas"`
	}
	decodeJSON(t, ticketResp, &ticket)
	require.Len(t, ticket.Lineas, 1)

	// Se entregan 6 de 10
	entregaResp := do(t, env.server, "POST",
		fmt.Sprintf("/v1/tickets/%s/lineas/%s/entrega", ticket.ID, ticket.Lineas[0].ID),
		jsonBody(t, map[string]any{"cantidad": 6.0}),
		env.token,
	)
	require.Equal(t, http.StatusOK, entregaResp.StatusCode)
	var actualizado struct {
		Estado string `json:"estado"`
		Lineas []struct {
			CantidadOriginal  decimal.Decimal `json:"cantidad_original"`
			CantidadEntregada decimal.Decimal `json:"cantidad_entregada"`
			Pendiente         decimal.Decimal `json:"pendiente"`
			Estado            string          `json:"estado"`
		} `json:"lineas"`
	}
	decodeJSON(t, entregaResp, &actualizado)
	assert.Equal(t, "parcial", actualizado.Estado)
	require.Len(t, actualizado.Lineas, 2)

	var parciales, pendientes int
	for _, l := range actualizado.Lineas {
		switch l.Estado {
		case "parcial":
			parciales++
			assert.True(t, l.CantidadEntregada.Equal(decimal.NewFromInt(6)))
		case "pendiente":
			pendientes++
			assert.True(t, l.CantidadOriginal.Equal(decimal.NewFromInt(4)))
			assert.True(t, l.Pendiente.Equal(decimal.NewFromInt(4)))
		}
	}
	assert.Equal(t, 1, parciales)
	assert.Equal(t, 1, pendientes)

	// Stock: 100 − 6 = 94
	matDetalle := do(t, env.server, "GET", "/v1/materiales/"+mat.ID, nil, env.token)
	require.Equal(t, http.StatusOK, matDetalle.StatusCode)
	var material struct {
		StockActual decimal.Decimal `json:"stock_actual"`
	}
	decodeJSON(t, matDetalle, &material)
	assert.True(t, material.StockActual.Equal(decimal.NewFromInt(94)),
		"stock %s", material.StockActual)
}

// La exportación CSV del estado de cuenta es RFC 4180 parseable.
func TestE2E_ExportEstadoCuentaCSV(t *testing.T) {
	env := setupTestEnv(t)

	clienteID := crearCliente(t, env, "María López", "27123456")
	empID := crearEmprendimiento(t, env, "Las Acacias")
	loteID := crearLote(t, env, empID, "C-07")
	contratoID := crearContrato(t, env, loteID, clienteID)

	resp := do(t, env.server, "GET", "/v1/contratos/"+contratoID+"/estado-cuenta/csv", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estado_cuenta_")

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	// encabezado + entrega + 12 cuotas
	require.Len(t, records, 14)
	assert.Equal(t, "fecha", records[0][0])
	for _, row := range records {
		assert.Len(t, row, 8)
	}
}

// La disponibilidad pública no requiere token y refleja la venta.
func TestE2E_DisponibilidadPublica(t *testing.T) {
	env := setupTestEnv(t)

	clienteID := crearCliente(t, env, "Pedro Díaz", "33444555")
	empID := crearEmprendimiento(t, env, "Mirador del Lago")
	loteA := crearLote(t, env, empID, "D-01")
	crearLote(t, env, empID, "D-02")
	crearContrato(t, env, loteA, clienteID)

	resp := do(t, env.server, "GET", "/v1/disponibilidad/"+empID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var disp struct {
		Disponibles int `json:"disponibles"`
		Vendidos    int `json:"vendidos"`
		Lotes       []struct {
			Numero string `json:"numero"`
			Estado string `json:"estado"`
		} `json:"lotes"`
	}
	decodeJSON(t, resp, &disp)
	assert.Equal(t, 1, disp.Disponibles)
	assert.Equal(t, 1, disp.Vendidos)
	require.Len(t, disp.Lotes, 2)

	// Segunda lectura: servida desde la caché, mismo resultado
	resp2 := do(t, env.server, "GET", "/v1/disponibilidad/"+empID, nil, "")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	var disp2 struct {
		Disponibles int `json:"disponibles"`
		Vendidos    int `json:"vendidos"`
	}
	decodeJSON(t, resp2, &disp2)
	assert.Equal(t, disp.Disponibles, disp2.Disponibles)
	assert.Equal(t, disp.Vendidos, disp2.Vendidos)
}

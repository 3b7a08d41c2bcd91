package service

import (
	"context"
	"testing"
	"time"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubContratoRepo struct {
	contratos map[uuid.UUID]*model.Contrato
	historial []model.HistorialContrato
}

func newStubContratoRepo() *stubContratoRepo {
	return &stubContratoRepo{contratos: make(map[uuid.UUID]*model.Contrato)}
}

func (r *stubContratoRepo) Create(_ context.Context, _ *gorm.DB, c *model.Contrato) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.contratos[c.ID] = c
	return nil
}

func (r *stubContratoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Contrato, error) {
	c, ok := r.contratos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubContratoRepo) List(_ context.Context, filter dto.ContratoFilter) ([]model.Contrato, int64, error) {
	var out []model.Contrato
	for _, c := range r.contratos {
		if filter.Estado != "" && filter.Estado != "all" && c.Estado != filter.Estado {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubContratoRepo) Update(_ context.Context, _ *gorm.DB, c *model.Contrato) error {
	r.contratos[c.ID] = c
	return nil
}

func (r *stubContratoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	c, ok := r.contratos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Estado = estado
	return nil
}

func (r *stubContratoRepo) CreateHistorial(_ context.Context, _ *gorm.DB, h *model.HistorialContrato) error {
	r.historial = append(r.historial, *h)
	return nil
}

func (r *stubContratoRepo) ListHistorial(_ context.Context, contratoID uuid.UUID) ([]model.HistorialContrato, error) {
	var out []model.HistorialContrato
	for _, h := range r.historial {
		if h.ContratoID == contratoID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubContratoRepo) DB() *gorm.DB { return nil }

var _ repository.ContratoRepository = (*stubContratoRepo)(nil)

type stubLoteRepo struct {
	lotes map[uuid.UUID]*model.Lote
}

func newStubLoteRepo() *stubLoteRepo {
	return &stubLoteRepo{lotes: make(map[uuid.UUID]*model.Lote)}
}

func (r *stubLoteRepo) CreateEmprendimiento(_ context.Context, e *model.Emprendimiento) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (r *stubLoteRepo) FindEmprendimientoByID(_ context.Context, _ uuid.UUID) (*model.Emprendimiento, error) {
	return &model.Emprendimiento{}, nil
}

func (r *stubLoteRepo) ListEmprendimientos(_ context.Context) ([]model.Emprendimiento, error) {
	return nil, nil
}

func (r *stubLoteRepo) Create(_ context.Context, l *model.Lote) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lotes[l.ID] = l
	return nil
}

func (r *stubLoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	l, ok := r.lotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLoteRepo) ListByEmprendimiento(_ context.Context, _ uuid.UUID, _ string) ([]model.Lote, error) {
	return nil, nil
}

func (r *stubLoteRepo) Update(_ context.Context, l *model.Lote) error {
	r.lotes[l.ID] = l
	return nil
}

func (r *stubLoteRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	l, ok := r.lotes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Estado = estado
	return nil
}

var _ repository.LoteRepository = (*stubLoteRepo)(nil)

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) FindByDNI(_ context.Context, dni string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.DNI == dni {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(_ context.Context, _ string) ([]model.Cliente, error) { return nil, nil }

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubServicioRepo struct {
	contratados []model.ServicioContratado
}

func (r *stubServicioRepo) CreateCatalogo(_ context.Context, _ *model.ServicioCatalogo) error {
	return nil
}
func (r *stubServicioRepo) FindCatalogoByID(_ context.Context, _ uuid.UUID) (*model.ServicioCatalogo, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubServicioRepo) ListCatalogo(_ context.Context, _ bool) ([]model.ServicioCatalogo, error) {
	return nil, nil
}
func (r *stubServicioRepo) UpdateCatalogo(_ context.Context, _ *model.ServicioCatalogo) error {
	return nil
}
func (r *stubServicioRepo) SoftDeleteCatalogo(_ context.Context, _ uuid.UUID) error { return nil }
func (r *stubServicioRepo) CreateContratado(_ context.Context, sc *model.ServicioContratado) error {
	r.contratados = append(r.contratados, *sc)
	return nil
}
func (r *stubServicioRepo) ListByContrato(_ context.Context, _ uuid.UUID) ([]model.ServicioContratado, error) {
	return r.contratados, nil
}

var _ repository.ServicioRepository = (*stubServicioRepo)(nil)

type stubPrestamoRepo struct {
	prestamos []model.Prestamo
}

func (r *stubPrestamoRepo) Create(_ context.Context, p *model.Prestamo) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.prestamos = append(r.prestamos, *p)
	return nil
}
func (r *stubPrestamoRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Prestamo, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubPrestamoRepo) ListByContrato(_ context.Context, _ uuid.UUID) ([]model.Prestamo, error) {
	return r.prestamos, nil
}
func (r *stubPrestamoRepo) Update(_ context.Context, _ *model.Prestamo) error { return nil }

var _ repository.PrestamoRepository = (*stubPrestamoRepo)(nil)

type stubPagoRepo struct {
	pagos []model.Pago
}

func (r *stubPagoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos = append(r.pagos, *p)
	return nil
}
func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	for i := range r.pagos {
		if r.pagos[i].ID == id {
			return &r.pagos[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubPagoRepo) ListByContrato(_ context.Context, _ uuid.UUID) ([]model.Pago, error) {
	return r.pagos, nil
}
func (r *stubPagoRepo) DB() *gorm.DB { return nil }

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// ── Setup ─────────────────────────────────────────────────────────────────────

type contratoTestEnv struct {
	svc          ContratoService
	contratoRepo *stubContratoRepo
	loteRepo     *stubLoteRepo
	clienteRepo  *stubClienteRepo
	pagoRepo     *stubPagoRepo
	lote         *model.Lote
	cliente      *model.Cliente
}

func setupContratoTest(t *testing.T, now string) *contratoTestEnv {
	t.Helper()
	env := &contratoTestEnv{
		contratoRepo: newStubContratoRepo(),
		loteRepo:     newStubLoteRepo(),
		clienteRepo:  newStubClienteRepo(),
		pagoRepo:     &stubPagoRepo{},
	}
	env.svc = NewContratoService(
		env.contratoRepo, env.loteRepo, env.clienteRepo,
		&stubServicioRepo{}, &stubPrestamoRepo{}, env.pagoRepo, nil,
	)
	fixed := fechaT(t, now)
	env.svc.(*contratoService).now = func() time.Time { return fixed }

	env.lote = &model.Lote{
		EmprendimientoID: uuid.New(),
		Numero:           "A-12",
		Estado:           model.LoteDisponible,
		PrecioBase:       decimal.NewFromInt(1000000),
	}
	require.NoError(t, env.loteRepo.Create(context.Background(), env.lote))

	env.cliente = &model.Cliente{Nombre: "Juana Pérez", DNI: "30111222"}
	require.NoError(t, env.clienteRepo.Create(context.Background(), env.cliente))
	return env
}

func crearContratoDePrueba(t *testing.T, env *contratoTestEnv) *dto.ContratoResponse {
	t.Helper()
	inicio := "2024-01-01"
	resp, err := env.svc.Crear(context.Background(), uuid.New(), dto.CrearContratoRequest{
		LoteID:         env.lote.ID.String(),
		ClienteID:      env.cliente.ID.String(),
		PrecioBase:     decimal.NewFromInt(1000000),
		EntregaInicial: decimal.NewFromInt(100000),
		CantidadCuotas: 12,
		MontoCuota:     decimal.NewFromInt(75000),
		FechaInicio:    &inicio,
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCrearContrato_MarcaLoteVendido(t *testing.T) {
	env := setupContratoTest(t, "2024-01-15")
	resp := crearContratoDePrueba(t, env)

	assert.Equal(t, model.ContratoActivo, resp.Estado)
	assert.Equal(t, "A-12", resp.LoteNumero)
	assert.Equal(t, model.LoteVendido, env.lote.Estado)
}

func TestCrearContrato_LoteYaVendido(t *testing.T) {
	env := setupContratoTest(t, "2024-01-15")
	env.lote.Estado = model.LoteVendido

	_, err := env.svc.Crear(context.Background(), uuid.New(), dto.CrearContratoRequest{
		LoteID:     env.lote.ID.String(),
		ClienteID:  env.cliente.ID.String(),
		PrecioBase: decimal.NewFromInt(1000000),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vendido")
}

func TestCrearContrato_CuotasSinFechaRechazado(t *testing.T) {
	env := setupContratoTest(t, "2024-01-15")

	_, err := env.svc.Crear(context.Background(), uuid.New(), dto.CrearContratoRequest{
		LoteID:         env.lote.ID.String(),
		ClienteID:      env.cliente.ID.String(),
		PrecioBase:     decimal.NewFromInt(1000000),
		CantidadCuotas: 12,
		MontoCuota:     decimal.NewFromInt(75000),
	})
	require.Error(t, err)

	var invErr *InvalidContractError
	require.ErrorAs(t, err, &invErr)
	// Nada quedó persistido ni el lote cambió de estado
	assert.Empty(t, env.contratoRepo.contratos)
	assert.Equal(t, model.LoteDisponible, env.lote.Estado)
}

func TestRefinanciar_GuardaSnapshot(t *testing.T) {
	env := setupContratoTest(t, "2024-01-15")
	creado := crearContratoDePrueba(t, env)
	id := uuid.MustParse(creado.ID)

	inicio := "2024-06-01"
	resp, err := env.svc.Refinanciar(context.Background(), id, uuid.New(), dto.RefinanciarContratoRequest{
		PrecioBase:     decimal.NewFromInt(1200000),
		CantidadCuotas: 18,
		MontoCuota:     decimal.NewFromInt(61000),
		FechaInicio:    &inicio,
		Motivo:         "Actualización por inflación",
	})
	require.NoError(t, err)
	assert.Equal(t, 18, resp.CantidadCuotas)

	require.Len(t, env.contratoRepo.historial, 1)
	snapshot := env.contratoRepo.historial[0]
	assert.Equal(t, 12, snapshot.CantidadCuotas)
	assert.True(t, snapshot.PrecioBase.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, "Actualización por inflación", snapshot.Motivo)
}

func TestRefinanciar_ContratoFinalRechazado(t *testing.T) {
	env := setupContratoTest(t, "2024-01-15")
	creado := crearContratoDePrueba(t, env)
	id := uuid.MustParse(creado.ID)
	env.contratoRepo.contratos[id].Estado = model.ContratoRescindido

	_, err := env.svc.Refinanciar(context.Background(), id, uuid.New(), dto.RefinanciarContratoRequest{
		PrecioBase: decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Empty(t, env.contratoRepo.historial)
}

func TestCambiarEstado_RescindirLiberaLote(t *testing.T) {
	env := setupContratoTest(t, "2024-01-15")
	creado := crearContratoDePrueba(t, env)
	id := uuid.MustParse(creado.ID)
	require.Equal(t, model.LoteVendido, env.lote.Estado)

	err := env.svc.CambiarEstado(context.Background(), id, dto.CambiarEstadoContratoRequest{
		Estado: model.ContratoRescindido,
		Motivo: "Falta de pago",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContratoRescindido, env.contratoRepo.contratos[id].Estado)
	assert.Equal(t, model.LoteDisponible, env.lote.Estado)
}

func TestCambiarEstado_DesdeFinalRechazado(t *testing.T) {
	env := setupContratoTest(t, "2024-01-15")
	creado := crearContratoDePrueba(t, env)
	id := uuid.MustParse(creado.ID)
	env.contratoRepo.contratos[id].Estado = model.ContratoCancelado

	err := env.svc.CambiarEstado(context.Background(), id, dto.CambiarEstadoContratoRequest{
		Estado: model.ContratoActivo,
	})
	require.Error(t, err)
}

func TestPlanCuotas_DesdeServicio(t *testing.T) {
	env := setupContratoTest(t, "2024-05-15")
	creado := crearContratoDePrueba(t, env)
	id := uuid.MustParse(creado.ID)

	resp, err := env.svc.PlanCuotas(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, resp.Ciclos, 2) // 12 cuotas en ciclos de 6
	assert.Equal(t, "2024-02-01", resp.Ciclos[0].Cuotas[0].Fecha)
	require.NotNil(t, resp.EntregaInicial)
	assert.Nil(t, resp.Anticipo)
}

func TestEstadoCuenta_DesdeServicio(t *testing.T) {
	env := setupContratoTest(t, "2024-05-15")
	creado := crearContratoDePrueba(t, env)
	id := uuid.MustParse(creado.ID)

	f := fechaT(t, "2024-02-05")
	require.NoError(t, env.pagoRepo.Create(context.Background(), nil, &model.Pago{
		ContratoID: id,
		Tipo:       model.PagoCuota,
		Monto:      decimal.NewFromInt(75000),
		Fecha:      &f,
		Estado:     "confirmado",
	}))

	resp, err := env.svc.EstadoCuenta(context.Background(), id)
	require.NoError(t, err)
	// entrega inicial + 12 cuotas + 1 pago
	require.Len(t, resp.Entradas, 14)

	debe, haber := decimal.Zero, decimal.Zero
	for _, e := range resp.Entradas {
		debe = debe.Add(e.Debe)
		haber = haber.Add(e.Haber)
	}
	assert.True(t, resp.SaldoFinal.Equal(debe.Sub(haber)))
}

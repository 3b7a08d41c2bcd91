package service

import (
	"context"
	"fmt"
	"time"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ContratoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearContratoRequest) (*dto.ContratoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ContratoResponse, error)
	List(ctx context.Context, filter dto.ContratoFilter) (*dto.ContratoListResponse, error)
	Refinanciar(ctx context.Context, id, usuarioID uuid.UUID, req dto.RefinanciarContratoRequest) (*dto.ContratoResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoContratoRequest) error
	PlanCuotas(ctx context.Context, id uuid.UUID) (*dto.PlanCuotasResponse, error)
	EstadoCuenta(ctx context.Context, id uuid.UUID) (*dto.EstadoCuentaResponse, error)
	Historial(ctx context.Context, id uuid.UUID) ([]dto.HistorialContratoResponse, error)
}

type contratoService struct {
	repo         repository.ContratoRepository
	loteRepo     repository.LoteRepository
	clienteRepo  repository.ClienteRepository
	servicioRepo repository.ServicioRepository
	prestamoRepo repository.PrestamoRepository
	pagoRepo     repository.PagoRepository
	rdb          *redis.Client
	now          func() time.Time
}

func NewContratoService(
	repo repository.ContratoRepository,
	loteRepo repository.LoteRepository,
	clienteRepo repository.ClienteRepository,
	servicioRepo repository.ServicioRepository,
	prestamoRepo repository.PrestamoRepository,
	pagoRepo repository.PagoRepository,
	rdb *redis.Client,
) ContratoService {
	return &contratoService{
		repo:         repo,
		loteRepo:     loteRepo,
		clienteRepo:  clienteRepo,
		servicioRepo: servicioRepo,
		prestamoRepo: prestamoRepo,
		pagoRepo:     pagoRepo,
		rdb:          rdb,
		now:          time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Alta de contrato:
//  1. Validar que el lote exista y esté disponible
//  2. Validar cliente y términos (cuotas pactadas exigen fecha de inicio)
//  3. BEGIN TX: crear contrato, marcar lote como vendido
//  4. Invalidar cache de disponibilidad del emprendimiento

func (s *contratoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearContratoRequest) (*dto.ContratoResponse, error) {
	loteID, err := uuid.Parse(req.LoteID)
	if err != nil {
		return nil, fmt.Errorf("lote_id inválido: %w", err)
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}

	lote, err := s.loteRepo.FindByID(ctx, loteID)
	if err != nil {
		return nil, fmt.Errorf("lote %s no encontrado", req.LoteID)
	}
	if lote.Estado == model.LoteVendido {
		return nil, fmt.Errorf("el lote %s ya está vendido", lote.Numero)
	}

	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente %s no encontrado", req.ClienteID)
	}

	contrato := &model.Contrato{
		LoteID:         loteID,
		ClienteID:      clienteID,
		PrecioBase:     req.PrecioBase,
		EntregaInicial: req.EntregaInicial,
		Anticipo:       req.Anticipo,
		CantidadCuotas: req.CantidadCuotas,
		MontoCuota:     req.MontoCuota,
		Estado:         model.ContratoActivo,
		VendedorID:     &usuarioID,
	}
	if req.FechaInicio != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaInicio)
		if err != nil {
			return nil, fmt.Errorf("fecha_inicio inválida: %w", err)
		}
		contrato.FechaInicio = &fecha
	}

	// El armado del plan valida los términos antes de persistir nada.
	if _, err := ArmarPlanCuotas(contrato, s.now()); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, contrato); err != nil {
			return err
		}
		return s.loteRepo.UpdateEstadoTx(tx, loteID, model.LoteVendido)
	})
	if err != nil {
		return nil, err
	}

	s.invalidarDisponibilidad(ctx, lote.EmprendimientoID)

	contrato.Lote = lote
	contrato.Cliente = cliente
	log.Info().
		Str("contrato_id", contrato.ID.String()).
		Str("lote", lote.Numero).
		Str("cliente", cliente.Nombre).
		Msg("contrato creado")
	return contratoToResponse(contrato), nil
}

func (s *contratoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return contratoToResponse(contrato), nil
}

func (s *contratoService) List(ctx context.Context, filter dto.ContratoFilter) (*dto.ContratoListResponse, error) {
	contratos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ContratoListResponse{
		Data:  make([]dto.ContratoListItem, 0, len(contratos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range contratos {
		resp.Data = append(resp.Data, contratoToListItem(&contratos[i]))
	}
	return resp, nil
}

// Refinanciar reemplaza los términos completos del contrato dejando un
// snapshot de los anteriores en el historial. Todo o nada: snapshot y
// actualización comparten transacción.
func (s *contratoService) Refinanciar(ctx context.Context, id, usuarioID uuid.UUID, req dto.RefinanciarContratoRequest) (*dto.ContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contrato.EsFinal() {
		return nil, fmt.Errorf("el contrato está %s y no admite refinanciación", contrato.Estado)
	}

	snapshot := &model.HistorialContrato{
		ContratoID:     contrato.ID,
		PrecioBase:     contrato.PrecioBase,
		EntregaInicial: contrato.EntregaInicial,
		Anticipo:       contrato.Anticipo,
		CantidadCuotas: contrato.CantidadCuotas,
		MontoCuota:     contrato.MontoCuota,
		FechaInicio:    contrato.FechaInicio,
		Motivo:         req.Motivo,
		UsuarioID:      &usuarioID,
	}

	contrato.PrecioBase = req.PrecioBase
	contrato.EntregaInicial = req.EntregaInicial
	contrato.Anticipo = req.Anticipo
	contrato.CantidadCuotas = req.CantidadCuotas
	contrato.MontoCuota = req.MontoCuota
	contrato.FechaInicio = nil
	if req.FechaInicio != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaInicio)
		if err != nil {
			return nil, fmt.Errorf("fecha_inicio inválida: %w", err)
		}
		contrato.FechaInicio = &fecha
	}

	if _, err := ArmarPlanCuotas(contrato, s.now()); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateHistorial(ctx, tx, snapshot); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, contrato)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("contrato_id", contrato.ID.String()).
		Str("motivo", req.Motivo).
		Msg("contrato refinanciado")
	return contratoToResponse(contrato), nil
}

// CambiarEstado aplica una transición de estado. Rescindir o cancelar libera
// el lote (vuelve a disponible) en la misma transacción.
func (s *contratoService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoContratoRequest) error {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if contrato.EsFinal() {
		return fmt.Errorf("el contrato está %s y no admite cambios de estado", contrato.Estado)
	}
	if contrato.Estado == req.Estado {
		return nil
	}

	liberaLote := req.Estado == model.ContratoRescindido || req.Estado == model.ContratoCancelado

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		contrato.Estado = req.Estado
		if err := s.repo.Update(ctx, tx, contrato); err != nil {
			return err
		}
		if liberaLote {
			return s.loteRepo.UpdateEstadoTx(tx, contrato.LoteID, model.LoteDisponible)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if liberaLote && contrato.Lote != nil {
		s.invalidarDisponibilidad(ctx, contrato.Lote.EmprendimientoID)
	}

	log.Info().
		Str("contrato_id", id.String()).
		Str("estado", req.Estado).
		Str("motivo", req.Motivo).
		Msg("estado de contrato actualizado")
	return nil
}

func (s *contratoService) PlanCuotas(ctx context.Context, id uuid.UUID) (*dto.PlanCuotasResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := ArmarPlanCuotas(contrato, s.now())
	if err != nil {
		return nil, err
	}

	resp := &dto.PlanCuotasResponse{
		ContratoID: contrato.ID.String(),
		Ciclos:     make([]dto.CicloResponse, 0, len(plan.Ciclos)),
	}
	for _, ciclo := range plan.Ciclos {
		cr := dto.CicloResponse{
			Numero:        ciclo.Numero,
			Estado:        ciclo.Estado,
			CuotasPagadas: ciclo.CuotasPagadas,
			CuotasTotal:   ciclo.CuotasTotal,
			MontoPagado:   ciclo.MontoPagado,
			MontoTotal:    ciclo.MontoTotal,
			Cuotas:        make([]dto.CuotaResponse, 0, len(ciclo.Cuotas)),
		}
		for _, cuota := range ciclo.Cuotas {
			cr.Cuotas = append(cr.Cuotas, dto.CuotaResponse{
				Numero: cuota.Numero,
				Fecha:  cuota.Fecha.Format("2006-01-02"),
				Monto:  cuota.Monto,
				Estado: cuota.Estado,
			})
		}
		resp.Ciclos = append(resp.Ciclos, cr)
	}
	if plan.EntregaInicial != nil {
		e := entradaToResponse(*plan.EntregaInicial)
		resp.EntregaInicial = &e
	}
	if plan.Anticipo != nil {
		e := entradaToResponse(*plan.Anticipo)
		resp.Anticipo = &e
	}
	return resp, nil
}

func (s *contratoService) EstadoCuenta(ctx context.Context, id uuid.UUID) (*dto.EstadoCuentaResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := ArmarPlanCuotas(contrato, s.now())
	if err != nil {
		return nil, err
	}

	servicios, err := s.servicioRepo.ListByContrato(ctx, id)
	if err != nil {
		return nil, err
	}
	prestamos, err := s.prestamoRepo.ListByContrato(ctx, id)
	if err != nil {
		return nil, err
	}
	pagos, err := s.pagoRepo.ListByContrato(ctx, id)
	if err != nil {
		return nil, err
	}

	entradas := ArmarEstadoCuenta(plan, servicios, prestamos, pagos, s.now())

	resp := &dto.EstadoCuentaResponse{
		ContratoID: contrato.ID.String(),
		Entradas:   make([]dto.EntradaCuentaResponse, 0, len(entradas)),
	}
	for _, e := range entradas {
		resp.Entradas = append(resp.Entradas, entradaToResponse(e))
	}
	if n := len(entradas); n > 0 {
		resp.SaldoFinal = entradas[n-1].Saldo
	}
	return resp, nil
}

func (s *contratoService) Historial(ctx context.Context, id uuid.UUID) ([]dto.HistorialContratoResponse, error) {
	hist, err := s.repo.ListHistorial(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.HistorialContratoResponse, 0, len(hist))
	for _, h := range hist {
		resp = append(resp, dto.HistorialContratoResponse{
			PrecioBase:     h.PrecioBase,
			EntregaInicial: h.EntregaInicial,
			Anticipo:       h.Anticipo,
			CantidadCuotas: h.CantidadCuotas,
			MontoCuota:     h.MontoCuota,
			FechaInicio:    fechaPtr(h.FechaInicio),
			Motivo:         h.Motivo,
			CreatedAt:      h.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// invalidarDisponibilidad borra la entrada cacheada del emprendimiento.
// Best effort: un miss de invalidación solo alarga la vida del dato viejo
// hasta el TTL.
func (s *contratoService) invalidarDisponibilidad(ctx context.Context, emprendimientoID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	key := DisponibilidadCacheKey(emprendimientoID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo invalidar cache de disponibilidad")
	}
}

// ── mapeo a DTOs ─────────────────────────────────────────────────────────────

func contratoToResponse(c *model.Contrato) *dto.ContratoResponse {
	resp := &dto.ContratoResponse{
		ID:             c.ID.String(),
		LoteID:         c.LoteID.String(),
		ClienteID:      c.ClienteID.String(),
		PrecioBase:     c.PrecioBase,
		EntregaInicial: c.EntregaInicial,
		Anticipo:       c.Anticipo,
		CantidadCuotas: c.CantidadCuotas,
		MontoCuota:     c.MontoCuota,
		FechaInicio:    fechaPtr(c.FechaInicio),
		Estado:         c.Estado,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
	if c.Lote != nil {
		resp.LoteNumero = c.Lote.Numero
		if c.Lote.Emprendimiento != nil {
			resp.Emprendimiento = c.Lote.Emprendimiento.Nombre
		}
	}
	if c.Cliente != nil {
		resp.ClienteNombre = c.Cliente.Nombre
	}
	return resp
}

func contratoToListItem(c *model.Contrato) dto.ContratoListItem {
	item := dto.ContratoListItem{
		ID:             c.ID.String(),
		LoteID:         c.LoteID.String(),
		ClienteID:      c.ClienteID.String(),
		PrecioBase:     c.PrecioBase,
		CantidadCuotas: c.CantidadCuotas,
		MontoCuota:     c.MontoCuota,
		Estado:         c.Estado,
		FechaInicio:    fechaPtr(c.FechaInicio),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
	if c.Lote != nil {
		item.LoteNumero = c.Lote.Numero
		if c.Lote.Emprendimiento != nil {
			item.Emprendimiento = c.Lote.Emprendimiento.Nombre
		}
	}
	if c.Cliente != nil {
		item.ClienteNombre = c.Cliente.Nombre
	}
	return item
}

func entradaToResponse(e EntradaEstadoCuenta) dto.EntradaCuentaResponse {
	resp := dto.EntradaCuentaResponse{
		Tipo:     e.Tipo,
		Concepto: e.Concepto,
		Debe:     e.Debe,
		Haber:    e.Haber,
		Estado:   e.Estado,
		Alerta:   e.Alerta,
		Saldo:    e.Saldo,
	}
	if !e.Fecha.IsZero() {
		f := e.Fecha.Format("2006-01-02")
		resp.Fecha = &f
	}
	return resp
}

func fechaPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	f := t.Format("2006-01-02")
	return &f
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// disponibilidadTTL limita la vida de la vista pública cacheada. La
// invalidación explícita ocurre en cada alta o cambio de estado de contrato.
const disponibilidadTTL = 60 * time.Second

// DisponibilidadCacheKey arma la clave Redis de la vista pública de un
// emprendimiento.
func DisponibilidadCacheKey(emprendimientoID string) string {
	return "disponibilidad:" + emprendimientoID
}

type LoteService interface {
	CrearEmprendimiento(ctx context.Context, req dto.CrearEmprendimientoRequest) (*dto.EmprendimientoResponse, error)
	ListEmprendimientos(ctx context.Context) ([]dto.EmprendimientoResponse, error)
	CrearLote(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteResponse, error)
	ObtenerLote(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error)
	ListLotes(ctx context.Context, emprendimientoID uuid.UUID, estado string) ([]dto.LoteResponse, error)
	ActualizarLote(ctx context.Context, id uuid.UUID, req dto.ActualizarLoteRequest) (*dto.LoteResponse, error)
	Disponibilidad(ctx context.Context, emprendimientoID uuid.UUID) (*dto.DisponibilidadResponse, error)
}

type loteService struct {
	repo repository.LoteRepository
	rdb  *redis.Client
}

func NewLoteService(repo repository.LoteRepository, rdb *redis.Client) LoteService {
	return &loteService{repo: repo, rdb: rdb}
}

func (s *loteService) CrearEmprendimiento(ctx context.Context, req dto.CrearEmprendimientoRequest) (*dto.EmprendimientoResponse, error) {
	e := &model.Emprendimiento{
		Nombre:    req.Nombre,
		Ubicacion: req.Ubicacion,
		Activo:    true,
	}
	if err := s.repo.CreateEmprendimiento(ctx, e); err != nil {
		return nil, err
	}
	return emprendimientoToResponse(e), nil
}

func (s *loteService) ListEmprendimientos(ctx context.Context) ([]dto.EmprendimientoResponse, error) {
	emprendimientos, err := s.repo.ListEmprendimientos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EmprendimientoResponse, 0, len(emprendimientos))
	for i := range emprendimientos {
		resp = append(resp, *emprendimientoToResponse(&emprendimientos[i]))
	}
	return resp, nil
}

func (s *loteService) CrearLote(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteResponse, error) {
	emprendimientoID, err := uuid.Parse(req.EmprendimientoID)
	if err != nil {
		return nil, fmt.Errorf("emprendimiento_id inválido: %w", err)
	}
	if _, err := s.repo.FindEmprendimientoByID(ctx, emprendimientoID); err != nil {
		return nil, fmt.Errorf("emprendimiento %s no encontrado", req.EmprendimientoID)
	}

	l := &model.Lote{
		EmprendimientoID: emprendimientoID,
		Numero:           req.Numero,
		SuperficieM2:     req.SuperficieM2,
		PrecioBase:       req.PrecioBase,
		Estado:           model.LoteDisponible,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	s.invalidar(ctx, emprendimientoID)
	return loteToResponse(l), nil
}

func (s *loteService) ObtenerLote(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loteToResponse(l), nil
}

func (s *loteService) ListLotes(ctx context.Context, emprendimientoID uuid.UUID, estado string) ([]dto.LoteResponse, error) {
	lotes, err := s.repo.ListByEmprendimiento(ctx, emprendimientoID, estado)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LoteResponse, 0, len(lotes))
	for i := range lotes {
		resp = append(resp, *loteToResponse(&lotes[i]))
	}
	return resp, nil
}

func (s *loteService) ActualizarLote(ctx context.Context, id uuid.UUID, req dto.ActualizarLoteRequest) (*dto.LoteResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Numero != nil {
		l.Numero = *req.Numero
	}
	if req.SuperficieM2 != nil {
		l.SuperficieM2 = *req.SuperficieM2
	}
	if req.PrecioBase != nil {
		l.PrecioBase = *req.PrecioBase
	}
	if req.Estado != nil {
		if l.Estado == model.LoteVendido && *req.Estado != model.LoteVendido {
			return nil, fmt.Errorf("un lote vendido solo se libera rescindiendo su contrato")
		}
		l.Estado = *req.Estado
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	s.invalidar(ctx, l.EmprendimientoID)
	return loteToResponse(l), nil
}

// Disponibilidad es la vista pública (sin auth) de lotes por emprendimiento.
// Cache-aside sobre Redis: hit devuelve el JSON cacheado, miss arma la vista
// desde la base y la guarda con TTL corto.
func (s *loteService) Disponibilidad(ctx context.Context, emprendimientoID uuid.UUID) (*dto.DisponibilidadResponse, error) {
	key := DisponibilidadCacheKey(emprendimientoID.String())

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.DisponibilidadResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	e, err := s.repo.FindEmprendimientoByID(ctx, emprendimientoID)
	if err != nil {
		return nil, err
	}
	lotes, err := s.repo.ListByEmprendimiento(ctx, emprendimientoID, "all")
	if err != nil {
		return nil, err
	}

	resp := &dto.DisponibilidadResponse{
		EmprendimientoID: e.ID.String(),
		Nombre:           e.Nombre,
		Lotes:            make([]dto.LoteResponse, 0, len(lotes)),
	}
	for i := range lotes {
		switch lotes[i].Estado {
		case model.LoteDisponible:
			resp.Disponibles++
		case model.LoteReservado:
			resp.Reservados++
		case model.LoteVendido:
			resp.Vendidos++
		}
		resp.Lotes = append(resp.Lotes, *loteToResponse(&lotes[i]))
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, disponibilidadTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear disponibilidad")
			}
		}
	}
	return resp, nil
}

func (s *loteService) invalidar(ctx context.Context, emprendimientoID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, DisponibilidadCacheKey(emprendimientoID.String())).Err()
}

func emprendimientoToResponse(e *model.Emprendimiento) *dto.EmprendimientoResponse {
	return &dto.EmprendimientoResponse{
		ID:        e.ID.String(),
		Nombre:    e.Nombre,
		Ubicacion: e.Ubicacion,
		Activo:    e.Activo,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func loteToResponse(l *model.Lote) *dto.LoteResponse {
	return &dto.LoteResponse{
		ID:               l.ID.String(),
		EmprendimientoID: l.EmprendimientoID.String(),
		Numero:           l.Numero,
		SuperficieM2:     l.SuperficieM2,
		PrecioBase:       l.PrecioBase,
		Estado:           l.Estado,
		CreatedAt:        l.CreatedAt.Format(time.RFC3339),
	}
}

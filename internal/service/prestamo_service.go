package service

import (
	"context"
	"fmt"
	"time"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type PrestamoService interface {
	Crear(ctx context.Context, req dto.CrearPrestamoRequest) (*dto.PrestamoResponse, error)
	ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]dto.PrestamoResponse, error)
}

type prestamoService struct {
	repo         repository.PrestamoRepository
	contratoRepo repository.ContratoRepository
}

func NewPrestamoService(repo repository.PrestamoRepository, contratoRepo repository.ContratoRepository) PrestamoService {
	return &prestamoService{repo: repo, contratoRepo: contratoRepo}
}

// Crear registra un préstamo con su cronograma de cuotas. El desembolso, si
// existe, acredita contra la deuda en el estado de cuenta del contrato.
func (s *prestamoService) Crear(ctx context.Context, req dto.CrearPrestamoRequest) (*dto.PrestamoResponse, error) {
	contratoID, err := uuid.Parse(req.ContratoID)
	if err != nil {
		return nil, fmt.Errorf("contrato_id inválido: %w", err)
	}
	contrato, err := s.contratoRepo.FindByID(ctx, contratoID)
	if err != nil {
		return nil, fmt.Errorf("contrato %s no encontrado", req.ContratoID)
	}
	if contrato.EsFinal() {
		return nil, fmt.Errorf("el contrato está %s y no admite préstamos", contrato.Estado)
	}

	p := &model.Prestamo{
		ContratoID:      contratoID,
		Descripcion:     req.Descripcion,
		MontoDesembolso: req.MontoDesembolso,
	}
	if req.FechaDesembolso != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaDesembolso)
		if err != nil {
			return nil, fmt.Errorf("fecha_desembolso inválida: %w", err)
		}
		p.FechaDesembolso = &fecha
	}

	for _, cr := range req.Cuotas {
		fecha, err := time.Parse("2006-01-02", cr.Fecha)
		if err != nil {
			return nil, fmt.Errorf("fecha de cuota %d inválida: %w", cr.Numero, err)
		}
		if !cr.Monto.IsPositive() {
			return nil, fmt.Errorf("monto de cuota %d debe ser positivo", cr.Numero)
		}
		p.Cuotas = append(p.Cuotas, model.CuotaPrestamo{
			Numero: cr.Numero,
			Fecha:  &fecha,
			Monto:  cr.Monto,
			Estado: "pendiente",
		})
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("prestamo_id", p.ID.String()).
		Str("contrato_id", contratoID.String()).
		Int("cuotas", len(p.Cuotas)).
		Msg("préstamo registrado")
	return prestamoToResponse(p), nil
}

func (s *prestamoService) ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]dto.PrestamoResponse, error) {
	prestamos, err := s.repo.ListByContrato(ctx, contratoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PrestamoResponse, 0, len(prestamos))
	for i := range prestamos {
		resp = append(resp, *prestamoToResponse(&prestamos[i]))
	}
	return resp, nil
}

func prestamoToResponse(p *model.Prestamo) *dto.PrestamoResponse {
	resp := &dto.PrestamoResponse{
		ID:              p.ID.String(),
		ContratoID:      p.ContratoID.String(),
		Descripcion:     p.Descripcion,
		MontoDesembolso: p.MontoDesembolso,
		FechaDesembolso: fechaPtr(p.FechaDesembolso),
		Cuotas:          make([]dto.CuotaPrestamoResponse, 0, len(p.Cuotas)),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
	for _, c := range p.Cuotas {
		resp.Cuotas = append(resp.Cuotas, dto.CuotaPrestamoResponse{
			Numero: c.Numero,
			Fecha:  fechaPtr(c.Fecha),
			Monto:  c.Monto,
			Estado: c.Estado,
		})
	}
	return resp
}

package service

import (
	"context"
	"fmt"
	"time"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"
	"loteparatodos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PagoService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]dto.PagoResponse, error)
}

type pagoService struct {
	repo         repository.PagoRepository
	contratoRepo repository.ContratoRepository
	dispatcher   *worker.Dispatcher
}

func NewPagoService(
	repo repository.PagoRepository,
	contratoRepo repository.ContratoRepository,
	dispatcher *worker.Dispatcher,
) PagoService {
	return &pagoService{repo: repo, contratoRepo: contratoRepo, dispatcher: dispatcher}
}

// Registrar asienta un pago sobre un contrato y encola la emisión asíncrona
// del recibo. El pago es inmutable: una corrección se asienta como ajuste de
// signo contrario.
func (s *pagoService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	contratoID, err := uuid.Parse(req.ContratoID)
	if err != nil {
		return nil, fmt.Errorf("contrato_id inválido: %w", err)
	}

	contrato, err := s.contratoRepo.FindByID(ctx, contratoID)
	if err != nil {
		return nil, fmt.Errorf("contrato %s no encontrado", req.ContratoID)
	}
	if contrato.EsFinal() {
		return nil, fmt.Errorf("el contrato está %s y no admite pagos", contrato.Estado)
	}

	// Solo los ajustes pueden ser negativos; cero nunca es un pago válido.
	if req.Monto.IsZero() {
		return nil, fmt.Errorf("el monto no puede ser cero")
	}
	if req.Monto.IsNegative() && req.Tipo != model.PagoAjuste {
		return nil, fmt.Errorf("monto negativo solo es válido para ajustes")
	}

	pago := &model.Pago{
		ContratoID:  contratoID,
		Tipo:        req.Tipo,
		Monto:       req.Monto,
		Estado:      "confirmado",
		Descripcion: req.Descripcion,
		UsuarioID:   &usuarioID,
	}
	if req.Fecha != nil {
		fecha, err := time.Parse("2006-01-02", *req.Fecha)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida: %w", err)
		}
		pago.Fecha = &fecha
	} else {
		hoy := time.Now().Truncate(24 * time.Hour)
		pago.Fecha = &hoy
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, pago)
	})
	if err != nil {
		return nil, err
	}

	// Recibo asíncrono: un fallo de encolado no anula el pago ya persistido.
	if s.dispatcher != nil && req.Tipo != model.PagoAjuste {
		payload := worker.ReciboJobPayload{PagoID: pago.ID.String()}
		if contrato.Cliente != nil && contrato.Cliente.Email != nil {
			payload.ClienteEmail = contrato.Cliente.Email
		}
		if err := s.dispatcher.EnqueueRecibo(ctx, payload); err != nil {
			log.Warn().Err(err).Str("pago_id", pago.ID.String()).Msg("no se pudo encolar recibo")
		}
	}

	log.Info().
		Str("pago_id", pago.ID.String()).
		Str("contrato_id", contratoID.String()).
		Str("tipo", pago.Tipo).
		Str("monto", pago.Monto.String()).
		Msg("pago registrado")
	return pagoToResponse(pago), nil
}

func (s *pagoService) ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]dto.PagoResponse, error) {
	pagos, err := s.repo.ListByContrato(ctx, contratoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PagoResponse, 0, len(pagos))
	for i := range pagos {
		resp = append(resp, *pagoToResponse(&pagos[i]))
	}
	return resp, nil
}

func pagoToResponse(p *model.Pago) *dto.PagoResponse {
	return &dto.PagoResponse{
		ID:          p.ID.String(),
		ContratoID:  p.ContratoID.String(),
		Tipo:        p.Tipo,
		Monto:       p.Monto,
		Fecha:       fechaPtr(p.Fecha),
		Estado:      p.Estado,
		Descripcion: p.Descripcion,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

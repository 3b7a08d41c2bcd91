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
	"gorm.io/gorm"
)

type TicketService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearTicketRequest) (*dto.TicketResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error)
	List(ctx context.Context, filter repository.TicketFilter) (*dto.TicketListResponse, error)
	ConfirmarEntrega(ctx context.Context, ticketID, lineaID uuid.UUID, req dto.ConfirmarEntregaRequest) (*dto.TicketResponse, error)
}

type ticketService struct {
	repo         repository.TicketRepository
	materialRepo repository.MaterialRepository
}

func NewTicketService(repo repository.TicketRepository, materialRepo repository.MaterialRepository) TicketService {
	return &ticketService{repo: repo, materialRepo: materialRepo}
}

func (s *ticketService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearTicketRequest) (*dto.TicketResponse, error) {
	emprendimientoID, err := uuid.Parse(req.EmprendimientoID)
	if err != nil {
		return nil, fmt.Errorf("emprendimiento_id inválido: %w", err)
	}

	ticket := &model.TicketStock{
		EmprendimientoID: emprendimientoID,
		Tipo:             req.Tipo,
		Estado:           model.TicketPendiente,
		Observaciones:    req.Observaciones,
		UsuarioID:        &usuarioID,
	}

	for _, lr := range req.Lineas {
		materialID, err := uuid.Parse(lr.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("material_id inválido: %w", err)
		}
		material, err := s.materialRepo.FindByID(ctx, materialID)
		if err != nil {
			return nil, fmt.Errorf("material %s no encontrado", lr.MaterialID)
		}
		if !material.Activo {
			return nil, fmt.Errorf("material %s está inactivo", material.Nombre)
		}
		if !lr.Cantidad.IsPositive() {
			return nil, fmt.Errorf("cantidad inválida para material %s", material.Nombre)
		}
		ticket.Lineas = append(ticket.Lineas, model.LineaTicket{
			MaterialID:       materialID,
			CantidadOriginal: lr.Cantidad,
			Estado:           model.TicketPendiente,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, ticket)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("ticket_id", ticket.ID.String()).
		Str("tipo", ticket.Tipo).
		Int("lineas", len(ticket.Lineas)).
		Msg("ticket de stock creado")
	return s.Obtener(ctx, ticket.ID)
}

func (s *ticketService) Obtener(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ticketToResponse(ticket), nil
}

func (s *ticketService) List(ctx context.Context, filter repository.TicketFilter) (*dto.TicketListResponse, error) {
	tickets, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.TicketListResponse{
		Data:  make([]dto.TicketResponse, 0, len(tickets)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range tickets {
		resp.Data = append(resp.Data, *ticketToResponse(&tickets[i]))
	}
	return resp, nil
}

// ── ConfirmarEntrega ─────────────────────────────────────────────────────────
// Confirma una entrega sobre una línea:
//  1. AplicarEntrega hace el cómputo puro (línea actualizada + remanente)
//  2. BEGIN TX: persistir línea, crear línea hermana si hubo remanente,
//     ajustar stock del material, recalcular estado del ticket
//
// Entrega descuenta stock; recepción lo incrementa.

func (s *ticketService) ConfirmarEntrega(ctx context.Context, ticketID, lineaID uuid.UUID, req dto.ConfirmarEntregaRequest) (*dto.TicketResponse, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var linea *model.LineaTicket
	for i := range ticket.Lineas {
		if ticket.Lineas[i].ID == lineaID {
			linea = &ticket.Lineas[i]
			break
		}
	}
	if linea == nil {
		return nil, fmt.Errorf("la línea %s no pertenece al ticket %s", lineaID, ticketID)
	}
	if linea.Estado == model.TicketEntregado {
		return nil, fmt.Errorf("la línea ya fue entregada por completo")
	}

	actualizada, nueva, err := AplicarEntrega(*linea, req.Cantidad)
	if err != nil {
		return nil, err
	}
	if req.Observaciones != "" {
		actualizada.Observaciones = req.Observaciones
	}

	delta := req.Cantidad.Neg()
	if ticket.Tipo == "recepcion" {
		delta = req.Cantidad
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateLineaTx(tx, &actualizada); err != nil {
			return err
		}
		if nueva != nil {
			if err := s.repo.CreateLineaTx(tx, nueva); err != nil {
				return err
			}
		}
		if err := s.materialRepo.AjustarStockTx(tx, linea.MaterialID, delta); err != nil {
			return err
		}
		return s.repo.UpdateEstadoTx(tx, ticketID, estadoTicket(ticket, lineaID, &actualizada, nueva))
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("ticket_id", ticketID.String()).
		Str("linea_id", lineaID.String()).
		Str("cantidad", req.Cantidad.String()).
		Bool("parcial", nueva != nil).
		Msg("entrega confirmada")
	return s.Obtener(ctx, ticketID)
}

// estadoTicket recalcula el estado del ticket a partir de sus líneas con la
// línea recién actualizada (y la hermana nueva, si existe) ya aplicadas.
func estadoTicket(ticket *model.TicketStock, lineaID uuid.UUID, actualizada *model.LineaTicket, nueva *model.LineaTicket) string {
	entregadas := 0
	pendientes := 0

	cuenta := func(estado string) {
		switch estado {
		case model.TicketEntregado:
			entregadas++
		default:
			pendientes++
		}
	}

	for i := range ticket.Lineas {
		if ticket.Lineas[i].ID == lineaID {
			cuenta(actualizada.Estado)
			continue
		}
		cuenta(ticket.Lineas[i].Estado)
	}
	if nueva != nil {
		cuenta(nueva.Estado)
	}

	switch {
	case pendientes == 0:
		return model.TicketEntregado
	case entregadas > 0 || actualizada.Estado == model.TicketParcial:
		return model.TicketParcial
	default:
		return model.TicketPendiente
	}
}

func ticketToResponse(t *model.TicketStock) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:               t.ID.String(),
		EmprendimientoID: t.EmprendimientoID.String(),
		Tipo:             t.Tipo,
		Estado:           t.Estado,
		Observaciones:    t.Observaciones,
		Lineas:           make([]dto.LineaTicketResponse, 0, len(t.Lineas)),
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
	}
	for i := range t.Lineas {
		l := &t.Lineas[i]
		lr := dto.LineaTicketResponse{
			ID:                l.ID.String(),
			MaterialID:        l.MaterialID.String(),
			CantidadOriginal:  l.CantidadOriginal,
			CantidadEntregada: l.CantidadEntregada,
			Pendiente:         l.Pendiente(),
			Estado:            l.Estado,
			Observaciones:     l.Observaciones,
		}
		if l.Material != nil {
			lr.MaterialNombre = l.Material.Nombre
			lr.Unidad = l.Material.Unidad
		}
		resp.Lineas = append(resp.Lineas, lr)
	}
	return resp
}

package service

import (
	"context"
	"fmt"
	"time"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/google/uuid"
)

type ServicioService interface {
	CrearCatalogo(ctx context.Context, req dto.CrearServicioCatalogoRequest) (*dto.ServicioCatalogoResponse, error)
	ListCatalogo(ctx context.Context, incluirInactivos bool) ([]dto.ServicioCatalogoResponse, error)
	ActualizarCatalogo(ctx context.Context, id uuid.UUID, req dto.ActualizarServicioCatalogoRequest) (*dto.ServicioCatalogoResponse, error)
	DesactivarCatalogo(ctx context.Context, id uuid.UUID) error

	Contratar(ctx context.Context, contratoID uuid.UUID, req dto.ContratarServicioRequest) (*dto.ServicioContratadoResponse, error)
	ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]dto.ServicioContratadoResponse, error)
}

type servicioService struct {
	repo         repository.ServicioRepository
	contratoRepo repository.ContratoRepository
}

func NewServicioService(repo repository.ServicioRepository, contratoRepo repository.ContratoRepository) ServicioService {
	return &servicioService{repo: repo, contratoRepo: contratoRepo}
}

func (s *servicioService) CrearCatalogo(ctx context.Context, req dto.CrearServicioCatalogoRequest) (*dto.ServicioCatalogoResponse, error) {
	sc := &model.ServicioCatalogo{
		Nombre:     req.Nombre,
		PrecioBase: req.PrecioBase,
		Activo:     true,
	}
	if err := s.repo.CreateCatalogo(ctx, sc); err != nil {
		return nil, err
	}
	return catalogoToResponse(sc), nil
}

func (s *servicioService) ListCatalogo(ctx context.Context, incluirInactivos bool) ([]dto.ServicioCatalogoResponse, error) {
	servicios, err := s.repo.ListCatalogo(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ServicioCatalogoResponse, 0, len(servicios))
	for i := range servicios {
		resp = append(resp, *catalogoToResponse(&servicios[i]))
	}
	return resp, nil
}

func (s *servicioService) ActualizarCatalogo(ctx context.Context, id uuid.UUID, req dto.ActualizarServicioCatalogoRequest) (*dto.ServicioCatalogoResponse, error) {
	sc, err := s.repo.FindCatalogoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		sc.Nombre = *req.Nombre
	}
	if req.PrecioBase != nil {
		sc.PrecioBase = *req.PrecioBase
	}
	if req.Activo != nil {
		sc.Activo = *req.Activo
	}
	if err := s.repo.UpdateCatalogo(ctx, sc); err != nil {
		return nil, err
	}
	return catalogoToResponse(sc), nil
}

func (s *servicioService) DesactivarCatalogo(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDeleteCatalogo(ctx, id)
}

// Contratar vincula un servicio del catálogo a un contrato. Sin precio
// acordado rige el precio de lista vigente al momento de la consulta.
func (s *servicioService) Contratar(ctx context.Context, contratoID uuid.UUID, req dto.ContratarServicioRequest) (*dto.ServicioContratadoResponse, error) {
	contrato, err := s.contratoRepo.FindByID(ctx, contratoID)
	if err != nil {
		return nil, fmt.Errorf("contrato %s no encontrado", contratoID)
	}
	if contrato.EsFinal() {
		return nil, fmt.Errorf("el contrato está %s y no admite nuevos servicios", contrato.Estado)
	}

	servicioID, err := uuid.Parse(req.ServicioID)
	if err != nil {
		return nil, fmt.Errorf("servicio_id inválido: %w", err)
	}
	catalogo, err := s.repo.FindCatalogoByID(ctx, servicioID)
	if err != nil {
		return nil, fmt.Errorf("servicio %s no encontrado", req.ServicioID)
	}
	if !catalogo.Activo {
		return nil, fmt.Errorf("el servicio %s está inactivo", catalogo.Nombre)
	}

	sc := &model.ServicioContratado{
		ContratoID:     contratoID,
		ServicioID:     servicioID,
		PrecioAcordado: req.PrecioAcordado,
		Estado:         "pendiente",
	}
	if req.Fecha != nil {
		fecha, err := time.Parse("2006-01-02", *req.Fecha)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida: %w", err)
		}
		sc.Fecha = &fecha
	}

	if err := s.repo.CreateContratado(ctx, sc); err != nil {
		return nil, err
	}
	sc.Servicio = catalogo
	return contratadoToResponse(sc), nil
}

func (s *servicioService) ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]dto.ServicioContratadoResponse, error) {
	servicios, err := s.repo.ListByContrato(ctx, contratoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ServicioContratadoResponse, 0, len(servicios))
	for i := range servicios {
		resp = append(resp, *contratadoToResponse(&servicios[i]))
	}
	return resp, nil
}

func catalogoToResponse(sc *model.ServicioCatalogo) *dto.ServicioCatalogoResponse {
	return &dto.ServicioCatalogoResponse{
		ID:         sc.ID.String(),
		Nombre:     sc.Nombre,
		PrecioBase: sc.PrecioBase,
		Activo:     sc.Activo,
		CreatedAt:  sc.CreatedAt.Format(time.RFC3339),
	}
}

func contratadoToResponse(sc *model.ServicioContratado) *dto.ServicioContratadoResponse {
	resp := &dto.ServicioContratadoResponse{
		ID:         sc.ID.String(),
		ServicioID: sc.ServicioID.String(),
		Fecha:      fechaPtr(sc.Fecha),
		Estado:     sc.Estado,
		CreatedAt:  sc.CreatedAt.Format(time.RFC3339),
	}
	if sc.Servicio != nil {
		resp.Nombre = sc.Servicio.Nombre
		resp.Precio = sc.Servicio.PrecioBase
	}
	if sc.PrecioAcordado != nil {
		resp.Precio = *sc.PrecioAcordado
	}
	return resp
}

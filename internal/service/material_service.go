package service

import (
	"context"
	"time"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MaterialService interface {
	Crear(ctx context.Context, req dto.CrearMaterialRequest) (*dto.MaterialResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error)
	List(ctx context.Context, incluirInactivos bool) ([]dto.MaterialResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMaterialRequest) (*dto.MaterialResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.MaterialResponse, error)
}

type materialService struct {
	repo repository.MaterialRepository
	db   *gorm.DB
}

func NewMaterialService(repo repository.MaterialRepository, db *gorm.DB) MaterialService {
	return &materialService{repo: repo, db: db}
}

func (s *materialService) Crear(ctx context.Context, req dto.CrearMaterialRequest) (*dto.MaterialResponse, error) {
	m := &model.Material{
		Nombre: req.Nombre,
		Unidad: req.Unidad,
		Activo: true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *materialService) Obtener(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *materialService) List(ctx context.Context, incluirInactivos bool) ([]dto.MaterialResponse, error) {
	materiales, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MaterialResponse, 0, len(materiales))
	for i := range materiales {
		resp = append(resp, *materialToResponse(&materiales[i]))
	}
	return resp, nil
}

func (s *materialService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		m.Nombre = *req.Nombre
	}
	if req.Unidad != nil {
		m.Unidad = *req.Unidad
	}
	if req.Activo != nil {
		m.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *materialService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// AjustarStock aplica un ajuste manual de inventario (conteo físico, rotura).
// El motivo queda en el log estructurado para auditoría.
func (s *materialService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.AjustarStockTx(tx, id, req.Cantidad)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("material_id", id.String()).
		Str("material", m.Nombre).
		Str("delta", req.Cantidad.String()).
		Str("motivo", req.Motivo).
		Msg("stock ajustado manualmente")
	return s.Obtener(ctx, id)
}

func materialToResponse(m *model.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:          m.ID.String(),
		Nombre:      m.Nombre,
		Unidad:      m.Unidad,
		StockActual: m.StockActual,
		Activo:      m.Activo,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

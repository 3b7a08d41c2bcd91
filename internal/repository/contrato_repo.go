package repository

import (
	"context"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContratoRepository defines the data access contract for contracts.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via mocks.
type ContratoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Contrato) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contrato, error)
	List(ctx context.Context, filter dto.ContratoFilter) ([]model.Contrato, int64, error)
	Update(ctx context.Context, tx *gorm.DB, c *model.Contrato) error
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error

	// Historial de refinanciaciones — solo inserción
	CreateHistorial(ctx context.Context, tx *gorm.DB, h *model.HistorialContrato) error
	ListHistorial(ctx context.Context, contratoID uuid.UUID) ([]model.HistorialContrato, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type contratoRepo struct{ db *gorm.DB }

func NewContratoRepository(db *gorm.DB) ContratoRepository { return &contratoRepo{db: db} }

func (r *contratoRepo) DB() *gorm.DB { return r.db }

func (r *contratoRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Contrato) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *contratoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contrato, error) {
	var c model.Contrato
	err := r.db.WithContext(ctx).
		Preload("Lote.Emprendimiento").Preload("Cliente").
		First(&c, id).Error
	return &c, err
}

func (r *contratoRepo) List(ctx context.Context, filter dto.ContratoFilter) ([]model.Contrato, int64, error) {
	var contratos []model.Contrato
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Contrato{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.EmprendimientoID != "" {
		q = q.Joins("JOIN lotes ON lotes.id = contratos.lote_id").
			Where("lotes.emprendimiento_id = ?", filter.EmprendimientoID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Lote").Preload("Cliente").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&contratos).Error
	return contratos, total, err
}

func (r *contratoRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Contrato) error {
	return tx.WithContext(ctx).Save(c).Error
}

func (r *contratoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Contrato{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *contratoRepo) CreateHistorial(ctx context.Context, tx *gorm.DB, h *model.HistorialContrato) error {
	return tx.WithContext(ctx).Create(h).Error
}

func (r *contratoRepo) ListHistorial(ctx context.Context, contratoID uuid.UUID) ([]model.HistorialContrato, error) {
	var hist []model.HistorialContrato
	err := r.db.WithContext(ctx).
		Where("contrato_id = ?", contratoID).
		Order("created_at DESC").
		Find(&hist).Error
	return hist, err
}

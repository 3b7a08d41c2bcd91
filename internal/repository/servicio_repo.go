package repository

import (
	"context"

	"loteparatodos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServicioRepository interface {
	// Catálogo
	CreateCatalogo(ctx context.Context, s *model.ServicioCatalogo) error
	FindCatalogoByID(ctx context.Context, id uuid.UUID) (*model.ServicioCatalogo, error)
	ListCatalogo(ctx context.Context, incluirInactivos bool) ([]model.ServicioCatalogo, error)
	UpdateCatalogo(ctx context.Context, s *model.ServicioCatalogo) error
	SoftDeleteCatalogo(ctx context.Context, id uuid.UUID) error

	// Servicios contratados por contrato
	CreateContratado(ctx context.Context, sc *model.ServicioContratado) error
	ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]model.ServicioContratado, error)
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) CreateCatalogo(ctx context.Context, s *model.ServicioCatalogo) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *servicioRepo) FindCatalogoByID(ctx context.Context, id uuid.UUID) (*model.ServicioCatalogo, error) {
	var s model.ServicioCatalogo
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *servicioRepo) ListCatalogo(ctx context.Context, incluirInactivos bool) ([]model.ServicioCatalogo, error) {
	var servicios []model.ServicioCatalogo
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&servicios).Error
	return servicios, err
}

func (r *servicioRepo) UpdateCatalogo(ctx context.Context, s *model.ServicioCatalogo) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *servicioRepo) SoftDeleteCatalogo(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ServicioCatalogo{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *servicioRepo) CreateContratado(ctx context.Context, sc *model.ServicioContratado) error {
	return r.db.WithContext(ctx).Create(sc).Error
}

func (r *servicioRepo) ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]model.ServicioContratado, error) {
	var servicios []model.ServicioContratado
	err := r.db.WithContext(ctx).
		Preload("Servicio").
		Where("contrato_id = ?", contratoID).
		Order("fecha ASC").
		Find(&servicios).Error
	return servicios, err
}

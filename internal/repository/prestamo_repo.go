package repository

import (
	"context"

	"loteparatodos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrestamoRepository interface {
	Create(ctx context.Context, p *model.Prestamo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prestamo, error)
	ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]model.Prestamo, error)
	Update(ctx context.Context, p *model.Prestamo) error
}

type prestamoRepo struct{ db *gorm.DB }

func NewPrestamoRepository(db *gorm.DB) PrestamoRepository { return &prestamoRepo{db: db} }

func (r *prestamoRepo) Create(ctx context.Context, p *model.Prestamo) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *prestamoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Prestamo, error) {
	var p model.Prestamo
	err := r.db.WithContext(ctx).Preload("Cuotas").First(&p, id).Error
	return &p, err
}

func (r *prestamoRepo) ListByContrato(ctx context.Context, contratoID uuid.UUID) ([]model.Prestamo, error) {
	var prestamos []model.Prestamo
	err := r.db.WithContext(ctx).
		Preload("Cuotas", func(db *gorm.DB) *gorm.DB { return db.Order("numero ASC") }).
		Where("contrato_id = ?", contratoID).
		Order("created_at ASC").
		Find(&prestamos).Error
	return prestamos, err
}

func (r *prestamoRepo) Update(ctx context.Context, p *model.Prestamo) error {
	return r.db.WithContext(ctx).Save(p).Error
}

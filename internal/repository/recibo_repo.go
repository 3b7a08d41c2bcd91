package repository

import (
	"context"
	"time"

	"loteparatodos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReciboRepository interface {
	Create(ctx context.Context, r *model.Recibo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recibo, error)
	FindByPagoID(ctx context.Context, pagoID uuid.UUID) (*model.Recibo, error)
	Update(ctx context.Context, r *model.Recibo) error
	// ListPendingRetries returns recibos pendientes whose next_retry_at is due.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Recibo, error)
}

type reciboRepo struct{ db *gorm.DB }

func NewReciboRepository(db *gorm.DB) ReciboRepository { return &reciboRepo{db: db} }

func (r *reciboRepo) Create(ctx context.Context, rec *model.Recibo) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *reciboRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Recibo, error) {
	var rec model.Recibo
	err := r.db.WithContext(ctx).First(&rec, id).Error
	return &rec, err
}

func (r *reciboRepo) FindByPagoID(ctx context.Context, pagoID uuid.UUID) (*model.Recibo, error) {
	var rec model.Recibo
	err := r.db.WithContext(ctx).Where("pago_id = ?", pagoID).First(&rec).Error
	return &rec, err
}

func (r *reciboRepo) Update(ctx context.Context, rec *model.Recibo) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *reciboRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Recibo, error) {
	var recibos []model.Recibo
	err := r.db.WithContext(ctx).
		Where("estado = 'pendiente' AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&recibos).Error
	return recibos, err
}

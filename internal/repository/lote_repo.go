package repository

import (
	"context"

	"loteparatodos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoteRepository interface {
	// Emprendimientos
	CreateEmprendimiento(ctx context.Context, e *model.Emprendimiento) error
	FindEmprendimientoByID(ctx context.Context, id uuid.UUID) (*model.Emprendimiento, error)
	ListEmprendimientos(ctx context.Context) ([]model.Emprendimiento, error)

	// Lotes
	Create(ctx context.Context, l *model.Lote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)
	ListByEmprendimiento(ctx context.Context, emprendimientoID uuid.UUID, estado string) ([]model.Lote, error)
	Update(ctx context.Context, l *model.Lote) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) CreateEmprendimiento(ctx context.Context, e *model.Emprendimiento) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *loteRepo) FindEmprendimientoByID(ctx context.Context, id uuid.UUID) (*model.Emprendimiento, error) {
	var e model.Emprendimiento
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *loteRepo) ListEmprendimientos(ctx context.Context) ([]model.Emprendimiento, error) {
	var emprendimientos []model.Emprendimiento
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&emprendimientos).Error
	return emprendimientos, err
}

func (r *loteRepo) Create(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).Preload("Emprendimiento").First(&l, id).Error
	return &l, err
}

func (r *loteRepo) ListByEmprendimiento(ctx context.Context, emprendimientoID uuid.UUID, estado string) ([]model.Lote, error) {
	var lotes []model.Lote
	q := r.db.WithContext(ctx).Where("emprendimiento_id = ?", emprendimientoID)
	if estado != "" && estado != "all" {
		q = q.Where("estado = ?", estado)
	}
	err := q.Order("numero ASC").Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) Update(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *loteRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Lote{}).Where("id = ?", id).Update("estado", estado).Error
}

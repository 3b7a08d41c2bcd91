package repository

import (
	"context"

	"loteparatodos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketFilter defines filters for listing stock tickets.
type TicketFilter struct {
	EmprendimientoID string
	Estado           string
	Tipo             string
	Page             int
	Limit            int
}

type TicketRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.TicketStock) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TicketStock, error)
	FindLineaByID(ctx context.Context, lineaID uuid.UUID) (*model.LineaTicket, error)
	List(ctx context.Context, filter TicketFilter) ([]model.TicketStock, int64, error)

	// Used inside transactions — callers must pass the tx instance
	UpdateLineaTx(tx *gorm.DB, l *model.LineaTicket) error
	CreateLineaTx(tx *gorm.DB, l *model.LineaTicket) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error

	DB() *gorm.DB
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) DB() *gorm.DB { return r.db }

func (r *ticketRepo) Create(ctx context.Context, tx *gorm.DB, t *model.TicketStock) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TicketStock, error) {
	var t model.TicketStock
	err := r.db.WithContext(ctx).
		Preload("Lineas.Material").
		First(&t, id).Error
	return &t, err
}

func (r *ticketRepo) FindLineaByID(ctx context.Context, lineaID uuid.UUID) (*model.LineaTicket, error) {
	var l model.LineaTicket
	err := r.db.WithContext(ctx).Preload("Material").First(&l, lineaID).Error
	return &l, err
}

func (r *ticketRepo) List(ctx context.Context, filter TicketFilter) ([]model.TicketStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.TicketStock{})

	if filter.EmprendimientoID != "" {
		q = q.Where("emprendimiento_id = ?", filter.EmprendimientoID)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var tickets []model.TicketStock
	err := q.Preload("Lineas.Material").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tickets).Error
	return tickets, total, err
}

func (r *ticketRepo) UpdateLineaTx(tx *gorm.DB, l *model.LineaTicket) error {
	return tx.Save(l).Error
}

func (r *ticketRepo) CreateLineaTx(tx *gorm.DB, l *model.LineaTicket) error {
	return tx.Create(l).Error
}

func (r *ticketRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.TicketStock{}).Where("id = ?", id).Update("estado", estado).Error
}

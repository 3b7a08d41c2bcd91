package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de ticket y de línea. Las transiciones de línea son monótonas:
// pendiente → entrega_parcial → entregado, sin vuelta atrás.
const (
	TicketPendiente = "pendiente"
	TicketParcial   = "entrega_parcial"
	TicketEntregado = "entregado"
)

// Material es un insumo de obra con stock propio.
type Material struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string          `gorm:"not null;uniqueIndex"`
	Unidad      string          `gorm:"not null;default:'unidad'"`
	StockActual decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default pluralization (materials → materiales).
func (Material) TableName() string { return "materiales" }

// TicketStock es un remito de entrega o recepción de materiales de obra.
// Su estado se recalcula a partir del estado de sus líneas.
type TicketStock struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmprendimientoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo             string    `gorm:"type:varchar(20);not null"` // "entrega" | "recepcion"
	Estado           string    `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Observaciones    string
	UsuarioID        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Lineas []LineaTicket `gorm:"foreignKey:TicketID"`
}

// TableName overrides GORM's default pluralization.
func (TicketStock) TableName() string { return "tickets_stock" }

// LineaTicket es una línea de movimiento de stock dentro de un ticket.
// Invariante: 0 <= CantidadEntregada <= CantidadOriginal.
// Una entrega parcial genera una línea hermana nueva por el remanente
// (ver service.AplicarEntrega).
type LineaTicket struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TicketID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CantidadOriginal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CantidadEntregada decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Estado            string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Observaciones     string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

// TableName overrides GORM's default pluralization.
func (LineaTicket) TableName() string { return "lineas_ticket" }

// Pendiente devuelve lo que falta entregar de la línea.
func (l *LineaTicket) Pendiente() decimal.Decimal {
	return l.CantidadOriginal.Sub(l.CantidadEntregada)
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialContrato guarda un snapshot de los términos anteriores cada vez que
// un contrato se refinancia o edita. Solo inserción, nunca se modifica.
type HistorialContrato struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID uuid.UUID `gorm:"type:uuid;not null;index"`

	PrecioBase     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	EntregaInicial decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Anticipo       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CantidadCuotas int             `gorm:"not null"`
	MontoCuota     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FechaInicio    *time.Time
	Motivo         string
	UsuarioID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

// TableName overrides GORM's default pluralization.
func (HistorialContrato) TableName() string { return "historial_contratos" }

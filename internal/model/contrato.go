package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de contrato. Un contrato nunca se borra físicamente: la cancelación
// y la rescisión son cambios de estado.
const (
	ContratoActivo     = "activo"
	ContratoCompletado = "completado"
	ContratoMoroso     = "moroso"
	ContratoRescindido = "rescindido"
	ContratoCancelado  = "cancelado"
)

// Contrato representa el acuerdo de venta de un lote.
// Las cuotas NO se persisten: se derivan de estos términos en cada consulta
// (ver service.ArmarPlanCuotas). Refinanciar reemplaza los términos completos
// y deja un snapshot en HistorialContrato.
type Contrato struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoteID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID uuid.UUID `gorm:"type:uuid;not null;index"`

	PrecioBase     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	EntregaInicial decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Anticipo       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CantidadCuotas int             `gorm:"not null;default:0"` // >= 0
	MontoCuota     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// FechaInicio es obligatoria cuando CantidadCuotas > 0
	FechaInicio *time.Time
	Estado      string `gorm:"type:varchar(20);not null;default:'activo';index"`

	VendedorID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Lote    *Lote    `gorm:"foreignKey:LoteID"`
	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

// EsFinal indica que el contrato ya no admite transiciones de estado.
func (c *Contrato) EsFinal() bool {
	return c.Estado == ContratoRescindido || c.Estado == ContratoCancelado
}

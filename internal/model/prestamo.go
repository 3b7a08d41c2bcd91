package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prestamo es un préstamo otorgado al cliente dentro del contrato (por ejemplo
// para construcción). El desembolso acredita contra la deuda en el estado de
// cuenta; sus cuotas la incrementan.
type Prestamo struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Descripcion     string
	MontoDesembolso *decimal.Decimal `gorm:"type:decimal(14,2)"`
	FechaDesembolso *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Cuotas []CuotaPrestamo `gorm:"foreignKey:PrestamoID"`
}

// CuotaPrestamo es una cuota del cronograma propio del préstamo.
type CuotaPrestamo struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrestamoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Numero     int             `gorm:"not null"`
	Fecha      *time.Time
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt  time.Time
}

// TableName overrides GORM's default pluralization.
func (CuotaPrestamo) TableName() string { return "cuotas_prestamo" }

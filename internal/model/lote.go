package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Emprendimiento agrupa los lotes de un desarrollo inmobiliario.
type Emprendimiento struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null;uniqueIndex"`
	Ubicacion string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization (emprendimientoes → emprendimientos).
func (Emprendimiento) TableName() string { return "emprendimientos" }

// Estados de lote.
const (
	LoteDisponible = "disponible"
	LoteReservado  = "reservado"
	LoteVendido    = "vendido"
)

// Lote es una parcela vendible dentro de un emprendimiento.
type Lote struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmprendimientoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Numero           string    `gorm:"not null"`
	SuperficieM2     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PrecioBase       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Estado           string          `gorm:"type:varchar(20);not null;default:'disponible';index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Emprendimiento *Emprendimiento `gorm:"foreignKey:EmprendimientoID"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServicioCatalogo es un servicio ofrecible (agrimensura, escritura, conexión
// de agua, etc.) con su precio de lista.
type ServicioCatalogo struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre     string          `gorm:"not null;uniqueIndex"`
	PrecioBase decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Activo     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides GORM's default pluralization.
func (ServicioCatalogo) TableName() string { return "servicios_catalogo" }

// ServicioContratado vincula un servicio del catálogo a un contrato.
// PrecioAcordado nil = se factura el precio de lista vigente.
type ServicioContratado struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServicioID     uuid.UUID  `gorm:"type:uuid;not null"`
	PrecioAcordado *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Fecha          *time.Time
	Estado         string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt      time.Time

	Servicio *ServicioCatalogo `gorm:"foreignKey:ServicioID"`
}

// TableName overrides GORM's default pluralization.
func (ServicioContratado) TableName() string { return "servicios_contratados" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de pago. El tipo determina cómo el estado de cuenta lo asienta:
// cuota/servicio/prestamo van al haber; un ajuste va al debe si su monto es
// positivo y al haber (valor absoluto) si es negativo.
const (
	PagoCuota    = "cuota"
	PagoServicio = "servicio"
	PagoPrestamo = "prestamo"
	PagoAjuste   = "ajuste"
)

// Pago registra dinero recibido (o un ajuste manual) sobre un contrato.
// Inmutable: correcciones se hacen con un ajuste de signo contrario.
type Pago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo       string          `gorm:"type:varchar(20);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"` // negativo solo para ajustes
	Fecha      *time.Time      `gorm:"index"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'confirmado'"`
	Descripcion string
	UsuarioID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time

	Contrato *Contrato `gorm:"foreignKey:ContratoID"`
}

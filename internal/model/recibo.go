package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recibo es el comprobante emitido por cada pago registrado.
// Estado: "pendiente" | "emitido" | "error"
type Recibo struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PagoID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ContratoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Numero     *int64
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// PDFPath is relative to PDF_STORAGE_PATH env var
	PDFPath       *string `gorm:"column:pdf_path"`
	Observaciones *string
	// Retry fields — used by the cron to re-attempt failed notifier calls
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

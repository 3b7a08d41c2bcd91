package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarPagoRequest ingresa dinero (o un ajuste) sobre un contrato.
// Monto negativo solo es válido para tipo ajuste.
type RegistrarPagoRequest struct {
	ContratoID  string          `json:"contrato_id" validate:"required,uuid"`
	Tipo        string          `json:"tipo"  validate:"required,oneof=cuota servicio prestamo ajuste"`
	Monto       decimal.Decimal `json:"monto" validate:"required"`
	Fecha       *string         `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Descripcion string          `json:"descripcion" validate:"omitempty,max=255"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoResponse struct {
	ID          string          `json:"id"`
	ContratoID  string          `json:"contrato_id"`
	Tipo        string          `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       *string         `json:"fecha"`
	Estado      string          `json:"estado"`
	Descripcion string          `json:"descripcion"`
	CreatedAt   string          `json:"created_at"`
}

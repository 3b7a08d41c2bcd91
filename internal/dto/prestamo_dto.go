package dto

import "github.com/shopspring/decimal"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CuotaPrestamoRequest struct {
	Numero int             `json:"numero" validate:"required,min=1"`
	Fecha  string          `json:"fecha"  validate:"required,datetime=2006-01-02"`
	Monto  decimal.Decimal `json:"monto"  validate:"required"`
}

type CrearPrestamoRequest struct {
	ContratoID      string                 `json:"contrato_id" validate:"required,uuid"`
	Descripcion     string                 `json:"descripcion" validate:"omitempty,max=255"`
	MontoDesembolso *decimal.Decimal       `json:"monto_desembolso"`
	FechaDesembolso *string                `json:"fecha_desembolso" validate:"omitempty,datetime=2006-01-02"`
	Cuotas          []CuotaPrestamoRequest `json:"cuotas" validate:"omitempty,dive"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CuotaPrestamoResponse struct {
	Numero int             `json:"numero"`
	Fecha  *string         `json:"fecha"`
	Monto  decimal.Decimal `json:"monto"`
	Estado string          `json:"estado"`
}

type PrestamoResponse struct {
	ID              string                  `json:"id"`
	ContratoID      string                  `json:"contrato_id"`
	Descripcion     string                  `json:"descripcion"`
	MontoDesembolso *decimal.Decimal        `json:"monto_desembolso"`
	FechaDesembolso *string                 `json:"fecha_desembolso"`
	Cuotas          []CuotaPrestamoResponse `json:"cuotas"`
	CreatedAt       string                  `json:"created_at"`
}

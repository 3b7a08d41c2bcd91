package dto

import "github.com/shopspring/decimal"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearMaterialRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=120"`
	Unidad string `json:"unidad" validate:"required,max=20"`
}

type ActualizarMaterialRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=120"`
	Unidad *string `json:"unidad" validate:"omitempty,max=20"`
	Activo *bool   `json:"activo"`
}

type AjustarStockRequest struct {
	Cantidad decimal.Decimal `json:"cantidad" validate:"required"`
	Motivo   string          `json:"motivo"   validate:"required,min=3,max=255"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type MaterialResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Unidad    string          `json:"unidad"`
	StockActual decimal.Decimal `json:"stock_actual"`
	Activo    bool            `json:"activo"`
	CreatedAt string          `json:"created_at"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineaTicketRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
}

type CrearTicketRequest struct {
	EmprendimientoID string               `json:"emprendimiento_id" validate:"required,uuid"`
	Tipo             string               `json:"tipo" validate:"required,oneof=entrega recepcion"`
	Observaciones    string               `json:"observaciones" validate:"omitempty,max=500"`
	Lineas           []LineaTicketRequest `json:"lineas" validate:"required,min=1,dive"`
}

// ConfirmarEntregaRequest registra la cantidad efectivamente entregada de una
// línea. Si es menor a lo pendiente, el saldo queda en una línea nueva.
type ConfirmarEntregaRequest struct {
	Cantidad      decimal.Decimal `json:"cantidad" validate:"required"`
	Observaciones string          `json:"observaciones" validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaTicketResponse struct {
	ID                string          `json:"id"`
	MaterialID        string          `json:"material_id"`
	MaterialNombre    string          `json:"material_nombre"`
	Unidad            string          `json:"unidad"`
	CantidadOriginal  decimal.Decimal `json:"cantidad_original"`
	CantidadEntregada decimal.Decimal `json:"cantidad_entregada"`
	Pendiente         decimal.Decimal `json:"pendiente"`
	Estado            string          `json:"estado"`
	Observaciones     string          `json:"observaciones"`
}

type TicketResponse struct {
	ID               string                `json:"id"`
	EmprendimientoID string                `json:"emprendimiento_id"`
	Tipo             string                `json:"tipo"`
	Estado           string                `json:"estado"`
	Observaciones    string                `json:"observaciones"`
	Lineas           []LineaTicketResponse `json:"lineas"`
	CreatedAt        string                `json:"created_at"`
}

type TicketListResponse struct {
	Data  []TicketResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

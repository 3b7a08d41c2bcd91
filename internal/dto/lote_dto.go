package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEmprendimientoRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=2,max=100"`
	Ubicacion string `json:"ubicacion" validate:"omitempty,max=255"`
}

type ActualizarEmprendimientoRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=100"`
	Ubicacion *string `json:"ubicacion" validate:"omitempty,max=255"`
	Activo    *bool   `json:"activo"`
}

type CrearLoteRequest struct {
	EmprendimientoID string          `json:"emprendimiento_id" validate:"required,uuid"`
	Numero           string          `json:"numero"        validate:"required,max=20"`
	SuperficieM2     decimal.Decimal `json:"superficie_m2" validate:"required"`
	PrecioBase       decimal.Decimal `json:"precio_base"   validate:"required"`
}

type ActualizarLoteRequest struct {
	Numero       *string          `json:"numero" validate:"omitempty,max=20"`
	SuperficieM2 *decimal.Decimal `json:"superficie_m2"`
	PrecioBase   *decimal.Decimal `json:"precio_base"`
	Estado       *string          `json:"estado" validate:"omitempty,oneof=disponible reservado vendido"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmprendimientoResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Ubicacion string `json:"ubicacion"`
	Activo    bool   `json:"activo"`
	CreatedAt string `json:"created_at"`
}

type LoteResponse struct {
	ID               string          `json:"id"`
	EmprendimientoID string          `json:"emprendimiento_id"`
	Numero           string          `json:"numero"`
	SuperficieM2     decimal.Decimal `json:"superficie_m2"`
	PrecioBase       decimal.Decimal `json:"precio_base"`
	Estado           string          `json:"estado"`
	CreatedAt        string          `json:"created_at"`
}

// DisponibilidadResponse is the public availability summary per emprendimiento.
// Served from the Redis cache; invalidated on every contract or lot change.
type DisponibilidadResponse struct {
	EmprendimientoID string         `json:"emprendimiento_id"`
	Nombre           string         `json:"nombre"`
	Disponibles      int            `json:"disponibles"`
	Reservados       int            `json:"reservados"`
	Vendidos         int            `json:"vendidos"`
	Lotes            []LoteResponse `json:"lotes"`
}

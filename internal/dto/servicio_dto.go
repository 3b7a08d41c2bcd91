package dto

import "github.com/shopspring/decimal"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearServicioCatalogoRequest struct {
	Nombre     string          `json:"nombre"      validate:"required,min=2,max=120"`
	PrecioBase decimal.Decimal `json:"precio_base" validate:"required"`
}

type ActualizarServicioCatalogoRequest struct {
	Nombre     *string          `json:"nombre" validate:"omitempty,min=2,max=120"`
	PrecioBase *decimal.Decimal `json:"precio_base"`
	Activo     *bool            `json:"activo"`
}

// ContratarServicioRequest attaches a catalog service to a contract. When
// precio_acordado is omitted the catalog list price applies.
type ContratarServicioRequest struct {
	ServicioID     string           `json:"servicio_id" validate:"required,uuid"`
	PrecioAcordado *decimal.Decimal `json:"precio_acordado"`
	Fecha          *string          `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ServicioCatalogoResponse struct {
	ID         string          `json:"id"`
	Nombre     string          `json:"nombre"`
	PrecioBase decimal.Decimal `json:"precio_base"`
	Activo     bool            `json:"activo"`
	CreatedAt  string          `json:"created_at"`
}

type ServicioContratadoResponse struct {
	ID         string          `json:"id"`
	ServicioID string          `json:"servicio_id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Fecha      *string         `json:"fecha"`
	Estado     string          `json:"estado"`
	CreatedAt  string          `json:"created_at"`
}

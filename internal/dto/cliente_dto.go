package dto

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=120"`
	DNI      string  `json:"dni"      validate:"required,min=6,max=20"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefono *string `json:"telefono" validate:"omitempty,max=30"`
}

type ActualizarClienteRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=120"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefono *string `json:"telefono" validate:"omitempty,max=30"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	DNI       string  `json:"dni"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	CreatedAt string  `json:"created_at"`
}

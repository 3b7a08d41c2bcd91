package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ContratoFilter is bound from query string of GET /v1/contratos.
type ContratoFilter struct {
	Estado           string `form:"estado"` // activo | completado | moroso | rescindido | cancelado | all
	ClienteID        string `form:"cliente_id"`
	EmprendimientoID string `form:"emprendimiento_id"`
	Page             int    `form:"page,default=1"   validate:"min=1"`
	Limit            int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ContratoListItem struct {
	ID             string          `json:"id"`
	LoteID         string          `json:"lote_id"`
	LoteNumero     string          `json:"lote_numero"`
	Emprendimiento string          `json:"emprendimiento"`
	ClienteID      string          `json:"cliente_id"`
	ClienteNombre  string          `json:"cliente_nombre"`
	PrecioBase     decimal.Decimal `json:"precio_base"`
	CantidadCuotas int             `json:"cantidad_cuotas"`
	MontoCuota     decimal.Decimal `json:"monto_cuota"`
	Estado         string          `json:"estado"`
	FechaInicio    *string         `json:"fecha_inicio"`
	CreatedAt      string          `json:"created_at"`
}

type ContratoListResponse struct {
	Data  []ContratoListItem `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearContratoRequest struct {
	LoteID         string          `json:"lote_id"    validate:"required,uuid"`
	ClienteID      string          `json:"cliente_id" validate:"required,uuid"`
	PrecioBase     decimal.Decimal `json:"precio_base"     validate:"required"`
	EntregaInicial decimal.Decimal `json:"entrega_inicial" validate:"min=0"`
	Anticipo       decimal.Decimal `json:"anticipo"        validate:"min=0"`
	CantidadCuotas int             `json:"cantidad_cuotas" validate:"min=0"`
	MontoCuota     decimal.Decimal `json:"monto_cuota"     validate:"min=0"`
	// FechaInicio YYYY-MM-DD; obligatoria cuando cantidad_cuotas > 0
	FechaInicio *string `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
}

// RefinanciarContratoRequest reemplaza los términos completos del contrato.
// Los términos anteriores quedan en el historial.
type RefinanciarContratoRequest struct {
	PrecioBase     decimal.Decimal `json:"precio_base"     validate:"required"`
	EntregaInicial decimal.Decimal `json:"entrega_inicial" validate:"min=0"`
	Anticipo       decimal.Decimal `json:"anticipo"        validate:"min=0"`
	CantidadCuotas int             `json:"cantidad_cuotas" validate:"min=0"`
	MontoCuota     decimal.Decimal `json:"monto_cuota"     validate:"min=0"`
	FechaInicio    *string         `json:"fecha_inicio"    validate:"omitempty,datetime=2006-01-02"`
	Motivo         string          `json:"motivo"          validate:"required,min=5"`
}

type CambiarEstadoContratoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=activo completado moroso rescindido cancelado"`
	Motivo string `json:"motivo" validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ContratoResponse struct {
	ID             string          `json:"id"`
	LoteID         string          `json:"lote_id"`
	LoteNumero     string          `json:"lote_numero"`
	Emprendimiento string          `json:"emprendimiento"`
	ClienteID      string          `json:"cliente_id"`
	ClienteNombre  string          `json:"cliente_nombre"`
	PrecioBase     decimal.Decimal `json:"precio_base"`
	EntregaInicial decimal.Decimal `json:"entrega_inicial"`
	Anticipo       decimal.Decimal `json:"anticipo"`
	CantidadCuotas int             `json:"cantidad_cuotas"`
	MontoCuota     decimal.Decimal `json:"monto_cuota"`
	FechaInicio    *string         `json:"fecha_inicio"`
	Estado         string          `json:"estado"`
	CreatedAt      string          `json:"created_at"`
}

type HistorialContratoResponse struct {
	PrecioBase     decimal.Decimal `json:"precio_base"`
	EntregaInicial decimal.Decimal `json:"entrega_inicial"`
	Anticipo       decimal.Decimal `json:"anticipo"`
	CantidadCuotas int             `json:"cantidad_cuotas"`
	MontoCuota     decimal.Decimal `json:"monto_cuota"`
	FechaInicio    *string         `json:"fecha_inicio"`
	Motivo         string          `json:"motivo"`
	CreatedAt      string          `json:"created_at"`
}

// ─── Plan de cuotas / estado de cuenta ──────────────────────────────────────

type CuotaResponse struct {
	Numero int             `json:"numero"`
	Fecha  string          `json:"fecha"`
	Monto  decimal.Decimal `json:"monto"`
	Estado string          `json:"estado"`
}

type CicloResponse struct {
	Numero        int             `json:"numero"`
	Estado        string          `json:"estado"`
	CuotasPagadas int             `json:"cuotas_pagadas"`
	CuotasTotal   int             `json:"cuotas_total"`
	MontoPagado   decimal.Decimal `json:"monto_pagado"`
	MontoTotal    decimal.Decimal `json:"monto_total"`
	Cuotas        []CuotaResponse `json:"cuotas"`
}

type PlanCuotasResponse struct {
	ContratoID     string                `json:"contrato_id"`
	Ciclos         []CicloResponse       `json:"ciclos"`
	EntregaInicial *EntradaCuentaResponse `json:"entrega_inicial,omitempty"`
	Anticipo       *EntradaCuentaResponse `json:"anticipo,omitempty"`
}

type EntradaCuentaResponse struct {
	Fecha    *string         `json:"fecha"`
	Tipo     string          `json:"tipo"`
	Concepto string          `json:"concepto"`
	Debe     decimal.Decimal `json:"debe"`
	Haber    decimal.Decimal `json:"haber"`
	Estado   string          `json:"estado"`
	Alerta   string          `json:"alerta,omitempty"`
	Saldo    decimal.Decimal `json:"saldo"`
}

type EstadoCuentaResponse struct {
	ContratoID string                  `json:"contrato_id"`
	Entradas   []EntradaCuentaResponse `json:"entradas"`
	SaldoFinal decimal.Decimal         `json:"saldo_final"`
}

package service

import (
	"time"

	"loteparatodos/internal/model"

	"github.com/shopspring/decimal"
)

// Estados derivados de cuota y de ciclo. Nada de esto se persiste: el plan se
// recalcula completo en cada consulta a partir de los términos del contrato.
const (
	CuotaPagada    = "pagada"
	CuotaVencida   = "vencida"
	CuotaPendiente = "pendiente"

	CicloCompletado  = "completado"
	CicloConVencidas = "con_vencidas"
	CicloEnProgreso  = "en_progreso"
	CicloPendiente   = "pendiente"
)

// CuotasPorCiclo es el tamaño fijo de agrupamiento para reporte de avance.
const CuotasPorCiclo = 6

// Cuota es una cuota mensual derivada de los términos del contrato.
type Cuota struct {
	Numero int
	Fecha  time.Time
	Monto  decimal.Decimal
	Estado string
}

// Ciclo agrupa hasta CuotasPorCiclo cuotas consecutivas.
type Ciclo struct {
	Numero        int
	Cuotas        []Cuota
	CuotasPagadas int
	CuotasTotal   int
	MontoPagado   decimal.Decimal
	MontoTotal    decimal.Decimal
	Estado        string
}

// PlanCuotas es el resultado completo del armado: los ciclos más las entradas
// sintéticas de entrega inicial y anticipo (nil cuando el monto es cero).
type PlanCuotas struct {
	Ciclos         []Ciclo
	EntregaInicial *EntradaEstadoCuenta
	Anticipo       *EntradaEstadoCuenta
}

// ArmarPlanCuotas deriva el plan de cuotas de un contrato.
//
// now se inyecta para que el resultado sea determinístico y testeable: el
// estado de cada cuota depende de la hora de consulta.
//
// Falla con *InvalidContractError si el contrato pacta cuotas sin fecha de
// inicio: antes ese caso producía fechas inválidas silenciosas.
func ArmarPlanCuotas(c *model.Contrato, now time.Time) (*PlanCuotas, error) {
	if c.CantidadCuotas > 0 && (c.FechaInicio == nil || c.FechaInicio.IsZero()) {
		return nil, &InvalidContractError{Motivo: "contrato con cuotas sin fecha de inicio"}
	}

	var inicio time.Time
	if c.FechaInicio != nil {
		inicio = *c.FechaInicio
	}

	plan := &PlanCuotas{}

	if c.EntregaInicial.IsPositive() {
		plan.EntregaInicial = &EntradaEstadoCuenta{
			Fecha:    inicio,
			Tipo:     EntradaEntregaInicial,
			Concepto: "Entrega inicial",
			Debe:     c.EntregaInicial,
			Estado:   CuotaPagada,
		}
	}
	if c.Anticipo.IsPositive() {
		plan.Anticipo = &EntradaEstadoCuenta{
			Fecha:    inicio,
			Tipo:     EntradaAnticipo,
			Concepto: "Anticipo en efectivo",
			Debe:     c.Anticipo,
			Estado:   CuotaPagada,
		}
	}

	for seq := 1; seq <= c.CantidadCuotas; seq++ {
		cuota := Cuota{
			Numero: seq,
			// Aritmética de calendario, no incrementos fijos de 30 días.
			Fecha:  inicio.AddDate(0, seq, 0),
			Monto:  c.MontoCuota,
			Estado: CuotaPendiente,
		}
		cuota.Estado = estadoCuota(c.Estado, seq, cuota.Fecha, now)

		if (seq-1)%CuotasPorCiclo == 0 {
			plan.Ciclos = append(plan.Ciclos, Ciclo{Numero: len(plan.Ciclos) + 1})
		}
		ciclo := &plan.Ciclos[len(plan.Ciclos)-1]
		ciclo.Cuotas = append(ciclo.Cuotas, cuota)
	}

	for i := range plan.Ciclos {
		agregarCiclo(&plan.Ciclos[i])
	}
	return plan, nil
}

// estadoCuota es la regla de simulación de estado por posición y fecha.
// TODO: reemplazar por el estado real de cobranza cuando el área comercial
// defina la fuente (hoy las dos primeras cuotas de un contrato activo se
// asumen cobradas).
func estadoCuota(estadoContrato string, seq int, vencimiento, now time.Time) string {
	if estadoContrato == model.ContratoCompletado {
		return CuotaPagada
	}
	if estadoContrato == model.ContratoActivo && seq <= 2 {
		return CuotaPagada
	}
	if vencimiento.Before(now) {
		return CuotaVencida
	}
	return CuotaPendiente
}

// agregarCiclo calcula los agregados y el estado del ciclo.
// Precedencia: todas pagadas → completado; alguna vencida → con_vencidas;
// alguna pagada → en_progreso; si no → pendiente.
func agregarCiclo(ciclo *Ciclo) {
	ciclo.CuotasTotal = len(ciclo.Cuotas)
	ciclo.MontoPagado = decimal.Zero
	ciclo.MontoTotal = decimal.Zero

	vencidas := 0
	for _, cuota := range ciclo.Cuotas {
		ciclo.MontoTotal = ciclo.MontoTotal.Add(cuota.Monto)
		switch cuota.Estado {
		case CuotaPagada:
			ciclo.CuotasPagadas++
			ciclo.MontoPagado = ciclo.MontoPagado.Add(cuota.Monto)
		case CuotaVencida:
			vencidas++
		}
	}

	switch {
	case ciclo.CuotasPagadas == ciclo.CuotasTotal:
		ciclo.Estado = CicloCompletado
	case vencidas > 0:
		ciclo.Estado = CicloConVencidas
	case ciclo.CuotasPagadas > 0:
		ciclo.Estado = CicloEnProgreso
	default:
		ciclo.Estado = CicloPendiente
	}
}

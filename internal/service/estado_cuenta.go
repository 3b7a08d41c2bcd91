package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"loteparatodos/internal/model"

	"github.com/shopspring/decimal"
)

// Tipos de entrada del estado de cuenta.
const (
	EntradaEntregaInicial     = "entrega_inicial"
	EntradaAnticipo           = "anticipo"
	EntradaCuota              = "cuota"
	EntradaServicio           = "servicio"
	EntradaDesembolsoPrestamo = "desembolso_prestamo"
	EntradaCuotaPrestamo      = "cuota_prestamo"
	EntradaPago               = "pago"
	EntradaAjuste             = "ajuste"
)

// Clasificación de alerta por entrada.
const (
	AlertaVencida  = "vencida"
	AlertaPorVencer = "por_vencer"
)

// DiasAvisoVencimiento es la ventana (inclusive) para marcar una entrada
// como por_vencer.
const DiasAvisoVencimiento = 7

// EntradaEstadoCuenta es una fila del libro mayor unificado del contrato.
// Convención: el debe incrementa la deuda pendiente, el haber la reduce.
type EntradaEstadoCuenta struct {
	Fecha    time.Time // zero = fecha desconocida, sin alerta posible
	Tipo     string
	Concepto string
	Debe     decimal.Decimal
	Haber    decimal.Decimal
	Estado   string
	Alerta   string
	// Saldo es el acumulado (debe − haber) hasta esta entrada inclusive,
	// en orden cronológico.
	Saldo decimal.Decimal
}

// ArmarEstadoCuenta fusiona cuotas, servicios contratados, préstamos y pagos
// en un único libro cronológico con saldo corrido.
//
// El orden de desempate entre entradas de la misma fecha es el orden de
// enumeración: cuotas, servicios, préstamos, pagos (sort estable).
// Entradas sin fecha no abortan el armado: quedan sin alerta y ordenan primero.
func ArmarEstadoCuenta(
	plan *PlanCuotas,
	servicios []model.ServicioContratado,
	prestamos []model.Prestamo,
	pagos []model.Pago,
	now time.Time,
) []EntradaEstadoCuenta {
	var entradas []EntradaEstadoCuenta

	if plan != nil {
		if plan.EntregaInicial != nil {
			entradas = append(entradas, *plan.EntregaInicial)
		}
		if plan.Anticipo != nil {
			entradas = append(entradas, *plan.Anticipo)
		}
		for _, ciclo := range plan.Ciclos {
			for _, cuota := range ciclo.Cuotas {
				entradas = append(entradas, EntradaEstadoCuenta{
					Fecha:    cuota.Fecha,
					Tipo:     EntradaCuota,
					Concepto: fmt.Sprintf("Cuota %d", cuota.Numero),
					Debe:     cuota.Monto,
					Estado:   cuota.Estado,
				})
			}
		}
	}

	for _, sc := range servicios {
		monto := decimal.Zero
		if sc.PrecioAcordado != nil {
			monto = *sc.PrecioAcordado
		} else if sc.Servicio != nil {
			// Sin precio acordado se factura el precio de lista.
			monto = sc.Servicio.PrecioBase
		}
		concepto := "Servicio"
		if sc.Servicio != nil {
			concepto = "Servicio: " + sc.Servicio.Nombre
		}
		entradas = append(entradas, EntradaEstadoCuenta{
			Fecha:    fechaODesconocida(sc.Fecha),
			Tipo:     EntradaServicio,
			Concepto: concepto,
			Debe:     monto,
			Estado:   sc.Estado,
		})
	}

	for _, p := range prestamos {
		// El desembolso acredita: reduce lo adeudado en esta convención.
		if p.MontoDesembolso != nil && p.MontoDesembolso.IsPositive() {
			entradas = append(entradas, EntradaEstadoCuenta{
				Fecha:    fechaODesconocida(p.FechaDesembolso),
				Tipo:     EntradaDesembolsoPrestamo,
				Concepto: "Desembolso préstamo: " + p.Descripcion,
				Haber:    *p.MontoDesembolso,
				Estado:   "desembolsado",
			})
		}
		for _, cp := range p.Cuotas {
			entradas = append(entradas, EntradaEstadoCuenta{
				Fecha:    fechaODesconocida(cp.Fecha),
				Tipo:     EntradaCuotaPrestamo,
				Concepto: fmt.Sprintf("Cuota préstamo %d", cp.Numero),
				Debe:     cp.Monto,
				Estado:   cp.Estado,
			})
		}
	}

	for _, pago := range pagos {
		entradas = append(entradas, entradaDePago(pago))
	}

	sort.SliceStable(entradas, func(i, j int) bool {
		return entradas[i].Fecha.Before(entradas[j].Fecha)
	})

	saldo := decimal.Zero
	for i := range entradas {
		saldo = saldo.Add(entradas[i].Debe).Sub(entradas[i].Haber)
		entradas[i].Saldo = saldo
		entradas[i].Alerta = clasificarAlerta(&entradas[i], now)
	}
	return entradas
}

// entradaDePago asienta un pago según su tipo. Los ajustes positivos van al
// debe y los negativos al haber por su valor absoluto.
func entradaDePago(p model.Pago) EntradaEstadoCuenta {
	e := EntradaEstadoCuenta{
		Fecha:    fechaODesconocida(p.Fecha),
		Estado:   p.Estado,
		Concepto: p.Descripcion,
	}
	if p.Tipo == model.PagoAjuste {
		e.Tipo = EntradaAjuste
		if e.Concepto == "" {
			e.Concepto = "Ajuste"
		}
		if p.Monto.IsNegative() {
			e.Haber = p.Monto.Abs()
		} else {
			e.Debe = p.Monto
		}
		return e
	}

	e.Tipo = EntradaPago
	if e.Concepto == "" {
		e.Concepto = "Pago " + p.Tipo
	}
	e.Haber = p.Monto
	return e
}

// clasificarAlerta marca la entrada como vencida o por vencer.
// Sin fecha no hay alerta posible.
func clasificarAlerta(e *EntradaEstadoCuenta, now time.Time) string {
	if e.Fecha.IsZero() {
		return ""
	}
	if strings.Contains(strings.ToLower(e.Estado), "venc") || e.Fecha.Before(now) {
		return AlertaVencida
	}
	limite := now.AddDate(0, 0, DiasAvisoVencimiento)
	if !e.Fecha.After(limite) {
		return AlertaPorVencer
	}
	return ""
}

func fechaODesconocida(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

package service

import (
	"testing"
	"time"

	"loteparatodos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmarEstadoCuenta_SaldoCorrido(t *testing.T) {
	c := contratoDePrueba(t, 3, "2024-01-01")
	now := fechaT(t, "2024-02-15")
	plan, err := ArmarPlanCuotas(c, now)
	require.NoError(t, err)

	f := fechaT(t, "2024-02-05")
	pagos := []model.Pago{
		{Tipo: model.PagoCuota, Monto: decimal.NewFromInt(100), Fecha: &f, Estado: "confirmado"},
	}

	entradas := ArmarEstadoCuenta(plan, nil, nil, pagos, now)
	require.Len(t, entradas, 4) // 3 cuotas + 1 pago

	// El saldo final es la suma de debe menos la suma de haber
	debe, haber := decimal.Zero, decimal.Zero
	for _, e := range entradas {
		debe = debe.Add(e.Debe)
		haber = haber.Add(e.Haber)
	}
	assert.True(t, entradas[len(entradas)-1].Saldo.Equal(debe.Sub(haber)))

	// Cada saldo intermedio es el acumulado hasta esa fila
	acum := decimal.Zero
	for _, e := range entradas {
		acum = acum.Add(e.Debe).Sub(e.Haber)
		assert.True(t, e.Saldo.Equal(acum))
	}
}

func TestArmarEstadoCuenta_OrdenCronologico(t *testing.T) {
	c := contratoDePrueba(t, 2, "2024-01-01")
	now := fechaT(t, "2024-01-15")
	plan, err := ArmarPlanCuotas(c, now)
	require.NoError(t, err)

	f1 := fechaT(t, "2024-02-01") // misma fecha que la cuota 1
	f2 := fechaT(t, "2024-01-20")
	pagos := []model.Pago{
		{Tipo: model.PagoCuota, Monto: decimal.NewFromInt(100), Fecha: &f1},
		{Tipo: model.PagoCuota, Monto: decimal.NewFromInt(50), Fecha: &f2},
	}

	entradas := ArmarEstadoCuenta(plan, nil, nil, pagos, now)
	require.Len(t, entradas, 4)

	for i := 1; i < len(entradas); i++ {
		assert.False(t, entradas[i].Fecha.Before(entradas[i-1].Fecha))
	}

	// Desempate estable por orden de enumeración: cuota antes que pago
	// cuando comparten fecha
	assert.Equal(t, EntradaCuota, entradas[1].Tipo)
	assert.Equal(t, EntradaPago, entradas[2].Tipo)
}

func TestArmarEstadoCuenta_AlertasPorVencimiento(t *testing.T) {
	now := fechaT(t, "2024-06-10")

	vencida := fechaT(t, "2024-06-01")
	justoEnVentana := fechaT(t, "2024-06-17") // now + 7 días, inclusive
	fueraDeVentana := fechaT(t, "2024-06-18")

	pagos := []model.Pago{
		{Tipo: model.PagoCuota, Monto: decimal.NewFromInt(10), Fecha: &vencida},
		{Tipo: model.PagoCuota, Monto: decimal.NewFromInt(10), Fecha: &justoEnVentana},
		{Tipo: model.PagoCuota, Monto: decimal.NewFromInt(10), Fecha: &fueraDeVentana},
		{Tipo: model.PagoCuota, Monto: decimal.NewFromInt(10), Fecha: nil},
	}

	entradas := ArmarEstadoCuenta(nil, nil, nil, pagos, now)
	require.Len(t, entradas, 4)

	// Sin fecha ordena primero y no lleva alerta
	assert.True(t, entradas[0].Fecha.IsZero())
	assert.Empty(t, entradas[0].Alerta)
	assert.Equal(t, AlertaVencida, entradas[1].Alerta)
	assert.Equal(t, AlertaPorVencer, entradas[2].Alerta)
	assert.Empty(t, entradas[3].Alerta)
}

func TestArmarEstadoCuenta_AlertaPorEstadoVencido(t *testing.T) {
	now := fechaT(t, "2024-06-10")
	futura := fechaT(t, "2024-09-01")
	pagos := []model.Pago{
		{Tipo: model.PagoCuota, Monto: decimal.NewFromInt(10), Fecha: &futura, Estado: "vencido"},
	}

	entradas := ArmarEstadoCuenta(nil, nil, nil, pagos, now)
	require.Len(t, entradas, 1)
	// El estado "venc*" fuerza la alerta aunque la fecha sea futura
	assert.Equal(t, AlertaVencida, entradas[0].Alerta)
}

func TestArmarEstadoCuenta_AjustesPorSigno(t *testing.T) {
	now := fechaT(t, "2024-06-10")
	f := fechaT(t, "2024-05-01")
	pagos := []model.Pago{
		{Tipo: model.PagoAjuste, Monto: decimal.NewFromInt(500), Fecha: &f, Descripcion: "Interés punitorio"},
		{Tipo: model.PagoAjuste, Monto: decimal.NewFromInt(-300), Fecha: &f, Descripcion: "Bonificación"},
	}

	entradas := ArmarEstadoCuenta(nil, nil, nil, pagos, now)
	require.Len(t, entradas, 2)

	assert.True(t, entradas[0].Debe.Equal(decimal.NewFromInt(500)))
	assert.True(t, entradas[0].Haber.IsZero())
	assert.True(t, entradas[1].Haber.Equal(decimal.NewFromInt(300)))
	assert.True(t, entradas[1].Debe.IsZero())
	assert.True(t, entradas[1].Saldo.Equal(decimal.NewFromInt(200)))
}

func TestArmarEstadoCuenta_PrestamoDesembolsoYCuotas(t *testing.T) {
	now := fechaT(t, "2024-06-10")
	desembolso := decimal.NewFromInt(10000)
	fd := fechaT(t, "2024-01-10")
	fc := fechaT(t, "2024-02-10")

	prestamos := []model.Prestamo{{
		Descripcion:     "Materiales de obra",
		MontoDesembolso: &desembolso,
		FechaDesembolso: &fd,
		Cuotas: []model.CuotaPrestamo{
			{Numero: 1, Fecha: &fc, Monto: decimal.NewFromInt(2500), Estado: "pendiente"},
		},
	}}

	entradas := ArmarEstadoCuenta(nil, nil, prestamos, nil, now)
	require.Len(t, entradas, 2)

	assert.Equal(t, EntradaDesembolsoPrestamo, entradas[0].Tipo)
	assert.True(t, entradas[0].Haber.Equal(desembolso))
	assert.Equal(t, EntradaCuotaPrestamo, entradas[1].Tipo)
	assert.True(t, entradas[1].Debe.Equal(decimal.NewFromInt(2500)))
	assert.True(t, entradas[1].Saldo.Equal(decimal.NewFromInt(-7500)))
}

func TestArmarEstadoCuenta_ServicioPrecioAcordadoVsLista(t *testing.T) {
	now := fechaT(t, "2024-06-10")
	f := fechaT(t, "2024-03-01")
	acordado := decimal.NewFromInt(80)

	servicios := []model.ServicioContratado{
		{
			PrecioAcordado: &acordado,
			Fecha:          &f,
			Estado:         "pendiente",
			Servicio:       &model.ServicioCatalogo{Nombre: "Agrimensura", PrecioBase: decimal.NewFromInt(100)},
		},
		{
			Fecha:    &f,
			Estado:   "pendiente",
			Servicio: &model.ServicioCatalogo{Nombre: "Alambrado", PrecioBase: decimal.NewFromInt(100)},
		},
	}

	entradas := ArmarEstadoCuenta(nil, servicios, nil, nil, now)
	require.Len(t, entradas, 2)
	assert.True(t, entradas[0].Debe.Equal(acordado))
	assert.True(t, entradas[1].Debe.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Servicio: Agrimensura", entradas[0].Concepto)
}

func TestArmarEstadoCuenta_Vacio(t *testing.T) {
	entradas := ArmarEstadoCuenta(nil, nil, nil, nil, time.Now())
	assert.Empty(t, entradas)
}

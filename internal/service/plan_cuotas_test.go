package service

import (
	"testing"
	"time"

	"loteparatodos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fechaT(t *testing.T, s string) time.Time {
	t.Helper()
	f, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return f
}

func contratoDePrueba(t *testing.T, cuotas int, inicio string) *model.Contrato {
	t.Helper()
	f := fechaT(t, inicio)
	return &model.Contrato{
		Estado:         model.ContratoActivo,
		PrecioBase:     decimal.NewFromInt(1000000),
		CantidadCuotas: cuotas,
		MontoCuota:     decimal.NewFromInt(100),
		FechaInicio:    &f,
	}
}

func TestArmarPlanCuotas_SieteCuotasDosCiclos(t *testing.T) {
	c := contratoDePrueba(t, 7, "2024-01-01")
	now := fechaT(t, "2024-01-15")

	plan, err := ArmarPlanCuotas(c, now)
	require.NoError(t, err)
	require.Len(t, plan.Ciclos, 2)
	assert.Len(t, plan.Ciclos[0].Cuotas, 6)
	assert.Len(t, plan.Ciclos[1].Cuotas, 1)

	// Vencimientos mensuales por calendario desde la fecha de inicio
	assert.Equal(t, fechaT(t, "2024-02-01"), plan.Ciclos[0].Cuotas[0].Fecha)
	assert.Equal(t, fechaT(t, "2024-08-01"), plan.Ciclos[1].Cuotas[0].Fecha)
}

func TestArmarPlanCuotas_CantidadTotalDeCuotas(t *testing.T) {
	for _, n := range []int{1, 5, 6, 7, 12, 13, 24} {
		c := contratoDePrueba(t, n, "2024-01-01")
		plan, err := ArmarPlanCuotas(c, fechaT(t, "2024-01-02"))
		require.NoError(t, err)

		total := 0
		for _, ciclo := range plan.Ciclos {
			total += len(ciclo.Cuotas)
			assert.LessOrEqual(t, len(ciclo.Cuotas), CuotasPorCiclo)
		}
		assert.Equal(t, n, total, "cuotas=%d", n)

		esperado := (n + CuotasPorCiclo - 1) / CuotasPorCiclo
		assert.Len(t, plan.Ciclos, esperado, "cuotas=%d", n)
	}
}

func TestArmarPlanCuotas_EstadosPorFecha(t *testing.T) {
	c := contratoDePrueba(t, 7, "2024-01-01")
	now := fechaT(t, "2024-05-15")

	plan, err := ArmarPlanCuotas(c, now)
	require.NoError(t, err)

	cuotas := plan.Ciclos[0].Cuotas
	// Las dos primeras de un contrato activo se asumen cobradas
	assert.Equal(t, CuotaPagada, cuotas[0].Estado)
	assert.Equal(t, CuotaPagada, cuotas[1].Estado)
	// Vencieron el 1/4 y el 1/5
	assert.Equal(t, CuotaVencida, cuotas[2].Estado)
	assert.Equal(t, CuotaVencida, cuotas[3].Estado)
	// Futuras
	assert.Equal(t, CuotaPendiente, cuotas[4].Estado)
	assert.Equal(t, CuotaPendiente, cuotas[5].Estado)

	assert.Equal(t, CicloConVencidas, plan.Ciclos[0].Estado)
	assert.Equal(t, CicloPendiente, plan.Ciclos[1].Estado)
}

func TestArmarPlanCuotas_ContratoCompletadoTodoPagado(t *testing.T) {
	c := contratoDePrueba(t, 12, "2020-01-01")
	c.Estado = model.ContratoCompletado

	plan, err := ArmarPlanCuotas(c, fechaT(t, "2024-05-15"))
	require.NoError(t, err)
	for _, ciclo := range plan.Ciclos {
		assert.Equal(t, CicloCompletado, ciclo.Estado)
		assert.Equal(t, ciclo.CuotasTotal, ciclo.CuotasPagadas)
		assert.True(t, ciclo.MontoPagado.Equal(ciclo.MontoTotal))
	}
}

func TestArmarPlanCuotas_AgregadosDeCiclo(t *testing.T) {
	c := contratoDePrueba(t, 6, "2024-01-01")
	plan, err := ArmarPlanCuotas(c, fechaT(t, "2024-03-15"))
	require.NoError(t, err)

	ciclo := plan.Ciclos[0]
	assert.Equal(t, 6, ciclo.CuotasTotal)
	assert.Equal(t, 2, ciclo.CuotasPagadas)
	assert.True(t, ciclo.MontoPagado.Equal(decimal.NewFromInt(200)))
	assert.True(t, ciclo.MontoTotal.Equal(decimal.NewFromInt(600)))
}

func TestArmarPlanCuotas_CuotasSinFechaInicio(t *testing.T) {
	c := contratoDePrueba(t, 7, "2024-01-01")
	c.FechaInicio = nil

	_, err := ArmarPlanCuotas(c, fechaT(t, "2024-01-15"))
	require.Error(t, err)

	var invErr *InvalidContractError
	require.ErrorAs(t, err, &invErr)
}

func TestArmarPlanCuotas_SinCuotasPactadas(t *testing.T) {
	// Venta de contado: sin cuotas no hace falta fecha de inicio
	c := &model.Contrato{
		Estado:         model.ContratoActivo,
		EntregaInicial: decimal.NewFromInt(50000),
	}
	plan, err := ArmarPlanCuotas(c, fechaT(t, "2024-01-15"))
	require.NoError(t, err)
	assert.Empty(t, plan.Ciclos)
	require.NotNil(t, plan.EntregaInicial)
	assert.True(t, plan.EntregaInicial.Debe.Equal(decimal.NewFromInt(50000)))
	assert.Nil(t, plan.Anticipo)
}

func TestArmarPlanCuotas_EntradasSinteticas(t *testing.T) {
	c := contratoDePrueba(t, 6, "2024-01-01")
	c.EntregaInicial = decimal.NewFromInt(20000)
	c.Anticipo = decimal.NewFromInt(5000)

	plan, err := ArmarPlanCuotas(c, fechaT(t, "2024-01-15"))
	require.NoError(t, err)
	require.NotNil(t, plan.EntregaInicial)
	require.NotNil(t, plan.Anticipo)
	assert.Equal(t, EntradaEntregaInicial, plan.EntregaInicial.Tipo)
	assert.Equal(t, EntradaAnticipo, plan.Anticipo.Tipo)
	assert.Equal(t, fechaT(t, "2024-01-01"), plan.Anticipo.Fecha)
	assert.Equal(t, CuotaPagada, plan.EntregaInicial.Estado)
}

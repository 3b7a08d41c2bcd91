package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"loteparatodos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRetryBackoff(t *testing.T) {
	casos := []struct {
		intento  int
		esperado time.Duration
	}{
		{0, time.Minute}, // normalizado a 1
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
		{5, 16 * time.Minute},
		{6, 30 * time.Minute}, // 32m supera el tope
		{10, 30 * time.Minute},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, computeRetryBackoff(c.intento), "intento %d", c.intento)
	}
}

func TestWithRetry_ExitoTrasFallos(t *testing.T) {
	intentos := 0
	err := withRetry(context.Background(), 3, func(attempt int) error {
		intentos++
		if attempt < 2 {
			return errors.New("transitorio")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, intentos)
}

func TestWithRetry_AgotaIntentos(t *testing.T) {
	falla := errors.New("permanente")
	err := withRetry(context.Background(), 2, func(int) error { return falla })
	assert.ErrorIs(t, err, falla)
}

func TestWithRetry_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := withRetry(ctx, 3, func(int) error { return errors.New("transitorio") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildNotificacion(t *testing.T) {
	tel := "+54 9 351 555 0000"
	contrato := &model.Contrato{
		ID:      uuid.New(),
		Cliente: &model.Cliente{Nombre: "Juana Pérez", Telefono: &tel},
	}
	pago := &model.Pago{
		Tipo:  model.PagoCuota,
		Monto: decimal.NewFromInt(75000),
	}
	recibo := &model.Recibo{ID: uuid.New()}

	p := buildNotificacion(recibo, pago, contrato)
	assert.Equal(t, recibo.ID.String(), p.ReciboID)
	assert.Equal(t, contrato.ID.String(), p.ContratoID)
	assert.Equal(t, "Pago cuota", p.Concepto)
	assert.Equal(t, "Juana Pérez", p.Cliente)
	require.NotNil(t, p.Telefono)
	assert.Equal(t, tel, *p.Telefono)
	assert.InDelta(t, 75000, p.Monto, 0.001)
}

func TestBuildNotificacion_ConceptoExplicito(t *testing.T) {
	contrato := &model.Contrato{ID: uuid.New()}
	pago := &model.Pago{
		Tipo:        model.PagoServicio,
		Monto:       decimal.NewFromInt(500),
		Descripcion: "Agrimensura lote A-12",
	}
	p := buildNotificacion(&model.Recibo{ID: uuid.New()}, pago, contrato)
	assert.Equal(t, "Agrimensura lote A-12", p.Concepto)
	assert.Empty(t, p.Cliente)
	assert.Nil(t, p.Telefono)
}

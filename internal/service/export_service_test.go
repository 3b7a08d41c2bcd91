package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupExportTest(t *testing.T) (ExportService, uuid.UUID) {
	t.Helper()
	env := setupContratoTest(t, "2024-05-15")
	creado := crearContratoDePrueba(t, env)
	id := uuid.MustParse(creado.ID)

	// Conceptos con comas y comillas: el formato debe sobrevivirlos
	f := fechaT(t, "2024-02-05")
	require.NoError(t, env.pagoRepo.Create(context.Background(), nil, &model.Pago{
		ContratoID:  id,
		Tipo:        model.PagoAjuste,
		Monto:       decimal.NewFromInt(500),
		Fecha:       &f,
		Estado:      "confirmado",
		Descripcion: `Interés, mora y gastos "varios"`,
	}))

	return NewExportService(env.svc), id
}

func TestEstadoCuentaCSV_FormatoValido(t *testing.T) {
	svc, id := setupExportTest(t)

	data, err := svc.EstadoCuentaCSV(context.Background(), id)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	// encabezado + entrega inicial + 12 cuotas + ajuste
	require.Len(t, records, 15)
	assert.Equal(t, estadoCuentaColumnas, records[0])
	for _, rec := range records {
		assert.Len(t, rec, len(estadoCuentaColumnas))
	}
}

func TestEstadoCuentaCSV_EscapaComasYComillas(t *testing.T) {
	svc, id := setupExportTest(t)

	data, err := svc.EstadoCuentaCSV(context.Background(), id)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	var conceptos []string
	for _, rec := range records[1:] {
		conceptos = append(conceptos, rec[2])
	}
	// El concepto vuelve intacto tras el round-trip por el parser
	assert.Contains(t, conceptos, `Interés, mora y gastos "varios"`)
}

func TestEstadoCuentaXLSX_HojaYFilas(t *testing.T) {
	svc, id := setupExportTest(t)

	data, err := svc.EstadoCuentaXLSX(context.Background(), id)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("EstadoCuenta")
	require.NoError(t, err)
	require.Len(t, rows, 15)
	assert.Equal(t, estadoCuentaColumnas, rows[0])
}

func TestEstadoCuentaCSV_ContratoInexistente(t *testing.T) {
	svc, _ := setupExportTest(t)

	_, err := svc.EstadoCuentaCSV(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestContratosCSV_ListadoCompleto(t *testing.T) {
	svc, id := setupExportTest(t)

	data, err := svc.ContratosCSV(context.Background(), dto.ContratoFilter{Estado: "all"})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, contratosColumnas, records[0])
	assert.Equal(t, id.String(), records[1][0])
	assert.Equal(t, "activo", records[1][8])
}

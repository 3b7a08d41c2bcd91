package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"loteparatodos/internal/dto"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ExportService aplana el estado de cuenta de un contrato a CSV o XLSX.
//
// El CSV sale por encoding/csv, que escapa comillas y comas embebidas según
// RFC 4180. La exportación anterior concatenaba campos a mano y rompía el
// archivo ante un concepto con comas.
type ExportService interface {
	EstadoCuentaCSV(ctx context.Context, contratoID uuid.UUID) ([]byte, error)
	EstadoCuentaXLSX(ctx context.Context, contratoID uuid.UUID) ([]byte, error)
	ContratosCSV(ctx context.Context, filter dto.ContratoFilter) ([]byte, error)
}

type exportService struct {
	contratos ContratoService
}

func NewExportService(contratos ContratoService) ExportService {
	return &exportService{contratos: contratos}
}

const exportPageSize = 200

var estadoCuentaColumnas = []string{
	"fecha", "tipo", "concepto", "debe", "haber", "estado", "alerta", "saldo",
}

func (s *exportService) EstadoCuentaCSV(ctx context.Context, contratoID uuid.UUID) ([]byte, error) {
	estado, err := s.contratos.EstadoCuenta(ctx, contratoID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(estadoCuentaColumnas); err != nil {
		return nil, err
	}
	for _, e := range estado.Entradas {
		if err := w.Write(filaEstadoCuenta(e)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) EstadoCuentaXLSX(ctx context.Context, contratoID uuid.UUID) ([]byte, error) {
	estado, err := s.contratos.EstadoCuenta(ctx, contratoID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "EstadoCuenta"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for col, titulo := range estadoCuentaColumnas {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, titulo); err != nil {
			return nil, err
		}
	}
	for row, e := range estado.Entradas {
		for col, valor := range filaEstadoCuenta(e) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, valor); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

var contratosColumnas = []string{
	"id", "emprendimiento", "lote", "cliente", "precio_base",
	"cantidad_cuotas", "monto_cuota", "fecha_inicio", "estado",
}

// ContratosCSV vuelca el listado filtrado de contratos, sin paginar.
func (s *exportService) ContratosCSV(ctx context.Context, filter dto.ContratoFilter) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(contratosColumnas); err != nil {
		return nil, err
	}

	filter.Page = 1
	filter.Limit = exportPageSize
	for {
		lista, err := s.contratos.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, c := range lista.Data {
			fechaInicio := ""
			if c.FechaInicio != nil {
				fechaInicio = *c.FechaInicio
			}
			fila := []string{
				c.ID,
				c.Emprendimiento,
				c.LoteNumero,
				c.ClienteNombre,
				c.PrecioBase.String(),
				fmt.Sprintf("%d", c.CantidadCuotas),
				c.MontoCuota.String(),
				fechaInicio,
				c.Estado,
			}
			if err := w.Write(fila); err != nil {
				return nil, err
			}
		}
		if len(lista.Data) < exportPageSize {
			break
		}
		filter.Page++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func filaEstadoCuenta(e dto.EntradaCuentaResponse) []string {
	fecha := ""
	if e.Fecha != nil {
		fecha = *e.Fecha
	}
	return []string{
		fecha,
		e.Tipo,
		e.Concepto,
		e.Debe.String(),
		e.Haber.String(),
		e.Estado,
		e.Alerta,
		e.Saldo.String(),
	}
}

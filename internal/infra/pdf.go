package infra

// pdf.go — Recibo PDF generation using go-pdf/fpdf.
// Generates A7-size receipt-style documents with:
//   - Business name header
//   - Recibo number and timestamp
//   - Contract / client reference
//   - Payment concept and bold amount

import (
	"fmt"
	"os"
	"path/filepath"

	"loteparatodos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF renders the receipt for a Pago into storagePath.
// The directory is created if needed. Returns the absolute path of the file.
func GenerateReciboPDF(recibo *model.Recibo, pago *model.Pago, contrato *model.Contrato, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", recibo.ID)
	if recibo.Numero != nil {
		fileName = fmt.Sprintf("recibo_%d.pdf", *recibo.Numero)
	}
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm (custom size, "A7" is not in fpdf's named list)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Lote Para Todos", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Recibo de Pago", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Recibo info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	if recibo.Numero != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Recibo N° %d", *recibo.Numero), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(contentW, 5, "Recibo "+recibo.ID.String()[:8], "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, recibo.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Contrato / cliente ───────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if contrato != nil {
		if contrato.Cliente != nil {
			pdf.CellFormat(contentW, 4, "Cliente: "+contrato.Cliente.Nombre, "", 1, "L", false, 0, "")
			pdf.CellFormat(contentW, 4, "DNI: "+contrato.Cliente.DNI, "", 1, "L", false, 0, "")
		}
		if contrato.Lote != nil {
			lote := "Lote " + contrato.Lote.Numero
			if contrato.Lote.Emprendimiento != nil {
				lote += " — " + contrato.Lote.Emprendimiento.Nombre
			}
			pdf.CellFormat(contentW, 4, lote, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(2)

	// ── Concepto y monto ─────────────────────────────────────────────────────
	if pago != nil {
		concepto := pago.Descripcion
		if concepto == "" {
			concepto = "Pago " + pago.Tipo
		}
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 5, concepto, "", 1, "L", false, 0, "")
	}

	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(4, pdf.GetY()+1, pageW-4, pdf.GetY()+1)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("TOTAL  $ %s", recibo.Monto.StringFixed(2)), "", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.CellFormat(contentW, 4, "Documento no fiscal", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

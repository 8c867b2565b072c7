package infra

// Closing report PDF for a cash-register session, using go-pdf/fpdf.
// A5 landscape sheet with the opening/closing data, the reconciliation block
// (monto sistema, declarado, diferencia) and one row per sale.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmbruno/Ananda/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateCajaReportPDF writes the closing report for a caja session and
// returns the absolute path of the generated file.
func GenerateCajaReportPDF(caja *model.Caja, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("caja_%s.pdf", caja.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Ananda Sistema", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Reporte de Cierre de Caja", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Session data ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Apertura: %s", caja.FechaApertura.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	if caja.FechaCierre != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Cierre: %s", caja.FechaCierre.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	if caja.UsuarioApertura != nil {
		pdf.CellFormat(contentW, 5, "Abierta por: "+caja.UsuarioApertura.NombreCompleto(), "", 1, "L", false, 0, "")
	}
	if caja.UsuarioCierre != nil {
		pdf.CellFormat(contentW, 5, "Cerrada por: "+caja.UsuarioCierre.NombreCompleto(), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Estado: "+caja.Estado, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Reconciliation block ─────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Arqueo", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	writeMonto := func(label string, v *decimal.Decimal) {
		val := "-"
		if v != nil {
			val = "$" + v.StringFixed(2)
		}
		pdf.CellFormat(contentW/2, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 5, val, "", 1, "R", false, 0, "")
	}
	inicial := caja.MontoInicial
	writeMonto("Monto inicial", &inicial)
	writeMonto("Monto sistema", caja.MontoSistema)
	writeMonto("Monto declarado", caja.MontoDeclarado)
	writeMonto("Diferencia", caja.Diferencia)
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Sales table ──────────────────────────────────────────────────────────
	col1 := contentW * 0.30
	col2 := contentW * 0.30
	col3 := contentW * 0.20
	col4 := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Hora", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cliente", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "Pago", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, v := range caja.Ventas {
		cliente := ""
		if v.Cliente != nil {
			cliente = v.Cliente.Nombre + " " + v.Cliente.Apellido
		}
		if len(cliente) > 24 {
			cliente = cliente[:23] + "…"
		}
		pdf.CellFormat(col1, 5, v.FechaVenta.Format("02/01 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, cliente, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, v.MetodoPago, "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 5, "$"+v.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

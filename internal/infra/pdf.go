package infra

// pdf.go — pick-list generation using go-pdf/fpdf. One A4 page (or more)
// listing every component line of a production order: product code, quantity
// required, quantity locked, outstanding shortfall.

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
)

// PickListLine is one row of the pick list: a detail joined with its item code.
type PickListLine struct {
	Code     string
	Required int
	Locked   int
}

// GeneratePickListPDF renders the pick list for an order and returns the raw
// PDF bytes. Callers stream them straight to the client.
func GeneratePickListPDF(order *model.ProductionOrder, productCode string, lines []PickListLine) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "LiteERP — Production Pick List", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Order #%d — product %s", order.ID, productCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Date: %s    Status: %s    Requested: %d    Produced: %d",
		order.Date.Format("2006-01-02"), order.Status, order.QuantityRequested, order.QuantityProduced), "", 1, "L", false, 0, "")
	if order.Notes != nil && *order.Notes != "" {
		pdf.CellFormat(contentW, 6, "Notes: "+*order.Notes, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // component code
	col2 := contentW * 0.20 // required
	col3 := contentW * 0.20 // locked
	col4 := contentW * 0.20 // short

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "Component", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Required", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 7, "Locked", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Short", "B", 1, "R", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range lines {
		pdf.CellFormat(col1, 6, l.Code, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", l.Required), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, fmt.Sprintf("%d", l.Locked), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, fmt.Sprintf("%d", l.Required-l.Locked), "", 1, "R", false, 0, "")
	}

	if len(lines) == 0 {
		pdf.CellFormat(contentW, 6, "No component lines (leaf product).", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render pick list: %w", err)
	}
	return buf.Bytes(), nil
}

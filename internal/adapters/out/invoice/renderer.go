// Package invoice renders order invoices as single page A4 PDFs.
package invoice

import (
	"bytes"
	"context"
	"fmt"

	"compliance/internal/core/ports"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	labelWidth = 50
	valueWidth = 130
	lineHeight = 8
)

var _ ports.InvoiceRenderer = &Renderer{}

type Renderer struct {
	compress bool
}

func NewRenderer() *Renderer {
	return &Renderer{compress: true}
}

func (r *Renderer) Render(ctx context.Context, inv ports.Invoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle("Invoice "+inv.Number, true)
	pdf.SetAuthor(inv.Issuer, true)
	pdf.SetCreationDate(inv.IssuedAt)
	pdf.SetModificationDate(inv.IssuedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 12, tr(inv.Issuer), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 12)
	pdf.CellFormat(0, lineHeight, "Tax invoice", "", 1, "L", false, 0, "")
	pdf.Ln(lineHeight)

	rows := [][2]string{
		{"Invoice number", inv.Number},
		{"Issued", inv.IssuedAt.UTC().Format("02 Jan 2006")},
		{"Order", inv.OrderID},
		{"Customer", inv.CustomerEmail},
		{"Payment reference", inv.PaymentID},
		{"Paid on", inv.PaidAt.UTC().Format("02 Jan 2006 15:04 MST")},
	}
	for _, row := range rows {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(labelWidth, lineHeight, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(valueWidth, lineHeight, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(lineHeight)

	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(valueWidth, lineHeight, "Service", "1", 0, "L", true, 0, "")
	pdf.CellFormat(labelWidth, lineHeight, "Amount ("+inv.Currency+")", "1", 1, "R", true, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(valueWidth, lineHeight, tr(inv.ServiceName), "1", 0, "L", false, 0, "")
	pdf.CellFormat(labelWidth, lineHeight, inv.Amount, "1", 1, "R", false, 0, "")
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(valueWidth, lineHeight, "Total paid", "1", 0, "R", false, 0, "")
	pdf.CellFormat(labelWidth, lineHeight, inv.Amount+" "+inv.Currency, "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package render

import (
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// WritePDF renders doc as a single-column A4 PDF at outPath. Highlighted
// spans are set in bold. Text is encoded to Windows-1252 for the core fonts;
// characters outside it are replaced.
func WritePDF(doc Document, outPath string) error {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	conv := func(s string) string {
		out, err := enc.String(s)
		if err != nil {
			return s
		}
		return out
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(conv("Summary"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, conv("Summary"), "", 1, "L", false, 0, "")
	if doc.Source != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 5, conv("Source: "+doc.Source), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	if doc.Original != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, conv(Preview(doc.Original)), "", "L", false)
		pdf.Ln(4)
	}

	for _, line := range doc.Lines {
		pdf.SetFont("Helvetica", "", 11)
		pdf.Write(6, conv("• "))
		for _, r := range Runs(line) {
			style := ""
			if r.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 11)
			pdf.Write(6, conv(r.Text))
		}
		pdf.Ln(8)
	}
	return pdf.OutputFileAndClose(outPath)
}

package renderer

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
)

// Layout in points on US letter.
const (
	inch   = 72.0
	margin = 72.0

	titleSize   = 20.0
	headingSize = 14.0
	bodySize    = 10.0
	headerSize  = 10.0
	footerSize  = 9.0

	headingBefore = 12.0
	headingAfter  = 6.0
	bodyLeading   = 12.0
	bulletIndent  = 18.0
	listAfter     = 0.15 * inch
	conclusionGap = 0.3 * inch

	footerY      = 20.0
	footerLeftX  = 40.0
	footerRightX = 550.0
)

func (r *implRenderer) RenderPDF(doc Document, meta metadata.ClassMetadata, w io.Writer) error {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageH := pdf.GetPageSize()
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", footerSize)
		pdf.Text(footerLeftX, pageH-footerY, tr(r.credit))
		page := fmt.Sprintf("Page %d", pdf.PageNo())
		pdf.Text(footerRightX-pdf.GetStringWidth(page), pageH-footerY, page)
	})

	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Helvetica", "B", titleSize)
		pdf.MultiCell(0, titleSize*1.2, tr(doc.Title), "", "C", false)
		pdf.Ln(4)
	}

	writeHeaderTable(pdf, tr, meta)

	for _, b := range doc.Blocks {
		switch b.Kind {
		case BlockHeading:
			writeHeading(pdf, tr, b.Text)
		case BlockBullets:
			writeBullets(pdf, tr, b.Items)
			pdf.Ln(listAfter)
		case BlockParagraph:
			writeParagraph(pdf, tr, b.Text)
		}
	}

	if doc.TLDR != "" {
		pdf.Ln(conclusionGap)
		writeHeading(pdf, tr, conclusionHeading)
		writeParagraph(pdf, tr, doc.TLDR)
	}

	if err := pdf.Output(w); err != nil {
		return apperr.NewRenderFailure("could not render PDF", err)
	}
	return nil
}

// writeHeaderTable draws the two-cell course/date row under the title.
func writeHeaderTable(pdf *gofpdf.Fpdf, tr func(string) string, meta metadata.ClassMetadata) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / 2

	pdf.SetFont("Helvetica", "B", headerSize)
	pdf.CellFormat(colW, headerSize+4, tr("Course: "+meta.CourseName), "", 0, "L", false, 0, "")
	pdf.CellFormat(colW, headerSize+4, tr(meta.Date), "", 1, "R", false, 0, "")
}

func writeHeading(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.Ln(headingBefore)
	pdf.SetFont("Helvetica", "B", headingSize)
	pdf.MultiCell(0, headingSize*1.2, tr(text), "", "L", false)
	pdf.Ln(headingAfter)
}

func writeParagraph(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.MultiCell(0, bodyLeading, tr(text), "", "L", false)
}

// writeBullets draws each item after a bullet glyph; wrapped lines hang at the
// text indent.
func writeBullets(pdf *gofpdf.Fpdf, tr func(string) string, items []string) {
	pdf.SetFont("Helvetica", "", bodySize)
	for _, item := range items {
		pdf.CellFormat(bulletIndent, bodyLeading, tr("•"), "", 0, "C", false, 0, "")
		pdf.MultiCell(0, bodyLeading, tr(item), "", "L", false)
	}
}

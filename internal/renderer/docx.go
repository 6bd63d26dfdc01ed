package renderer

import (
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
)

const (
	docxFont        = "Times New Roman"
	docxBodySize    = 12
	docxHeadingSize = 14
	docxTitleSize   = 20
)

func (r *implRenderer) RenderDOCX(doc Document, meta metadata.ClassMetadata, path string) error {
	d, err := godocx.NewDocument()
	if err != nil {
		return apperr.NewRenderFailure("could not create DOCX", err)
	}

	if doc.Title != "" {
		addStyledRun(d.AddParagraph(""), doc.Title, true, docxTitleSize)
	}
	addStyledRun(d.AddParagraph(""), "Course: "+meta.CourseName+"    "+meta.Date, true, docxBodySize)

	for _, b := range doc.Blocks {
		switch b.Kind {
		case BlockHeading:
			addStyledRun(d.AddParagraph(""), b.Text, true, docxHeadingSize)
		case BlockBullets:
			for _, item := range b.Items {
				addStyledRun(d.AddParagraph(""), "• "+item, false, docxBodySize)
			}
		case BlockParagraph:
			addStyledRun(d.AddParagraph(""), b.Text, false, docxBodySize)
		}
	}

	if doc.TLDR != "" {
		d.AddParagraph("")
		addStyledRun(d.AddParagraph(""), conclusionHeading, true, docxHeadingSize)
		addStyledRun(d.AddParagraph(""), doc.TLDR, false, docxBodySize)
	}

	addStyledRun(d.AddParagraph(""), r.credit, false, 9)

	if err := d.SaveTo(path); err != nil {
		return apperr.NewRenderFailure("could not write DOCX", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(docxFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

package renderer

import (
	"io"

	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
)

// Renderer lays out a parsed summary as a document.
type Renderer interface {
	// RenderPDF writes a paginated US-letter PDF to w.
	RenderPDF(doc Document, meta metadata.ClassMetadata, w io.Writer) error
	// RenderDOCX writes the same block model as a Word document at path.
	RenderDOCX(doc Document, meta metadata.ClassMetadata, path string) error
}

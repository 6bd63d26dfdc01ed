package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/lecture-flow/internal/audiostore"
	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
	"github.com/nguyentantai21042004/lecture-flow/internal/renderer"
	"github.com/nguyentantai21042004/lecture-flow/internal/summarizer"
)

// defaultClass receives summaries of transcripts whose class is unknown and
// no valid class is selected.
const defaultClass = "General"

func (p *implProcessor) Summarize(ctx context.Context, transcriptPath, class string) (*Artifacts, error) {
	if class == "" {
		class = classFromPath(transcriptPath, "transcripts")
	}
	ctx, r := p.startRun(ctx, nil)
	return p.summarize(ctx, r, transcriptPath, class)
}

func (p *implProcessor) summarize(ctx context.Context, r *run, transcriptPath, class string) (*Artifacts, error) {
	start := time.Now()
	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = apperr.NewNotFound(transcriptPath)
		} else {
			err = apperr.NewInternal("could not read transcript", err)
		}
		p.finish(ctx, r, StageSummarized, start, err, "")
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	if class == "" {
		class = p.selectedClass(ctx)
	}

	// Metadata lookup is local and cheap; it runs alongside the backend call.
	var (
		meta   metadata.ClassMetadata
		result summarizer.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meta = p.resolver.Resolve(gctx, class)
		return nil
	})
	g.Go(func() error {
		var err error
		result, err = p.summarizer.Summarize(gctx, string(data))
		return err
	})
	err = g.Wait()

	p.finish(ctx, r, StageSummarized, start, err, summaryMessage(result))
	if err != nil {
		if result.Degraded {
			r.report.Preview = result.Text
			return &Artifacts{Preview: result.Text}, fmt.Errorf("summarize: %w", err)
		}
		return nil, fmt.Errorf("summarize: %w", err)
	}
	if !result.Validation.Conforming() {
		p.logger.Warn(ctx, "Summary structure issues: %s", strings.Join(result.Validation.Issues(), "; "))
	}

	start = time.Now()
	artifacts, err := p.render(ctx, class, meta, result)
	okMessage := ""
	if artifacts != nil {
		okMessage = "Summary saved: " + filepath.Base(artifacts.PDFPath)
	}
	p.finish(ctx, r, StageRendered, start, err, okMessage)
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}

	r.report.Summary = artifacts
	return artifacts, nil
}

// selectedClass is the class a transcript without one is filed under: the
// selected class, so folder and metadata agree.
func (p *implProcessor) selectedClass(ctx context.Context) string {
	class := p.resolver.SelectedClass(ctx)
	if err := audiostore.ValidateClassName(class); err != nil {
		p.logger.Warn(ctx, "Selected class %q is not a valid folder name, using %s", class, defaultClass)
		return defaultClass
	}
	return class
}

// render lays out the summary and stores it as <course>_<MM-DD-YY>.{txt,pdf}.
// The PDF is built in memory first so a layout failure writes nothing.
func (p *implProcessor) render(ctx context.Context, class string, meta metadata.ClassMetadata, result summarizer.Result) (*Artifacts, error) {
	if _, err := p.store.EnsureClassDir(class); err != nil {
		return nil, err
	}
	dir := p.store.SummaryDir(class)
	base := metadata.SummaryBaseName(meta, p.now())
	doc := renderer.Parse(result.Text)

	var pdf bytes.Buffer
	if err := p.renderer.RenderPDF(doc, meta, &pdf); err != nil {
		return nil, err
	}

	a := &Artifacts{
		TextPath:   filepath.Join(dir, base+".txt"),
		PDFPath:    filepath.Join(dir, base+".pdf"),
		Backend:    result.Backend,
		Conforming: result.Validation.Conforming(),
		Issues:     result.Validation.Issues(),
	}
	if err := writePair(a.TextPath, []byte(result.Text), a.PDFPath, pdf.Bytes()); err != nil {
		return nil, apperr.NewInternal("could not save summary", err)
	}

	if p.docx {
		path := filepath.Join(dir, base+".docx")
		if err := p.writeDOCX(doc, meta, path); err != nil {
			p.logger.Warn(ctx, "Failed to export DOCX %s: %v", path, err)
		} else {
			a.DOCXPath = path
		}
	}
	return a, nil
}

func summaryMessage(result summarizer.Result) string {
	msg := "Summary generated by " + result.Backend
	if !result.Validation.Conforming() {
		msg += " (structure issues: " + strings.Join(result.Validation.Issues(), "; ") + ")"
	}
	return msg
}

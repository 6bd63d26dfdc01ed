package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/audiostore"
	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
	"github.com/nguyentantai21042004/lecture-flow/internal/formatter"
)

// Process orchestrates the entire pipeline for one recording. Stages up to the
// stored transcript abort the run on failure; a failed summary or render leaves
// the transcript in place.
func (p *implProcessor) Process(ctx context.Context, req Request) (*Report, error) {
	ctx, r := p.startRun(ctx, req.OnStatus)
	startTime := time.Now()

	filename := req.Filename
	if filename == "" {
		filename = filepath.Base(req.SourcePath)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting pipeline: %s (class %s)", filename, req.Class)
	p.logger.Info(ctx, "========================================")

	// Step 1: Save audio
	start := time.Now()
	audioPath, err := p.store.SaveAudioFile(req.SourcePath, filename, req.Class)
	p.finish(ctx, r, StageSaved, start, err, "Audio saved: "+filename)
	if err != nil {
		return r.report, fmt.Errorf("save audio: %w", err)
	}
	r.report.AudioPath = audioPath

	// Steps 2-3: Transcribe, format and store the transcript
	transcriptPath, err := p.transcribe(ctx, r, audioPath, req.Class)
	if err != nil {
		return r.report, err
	}

	// Steps 4-5: Summarize and render
	if _, err := p.summarize(ctx, r, transcriptPath, req.Class); err != nil {
		return r.report, err
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Pipeline completed in %s", time.Since(startTime).Round(time.Millisecond))
	p.logger.Info(ctx, "Transcript: %s", transcriptPath)
	p.logger.Info(ctx, "Summary: %s", r.report.Summary.PDFPath)
	p.logger.Info(ctx, "========================================")
	return r.report, nil
}

func (p *implProcessor) Transcribe(ctx context.Context, audioPath, class string) (string, error) {
	if class == "" {
		class = classFromPath(audioPath, "audio")
	}
	if class == "" {
		return "", apperr.NewValidation("class name is required")
	}
	ctx, r := p.startRun(ctx, nil)
	return p.transcribe(ctx, r, audioPath, class)
}

func (p *implProcessor) transcribe(ctx context.Context, r *run, audioPath, class string) (string, error) {
	start := time.Now()
	raw, err := p.transcriber.TranscribeFile(ctx, audioPath)
	p.finish(ctx, r, StageTranscribed, start, err, "Transcription complete")
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	start = time.Now()
	formatted := formatter.Format(raw)
	transcriptPath, err := p.persistTranscript(class, audioPath, formatted)
	p.finish(ctx, r, StagePersisted, start, err,
		fmt.Sprintf("Transcript saved: %s (%d sentences)", filepath.Base(transcriptPath), formatter.CountSentences(formatted)))
	if err != nil {
		return "", fmt.Errorf("persist transcript: %w", err)
	}
	r.report.TranscriptPath = transcriptPath
	return transcriptPath, nil
}

// persistTranscript writes <class>/transcripts/<stem>.txt, replacing any earlier
// transcript of the same audio.
func (p *implProcessor) persistTranscript(class, audioPath, formatted string) (string, error) {
	if strings.TrimSpace(formatted) == "" {
		return "", apperr.NewBackendFailure("empty transcript", nil)
	}
	if _, err := p.store.EnsureClassDir(class); err != nil {
		return "", err
	}
	path := p.store.TranscriptPath(class, filepath.Base(audioPath))
	if err := writeFileAtomic(path, []byte(formatted)); err != nil {
		return "", apperr.NewInternal("could not save transcript", err)
	}
	return path, nil
}

// classFromPath recovers the class of a file stored at <root>/<class>/<sub>/<file>.
func classFromPath(path, sub string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) != sub {
		return ""
	}
	class := filepath.Base(filepath.Dir(dir))
	if audiostore.ValidateClassName(class) != nil {
		return ""
	}
	return class
}

package processor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/audiostore"
	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
	"github.com/nguyentantai21042004/lecture-flow/internal/metrics"
	"github.com/nguyentantai21042004/lecture-flow/internal/renderer"
	"github.com/nguyentantai21042004/lecture-flow/internal/summarizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryText = `Title: Search Algorithms
TL;DR: Heuristics make search faster.
Discussion:
- BFS explores level by level.
Implications:
- Good heuristics cut search time.
Advice/Actions:
- Practice A* by hand.`

var fixedNow = time.Date(2025, 9, 3, 10, 0, 0, 0, time.UTC)

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) TranscribeFile(ctx context.Context, path string) (string, error) {
	f.calls++
	if _, err := os.Stat(path); err != nil {
		return "", apperr.NewNotFound(path)
	}
	return f.text, f.err
}

func (f *fakeTranscriber) Close() error { return nil }

type fakeBackend struct {
	out string
	err error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(ctx context.Context, prompt string, cfg summarizer.GenerationConfig) (string, error) {
	return f.out, f.err
}

// failingRenderer breaks PDF layout and delegates everything else.
type failingRenderer struct {
	renderer.Renderer
}

func (failingRenderer) RenderPDF(doc renderer.Document, meta metadata.ClassMetadata, w io.Writer) error {
	return apperr.NewRenderFailure("could not render PDF", errors.New("layout exploded"))
}

type fixture struct {
	root        string
	store       audiostore.Store
	transcriber *fakeTranscriber
	backend     *fakeBackend
	metrics     *metrics.Metrics
	deps        Dependencies
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	classData := filepath.Join(dir, "class_data.json")
	require.NoError(t, os.WriteFile(classData, []byte(`{
		"classes": {"CS101": {"course_name": "Intro to AI", "class_code": "CS 101", "date": "09/03/25"}},
		"current_classes": {"selected": "CS101"}
	}`), 0644))

	f := &fixture{
		root:        filepath.Join(dir, "classes"),
		transcriber: &fakeTranscriber{text: "Hello there. This is AI! Right?"},
		backend:     &fakeBackend{out: summaryText},
		metrics:     metrics.New(),
	}
	f.store = audiostore.New(f.root)
	log := logger.NewNop()
	f.deps = Dependencies{
		Store:       f.store,
		Transcriber: f.transcriber,
		Summarizer:  summarizer.New([]summarizer.Backend{f.backend}, log, summarizer.WithObserver(f.metrics.ObserveBackend)),
		Resolver:    metadata.New([]string{classData}, log, metadata.WithClock(func() time.Time { return fixedNow })),
		Renderer:    renderer.New(""),
		Metrics:     f.metrics,
		Logger:      log,
	}
	return f
}

func (f *fixture) processor(opts ...Option) Processor {
	return New(f.deps, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func writeUpload(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0644))
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func stages(statuses []Status) []Stage {
	out := make([]Stage, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.Stage)
	}
	return out
}

func TestProcess(t *testing.T) {
	f := newFixture(t)
	var seen []Status

	report, err := f.processor().Process(context.Background(), Request{
		SourcePath: writeUpload(t, "upload.tmp"),
		Filename:   "lecture1.mp3",
		Class:      "CS101",
		OnStatus:   func(s Status) { seen = append(seen, s) },
	})
	require.NoError(t, err)

	assert.Len(t, report.RunID, 26)
	assert.Equal(t, []Stage{StageSaved, StageTranscribed, StagePersisted, StageSummarized, StageRendered}, stages(report.Statuses))
	assert.Equal(t, report.Statuses, seen)
	for _, s := range report.Statuses {
		assert.True(t, s.OK, s.Message)
		assert.Equal(t, report.RunID, s.RunID)
	}
	_, failed := report.Failed()
	assert.False(t, failed)
	assert.Equal(t, "Transcript saved: lecture1.txt (3 sentences)", report.Statuses[2].Message)

	assert.Equal(t, filepath.Join(f.root, "CS101", "audio", "lecture1.mp3"), report.AudioPath)
	assert.Equal(t, filepath.Join(f.root, "CS101", "transcripts", "lecture1.txt"), report.TranscriptPath)
	transcript, err := os.ReadFile(report.TranscriptPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello there.\nThis is AI!\nRight?", string(transcript))

	summaries := filepath.Join(f.root, "CS101", "summaries")
	require.NotNil(t, report.Summary)
	assert.Equal(t, filepath.Join(summaries, "Intro_to_AI_09-03-25.txt"), report.Summary.TextPath)
	assert.Equal(t, filepath.Join(summaries, "Intro_to_AI_09-03-25.pdf"), report.Summary.PDFPath)
	assert.Equal(t, "fake", report.Summary.Backend)
	assert.True(t, report.Summary.Conforming)
	assert.ElementsMatch(t, []string{"Intro_to_AI_09-03-25.txt", "Intro_to_AI_09-03-25.pdf"}, listDir(t, summaries))

	txt, err := os.ReadFile(report.Summary.TextPath)
	require.NoError(t, err)
	assert.Equal(t, summaryText, string(txt))
	pdf, err := os.ReadFile(report.Summary.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(pdf[:5]))
}

func TestProcessSummarizationFailureKeepsTranscript(t *testing.T) {
	f := newFixture(t)
	f.backend.err = errors.New("backend unavailable")

	report, err := f.processor().Process(context.Background(), Request{
		SourcePath: writeUpload(t, "lecture1.mp3"),
		Class:      "CS101",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, summarizer.ErrAllFailed)
	assert.True(t, apperr.Is(err, apperr.CodeBackendFailure))

	stage, failed := report.Failed()
	require.True(t, failed)
	assert.Equal(t, StageSummarized, stage)
	assert.Equal(t, []Stage{StageSaved, StageTranscribed, StagePersisted, StageSummarized}, stages(report.Statuses))
	for _, s := range report.Statuses[:3] {
		assert.True(t, s.OK)
	}
	assert.Equal(t, "summarized failed: could not generate summary", report.Statuses[3].Message)

	assert.FileExists(t, report.TranscriptPath)
	assert.Contains(t, report.Preview, "[LLM disabled - local preview]")
	assert.Nil(t, report.Summary)
	assert.Empty(t, listDir(t, filepath.Join(f.root, "CS101", "summaries")))
}

func TestProcessRenderFailureWritesNoSummaryFiles(t *testing.T) {
	f := newFixture(t)
	f.deps.Renderer = failingRenderer{Renderer: renderer.New("")}

	report, err := f.processor().Process(context.Background(), Request{
		SourcePath: writeUpload(t, "lecture1.wav"),
		Class:      "CS101",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeRenderFailure))

	stage, _ := report.Failed()
	assert.Equal(t, StageRendered, stage)
	assert.FileExists(t, report.TranscriptPath)
	assert.Empty(t, listDir(t, filepath.Join(f.root, "CS101", "summaries")), "no orphan .txt without its .pdf")
}

func TestProcessTranscriptionFailureAborts(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		err         error
		wantStages  []Stage
		wantMessage string
	}{
		{
			name:        "backend error",
			err:         apperr.NewBackendFailure("transcription failed", errors.New("model crashed")),
			wantStages:  []Stage{StageSaved, StageTranscribed},
			wantMessage: "transcribed failed: transcription failed",
		},
		{
			name:        "blank transcript",
			text:        "  \n ",
			wantStages:  []Stage{StageSaved, StageTranscribed, StagePersisted},
			wantMessage: "persisted failed: empty transcript",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.transcriber.text = tt.text
			f.transcriber.err = tt.err

			report, err := f.processor().Process(context.Background(), Request{
				SourcePath: writeUpload(t, "lecture1.mp3"),
				Class:      "CS101",
			})
			require.Error(t, err)

			assert.Equal(t, tt.wantStages, stages(report.Statuses))
			last := report.Statuses[len(report.Statuses)-1]
			assert.False(t, last.OK)
			assert.Equal(t, tt.wantMessage, last.Message)
			assert.Empty(t, report.TranscriptPath)
			assert.Empty(t, listDir(t, filepath.Join(f.root, "CS101", "transcripts")))
			assert.Empty(t, listDir(t, filepath.Join(f.root, "CS101", "summaries")))
		})
	}
}

func TestProcessNamesSummaryByRunDate(t *testing.T) {
	f := newFixture(t)
	runDay := time.Date(2025, 10, 7, 9, 0, 0, 0, time.UTC)
	proc := New(f.deps, WithClock(func() time.Time { return runDay }))

	report, err := proc.Process(context.Background(), Request{
		SourcePath: writeUpload(t, "week1.mp3"),
		Class:      "CS101",
	})
	require.NoError(t, err)

	summaries := filepath.Join(f.root, "CS101", "summaries")
	assert.Equal(t, filepath.Join(summaries, "Intro_to_AI_10-07-25.pdf"), report.Summary.PDFPath)
	assert.ElementsMatch(t, []string{"Intro_to_AI_10-07-25.txt", "Intro_to_AI_10-07-25.pdf"}, listDir(t, summaries))
}

func TestProcessRejectsUnsupportedFile(t *testing.T) {
	f := newFixture(t)

	report, err := f.processor().Process(context.Background(), Request{
		SourcePath: writeUpload(t, "notes.txt"),
		Class:      "CS101",
	})
	require.Error(t, err)

	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Equal(t, []Stage{StageSaved}, stages(report.Statuses))
	assert.False(t, report.Statuses[0].OK)
	assert.Zero(t, f.transcriber.calls)
}

func TestTranscribeInfersClassFromPath(t *testing.T) {
	f := newFixture(t)
	audioPath, err := f.store.SaveAudioFile(writeUpload(t, "x"), "week2.m4a", "CS101")
	require.NoError(t, err)

	transcriptPath, err := f.processor().Transcribe(context.Background(), audioPath, "")
	require.NoError(t, err)
	assert.Equal(t, f.store.TranscriptPath("CS101", "week2.m4a"), transcriptPath)

	_, err = f.processor().Transcribe(context.Background(), writeUpload(t, "loose.mp3"), "")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestSummarizeWithoutClassUsesSelected(t *testing.T) {
	f := newFixture(t)
	transcript := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("Some text."), 0644))

	artifacts, err := f.processor().Summarize(context.Background(), transcript, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.root, "CS101", "summaries", "Intro_to_AI_09-03-25.pdf"), artifacts.PDFPath)
	assert.FileExists(t, artifacts.TextPath)
}

func TestSummarizeWithoutValidSelectionUsesGeneral(t *testing.T) {
	f := newFixture(t)
	classData := filepath.Join(t.TempDir(), "class_data.json")
	require.NoError(t, os.WriteFile(classData, []byte(`{"current_classes": {"selected": "a/b"}}`), 0644))
	f.deps.Resolver = metadata.New([]string{classData}, logger.NewNop(), metadata.WithClock(func() time.Time { return fixedNow }))
	transcript := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("Some text."), 0644))

	artifacts, err := f.processor().Summarize(context.Background(), transcript, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.root, defaultClass, "summaries", "General_09-03-25.pdf"), artifacts.PDFPath)
}

func TestSummarizeReturnsPreviewWhenBackendsFail(t *testing.T) {
	f := newFixture(t)
	f.backend.err = errors.New("offline")
	transcript := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("Gradient descent walks downhill."), 0644))

	artifacts, err := f.processor().Summarize(context.Background(), transcript, "CS101")
	require.Error(t, err)
	assert.ErrorIs(t, err, summarizer.ErrAllFailed)

	require.NotNil(t, artifacts)
	assert.Equal(t, "[LLM disabled - local preview]\nGradient descent walks downhill.", artifacts.Preview)
	assert.Empty(t, artifacts.TextPath)
	assert.Empty(t, artifacts.PDFPath)
	assert.Empty(t, listDir(t, filepath.Join(f.root, "CS101", "summaries")))
}

func TestSummarizeMissingTranscript(t *testing.T) {
	f := newFixture(t)

	_, err := f.processor().Summarize(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), "CS101")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestSummarizeExportsDOCX(t *testing.T) {
	f := newFixture(t)
	transcriptPath, err := f.processor().Transcribe(context.Background(), func() string {
		p, err := f.store.SaveAudioFile(writeUpload(t, "x"), "l.mp3", "CS101")
		require.NoError(t, err)
		return p
	}(), "CS101")
	require.NoError(t, err)

	artifacts, err := f.processor(WithDOCX(true)).Summarize(context.Background(), transcriptPath, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.root, "CS101", "summaries", "Intro_to_AI_09-03-25.docx"), artifacts.DOCXPath)
	assert.FileExists(t, artifacts.DOCXPath)
}

func TestWritePairLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "missing", "b.pdf")

	require.Error(t, writePair(a, []byte("a"), b, []byte("b")))
	assert.Empty(t, listDir(t, dir))
}

func TestWritePairKeepsPreviousPairOnRenameFailure(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.pdf")
	require.NoError(t, os.WriteFile(a, []byte("old summary"), 0644))
	// A non-empty directory at b makes the second rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(b, "blocker"), 0755))

	require.Error(t, writePair(a, []byte("new summary"), b, []byte("pdf")))

	got, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "old summary", string(got))
	assert.ElementsMatch(t, []string{"a.txt", "b.pdf"}, listDir(t, dir))
}

func TestWritePairReplacesPreviousPair(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.pdf")
	require.NoError(t, os.WriteFile(a, []byte("old txt"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("old pdf"), 0644))

	require.NoError(t, writePair(a, []byte("new txt"), b, []byte("new pdf")))

	gotA, err := os.ReadFile(a)
	require.NoError(t, err)
	gotB, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "new txt", string(gotA))
	assert.Equal(t, "new pdf", string(gotB))
	assert.ElementsMatch(t, []string{"a.txt", "b.pdf"}, listDir(t, dir))
}

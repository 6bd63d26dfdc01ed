package processor

import "context"

// Processor runs lecture recordings through the transcript and summary pipeline.
type Processor interface {
	// Process runs every stage for one uploaded or recorded file. The Report is
	// always returned; the error describes the first failed stage.
	Process(ctx context.Context, req Request) (*Report, error)
	// Transcribe transcribes an audio file and stores its formatted transcript,
	// returning the transcript path.
	Transcribe(ctx context.Context, audioPath, class string) (string, error)
	// Summarize summarizes a transcript and stores the .txt/.pdf pair.
	Summarize(ctx context.Context, transcriptPath, class string) (*Artifacts, error)
}

// Stage names one step of the pipeline.
type Stage string

const (
	StageSaved       Stage = "saved"
	StageTranscribed Stage = "transcribed"
	StagePersisted   Stage = "persisted"
	StageSummarized  Stage = "summarized"
	StageRendered    Stage = "rendered"
)

// Status is the user-facing outcome of one stage.
type Status struct {
	RunID   string
	Stage   Stage
	OK      bool
	Message string
}

// StatusFunc receives each Status as soon as its stage ends.
type StatusFunc func(Status)

// Request describes one pipeline run.
type Request struct {
	// SourcePath is the uploaded or recorded file.
	SourcePath string
	// Filename is the name to store the audio under; the base of SourcePath when empty.
	Filename string
	Class    string
	OnStatus StatusFunc
}

// Artifacts are the files written for one summary.
type Artifacts struct {
	TextPath string
	PDFPath  string
	// DOCXPath is empty unless DOCX export is enabled and succeeded.
	DOCXPath   string
	Backend    string
	Conforming bool
	Issues     []string
	// Preview is the local stand-in returned alongside the error when no
	// summarization backend answered. Nothing is written in that case.
	Preview string
}

// Report collects everything a run produced.
type Report struct {
	RunID          string
	AudioPath      string
	TranscriptPath string
	Summary        *Artifacts
	// Preview is the local stand-in shown when no summarization backend answered.
	Preview  string
	Statuses []Status
}

// Failed returns the stage that failed, if any.
func (r *Report) Failed() (Stage, bool) {
	for _, s := range r.Statuses {
		if !s.OK {
			return s.Stage, true
		}
	}
	return "", false
}

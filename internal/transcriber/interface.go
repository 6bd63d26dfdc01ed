package transcriber

import "context"

// Transcriber turns an audio or video file into text. Calls are serialized:
// the underlying model is not reentrant.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (string, error)
	Close() error
}

// backend runs speech-to-text on one prepared input file.
type backend interface {
	name() string
	// needsWAV reports whether inputs must first be converted to 16 kHz mono PCM.
	needsWAV() bool
	transcribe(ctx context.Context, path string) (string, error)
	close() error
}

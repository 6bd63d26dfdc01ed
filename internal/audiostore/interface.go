package audiostore

// Store manages the per-class directory layout and the audio files in it.
type Store interface {
	EnsureClassDir(class string) (string, error)
	SaveAudioFile(tempPath, filename, class string) (string, error)
	ListAudioFiles(class string) ([]string, error)
	DeleteAudioFile(filename, class string) (bool, error)
	TranscriptPath(class, audioName string) string
	SummaryDir(class string) string
}

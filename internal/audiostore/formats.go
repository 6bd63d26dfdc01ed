package audiostore

import (
	"path/filepath"
	"sort"
	"strings"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".wma":  true,
}

// Video containers are accepted; the transcriber extracts their audio track.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".m4v":  true,
	".flv":  true,
}

// IsAccepted reports whether name has an extension the pipeline can transcribe.
func IsAccepted(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return audioExtensions[ext] || videoExtensions[ext]
}

// IsVideo reports whether name is a video container.
func IsVideo(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// AcceptedExtensions returns every accepted extension, sorted.
func AcceptedExtensions() []string {
	exts := make([]string, 0, len(audioExtensions)+len(videoExtensions))
	for ext := range audioExtensions {
		exts = append(exts, ext)
	}
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Stem strips the directory and extension from name.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

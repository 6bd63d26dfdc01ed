package audiostore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestEnsureClassDirIdempotent(t *testing.T) {
	root := t.TempDir()
	store := New(root)

	for i := 0; i < 2; i++ {
		dir, err := store.EnsureClassDir("Biology")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "Biology"), dir)
	}
	for _, sub := range []string{"audio", "transcripts", "summaries"} {
		info, err := os.Stat(filepath.Join(root, "Biology", sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSaveAudioFile(t *testing.T) {
	root := t.TempDir()
	store := New(root)
	src := writeTemp(t, "upload.bin", "ID3 fake audio")

	saved, err := store.SaveAudioFile(src, "lecture1.mp3", "General")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "General", "audio", "lecture1.mp3"), saved)

	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "ID3 fake audio", string(data))

	// saving the stored file onto itself is a no-op
	again, err := store.SaveAudioFile(saved, "lecture1.mp3", "General")
	require.NoError(t, err)
	assert.Equal(t, saved, again)
}

func TestSaveAudioFileValidation(t *testing.T) {
	store := New(t.TempDir())
	src := writeTemp(t, "upload.bin", "x")

	tests := []struct {
		name     string
		filename string
		class    string
		code     apperr.Code
	}{
		{"text file", "notes.txt", "General", apperr.CodeValidation},
		{"no extension", "lecture", "General", apperr.CodeValidation},
		{"path traversal", "../escape.mp3", "General", apperr.CodeValidation},
		{"bad class", "a.mp3", "Bio/Chem", apperr.CodeValidation},
		{"empty class", "a.mp3", "  ", apperr.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.SaveAudioFile(src, tt.filename, tt.class)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, tt.code), "got %v", err)
		})
	}

	_, err := store.SaveAudioFile(filepath.Join(t.TempDir(), "missing.mp3"), "missing.mp3", "General")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestSaveAcceptsVideoContainers(t *testing.T) {
	store := New(t.TempDir())
	src := writeTemp(t, "clip", "video")

	_, err := store.SaveAudioFile(src, "recording.MP4", "General")
	assert.NoError(t, err)
}

func TestListAndDeleteAudioFiles(t *testing.T) {
	root := t.TempDir()
	store := New(root)
	src := writeTemp(t, "a", "x")

	for _, name := range []string{"b.mp3", "a.wav"} {
		_, err := store.SaveAudioFile(src, name, "History")
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "History", "audio", "readme.txt"), []byte("x"), 0644))

	files, err := store.ListAudioFiles("History")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.wav", "b.mp3"}, files)

	removed, err := store.DeleteAudioFile("b.mp3", "History")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.DeleteAudioFile("b.mp3", "History")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPaths(t *testing.T) {
	store := New("/data/classes")
	assert.Equal(t, "/data/classes/General/transcripts/week 1.txt", store.TranscriptPath("General", "week 1.mp3"))
	assert.Equal(t, "/data/classes/General/summaries", store.SummaryDir("General"))
}

func TestValidateClassName(t *testing.T) {
	assert.NoError(t, ValidateClassName("Intro to AI"))
	assert.Error(t, ValidateClassName("this class name is definitely far too long"))
	assert.Error(t, ValidateClassName("tab\tname"))
	assert.Error(t, ValidateClassName(".."))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "lecture.final", Stem("/x/lecture.final.mp3"))
	assert.Equal(t, "lecture", Stem("lecture"))
}

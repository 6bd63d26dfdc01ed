package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
	"github.com/nguyentantai21042004/lecture-flow/internal/processor"
)

// setupTestConfig writes a config whose data paths live under a temp dir.
func setupTestConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	classData := filepath.Join(dir, "class_data.json")
	require.NoError(t, os.WriteFile(classData, []byte(`{
		"classes": {"CS101": {"course_name": "Intro to AI", "class_code": "CS 101", "date": "09/03/25"}},
		"current_classes": {"selected": "CS101"}
	}`), 0644))

	cfg := fmt.Sprintf(`
whisper:
  binary_path: "./whisper-cli"
paths:
  classes: %q
  inbox: %q
  temp: %q
  class_data: [%q]
logging:
  level: "error"
`, filepath.Join(dir, "classes"), filepath.Join(dir, "inbox"), filepath.Join(dir, "temp"), classData)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path, dir
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newCLIApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"lectureflow"}, args...))
	return out.String(), err
}

func TestAudioListAndDelete(t *testing.T) {
	cfgPath, dir := setupTestConfig(t)
	audioDir := filepath.Join(dir, "classes", "CS101", "audio")
	require.NoError(t, os.MkdirAll(audioDir, 0755))
	for _, name := range []string{"b.mp3", "a.wav", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(audioDir, name), []byte("x"), 0644))
	}

	out, err := runApp(t, "--config", cfgPath, "audio", "list", "--class", "CS101")
	require.NoError(t, err)
	assert.Equal(t, "a.wav\nb.mp3\n", out)

	out, err = runApp(t, "--config", cfgPath, "audio", "delete", "--class", "CS101", "a.wav")
	require.NoError(t, err)
	assert.Equal(t, "deleted a.wav\n", out)
	assert.NoFileExists(t, filepath.Join(audioDir, "a.wav"))

	_, err = runApp(t, "--config", cfgPath, "audio", "delete", "--class", "CS101", "a.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[NOT_FOUND]")
}

func TestAudioListRejectsBadClass(t *testing.T) {
	cfgPath, _ := setupTestConfig(t)

	_, err := runApp(t, "--config", cfgPath, "audio", "list", "--class", "../etc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[VALIDATION]")
}

func TestMetadataCommand(t *testing.T) {
	cfgPath, _ := setupTestConfig(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"explicit class", []string{"metadata", "--class", "CS101"}, "Intro to AI"},
		{"selected class", []string{"metadata"}, "Intro to AI"},
		{"unknown class", []string{"metadata", "--class", "Biology"}, "Biology"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, append([]string{"--config", cfgPath}, tt.args...)...)
			require.NoError(t, err)

			var meta metadata.ClassMetadata
			require.NoError(t, json.Unmarshal([]byte(out), &meta))
			assert.Equal(t, tt.want, meta.CourseName)
		})
	}
}

func TestCommandsRequireArgument(t *testing.T) {
	cfgPath, _ := setupTestConfig(t)

	for _, cmd := range []string{"transcribe", "summarize"} {
		t.Run(cmd, func(t *testing.T) {
			_, err := runApp(t, "--config", cfgPath, cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "[VALIDATION]")
		})
	}
}

func TestSummarizePrintsPreviewWithoutBackends(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	cfgPath, dir := setupTestConfig(t)
	transcripts := filepath.Join(dir, "classes", "CS101", "transcripts")
	require.NoError(t, os.MkdirAll(transcripts, 0755))
	transcript := filepath.Join(transcripts, "week1.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("Entropy measures surprise."), 0644))

	out, err := runApp(t, "--config", cfgPath, "summarize", transcript)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[BACKEND_FAILURE]")
	assert.Equal(t, "[LLM disabled - local preview]\nEntropy measures surprise.\n", out)
	written, err := filepath.Glob(filepath.Join(dir, "classes", "CS101", "summaries", "*"))
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestMissingConfig(t *testing.T) {
	_, err := runApp(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "metadata")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

type fakeProcessor struct {
	report *processor.Report
	err    error
	got    processor.Request
}

func (f *fakeProcessor) Process(_ context.Context, req processor.Request) (*processor.Report, error) {
	f.got = req
	return f.report, f.err
}

func (f *fakeProcessor) Transcribe(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *fakeProcessor) Summarize(context.Context, string, string) (*processor.Artifacts, error) {
	return nil, nil
}

func TestInboxHandler(t *testing.T) {
	rt := &runtime{logger: logger.NewNop()}

	t.Run("removes file after save", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lecture.mp3")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		proc := &fakeProcessor{
			report: &processor.Report{AudioPath: "/data/classes/CS101/audio/lecture.mp3"},
			err:    apperr.NewBackendFailure("transcription failed", nil),
		}

		err := inboxHandler(proc, rt)(context.Background(), "CS101", path)
		require.Error(t, err)
		assert.Equal(t, "CS101", proc.got.Class)
		assert.Equal(t, path, proc.got.SourcePath)
		assert.NoFileExists(t, path)
	})

	t.Run("keeps file when save failed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lecture.mp3")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		proc := &fakeProcessor{
			report: &processor.Report{},
			err:    apperr.NewInternal("could not save audio file", nil),
		}

		require.Error(t, inboxHandler(proc, rt)(context.Background(), "CS101", path))
		assert.FileExists(t, path)
	})
}

package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cutai-stt/internal/media"
	"cutai-stt/internal/model"
	"cutai-stt/internal/registry"
	"cutai-stt/internal/store"
)

type stubProber struct {
	duration float64
	err      error
}

func (s *stubProber) Duration(context.Context, string) (float64, error) {
	return s.duration, s.err
}

func (s *stubProber) AudioInfo(context.Context, string) (*media.AudioInfo, error) {
	return &media.AudioInfo{Duration: s.duration}, s.err
}

type stubDispatcher struct {
	next    int
	fileIDs []string
}

func (s *stubDispatcher) SubmitTranscription(_ context.Context, fileID string) (string, error) {
	s.next++
	s.fileIDs = append(s.fileIDs, fileID)
	return "task-" + string(rune('0'+s.next)), nil
}

type fixture struct {
	svc        *STT
	files      *registry.Files
	tasks      *registry.Tasks
	index      *registry.Index
	dispatcher *stubDispatcher
	storageDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := store.NewMemory()
	files := registry.NewFiles(kv)
	tasks := registry.NewTasks(kv)
	index := registry.NewIndex(kv)
	dispatcher := &stubDispatcher{}
	storageDir := filepath.Join(t.TempDir(), "storage")

	svc := New(files, tasks, index, dispatcher, &stubProber{duration: 12.5}, storageDir, zap.NewNop())
	return &fixture{
		svc:        svc,
		files:      files,
		tasks:      tasks,
		index:      index,
		dispatcher: dispatcher,
		storageDir: storageDir,
	}
}

func TestUploadRegistersFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fileID, err := f.svc.Upload(ctx, Upload{
		FileName:    "clip.mp4",
		ContentType: "video/mp4",
		Data:        strings.NewReader("media bytes"),
	})
	require.NoError(t, err)

	rec, err := f.files.Get(ctx, fileID)
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", rec.FileName)
	assert.Equal(t, "video/mp4", rec.FileType)
	assert.Equal(t, int64(len("media bytes")), rec.FileSize)
	assert.Equal(t, 12.5, rec.Duration)
	assert.FileExists(t, rec.FilePath)
	assert.True(t, strings.HasSuffix(rec.FilePath, "_clip.mp4"))
}

func TestUploadRejectsNonMedia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Upload(ctx, Upload{
		FileName:    "notes.txt",
		ContentType: "text/plain",
		Data:        strings.NewReader("hello"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Nothing was written to disk.
	entries, _ := os.ReadDir(f.storageDir)
	assert.Empty(t, entries)
}

func TestUploadProbeFailureRemovesPartialFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.prober = &stubProber{err: os.ErrInvalid}

	_, err := f.svc.Upload(ctx, Upload{
		FileName:    "clip.wav",
		ContentType: "audio/wav",
		Data:        strings.NewReader("bytes"),
	})
	require.Error(t, err)

	entries, readErr := os.ReadDir(f.storageDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSubmitIndexesTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	taskID, err := f.svc.Submit(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, f.dispatcher.fileIDs)

	ids, err := f.index.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{taskID}, ids)
}

func TestProgressNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Progress(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditTranscriptRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.tasks.Set(ctx, "t1", &model.TaskRecord{
		FileID:  "f1",
		State:   model.StateSuccess,
		Process: model.PhaseCompleted,
		Text:    "old",
	}))

	edited := []model.Segment{
		{ID: 0, Start: 0, End: 2, Words: []model.Word{
			{Word: "你好", Start: 0, End: 1},
			{Word: "世界", Start: 1, End: 2},
		}},
		{ID: 1, Start: 2, End: 3, Words: []model.Word{
			{Word: "再见", Start: 2, End: 3},
		}},
	}
	require.NoError(t, f.svc.EditTranscript(ctx, "t1", edited))

	rec, err := f.svc.Progress(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "你好世界", rec.Segments[0].Text)
	assert.Equal(t, "再见", rec.Segments[1].Text)
	assert.Equal(t, "你好世界\n\n再见", rec.Text)
	// Edit does not change lifecycle state.
	assert.Equal(t, model.StateSuccess, rec.State)
}

func TestEditTranscriptNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.svc.EditTranscript(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func successRecord(t *testing.T, f *fixture, taskID string, withFile bool) *model.TaskRecord {
	t.Helper()
	ctx := context.Background()

	filePath := filepath.Join(t.TempDir(), taskID+".mp4")
	if withFile {
		require.NoError(t, os.WriteFile(filePath, []byte("media"), 0644))
	}
	rec := &model.TaskRecord{
		FileID:   "file-" + taskID,
		State:    model.StateSuccess,
		Process:  model.PhaseCompleted,
		FileName: taskID + ".mp4",
		FilePath: filePath,
		Duration: 10,
		Segments: []model.Segment{{Text: "hi"}},
	}
	require.NoError(t, f.tasks.Set(ctx, taskID, rec))
	require.NoError(t, f.index.Push(ctx, taskID))
	return rec
}

func TestListValidTasksFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	successRecord(t, f, "ok", true)

	// SUCCESS but media file gone: filtered out.
	successRecord(t, f, "gone", false)

	// Still processing: filtered out.
	require.NoError(t, f.tasks.Set(ctx, "busy", &model.TaskRecord{
		State: model.StateProgress, Process: model.PhaseProcessing,
	}))
	require.NoError(t, f.index.Push(ctx, "busy"))

	// Indexed id without a record: tolerated and filtered out.
	require.NoError(t, f.index.Push(ctx, "expired"))

	listed, err := f.svc.ListValidTasks(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "ok", listed[0].TaskID)
}

func TestListValidTasksNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	successRecord(t, f, "older", true)
	successRecord(t, f, "newer", true)

	listed, err := f.svc.ListValidTasks(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "newer", listed[0].TaskID)
	assert.Equal(t, "older", listed[1].TaskID)
}

func TestDeleteRemovesEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec := successRecord(t, f, "t1", true)
	srtPath := filepath.Join(t.TempDir(), "t1.srt")
	require.NoError(t, os.WriteFile(srtPath, []byte("1\n"), 0644))
	rec.SrtPath = srtPath
	require.NoError(t, f.tasks.Set(ctx, "t1", rec))
	require.NoError(t, f.files.Register(ctx, &model.FileRecord{FileID: rec.FileID}))

	require.NoError(t, f.svc.Delete(ctx, "t1"))

	assert.NoFileExists(t, rec.FilePath)
	assert.NoFileExists(t, srtPath)

	_, err := f.svc.Progress(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.files.Get(ctx, rec.FileID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	ids, err := f.index.IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteTwiceReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	successRecord(t, f, "t1", true)
	require.NoError(t, f.svc.Delete(ctx, "t1"))
	assert.ErrorIs(t, f.svc.Delete(ctx, "t1"), ErrNotFound)
}

func TestDeleteMissingArtifactsStillDeletesMetadata(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Media file never existed on disk; cleanup is best-effort.
	successRecord(t, f, "t1", false)
	require.NoError(t, f.svc.Delete(ctx, "t1"))

	_, err := f.svc.Progress(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Package service implements the client-facing job lifecycle operations:
// upload, submit, poll, edit, list and delete.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cutai-stt/internal/media"
	"cutai-stt/internal/model"
	"cutai-stt/internal/queue"
	"cutai-stt/internal/registry"
	"cutai-stt/internal/store"
)

// ErrInvalidInput is returned for uploads that are not audio or video.
var ErrInvalidInput = errors.New("only audio or video files are accepted")

// ErrNotFound is returned when no task or file exists for the given id.
var ErrNotFound = errors.New("record not found")

// Upload carries one incoming media file.
type Upload struct {
	FileName    string
	Size        int64
	ContentType string
	Data        io.Reader
}

// ListedTask is a task record paired with its identifier for enumeration.
type ListedTask struct {
	TaskID string `json:"task_id"`
	*model.TaskRecord
}

// STT orchestrates the job lifecycle over the registries, the dispatcher
// and durable file storage.
type STT struct {
	files      *registry.Files
	tasks      *registry.Tasks
	index      *registry.Index
	dispatcher queue.Dispatcher
	prober     media.Prober
	storageDir string
	log        *zap.Logger
}

// New creates the lifecycle controller.
func New(
	files *registry.Files,
	tasks *registry.Tasks,
	index *registry.Index,
	dispatcher queue.Dispatcher,
	prober media.Prober,
	storageDir string,
	log *zap.Logger,
) *STT {
	return &STT{
		files:      files,
		tasks:      tasks,
		index:      index,
		dispatcher: dispatcher,
		prober:     prober,
		storageDir: storageDir,
		log:        log,
	}
}

// Upload validates and persists an incoming media file, probes its
// duration and registers a file record. On any failure after the bytes
// hit disk the partial file is removed before the error surfaces.
func (s *STT) Upload(ctx context.Context, up Upload) (string, error) {
	if !strings.HasPrefix(up.ContentType, "audio/") && !strings.HasPrefix(up.ContentType, "video/") {
		return "", ErrInvalidInput
	}

	if err := os.MkdirAll(s.storageDir, 0755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}

	stamp := time.Now().Format("2006-01-02_15-04-05.000")
	path := filepath.Join(s.storageDir, stamp+"_"+filepath.Base(up.FileName))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	written, err := io.Copy(out, up.Data)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.removePartial(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	duration, err := s.prober.Duration(ctx, path)
	if err != nil {
		s.removePartial(path)
		return "", fmt.Errorf("probe upload duration: %w", err)
	}

	fileID := uuid.New().String()
	rec := &model.FileRecord{
		FileID:   fileID,
		FileName: up.FileName,
		FilePath: path,
		FileSize: written,
		FileType: up.ContentType,
		Duration: duration,
	}
	if err := s.files.Register(ctx, rec); err != nil {
		s.removePartial(path)
		return "", fmt.Errorf("register file record: %w", err)
	}

	s.log.Info("file uploaded",
		zap.String("file_id", fileID),
		zap.String("file_name", up.FileName),
		zap.Int64("size", written))
	return fileID, nil
}

// Submit enqueues the pipeline for fileID and returns the assigned task
// id immediately. An unknown fileID is accepted here; the pipeline fails
// the task on its first lookup.
func (s *STT) Submit(ctx context.Context, fileID string) (string, error) {
	taskID, err := s.dispatcher.SubmitTranscription(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("submit transcription: %w", err)
	}

	// Exactly one index entry per submission. A push failure leaves the
	// task reachable by id, just not enumerable.
	if err := s.index.Push(ctx, taskID); err != nil {
		s.log.Error("failed to index task", zap.String("task_id", taskID), zap.Error(err))
	}

	s.log.Info("task submitted",
		zap.String("task_id", taskID), zap.String("file_id", fileID))
	return taskID, nil
}

// Progress returns the task record for taskID.
func (s *STT) Progress(ctx context.Context, taskID string) (*model.TaskRecord, error) {
	rec, err := s.tasks.Get(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// EditTranscript replaces the segments of an existing task record. The
// display text of each segment is rebuilt from its words and the full
// transcript is rejoined. Edit never creates a record, and it does not
// touch the lifecycle state.
func (s *STT) EditTranscript(ctx context.Context, taskID string, segments []model.Segment) error {
	rec, err := s.tasks.Get(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	for i := range segments {
		segments[i].RebuildText()
	}
	rec.Segments = segments
	rec.Text = model.JoinSegmentTexts(segments)

	if err := s.tasks.Set(ctx, taskID, rec); err != nil {
		return fmt.Errorf("persist edited transcript: %w", err)
	}
	s.log.Info("transcript edited",
		zap.String("task_id", taskID), zap.Int("segments", len(segments)))
	return nil
}

// ListValidTasks enumerates the global index, newest first, and keeps
// only completed tasks whose record is still present, whose media file
// still exists on disk and which carry a usable result payload. This is
// a read-side filter; the index itself is never mutated here.
func (s *STT) ListValidTasks(ctx context.Context) ([]ListedTask, error) {
	ids, err := s.index.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate task index: %w", err)
	}

	listed := make([]ListedTask, 0, len(ids))
	for _, taskID := range ids {
		rec, err := s.tasks.Get(ctx, taskID)
		if err != nil {
			continue
		}
		if rec.State != model.StateSuccess {
			continue
		}
		if rec.FileName == "" || rec.Duration == 0 || len(rec.Segments) == 0 {
			continue
		}
		if _, err := os.Stat(rec.FilePath); err != nil {
			continue
		}
		listed = append(listed, ListedTask{TaskID: taskID, TaskRecord: rec})
	}
	return listed, nil
}

// Delete removes a task and everything it owns: subtitle artifact, media
// file, task record, linked file record and the index entry. Artifact
// removal is best-effort and logged; metadata deletion is authoritative
// and proceeds regardless.
func (s *STT) Delete(ctx context.Context, taskID string) error {
	rec, err := s.tasks.Get(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if rec.SrtPath != "" {
		if err := os.Remove(rec.SrtPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove subtitle artifact",
				zap.String("path", rec.SrtPath), zap.Error(err))
		}
	}
	if rec.FilePath != "" {
		if err := os.Remove(rec.FilePath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove media file",
				zap.String("path", rec.FilePath), zap.Error(err))
		}
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task record: %w", err)
	}
	if rec.FileID != "" {
		if err := s.files.Delete(ctx, rec.FileID); err != nil {
			s.log.Warn("failed to delete file record",
				zap.String("file_id", rec.FileID), zap.Error(err))
		}
	}
	if err := s.index.Remove(ctx, taskID); err != nil {
		s.log.Warn("failed to remove index entry",
			zap.String("task_id", taskID), zap.Error(err))
	}

	s.log.Info("task deleted", zap.String("task_id", taskID))
	return nil
}

func (s *STT) removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove partial upload",
			zap.String("path", path), zap.Error(err))
	}
}

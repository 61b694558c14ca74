// Package worker holds the long-running transcription pipeline. It runs
// outside the request path, once per submission, and always terminates by
// writing a SUCCESS or FAILURE task record — errors never escape to the
// dispatch layer.
package worker

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"cutai-stt/internal/media"
	"cutai-stt/internal/model"
	"cutai-stt/internal/registry"
	"cutai-stt/internal/subtitle"
	"cutai-stt/internal/transcriber"
)

var pipelineOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cutai_pipeline_total",
	Help: "Terminal transcription pipeline outcomes.",
}, []string{"state"})

// Config carries the fixed transcription parameters.
type Config struct {
	// ResultDir receives generated subtitle artifacts.
	ResultDir string
	// Language and Prompt are passed to the engine on every run.
	Language string
	Prompt   string
}

// Pipeline executes the phase sequence for one task: transcode (video
// only), probe, transcribe, generate subtitle, finalize.
type Pipeline struct {
	files      *registry.Files
	tasks      *registry.Tasks
	prober     media.Prober
	transcoder media.Transcoder
	// engine returns the shared transcriber handle, created lazily on
	// first use (the loading_model phase of the first task pays for it).
	engine func() (transcriber.Transcriber, error)
	cfg    Config
	log    *zap.Logger
}

// NewPipeline wires a pipeline over the registries and media adapters.
func NewPipeline(
	files *registry.Files,
	tasks *registry.Tasks,
	prober media.Prober,
	transcoder media.Transcoder,
	engine func() (transcriber.Transcriber, error),
	cfg Config,
	log *zap.Logger,
) *Pipeline {
	return &Pipeline{
		files:      files,
		tasks:      tasks,
		prober:     prober,
		transcoder: transcoder,
		engine:     engine,
		cfg:        cfg,
		log:        log,
	}
}

// Run processes one submission. Each step either advances the phase or
// fails the whole task; a derived audio file is removed afterwards in
// both cases. The original upload is kept on success — only an explicit
// delete removes it.
func (p *Pipeline) Run(ctx context.Context, taskID, fileID string) {
	start := time.Now()
	log := p.log.With(zap.String("task_id", taskID), zap.String("file_id", fileID))

	p.setPhase(ctx, taskID, fileID, model.PhaseInit)

	rec, err := p.files.Get(ctx, fileID)
	if err != nil {
		log.Warn("file record missing, failing fast", zap.Error(err))
		p.fail(ctx, taskID, fileID)
		return
	}

	sttPath := rec.FilePath
	defer func() {
		if sttPath == rec.FilePath {
			return
		}
		if err := os.Remove(sttPath); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to remove derived audio file",
				zap.String("path", sttPath), zap.Error(err))
		}
	}()

	if strings.HasPrefix(rec.FileType, "video/") {
		p.setPhase(ctx, taskID, fileID, model.PhaseTranscode)
		sttPath, err = p.transcoder.ExtractAudio(ctx, rec.FilePath)
		if err != nil {
			log.Error("audio extraction failed", zap.Error(err))
			p.fail(ctx, taskID, fileID)
			return
		}
	}

	info, err := p.prober.AudioInfo(ctx, sttPath)
	if err != nil {
		log.Error("audio probe failed", zap.String("path", sttPath), zap.Error(err))
		p.fail(ctx, taskID, fileID)
		return
	}

	rec.SttTaskID = taskID
	rec.SttFileName = sttPath
	rec.AudioLength = info.Frames
	rec.AudioChannels = info.Channels
	rec.AudioWidth = info.SampleWidth
	rec.AudioFramerate = info.FrameRate
	if err := p.files.Register(ctx, rec); err != nil {
		log.Warn("failed to update file record", zap.Error(err))
	}

	p.setPhase(ctx, taskID, fileID, model.PhaseLoadingModel)
	engine, err := p.engine()
	if err != nil {
		log.Error("engine init failed", zap.Error(err))
		p.fail(ctx, taskID, fileID)
		return
	}

	p.setPhase(ctx, taskID, fileID, model.PhaseProcessing)
	result, err := engine.Transcribe(ctx, transcriber.Request{
		FilePath:       sttPath,
		Language:       p.cfg.Language,
		Prompt:         p.cfg.Prompt,
		WordTimestamps: true,
	})
	if err != nil {
		log.Error("transcription failed", zap.Error(err))
		p.fail(ctx, taskID, fileID)
		return
	}

	p.setPhase(ctx, taskID, fileID, model.PhaseSubtitle)
	srtPath := filepath.Join(p.cfg.ResultDir, rec.FileName+".srt")
	if err := subtitle.Write(srtPath, result.Segments); err != nil {
		log.Error("subtitle generation failed", zap.Error(err))
		p.fail(ctx, taskID, fileID)
		return
	}

	costTime := math.Round(time.Since(start).Seconds()*100) / 100
	final := &model.TaskRecord{
		FileID:         fileID,
		State:          model.StateSuccess,
		Process:        model.PhaseCompleted,
		FileName:       rec.FileName,
		FilePath:       rec.FilePath,
		FileType:       rec.FileType,
		Duration:       info.Duration,
		SrtPath:        srtPath,
		Text:           model.JoinSegmentTexts(result.Segments),
		Segments:       result.Segments,
		CostTime:       costTime,
		CompletionTime: time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := p.tasks.Set(ctx, taskID, final); err != nil {
		log.Error("failed to write terminal task record", zap.Error(err))
		return
	}

	pipelineOutcomes.WithLabelValues(string(model.StateSuccess)).Inc()
	log.Info("transcription completed",
		zap.Float64("duration", info.Duration), zap.Float64("cost_time", costTime))
}

// setPhase overwrites the task record with the next progress phase.
func (p *Pipeline) setPhase(ctx context.Context, taskID, fileID string, phase model.Phase) {
	err := p.tasks.Set(ctx, taskID, &model.TaskRecord{
		FileID:  fileID,
		State:   model.StateProgress,
		Process: phase,
	})
	if err != nil {
		p.log.Warn("failed to write phase transition",
			zap.String("task_id", taskID), zap.String("process", string(phase)), zap.Error(err))
	}
}

// fail writes the terminal FAILURE record. No result payload is kept.
func (p *Pipeline) fail(ctx context.Context, taskID, fileID string) {
	err := p.tasks.Set(ctx, taskID, &model.TaskRecord{
		FileID:  fileID,
		State:   model.StateFailure,
		Process: model.PhaseFailed,
	})
	if err != nil {
		p.log.Error("failed to write failure record",
			zap.String("task_id", taskID), zap.Error(err))
	}
	pipelineOutcomes.WithLabelValues(string(model.StateFailure)).Inc()
}

// Package app assembles the service components from configuration. Both
// the API server and the queue worker build from here so they agree on
// storage, registries and pipeline wiring.
package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"cutai-stt/internal/config"
	"cutai-stt/internal/media"
	"cutai-stt/internal/registry"
	"cutai-stt/internal/store"
	"cutai-stt/internal/transcriber"
	"cutai-stt/internal/worker"
)

// Registries bundles the three record layers over one KV backend.
type Registries struct {
	Files *registry.Files
	Tasks *registry.Tasks
	Index *registry.Index
}

// NewKV creates the configured KV backend.
func NewKV(cfg *config.Config, log *zap.Logger) store.KV {
	if cfg.Store.Driver == "memory" {
		log.Warn("using in-memory store, records will not survive a restart")
		return store.NewMemory()
	}
	return store.NewRedis(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, log)
}

// NewRegistries builds the registries over kv.
func NewRegistries(kv store.KV) Registries {
	return Registries{
		Files: registry.NewFiles(kv),
		Tasks: registry.NewTasks(kv),
		Index: registry.NewIndex(kv),
	}
}

// NewPipeline builds the transcription pipeline. The engine handle is
// lazy: the first task to reach loading_model creates it, every later
// task reuses it.
func NewPipeline(cfg *config.Config, regs Registries, log *zap.Logger) *worker.Pipeline {
	ffmpeg := media.NewFFmpeg()

	engine := func() (transcriber.Transcriber, error) {
		return transcriber.Default(func() (transcriber.Transcriber, error) {
			apiKey := os.Getenv("OPENAI_API_KEY")
			if apiKey == "" && cfg.Transcriber.BaseURL == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
			return transcriber.NewWhisper(apiKey, cfg.Transcriber.BaseURL, cfg.Transcriber.Model), nil
		})
	}

	return worker.NewPipeline(
		regs.Files, regs.Tasks,
		ffmpeg, ffmpeg,
		engine,
		worker.Config{
			ResultDir: cfg.Storage.ResultDir,
			Language:  cfg.Transcriber.Language,
			Prompt:    cfg.Transcriber.Prompt,
		},
		log,
	)
}

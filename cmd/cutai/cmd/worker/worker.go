// Package worker runs the transcription pipeline on a Temporal task queue.
package worker

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"cutai-stt/internal/app"
	"cutai-stt/internal/config"
	"cutai-stt/internal/logging"
	"cutai-stt/internal/queue"
)

var (
	configPath string
	dev        bool
)

// Cmd runs a Temporal worker polling the transcription task queue.
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a Temporal transcription worker",
	Long: `Run a Temporal transcription worker.

The worker polls the configured task queue and executes the
transcription pipeline for each submitted task. Several workers may
poll the same queue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file")
	Cmd.Flags().BoolVar(&dev, "dev", false, "human-readable log output")
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.MustNewLogger(dev)
	defer log.Sync()

	kv := app.NewKV(cfg, log)
	pipeline := app.NewPipeline(cfg, app.NewRegistries(kv), log)

	c, err := queue.NewTemporalClient(queue.TemporalConfig{
		HostPort:  cfg.Queue.Temporal.HostPort,
		Namespace: cfg.Queue.Temporal.Namespace,
		TaskQueue: cfg.Queue.Temporal.TaskQueue,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	w := worker.New(c, cfg.Queue.Temporal.TaskQueue, worker.Options{})
	queue.RegisterTranscription(w, pipeline)

	log.Info("worker started",
		zap.String("task_queue", cfg.Queue.Temporal.TaskQueue),
		zap.String("temporal", cfg.Queue.Temporal.HostPort))
	if err := w.Run(worker.InterruptCh()); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}
	return nil
}

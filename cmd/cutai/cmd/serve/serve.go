// Package serve starts the transcription HTTP API.
package serve

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cutai-stt/internal/app"
	"cutai-stt/internal/config"
	"cutai-stt/internal/logging"
	"cutai-stt/internal/media"
	"cutai-stt/internal/queue"
	"cutai-stt/internal/service"
	"cutai-stt/web"
)

var (
	configPath string
	dev        bool
)

// Cmd serves the upload/submit/poll/edit/list/delete API.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcription HTTP API",
	Long: `Run the transcription HTTP API.

Uploads land in the storage directory, tasks run either on in-process
workers or on a Temporal task queue, and progress is served from redis.`,
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
	regs := app.NewRegistries(kv)

	dispatcher, cleanup, err := newDispatcher(cfg, regs, log)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := service.New(regs.Files, regs.Tasks, regs.Index, dispatcher,
		media.NewFFmpeg(), cfg.Storage.UploadDir, log)

	log.Info("serving transcription API",
		zap.String("addr", cfg.Server.Addr),
		zap.String("queue", cfg.Queue.Driver),
		zap.String("store", cfg.Store.Driver))
	return web.NewServer(cfg.Server.Addr, svc, log).Run()
}

func newDispatcher(cfg *config.Config, regs app.Registries, log *zap.Logger) (queue.Dispatcher, func(), error) {
	switch cfg.Queue.Driver {
	case "temporal":
		c, err := queue.NewTemporalClient(queue.TemporalConfig{
			HostPort:  cfg.Queue.Temporal.HostPort,
			Namespace: cfg.Queue.Temporal.Namespace,
			TaskQueue: cfg.Queue.Temporal.TaskQueue,
		})
		if err != nil {
			return nil, nil, err
		}
		return queue.NewTemporal(c, cfg.Queue.Temporal.TaskQueue, log), c.Close, nil
	case "local", "":
		pipeline := app.NewPipeline(cfg, regs, log)
		return queue.NewLocal(pipeline, cfg.Queue.Workers, log), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}

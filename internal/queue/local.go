package queue

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Local runs pipelines on in-process goroutines, bounded by a worker
// semaphore. It serves single-node deployments and tests, where an
// external queue would be overkill.
type Local struct {
	pipeline Runner
	sem      chan struct{}
	log      *zap.Logger
}

// NewLocal creates a local dispatcher with the given worker limit.
func NewLocal(pipeline Runner, workers int, log *zap.Logger) *Local {
	if workers < 1 {
		workers = 1
	}
	return &Local{
		pipeline: pipeline,
		sem:      make(chan struct{}, workers),
		log:      log,
	}
}

func (l *Local) SubmitTranscription(_ context.Context, fileID string) (string, error) {
	taskID := uuid.New().String()

	go func() {
		l.sem <- struct{}{}
		defer func() { <-l.sem }()

		l.log.Info("pipeline dispatched",
			zap.String("task_id", taskID), zap.String("file_id", fileID))
		// Detached from the request context: the pipeline outlives the
		// submitting request.
		l.pipeline.Run(context.Background(), taskID, fileID)
	}()

	return taskID, nil
}

package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

// TemporalConfig holds Temporal client configuration.
type TemporalConfig struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

// NewTemporalClient creates a new Temporal client with the given configuration.
func NewTemporalClient(config TemporalConfig) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  config.HostPort,
		Namespace: config.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}
	return c, nil
}

// Temporal dispatches pipeline runs as workflow executions.
type Temporal struct {
	client    client.Client
	taskQueue string
	log       *zap.Logger
}

// NewTemporal creates a Temporal-backed dispatcher.
func NewTemporal(c client.Client, taskQueue string, log *zap.Logger) *Temporal {
	return &Temporal{client: c, taskQueue: taskQueue, log: log}
}

func (t *Temporal) SubmitTranscription(ctx context.Context, fileID string) (string, error) {
	taskID := uuid.New().String()

	options := client.StartWorkflowOptions{
		ID:        taskID,
		TaskQueue: t.taskQueue,
	}
	_, err := t.client.ExecuteWorkflow(ctx, options, TranscriptionWorkflow, TranscriptionRequest{
		TaskID: taskID,
		FileID: fileID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start transcription workflow: %w", err)
	}

	t.log.Info("transcription workflow started",
		zap.String("task_id", taskID), zap.String("file_id", fileID))
	return taskID, nil
}

// TranscriptionRequest is the workflow/activity argument for one run.
type TranscriptionRequest struct {
	TaskID string `json:"task_id"`
	FileID string `json:"file_id"`
}

// TranscriptionWorkflow wraps the pipeline in a single long activity.
// The pipeline converts its own failures into a terminal task record, so
// retries are disabled: a second attempt would re-run work the client
// already observed as failed.
func TranscriptionWorkflow(ctx workflow.Context, req TranscriptionRequest) error {
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Hour,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	return workflow.ExecuteActivity(ctx, "RunTranscriptionPipeline", req).Get(ctx, nil)
}

// Activities exposes the pipeline to the Temporal worker.
type Activities struct {
	pipeline Runner
}

// NewActivities creates the activity set around pipeline.
func NewActivities(pipeline Runner) *Activities {
	return &Activities{pipeline: pipeline}
}

// RunTranscriptionPipeline executes one pipeline run, heartbeating while
// it is in flight.
func (a *Activities) RunTranscriptionPipeline(ctx context.Context, req TranscriptionRequest) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Starting transcription pipeline", "taskId", req.TaskID, "fileId", req.FileID)

	done := make(chan struct{})
	go func() {
		a.pipeline.Run(ctx, req.TaskID, req.FileID)
		close(done)
	}()

	heartbeat := time.NewTicker(10 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			logger.Info("Transcription pipeline finished", "taskId", req.TaskID)
			return nil
		case <-heartbeat.C:
			activity.RecordHeartbeat(ctx, fmt.Sprintf("processing task: %s", req.TaskID))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RegisterTranscription registers the workflow and activity on w.
func RegisterTranscription(w worker.Worker, pipeline Runner) {
	w.RegisterWorkflow(TranscriptionWorkflow)
	w.RegisterActivityWithOptions(
		NewActivities(pipeline).RunTranscriptionPipeline,
		activity.RegisterOptions{Name: "RunTranscriptionPipeline"},
	)
}

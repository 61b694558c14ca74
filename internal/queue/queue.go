// Package queue dispatches transcription work to an asynchronous worker.
// The queue guarantees at-most-one pipeline execution per submission; the
// result is observed only through the task registry, never as a return
// value.
package queue

import "context"

// Runner executes the transcription pipeline for one submission. Run
// always finishes by writing a terminal task record; it never reports
// errors upward.
type Runner interface {
	Run(ctx context.Context, taskID, fileID string)
}

// Dispatcher submits named work and returns the assigned task id
// immediately; the pipeline runs later on some worker.
type Dispatcher interface {
	SubmitTranscription(ctx context.Context, fileID string) (string, error)
}

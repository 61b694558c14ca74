package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingRunner struct {
	mu   sync.Mutex
	runs map[string]string // taskID -> fileID
	done chan struct{}
}

func (r *recordingRunner) Run(_ context.Context, taskID, fileID string) {
	r.mu.Lock()
	r.runs[taskID] = fileID
	r.mu.Unlock()
	r.done <- struct{}{}
}

func TestLocalSubmitRunsPipeline(t *testing.T) {
	runner := &recordingRunner{runs: make(map[string]string), done: make(chan struct{}, 1)}
	dispatcher := NewLocal(runner, 2, zap.NewNop())

	taskID, err := dispatcher.SubmitTranscription(context.Background(), "f1")
	require.NoError(t, err)
	require.NotEmpty(t, taskID)

	select {
	case <-runner.done:
	case <-time.After(time.Second):
		t.Fatal("pipeline was not executed")
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, "f1", runner.runs[taskID])
}

func TestLocalSubmitAssignsUniqueIDs(t *testing.T) {
	runner := &recordingRunner{runs: make(map[string]string), done: make(chan struct{}, 8)}
	dispatcher := NewLocal(runner, 1, zap.NewNop())

	seen := make(map[string]bool)
	for i := 0; i < 8; i++ {
		taskID, err := dispatcher.SubmitTranscription(context.Background(), "f1")
		require.NoError(t, err)
		assert.False(t, seen[taskID], "task id reused: %s", taskID)
		seen[taskID] = true
	}

	for i := 0; i < 8; i++ {
		select {
		case <-runner.done:
		case <-time.After(time.Second):
			t.Fatal("pipeline run missing")
		}
	}
}

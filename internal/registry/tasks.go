package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"cutai-stt/internal/model"
	"cutai-stt/internal/store"
)

// Tasks stores TaskRecords under cutai:tasks:<task_id>.
type Tasks struct {
	kv store.KV
}

// NewTasks creates a task registry backed by kv.
func NewTasks(kv store.KV) *Tasks {
	return &Tasks{kv: kv}
}

// Set overwrites the record for taskID wholesale. The TTL is reset on
// every write so an actively-processing task keeps sliding its expiry
// forward and a long transcription never expires its own progress record.
func (t *Tasks) Set(ctx context.Context, taskID string, rec *model.TaskRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal task record: %w", err)
	}
	return t.kv.Set(ctx, taskKeyPrefix+taskID, payload, RecordTTL)
}

// Get returns the record for taskID, or store.ErrNotFound.
func (t *Tasks) Get(ctx context.Context, taskID string) (*model.TaskRecord, error) {
	payload, err := t.kv.Get(ctx, taskKeyPrefix+taskID)
	if err != nil {
		return nil, err
	}
	var rec model.TaskRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal task record %s: %w", taskID, err)
	}
	return &rec, nil
}

// Delete removes the record for taskID.
func (t *Tasks) Delete(ctx context.Context, taskID string) error {
	return t.kv.Delete(ctx, taskKeyPrefix+taskID)
}

// Package registry provides the typed record layers over the key-value
// store: file metadata, task lifecycle records and the global task index.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cutai-stt/internal/model"
	"cutai-stt/internal/store"
)

const (
	fileKeyPrefix = "cutai:files:"
	taskKeyPrefix = "cutai:tasks:"
	taskIndexKey  = "cutai:stt_tasks"

	// RecordTTL is the retention window for file and task records.
	RecordTTL = 7 * 24 * time.Hour
)

// Files stores FileRecords under cutai:files:<file_id>.
type Files struct {
	kv store.KV
}

// NewFiles creates a file registry backed by kv.
func NewFiles(kv store.KV) *Files {
	return &Files{kv: kv}
}

// Register stores the full record under its file id with the standard TTL.
// Callers re-register the whole record after mutating derived fields; there
// is no field-level merge.
func (f *Files) Register(ctx context.Context, rec *model.FileRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal file record: %w", err)
	}
	return f.kv.Set(ctx, fileKeyPrefix+rec.FileID, payload, RecordTTL)
}

// Get returns the record for fileID, or store.ErrNotFound.
func (f *Files) Get(ctx context.Context, fileID string) (*model.FileRecord, error) {
	payload, err := f.kv.Get(ctx, fileKeyPrefix+fileID)
	if err != nil {
		return nil, err
	}
	var rec model.FileRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal file record %s: %w", fileID, err)
	}
	return &rec, nil
}

// Delete removes the record for fileID.
func (f *Files) Delete(ctx context.Context, fileID string) error {
	return f.kv.Delete(ctx, fileKeyPrefix+fileID)
}

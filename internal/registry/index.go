package registry

import (
	"context"

	"cutai-stt/internal/store"
)

// Index is the ordered list of all known task ids, newest first. Entries
// are added at submit time and removed at delete time; the list itself
// carries no TTL, so an entry can outlive the record it points at.
// Readers must tolerate (and filter out) ids whose record is gone.
type Index struct {
	kv store.KV
}

// NewIndex creates the global task index backed by kv.
func NewIndex(kv store.KV) *Index {
	return &Index{kv: kv}
}

// Push prepends taskID. No dedup is enforced here; the controller pushes
// exactly once per submission.
func (i *Index) Push(ctx context.Context, taskID string) error {
	return i.kv.PushFront(ctx, taskIndexKey, taskID)
}

// IDs returns every indexed task id, newest first.
func (i *Index) IDs(ctx context.Context) ([]string, error) {
	return i.kv.Range(ctx, taskIndexKey, 0, -1)
}

// Remove deletes taskID from the index.
func (i *Index) Remove(ctx context.Context, taskID string) error {
	return i.kv.RemoveValue(ctx, taskIndexKey, taskID)
}

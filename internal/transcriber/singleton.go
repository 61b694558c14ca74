package transcriber

import "sync"

var (
	once      sync.Once
	shared    Transcriber
	sharedErr error
)

// Default returns the process-wide transcriber, creating it on first use
// with newFn. The handle is single-assignment: later calls ignore newFn
// and return the instance (or error) from the first initialization, so
// concurrent workers within one process never double-load the engine.
func Default(newFn func() (Transcriber, error)) (Transcriber, error) {
	once.Do(func() {
		shared, sharedErr = newFn()
	})
	return shared, sharedErr
}

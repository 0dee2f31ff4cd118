package executor

import "fmt"

// SpawnError reports a segment that could not be started at all, such as a
// missing executable or a permission error. Index and Program identify which
// command in the pipeline failed; siblings are always reaped before this is
// returned.
type SpawnError struct {
	Index   int
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("pipeline segment %d (%s): %v", e.Index+1, e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// WaitError reports a failure of the wait call itself, distinct from the
// waited process exiting non-zero. It indicates an OS-level inconsistency
// and is not retryable.
type WaitError struct {
	Err error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("wait failed: %v", e.Err)
}

func (e *WaitError) Unwrap() error {
	return e.Err
}

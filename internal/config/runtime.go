package config

import "fmt"

// RuntimeContext carries the per-evaluation inputs a dynamic value may
// reference. Attempt is 1-based: the first execution of a task is
// attempt 1.
type RuntimeContext struct {
	Attempt int
}

// Validate rejects contexts that no executor can legitimately produce.
func (rc RuntimeContext) Validate() error {
	if rc.Attempt < 1 {
		return fmt.Errorf("runtime context: attempt must be >= 1, got %d", rc.Attempt)
	}
	return nil
}

// Package engine is the consumer-facing surface of the configuration
// resolver. Load performs the one-shot, single-threaded load phase:
// fragments, profile activation, and the layer merge, producing an
// immutable Engine. Resolve is the per-task-attempt phase: it is pure,
// allocation-local, and safe to call from many concurrent task attempts.
package engine

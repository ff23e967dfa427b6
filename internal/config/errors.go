package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Every load-time failure is fatal: the engine never produces a partial
// configuration, because a silently dropped layer could change effective
// resource limits or retry policy downstream. All types below are
// matchable with errors.As.

// ParseError reports unknown or malformed syntax in one fragment.
type ParseError struct {
	Path  string
	Range hcl.Range
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d,%d: %s", e.Path, e.Range.Start.Line, e.Range.Start.Column, e.Msg)
}

// MissingFragmentError reports an include target that could not be read.
type MissingFragmentError struct {
	Path         string
	IncludedFrom string
	Err          error
}

func (e *MissingFragmentError) Error() string {
	if e.IncludedFrom == "" {
		return fmt.Sprintf("fragment %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("fragment %s (included from %s): %v", e.Path, e.IncludedFrom, e.Err)
}

func (e *MissingFragmentError) Unwrap() error { return e.Err }

// CyclicIncludeError reports an includeConfig cycle. Cycle holds the chain
// of fragment paths ending with the re-entered one.
type CyclicIncludeError struct {
	Cycle []string
}

func (e *CyclicIncludeError) Error() string {
	return fmt.Sprintf("cyclic include: %s", strings.Join(e.Cycle, " -> "))
}

// UnknownProfileError reports activation of a profile no fragment declared.
// Silent fallback to defaults would be a correctness hazard, so this is
// fatal.
type UnknownProfileError struct {
	Name  string
	Known []string
}

func (e *UnknownProfileError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown profile %q (no profiles declared)", e.Name)
	}
	return fmt.Sprintf("unknown profile %q (declared profiles: %s)", e.Name, strings.Join(e.Known, ", "))
}

// InvalidDynamicValueError reports a dynamic expression that failed
// load-time validation: malformed syntax, a reference outside the allowed
// runtime inputs, or a non-scalar result.
type InvalidDynamicValueError struct {
	Source string
	Range  hcl.Range
	Reason string
}

func (e *InvalidDynamicValueError) Error() string {
	return fmt.Sprintf("%s:%d,%d: invalid dynamic value { %s }: %s",
		e.Range.Filename, e.Range.Start.Line, e.Range.Start.Column, e.Source, e.Reason)
}

// MissingKeyError reports a key the consumer declared required but which
// no layer set. This is a resolution-time consumer error, not a load error.
type MissingKeyError struct {
	Key     string
	Process string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("process %q: required configuration key %q is not set by any layer", e.Process, e.Key)
}

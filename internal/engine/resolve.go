package engine

import (
	"fmt"
	"math/big"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/layerconf/internal/config"
	"github.com/vk/layerconf/internal/dynamic"
	"github.com/vk/layerconf/internal/selector"
	"github.com/vk/layerconf/internal/units"
)

// Resolved is the final configuration view for one process at one attempt:
// a flat mapping from dotted key to scalar, with no remaining dynamic
// value and no unresolved selector. It is recomputed per attempt and never
// cached across attempts, because dynamic values may differ per attempt.
type Resolved struct {
	process string
	attempt int
	keys    []string
	values  map[string]cty.Value
}

// Resolve produces the configuration for one process at one attempt:
// matching selectors are overlaid onto the merged base in declaration
// order, then every dynamic value is evaluated against rc. The call is
// pure and repeatable; identical arguments yield identical output.
func (e *Engine) Resolve(processName string, rc config.RuntimeContext) (*Resolved, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	matched := selector.Match(processName, e.selectors)
	tree := selector.Overlay(e.base, matched)

	r := &Resolved{
		process: processName,
		attempt: rc.Attempt,
		values:  make(map[string]cty.Value),
	}
	if err := r.flatten(tree, "", rc); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolved) flatten(n *config.Node, prefix string, rc config.RuntimeContext) error {
	switch n.Kind() {
	case config.KindMapping:
		for _, key := range n.Keys() {
			child, _ := n.Get(key)
			childKey := key
			if prefix != "" {
				childKey = prefix + "." + key
			}
			if err := r.flatten(child, childKey, rc); err != nil {
				return err
			}
		}
		return nil

	case config.KindScalar:
		r.keys = append(r.keys, prefix)
		r.values[prefix] = n.Scalar()
		return nil

	case config.KindDynamic:
		// Load-time validation makes evaluation failure unreachable in
		// practice, but a broken expression must never resolve silently.
		val, err := dynamic.Evaluate(n.Dynamic(), rc)
		if err != nil {
			return fmt.Errorf("resolving key %q: %w", prefix, err)
		}
		r.keys = append(r.keys, prefix)
		r.values[prefix] = val
		return nil
	}
	return fmt.Errorf("resolving key %q: unknown node kind", prefix)
}

// Process returns the process name this view was resolved for.
func (r *Resolved) Process() string { return r.process }

// Attempt returns the attempt number this view was resolved at.
func (r *Resolved) Attempt() int { return r.attempt }

// Len returns the number of resolved keys.
func (r *Resolved) Len() int { return len(r.keys) }

// Keys returns the dotted key names in deterministic layer-merge order.
func (r *Resolved) Keys() []string {
	return append([]string{}, r.keys...)
}

// Lookup returns the value for key, reporting whether any layer set it.
func (r *Resolved) Lookup(key string) (cty.Value, bool) {
	val, ok := r.values[key]
	return val, ok
}

// Require returns the value for key, failing with MissingKeyError if no
// layer set it. Consumers call this for keys they declare required.
func (r *Resolved) Require(key string) (cty.Value, error) {
	val, ok := r.values[key]
	if !ok {
		return cty.NilVal, &config.MissingKeyError{Key: key, Process: r.process}
	}
	return val, nil
}

// String returns the value for key converted to a string.
func (r *Resolved) String(key string) (string, error) {
	val, err := r.Require(key)
	if err != nil {
		return "", err
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("key %q: %w", key, err)
	}
	return converted.AsString(), nil
}

// Int returns the value for key as an integer.
func (r *Resolved) Int(key string) (int64, error) {
	val, err := r.Require(key)
	if err != nil {
		return 0, err
	}
	converted, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("key %q: %w", key, err)
	}
	n, acc := converted.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("key %q: value is not an integer", key)
	}
	return n, nil
}

// Bool returns the value for key as a boolean.
func (r *Resolved) Bool(key string) (bool, error) {
	val, err := r.Require(key)
	if err != nil {
		return false, err
	}
	converted, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("key %q: %w", key, err)
	}
	return converted.True(), nil
}

// Memory returns the value for key as a byte count. String values are
// parsed as memory-size literals ("4GB"); numeric values are taken as
// plain bytes. Unit parsing happens here, never during merging.
func (r *Resolved) Memory(key string) (uint64, error) {
	val, err := r.Require(key)
	if err != nil {
		return 0, err
	}
	if val.Type() == cty.Number {
		n, err := r.Int(key)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, fmt.Errorf("key %q: negative memory size", key)
		}
		return uint64(n), nil
	}
	s, err := r.String(key)
	if err != nil {
		return 0, err
	}
	bytes, err := units.ParseMemory(s)
	if err != nil {
		return 0, fmt.Errorf("key %q: %w", key, err)
	}
	return bytes, nil
}

// Duration returns the value for key parsed as a duration literal.
func (r *Resolved) Duration(key string) (time.Duration, error) {
	s, err := r.String(key)
	if err != nil {
		return 0, err
	}
	d, err := units.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("key %q: %w", key, err)
	}
	return d, nil
}

// Package dynamic compiles and evaluates attempt-dependent parameter
// expressions. An expression is restricted to the runtime inputs the
// engine defines, currently the single variable `task.attempt`; anything
// else is rejected at load time so misconfiguration is caught before any
// task runs.
package dynamic

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/layerconf/internal/config"
)

// Parse compiles a closure body into a validated config.Dynamic. The
// source is compiled with the HCL expression syntax after quote
// normalization, audited so that every variable reference is
// `task.attempt`, and trial-evaluated at attempt 1. Any failure is an
// InvalidDynamicValueError carrying the closure's position.
func Parse(source string, rng hcl.Range) (*config.Dynamic, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(normalizeQuotes(source)), rng.Filename, rng.Start)
	if diags.HasErrors() {
		return nil, &config.InvalidDynamicValueError{
			Source: source,
			Range:  rng,
			Reason: diags.Error(),
		}
	}

	for _, traversal := range expr.Variables() {
		if err := auditTraversal(traversal); err != nil {
			return nil, &config.InvalidDynamicValueError{Source: source, Range: rng, Reason: err.Error()}
		}
	}

	d := &config.Dynamic{Source: source, Expr: expr, Range: rng}

	// Trial evaluation catches type errors (e.g. comparing a string to the
	// attempt number) at load time rather than at first task dispatch.
	if _, err := Evaluate(d, config.RuntimeContext{Attempt: 1}); err != nil {
		return nil, &config.InvalidDynamicValueError{Source: source, Range: rng, Reason: err.Error()}
	}
	return d, nil
}

// Evaluate applies a dynamic value to one runtime context, producing a
// scalar. It builds a fresh evaluation context per call and reads no
// shared state, so concurrent task attempts may evaluate independently.
func Evaluate(d *config.Dynamic, rc config.RuntimeContext) (cty.Value, error) {
	if err := rc.Validate(); err != nil {
		return cty.NilVal, err
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"task": cty.ObjectVal(map[string]cty.Value{
				"attempt": cty.NumberIntVal(int64(rc.Attempt)),
			}),
		},
	}
	val, diags := d.Expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("evaluating { %s }: %s", d.Source, diags.Error())
	}
	if val.IsNull() || !val.IsKnown() {
		return cty.NilVal, fmt.Errorf("evaluating { %s }: expression produced no value", d.Source)
	}
	switch val.Type() {
	case cty.String, cty.Number, cty.Bool:
		return val, nil
	}
	return cty.NilVal, fmt.Errorf("evaluating { %s }: result must be a scalar, got %s", d.Source, val.Type().FriendlyName())
}

// auditTraversal accepts exactly `task.attempt`.
func auditTraversal(traversal hcl.Traversal) error {
	if traversal.RootName() != "task" {
		return fmt.Errorf("references %q; only task.attempt is available", traversal.RootName())
	}
	if len(traversal) < 2 {
		return fmt.Errorf("references bare %q; only task.attempt is available", traversal.RootName())
	}
	attr, ok := traversal[1].(hcl.TraverseAttr)
	if !ok || attr.Name != "attempt" {
		return fmt.Errorf("references an unknown task attribute; only task.attempt is available")
	}
	return nil
}

// normalizeQuotes rewrites single-quoted string literals into the
// double-quoted form the HCL expression syntax requires. Quote characters
// inside a string of the other kind are left alone.
func normalizeQuotes(source string) string {
	var b strings.Builder
	for i := 0; i < len(source); i++ {
		ch := source[i]
		switch ch {
		case '\'':
			b.WriteByte('"')
			for i++; i < len(source); i++ {
				c := source[i]
				if c == '\\' && i+1 < len(source) {
					b.WriteByte(c)
					i++
					b.WriteByte(source[i])
					continue
				}
				if c == '\'' {
					break
				}
				if c == '"' {
					b.WriteString(`\"`)
					continue
				}
				b.WriteByte(c)
			}
			b.WriteByte('"')
		case '"':
			b.WriteByte(ch)
			for i++; i < len(source); i++ {
				c := source[i]
				b.WriteByte(c)
				if c == '\\' && i+1 < len(source) {
					i++
					b.WriteByte(source[i])
					continue
				}
				if c == '"' {
					break
				}
			}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

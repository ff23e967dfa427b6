package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/layerconf/internal/config"
)

// Run resolves the configured process at the configured attempt and writes
// the flat result to the output writer.
func (a *App) Run(ctx context.Context) error {
	resolved, err := a.engine.Resolve(a.config.Process, config.RuntimeContext{Attempt: a.config.Attempt})
	if err != nil {
		return fmt.Errorf("failed to resolve configuration: %w", err)
	}
	a.logger.Info("Configuration resolved.",
		"process", a.config.Process, "attempt", a.config.Attempt, "keys", resolved.Len())

	if a.config.OutputFormat == "json" {
		out := make(map[string]any, resolved.Len())
		for _, key := range resolved.Keys() {
			val, _ := resolved.Lookup(key)
			out[key] = goValue(val)
		}
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.outW, string(encoded))
		return nil
	}

	for _, key := range resolved.Keys() {
		val, _ := resolved.Lookup(key)
		fmt.Fprintf(a.outW, "%s = %s\n", key, formatValue(val))
	}
	return nil
}

// goValue converts a resolved scalar into its plain Go equivalent for
// JSON encoding.
func goValue(val cty.Value) any {
	switch val.Type() {
	case cty.String:
		return val.AsString()
	case cty.Bool:
		return val.True()
	case cty.Number:
		if n, acc := val.AsBigFloat().Int64(); acc == big.Exact {
			return n
		}
		f, _ := val.AsBigFloat().Float64()
		return f
	}
	return val.GoString()
}

func formatValue(val cty.Value) string {
	switch val.Type() {
	case cty.String:
		return val.AsString()
	case cty.Bool:
		if val.True() {
			return "true"
		}
		return "false"
	case cty.Number:
		return val.AsBigFloat().Text('f', -1)
	}
	return val.GoString()
}

package fragment

import (
	"fmt"

	"github.com/vk/layerconf/internal/config"
)

// builtinDefaults is the engine's lowest-precedence layer: the baseline
// every pipeline starts from before any fragment, profile, or selector
// is applied.
const builtinDefaults = `
process {
    cpus = 1
    memory = '1GB'
    maxRetries = 7
    errorStrategy = { task.attempt <= 7 ? 'retry' : 'ignore' }
}
`

// DefaultsLayer parses the built-in defaults fragment. The source is
// compile-time constant, so a failure here is a programmer error.
func DefaultsLayer() config.Layer {
	stmts, err := parseFragment("<defaults>", builtinDefaults)
	if err != nil {
		panic(fmt.Sprintf("fragment: built-in defaults must parse: %v", err))
	}
	root, selectors, _, err := buildTree("<defaults>", stmts)
	if err != nil {
		panic(fmt.Sprintf("fragment: built-in defaults must build: %v", err))
	}
	return config.Layer{
		Provenance: config.ProvenanceDefaults,
		Root:       root,
		Selectors:  selectors,
	}
}

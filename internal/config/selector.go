package config

import "github.com/hashicorp/hcl/v2"

// Selector is a process-name-scoped override: a set of key assignments
// that apply only when resolving the named process. The observed grammar
// supports exact-name patterns only, no wildcards.
type Selector struct {
	// Process is the exact process name the `$name` pattern designates.
	Process string
	// Scope is the block path enclosing the selector assignment. The
	// overrides are overlaid at this path in the merged tree, so a
	// selector written inside `process { ... }` tunes keys under
	// `process` for the one named process.
	Scope []string
	// Overrides is the mapping of keys this selector sets.
	Overrides *Node
	// DeclRange records where the selector was declared, for diagnostics.
	DeclRange hcl.Range
}
